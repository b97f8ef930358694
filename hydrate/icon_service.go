package hydrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// IconService resolves an icon keyword to inline SVG markup via an
// Iconify-compatible search API. A miss is not an error: it returns the
// empty string and the slide keeps its placeholder.
type IconService struct {
	BaseURL string
	Client  *http.Client
	logger  func(string)
}

// NewIconService creates an icon search client against the given API base.
func NewIconService(baseURL string, logger func(string)) *IconService {
	return &IconService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (s *IconService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// Search returns the best-match icon for a keyword as inline SVG markup, or
// "" when nothing matches.
func (s *IconService) Search(ctx context.Context, keyword string) (string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", nil
	}

	searchURL := fmt.Sprintf("%s/search?query=%s&limit=1", s.BaseURL, url.QueryEscape(keyword))
	body, err := s.get(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("icon search for %q failed: %w", keyword, err)
	}

	var result struct {
		Icons []string `json:"icons"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("icon search returned malformed response: %w", err)
	}
	if len(result.Icons) == 0 {
		s.log(fmt.Sprintf("[ICON] no match for %q", keyword))
		return "", nil
	}

	// Icon names come back as "prefix:name"; the SVG lives at /prefix/name.svg.
	parts := strings.SplitN(result.Icons[0], ":", 2)
	if len(parts) != 2 {
		return "", nil
	}
	svgURL := fmt.Sprintf("%s/%s/%s.svg", s.BaseURL, url.PathEscape(parts[0]), url.PathEscape(parts[1]))
	svgBody, err := s.get(ctx, svgURL)
	if err != nil {
		return "", fmt.Errorf("icon fetch for %q failed: %w", result.Icons[0], err)
	}

	return extractSVG(svgBody)
}

// extractSVG pulls the root <svg> element out of the fetched document,
// dropping any surrounding markup the provider wraps it in.
func extractSVG(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("icon response is not parseable markup: %w", err)
	}
	sel := doc.Find("svg").First()
	if sel.Length() == 0 {
		return "", nil
	}
	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markup), nil
}

func (s *IconService) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
