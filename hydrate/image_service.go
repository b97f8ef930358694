package hydrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slidesmith/config"
)

// ImageService generates illustrative images through an OpenAI-compatible
// images endpoint. The primary tier is tried first; on error the fallback
// tier is tried; only when both fail does the caller see an error.
type ImageService struct {
	APIKey   string
	BaseURL  string
	Primary  config.ImageTier
	Fallback config.ImageTier
	Client   *http.Client
	logger   func(string)
}

// NewImageService creates an image generation client from config.
func NewImageService(cfg config.Config, logger func(string)) *ImageService {
	return &ImageService{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Primary:  cfg.ImagePrimary,
		Fallback: cfg.ImageFallback,
		Client:   &http.Client{Timeout: 120 * time.Second},
		logger:   logger,
	}
}

func (s *ImageService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// styleDirectives maps an illustration style to prompt phrasing.
var styleDirectives = map[string]string{
	"flat":         "flat vector illustration, simple shapes, bold solid colors",
	"line-art":     "minimal single-weight line art, monochrome, no fill",
	"watercolor":   "soft watercolor painting, light washes, paper texture",
	"isometric":    "isometric 3/4 view illustration, clean geometry",
	"3d-render":    "soft 3D render, studio lighting, subtle shadows",
	"photographic": "photorealistic, natural lighting, shallow depth of field",
}

// Generate produces an image for the prompt in the given illustration style
// and returns it as a data URI.
func (s *ImageService) Generate(ctx context.Context, prompt, style string) (string, error) {
	full := prompt
	if directive, ok := styleDirectives[style]; ok {
		full = fmt.Sprintf("%s. Style: %s. No embedded text.", prompt, directive)
	}

	uri, primaryErr := s.generateWithTier(ctx, full, s.Primary)
	if primaryErr == nil {
		return uri, nil
	}
	s.log(fmt.Sprintf("[IMAGE] primary tier %s failed: %v, trying fallback", s.Primary.Model, primaryErr))

	uri, fallbackErr := s.generateWithTier(ctx, full, s.Fallback)
	if fallbackErr == nil {
		return uri, nil
	}
	return "", fmt.Errorf("image generation failed on both tiers: primary: %v; fallback: %w", primaryErr, fallbackErr)
}

func (s *ImageService) generateWithTier(ctx context.Context, prompt string, tier config.ImageTier) (string, error) {
	if tier.Model == "" {
		return "", fmt.Errorf("tier has no model configured")
	}

	endpoint := "https://api.openai.com/v1/images/generations"
	if s.BaseURL != "" {
		base := strings.TrimRight(s.BaseURL, "/")
		if !strings.Contains(base, "/images/generations") {
			if !strings.HasSuffix(base, "/v1") {
				base += "/v1"
			}
			base += "/images/generations"
		}
		endpoint = base
	}

	payload := map[string]interface{}{
		"model":  tier.Model,
		"prompt": prompt,
		"n":      1,
	}
	if tier.Size != "" {
		payload["size"] = tier.Size
	}
	// gpt-image models always return base64; dall-e needs to be asked.
	if strings.HasPrefix(tier.Model, "dall-e") {
		payload["response_format"] = "b64_json"
	}

	jsonBody, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("malformed image response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return "", fmt.Errorf("image response contained no image data")
	}
	return "data:image/png;base64," + result.Data[0].B64JSON, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
