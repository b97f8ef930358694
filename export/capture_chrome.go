package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// CaptureFunc is the display-capture capability: render the given HTML page
// at the given viewport and return a PNG frame. Injected so tests and
// headless environments can substitute their own.
type CaptureFunc func(html string, width, height int) ([]byte, error)

// ChromeCapture rasterizes an HTML page with headless Chrome. Requires a
// Chrome installation on the host.
func ChromeCapture(html string, width, height int) ([]byte, error) {
	tmpFile, err := os.CreateTemp("", "slide_capture_*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp HTML file: %w", err)
	}
	htmlPath := tmpFile.Name()
	defer os.Remove(htmlPath)
	if _, err := tmpFile.WriteString(html); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp HTML file: %w", err)
	}
	tmpFile.Close()

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var buf []byte
	err = chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %v (hint: Chrome must be installed)", err)
	}
	return buf, nil
}
