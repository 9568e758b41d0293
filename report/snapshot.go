package report

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"sperrmuell/utils"
)

const (
	snapshotWidth   = 1600
	snapshotHeight  = 1200
	tileSettleDelay = 3 * time.Second
	snapshotTimeout = 60 * time.Second
)

// Snapshotter renders a map page in headless Chrome and saves a PNG.
type Snapshotter struct {
	chromeBin string
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// NewSnapshotter looks up a browser binary, preferring chromeBin when set.
func NewSnapshotter(chromeBin string, logger *utils.Logger) *Snapshotter {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &Snapshotter{
		chromeBin: chromeBin,
		retry: &utils.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxElapsed:  2 * snapshotTimeout,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Capture screenshots the HTML file at htmlPath into pngPath.
func (s *Snapshotter) Capture(ctx context.Context, htmlPath, pngPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: resolve %s: %w", htmlPath, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(snapshotWidth, snapshotHeight),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var png []byte
	err = s.retry.Do(ctx, "map-snapshot", func(ctx context.Context) error {
		// Suppress chromedp log noise
		browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		browserCtx, cancelTimeout := context.WithTimeout(browserCtx, snapshotTimeout)
		defer cancelTimeout()

		return chromedp.Run(browserCtx,
			chromedp.Navigate("file://"+filepath.ToSlash(abs)),
			chromedp.WaitVisible("#map", chromedp.ByID),
			chromedp.Sleep(tileSettleDelay),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", pngPath, err)
	}
	s.logger.Debug("[snapshot] Saved %s (%d bytes)", pngPath, len(png))
	return nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{"/usr/bin/chromium", "/snap/bin/chromium", "/opt/google/chrome/google-chrome"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
