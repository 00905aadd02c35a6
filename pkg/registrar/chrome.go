package registrar

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"rosterscraper/pkg/config"
	"rosterscraper/pkg/errors"
	"rosterscraper/pkg/logger"
)

// Browser is a single Chrome session driven through chromedp. One
// session serves the whole run: the operator logs in once and every
// course page is fetched with the resulting cookies.
type Browser struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	cfg         *config.Config
	logger      logger.Logger
}

// NewBrowser launches Chrome with the configured options. The window
// is visible by default so the operator can complete the interactive
// login.
func NewBrowser(cfg *config.Config) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("window-size", cfg.Browser.WindowSize),
		chromedp.UserAgent(cfg.Browser.UserAgent),
	)
	if cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Browser.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process now so a broken Chrome install fails
	// fast instead of on the first course page.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Browser{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		cfg:         cfg,
		logger:      logger.GetLogger(),
	}, nil
}

// OpenLogin navigates to the login page and returns once it has
// rendered. The operator completes authentication in the window.
func (b *Browser) OpenLogin(ctx context.Context) error {
	navCtx, cancel := context.WithTimeout(b.ctx, b.cfg.Browser.NavTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(b.cfg.Registrar.LoginURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	return nil
}

// Fetch navigates to the course page for the given identifier and
// returns the rendered HTML. Navigation and timeout failures surface
// as fetch errors; the caller treats them as "no result for this
// identifier".
func (b *Browser) Fetch(ctx context.Context, course int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	url := CourseURL(b.cfg.Registrar.BaseURL, b.cfg.Registrar.Term, course)

	navCtx, cancel := context.WithTimeout(b.ctx, b.cfg.Browser.NavTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", errors.NewFetch(course, err)
	}

	return html, nil
}

// Close shuts the browser session down.
func (b *Browser) Close() {
	b.cancelCtx()
	b.cancelAlloc()
}
