// Package playwright implements the browser contract on top of playwright-go.
// Importing it registers the "playwright" driver.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	pw "github.com/playwright-community/playwright-go"
)

const Name = "playwright"

func init() {
	browser.RegisterDriver(Name, func() (browser.Driver, error) {
		return &Driver{}, nil
	})
}

type Driver struct{}

func (d *Driver) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runtime, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright (run `go run github.com/playwright-community/playwright-go/cmd/playwright install chromium` first): %w", err)
	}
	b, err := runtime.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
	})
	if err != nil {
		_ = runtime.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	return &Browser{runtime: runtime, browser: b}, nil
}

type Browser struct {
	runtime *pw.Playwright
	browser pw.Browser
}

func (b *Browser) NewPage(ctx context.Context, opts browser.PageOptions) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contextOpts := pw.BrowserNewContextOptions{
		AcceptDownloads: pw.Bool(true),
	}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		contextOpts.Viewport = &pw.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
	}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = pw.String(opts.UserAgent)
	}

	bctx, err := b.browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	if opts.DefaultTimeout > 0 {
		page.SetDefaultTimeout(millis(opts.DefaultTimeout))
		page.SetDefaultNavigationTimeout(millis(opts.DefaultTimeout))
	}
	return &Page{page: page, defaultTimeout: opts.DefaultTimeout}, nil
}

// Close shuts the browser and the playwright driver process down.
func (b *Browser) Close() error {
	var errs []error
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing browser: %w", err))
	}
	if err := b.runtime.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
	}
	return errors.Join(errs...)
}

// bounded returns the smaller of timeout and the time left before ctx's
// deadline, in the milliseconds playwright expects.
func bounded(ctx context.Context, timeout time.Duration) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return nil, context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, nil
	}
	return pw.Float(millis(timeout)), nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// translate maps playwright's timeout onto the driver-neutral sentinel.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pw.ErrTimeout) {
		return fmt.Errorf("%w: %v", browser.ErrTimeout, err)
	}
	return err
}
