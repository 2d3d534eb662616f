// Package rod implements the browser contract over the Chrome DevTools
// Protocol with go-rod, using go-rod/stealth pages. Importing it registers the
// "rod" driver.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const Name = "rod"

const pollInterval = 100 * time.Millisecond

func init() {
	browser.RegisterDriver(Name, func() (browser.Driver, error) {
		return &Driver{}, nil
	})
}

type Driver struct{}

func (d *Driver) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Leakless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	return &Browser{browser: b, launcher: l}, nil
}

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (b *Browser) NewPage(ctx context.Context, opts browser.PageOptions) (browser.Page, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("creating stealth page: %w", err)
	}
	setup := page.Context(ctx)

	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		if err := setup.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.ViewportWidth,
			Height:            opts.ViewportHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			return nil, fmt.Errorf("setting viewport: %w", err)
		}
	}
	if opts.UserAgent != "" {
		if err := setup.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			return nil, fmt.Errorf("setting user agent: %w", err)
		}
	}
	return &Page{browser: b.browser, page: page, defaultTimeout: opts.DefaultTimeout}, nil
}

// Close disconnects from chrome and kills the launched process.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("closing chrome: %w", err)
	}
	return nil
}

// withTimeout derives a context bounded by timeout, or by nothing extra when
// timeout is not positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// translate reports an expired inner deadline as browser.ErrTimeout while
// leaving the caller's own cancellation untouched.
func translate(parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", browser.ErrTimeout, err)
	}
	return err
}
