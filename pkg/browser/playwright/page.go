package playwright

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	pw "github.com/playwright-community/playwright-go"
)

type Page struct {
	page           pw.Page
	defaultTimeout time.Duration
}

func (p *Page) Goto(ctx context.Context, url string, state browser.LoadState) error {
	timeout, err := bounded(ctx, p.defaultTimeout)
	if err != nil {
		return err
	}
	_, err = p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: waitUntil(state),
		Timeout:   timeout,
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, translate(err))
	}
	return nil
}

func (p *Page) WaitForLoadState(ctx context.Context, state browser.LoadState, timeout time.Duration) error {
	ms, err := bounded(ctx, timeout)
	if err != nil {
		return err
	}
	return translate(p.page.WaitForLoadState(pw.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: ms,
	}))
}

func (p *Page) WaitVisible(ctx context.Context, sel browser.Selector, timeout time.Duration) (browser.Element, error) {
	ms, err := bounded(ctx, timeout)
	if err != nil {
		return nil, err
	}
	loc := p.page.Locator(visible(sel)).First()
	if err := loc.WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: ms,
	}); err != nil {
		return nil, translate(err)
	}
	return &Element{loc: loc, defaultTimeout: p.defaultTimeout}, nil
}

func (p *Page) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wrapAll(p.page.Locator(sel.String()), p.defaultTimeout)
}

func (p *Page) ExpectDownload(ctx context.Context, timeout time.Duration, trigger func() error) (browser.Download, error) {
	ms, err := bounded(ctx, timeout)
	if err != nil {
		return nil, err
	}
	d, err := p.page.ExpectDownload(trigger, pw.PageExpectDownloadOptions{Timeout: ms})
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	ms, err := bounded(ctx, p.defaultTimeout)
	if err != nil {
		return err
	}
	_, err = p.page.Screenshot(pw.PageScreenshotOptions{
		Path:     pw.String(path),
		FullPage: pw.Bool(true),
		Timeout:  ms,
	})
	return translate(err)
}

// visible narrows a selector to matches that are currently rendered.
func visible(sel browser.Selector) string {
	return sel.String() + " >> visible=true"
}

func waitUntil(state browser.LoadState) *pw.WaitUntilState {
	switch state {
	case browser.LoadStateDOMContentLoaded:
		return pw.WaitUntilStateDomcontentloaded
	case browser.LoadStateNetworkIdle:
		return pw.WaitUntilStateNetworkidle
	default:
		return pw.WaitUntilStateLoad
	}
}

func loadState(state browser.LoadState) *pw.LoadState {
	switch state {
	case browser.LoadStateDOMContentLoaded:
		return pw.LoadStateDomcontentloaded
	case browser.LoadStateNetworkIdle:
		return pw.LoadStateNetworkidle
	default:
		return pw.LoadStateLoad
	}
}
