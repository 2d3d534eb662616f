package rod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// requestIdle is how long the network must stay quiet to count as idle.
const requestIdle = 500 * time.Millisecond

type Page struct {
	browser        *rod.Browser
	page           *rod.Page
	defaultTimeout time.Duration
}

func (p *Page) Goto(ctx context.Context, url string, state browser.LoadState) error {
	tctx, cancel := withTimeout(ctx, p.defaultTimeout)
	defer cancel()

	page := p.page.Context(tctx)
	var idle func()
	if state == browser.LoadStateNetworkIdle {
		idle = page.WaitRequestIdle(requestIdle, nil, nil, nil)
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, translate(ctx, err))
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("goto %s: %w", url, translate(ctx, err))
	}
	if idle != nil {
		idle()
	}
	return translate(ctx, tctx.Err())
}

func (p *Page) WaitForLoadState(ctx context.Context, state browser.LoadState, timeout time.Duration) error {
	tctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	page := p.page.Context(tctx)
	switch state {
	case browser.LoadStateNetworkIdle:
		page.WaitRequestIdle(requestIdle, nil, nil, nil)()
	default:
		if err := page.WaitLoad(); err != nil {
			return translate(ctx, err)
		}
	}
	return translate(ctx, tctx.Err())
}

// WaitVisible polls until a match is attached and visible.
func (p *Page) WaitVisible(ctx context.Context, sel browser.Selector, timeout time.Duration) (browser.Element, error) {
	tctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		els, err := queryPage(tctx, p.page, sel)
		if err == nil {
			for _, el := range els {
				if ok, _ := el.Context(tctx).Visible(); ok {
					return &Element{el: el, defaultTimeout: p.defaultTimeout}, nil
				}
			}
		}
		select {
		case <-tctx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s", browser.ErrTimeout, sel)
		case <-ticker.C:
		}
	}
}

func (p *Page) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	els, err := queryPage(ctx, p.page, sel)
	if err != nil {
		return nil, translate(ctx, err)
	}
	return wrapAll(els, p.defaultTimeout), nil
}

// ExpectDownload lets chrome write the file into a private directory under
// its GUID; SaveAs moves it into place.
func (p *Page) ExpectDownload(ctx context.Context, timeout time.Duration, trigger func() error) (browser.Download, error) {
	dir, err := os.MkdirTemp("", "sidrastep-download-")
	if err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}

	tctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	wait := p.browser.Context(tctx).WaitDownload(dir)

	if err := trigger(); err != nil {
		cancel()
		os.RemoveAll(dir)
		return nil, err
	}

	done := make(chan *proto.PageDownloadWillBegin, 1)
	go func() { done <- wait() }()

	select {
	case info := <-done:
		if info != nil && tctx.Err() == nil {
			return &Download{dir: dir, info: info}, nil
		}
	case <-tctx.Done():
	}
	os.RemoveAll(dir)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, browser.ErrTimeout
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	tctx, cancel := withTimeout(ctx, p.defaultTimeout)
	defer cancel()

	data, err := p.page.Context(tctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return translate(ctx, err)
	}
	return os.WriteFile(path, data, 0644)
}

type Download struct {
	dir  string
	info *proto.PageDownloadWillBegin
}

func (d *Download) SuggestedFilename() string {
	return d.info.SuggestedFilename
}

// SaveAs moves the captured file to path and drops the temporary directory.
func (d *Download) SaveAs(path string) error {
	defer os.RemoveAll(d.dir)

	src := filepath.Join(d.dir, d.info.GUID)
	if err := os.Rename(src, path); err == nil {
		return nil
	}
	return copyFile(src, path)
}

// copyFile covers renames across filesystems.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening download: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		return errors.Join(fmt.Errorf("copying download: %w", err), out.Close())
	}
	return out.Close()
}
