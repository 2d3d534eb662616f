package browser

import (
	"context"
	"time"
)

// LoadState names a page lifecycle signal a caller can wait on.
type LoadState string

const (
	LoadStateLoad             LoadState = "load"
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

type LaunchOptions struct {
	Headless bool
}

type PageOptions struct {
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
	DefaultTimeout time.Duration
}

// Driver launches browser instances.
type Driver interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is a launched browser process. Close releases it and everything it owns.
type Browser interface {
	NewPage(ctx context.Context, opts PageOptions) (Page, error)
	Close() error
}

// Page is an open document.
//
// WaitVisible only ever returns a match that is attached and visible; hidden
// matches are ignored. It returns ErrTimeout when nothing qualifies in time.
//
// ExpectDownload arms a download listener and only then calls trigger, so a
// download started by anything trigger does is captured. It returns
// ErrTimeout when no download completes within timeout, or trigger's error.
type Page interface {
	Goto(ctx context.Context, url string, state LoadState) error
	WaitForLoadState(ctx context.Context, state LoadState, timeout time.Duration) error
	WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) (Element, error)
	QueryAll(ctx context.Context, sel Selector) ([]Element, error)
	ExpectDownload(ctx context.Context, timeout time.Duration, trigger func() error) (Download, error)
	Screenshot(ctx context.Context, path string) error
}

// Element is a handle to a located element.
//
// Fill replaces the current value. SelectOption returns ErrOptionNotAvailable
// when no option carries the requested value.
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Value(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	SelectOption(ctx context.Context, value string) error
	QueryAll(ctx context.Context, sel Selector) ([]Element, error)
}

// Download is a captured file that has not been persisted yet.
type Download interface {
	SuggestedFilename() string
	SaveAs(path string) error
}
