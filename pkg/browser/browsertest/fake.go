// Package browsertest provides a scripted, in-memory browser driver for tests.
//
// Elements are located by exact Selector equality: an Element answers every
// selector listed in its Selectors field. Every driver call that matters for
// ordering is appended to Page.Events, so tests can assert sequences such as
// "arm" before "click:export".
package browsertest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
)

// Driver hands out a single prepared Browser.
type Driver struct {
	Browser   *Browser
	LaunchErr error
	Launched  []browser.LaunchOptions
}

func NewDriver(page *Page) *Driver {
	return &Driver{Browser: &Browser{Page: page}}
}

func (d *Driver) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	d.Launched = append(d.Launched, opts)
	if d.LaunchErr != nil {
		return nil, d.LaunchErr
	}
	return d.Browser, nil
}

type Browser struct {
	Page       *Page
	PageErr    error
	PageOpts   []browser.PageOptions
	CloseCalls int
}

func (b *Browser) NewPage(ctx context.Context, opts browser.PageOptions) (browser.Page, error) {
	b.PageOpts = append(b.PageOpts, opts)
	if b.PageErr != nil {
		return nil, b.PageErr
	}
	return b.Page, nil
}

func (b *Browser) Close() error {
	b.CloseCalls++
	if b.Page != nil {
		b.Page.record("close")
	}
	return nil
}

// Page is a flat, ordered list of elements plus scripted navigation and
// download behaviour.
type Page struct {
	Elements []*Element

	GotoErr       error
	LoadStateErr  error
	ScreenshotErr error

	// DownloadOn names the element whose click produces a download while a
	// listener is armed. Empty means no download ever arrives.
	DownloadOn      string
	DownloadName    string
	DownloadContent []byte
	// DiscardSave makes Download.SaveAs succeed without writing the file.
	DiscardSave bool

	mu          sync.Mutex
	Events      []string
	Visited     []string
	Screenshots []string
	armed       bool
	downloaded  bool
}

// NewPage builds a page and binds the elements (and their children) to it.
func NewPage(elements ...*Element) *Page {
	p := &Page{}
	for _, el := range elements {
		p.Add(el)
	}
	return p
}

// Add appends an element to the document.
func (p *Page) Add(el *Element) *Element {
	el.bind(p)
	p.Elements = append(p.Elements, el)
	return el
}

// Find returns the element with the given name, searching children too.
func (p *Page) Find(name string) *Element {
	for _, el := range p.Elements {
		if found := el.find(name); found != nil {
			return found
		}
	}
	return nil
}

// EventLog returns a copy of the recorded events.
func (p *Page) EventLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	copy(out, p.Events)
	return out
}

// Clicks counts recorded click events for the named element.
func (p *Page) Clicks(name string) int {
	n := 0
	for _, ev := range p.EventLog() {
		if ev == "click:"+name {
			n++
		}
	}
	return n
}

func (p *Page) record(ev string) {
	p.mu.Lock()
	p.Events = append(p.Events, ev)
	p.mu.Unlock()
}

func (p *Page) Goto(ctx context.Context, url string, state browser.LoadState) error {
	p.record("goto:" + url)
	p.Visited = append(p.Visited, url)
	return p.GotoErr
}

func (p *Page) WaitForLoadState(ctx context.Context, state browser.LoadState, timeout time.Duration) error {
	p.record("load:" + string(state))
	return p.LoadStateErr
}

func (p *Page) WaitVisible(ctx context.Context, sel browser.Selector, timeout time.Duration) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, el := range matching(p.Elements, sel) {
		if el.Shown {
			return el, nil
		}
	}
	return nil, browser.ErrTimeout
}

func (p *Page) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	return asElements(matching(p.Elements, sel)), nil
}

func (p *Page) ExpectDownload(ctx context.Context, timeout time.Duration, trigger func() error) (browser.Download, error) {
	p.mu.Lock()
	p.armed = true
	p.downloaded = false
	p.mu.Unlock()
	p.record("arm")
	defer func() {
		p.mu.Lock()
		p.armed = false
		p.mu.Unlock()
	}()

	if err := trigger(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	got := p.downloaded
	p.mu.Unlock()
	if !got {
		p.record("download-timeout")
		return nil, browser.ErrTimeout
	}
	p.record("download")
	return &Download{page: p}, nil
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	p.record("screenshot:" + path)
	if p.ScreenshotErr != nil {
		return p.ScreenshotErr
	}
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *Page) clicked(el *Element) {
	p.record("click:" + el.Name)
	p.mu.Lock()
	if p.armed && p.DownloadOn != "" && p.DownloadOn == el.Name {
		p.downloaded = true
	}
	p.mu.Unlock()
}

// Element is a scripted DOM node.
type Element struct {
	Name      string
	Selectors []browser.Selector
	Shown     bool
	Content   string
	Val       string
	Attrs     map[string]string
	Options   []string
	Children  []*Element

	ClickErr error
	// FillKeepsOld simulates a control that appends instead of replacing.
	FillKeepsOld bool
	// OnClick runs after the click is recorded, to mutate the page.
	OnClick func(p *Page, el *Element)

	page *Page
}

func (e *Element) bind(p *Page) {
	e.page = p
	for _, c := range e.Children {
		c.bind(p)
	}
}

func (e *Element) find(name string) *Element {
	if e.Name == name {
		return e
	}
	for _, c := range e.Children {
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

func (e *Element) matches(sel browser.Selector) bool {
	for _, s := range e.Selectors {
		if s == sel {
			return true
		}
	}
	return false
}

// Class returns the element's class attribute.
func (e *Element) Class() string {
	return e.Attrs["class"]
}

// SetClass replaces the element's class attribute.
func (e *Element) SetClass(class string) {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs["class"] = class
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.page.clicked(e)
	if e.OnClick != nil {
		e.OnClick(e.page, e)
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, value string) error {
	e.page.record("fill:" + e.Name + "=" + value)
	if e.FillKeepsOld {
		e.Val += value
		return nil
	}
	e.Val = value
	return nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	return e.Val, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.Content, nil
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.Shown, nil
}

func (e *Element) SelectOption(ctx context.Context, value string) error {
	for _, opt := range e.Options {
		if opt == value {
			e.Val = value
			e.page.record("select:" + e.Name + "=" + value)
			return nil
		}
	}
	return fmt.Errorf("%w: %q not in %v", browser.ErrOptionNotAvailable, value, e.Options)
}

func (e *Element) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	var out []*Element
	for _, c := range e.Children {
		out = append(out, matching([]*Element{c}, sel)...)
	}
	return asElements(out), nil
}

// Download is the file captured by ExpectDownload.
type Download struct {
	page *Page
}

func (d *Download) SuggestedFilename() string {
	if d.page.DownloadName != "" {
		return d.page.DownloadName
	}
	return "tabela.csv"
}

func (d *Download) SaveAs(path string) error {
	d.page.record("save:" + path)
	if d.page.DiscardSave {
		return nil
	}
	return os.WriteFile(path, d.page.DownloadContent, 0644)
}

func matching(elements []*Element, sel browser.Selector) []*Element {
	var out []*Element
	for _, el := range elements {
		if el.matches(sel) {
			out = append(out, el)
		}
		out = append(out, matching(el.Children, sel)...)
	}
	return out
}

func asElements(in []*Element) []browser.Element {
	out := make([]browser.Element, 0, len(in))
	for _, el := range in {
		out = append(out, el)
	}
	return out
}

// Button is a shorthand for a visible element found by the given selectors.
func Button(name, text string, selectors ...browser.Selector) *Element {
	return &Element{Name: name, Content: text, Shown: true, Selectors: selectors}
}

// Hidden marks an element as attached but not visible.
func Hidden(el *Element) *Element {
	el.Shown = false
	return el
}

// HasPrefix reports whether any recorded event starts with prefix.
func (p *Page) HasPrefix(prefix string) bool {
	for _, ev := range p.EventLog() {
		if strings.HasPrefix(ev, prefix) {
			return true
		}
	}
	return false
}
