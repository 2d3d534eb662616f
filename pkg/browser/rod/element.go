package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	optionValuesJS = `function () { return Array.from(this.options || []).map((o) => o.value) }`
	clearValueJS   = `function () {
	this.value = '';
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`
)

type Element struct {
	el             *rod.Element
	defaultTimeout time.Duration
}

// bind returns the element tied to ctx with the default action timeout.
func (e *Element) bind(ctx context.Context) (*rod.Element, context.CancelFunc) {
	tctx, cancel := withTimeout(ctx, e.defaultTimeout)
	return e.el.Context(tctx), cancel
}

func (e *Element) Click(ctx context.Context) error {
	el, cancel := e.bind(ctx)
	defer cancel()
	return translate(ctx, el.Click(proto.InputMouseButtonLeft, 1))
}

func (e *Element) Fill(ctx context.Context, value string) error {
	el, cancel := e.bind(ctx)
	defer cancel()

	if value == "" {
		_, err := el.Eval(clearValueJS)
		return translate(ctx, err)
	}
	if err := el.SelectAllText(); err != nil {
		return translate(ctx, err)
	}
	return translate(ctx, el.Input(value))
}

func (e *Element) Value(ctx context.Context) (string, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	v, err := el.Property("value")
	if err != nil {
		return "", translate(ctx, err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return "", translate(ctx, err)
	}
	return *v, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	v, err := el.Text()
	return v, translate(ctx, err)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	v, err := el.Visible()
	return v, translate(ctx, err)
}

func (e *Element) SelectOption(ctx context.Context, value string) error {
	el, cancel := e.bind(ctx)
	defer cancel()

	res, err := el.Eval(optionValuesJS)
	if err != nil {
		return translate(ctx, err)
	}
	var values []string
	for _, v := range res.Value.Arr() {
		values = append(values, v.Str())
	}
	if !contains(values, value) {
		return fmt.Errorf("%w: %q not in %v", browser.ErrOptionNotAvailable, value, values)
	}

	err = el.Select([]string{fmt.Sprintf(`[value=%q]`, value)}, true, rod.SelectorTypeCSSSector)
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %q", browser.ErrOptionNotAvailable, value)
	}
	return translate(ctx, err)
}

func (e *Element) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	els, err := queryElement(ctx, e.el, sel)
	if err != nil {
		return nil, translate(ctx, err)
	}
	return wrapAll(els, e.defaultTimeout), nil
}

func wrapAll(els rod.Elements, timeout time.Duration) []browser.Element {
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, defaultTimeout: timeout})
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
