package playwright

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	pw "github.com/playwright-community/playwright-go"
)

const optionValuesJS = `(el) => Array.from(el.options || []).map((o) => o.value)`

type Element struct {
	loc            pw.Locator
	defaultTimeout time.Duration
}

func (e *Element) Click(ctx context.Context) error {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return err
	}
	return translate(e.loc.Click(pw.LocatorClickOptions{Timeout: ms}))
}

func (e *Element) Fill(ctx context.Context, value string) error {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return err
	}
	return translate(e.loc.Fill(value, pw.LocatorFillOptions{Timeout: ms}))
}

func (e *Element) Value(ctx context.Context) (string, error) {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return "", err
	}
	v, err := e.loc.InputValue(pw.LocatorInputValueOptions{Timeout: ms})
	return v, translate(err)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return "", err
	}
	v, err := e.loc.GetAttribute(name, pw.LocatorGetAttributeOptions{Timeout: ms})
	return v, translate(err)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return "", err
	}
	v, err := e.loc.TextContent(pw.LocatorTextContentOptions{Timeout: ms})
	return v, translate(err)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}

// SelectOption checks the requested value against the control's options
// first, since playwright would otherwise wait for it to appear.
func (e *Element) SelectOption(ctx context.Context, value string) error {
	ms, err := bounded(ctx, e.defaultTimeout)
	if err != nil {
		return err
	}
	raw, err := e.loc.Evaluate(optionValuesJS, nil)
	if err != nil {
		return fmt.Errorf("listing options: %w", translate(err))
	}
	available := toStrings(raw)
	if !contains(available, value) {
		return fmt.Errorf("%w: %q not in %v", browser.ErrOptionNotAvailable, value, available)
	}
	_, err = e.loc.SelectOption(pw.SelectOptionValues{Values: &[]string{value}}, pw.LocatorSelectOptionOptions{Timeout: ms})
	return translate(err)
}

func (e *Element) QueryAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wrapAll(e.loc.Locator(sel.String()), e.defaultTimeout)
}

func wrapAll(loc pw.Locator, timeout time.Duration) ([]browser.Element, error) {
	all, err := loc.All()
	if err != nil {
		return nil, translate(err)
	}
	out := make([]browser.Element, 0, len(all))
	for _, l := range all {
		out = append(out, &Element{loc: l, defaultTimeout: timeout})
	}
	return out, nil
}

func toStrings(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
