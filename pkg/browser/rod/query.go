package rod

import (
	"context"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/go-rod/rod"
)

// queryJS returns the elements under this (or the document) that match css
// and, for text modes, whose normalised text equals or contains text. For
// text modes only the innermost matches are kept, so a wrapper around the
// target does not shadow it.
const queryJS = `function (css, text, mode) {
	const root = this && this.querySelectorAll ? this : document;
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const all = Array.from(root.querySelectorAll(css || '*'));
	if (!mode) {
		return all;
	}
	const want = norm(text);
	const hit = (el) => {
		const t = norm(el.innerText !== undefined ? el.innerText : el.textContent);
		return mode === 'exact' ? t === want : t.toLowerCase().includes(want.toLowerCase());
	};
	const matches = all.filter(hit);
	return matches.filter((el) => !matches.some((o) => o !== el && el.contains(o)));
}`

func queryArgs(sel browser.Selector) (string, string, string) {
	switch sel.Kind {
	case browser.KindText:
		return sel.CSS, sel.Text, "exact"
	case browser.KindHasText:
		return sel.CSS, sel.Text, "contains"
	default:
		return sel.CSS, "", ""
	}
}

func queryPage(ctx context.Context, page *rod.Page, sel browser.Selector) (rod.Elements, error) {
	css, text, mode := queryArgs(sel)
	return page.Context(ctx).ElementsByJS(rod.Eval(queryJS, css, text, mode))
}

func queryElement(ctx context.Context, el *rod.Element, sel browser.Selector) (rod.Elements, error) {
	css, text, mode := queryArgs(sel)
	return el.Context(ctx).ElementsByJS(rod.Eval(queryJS, css, text, mode))
}
