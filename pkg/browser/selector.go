package browser

import (
	"fmt"
	"strconv"
)

// SelectorKind tags how a Selector locates an element.
type SelectorKind string

const (
	// KindCSS matches elements by CSS selector.
	KindCSS SelectorKind = "css"
	// KindText matches elements whose normalised visible text equals Text,
	// optionally restricted to elements matching CSS.
	KindText SelectorKind = "text"
	// KindHasText matches elements matching CSS (any element when empty)
	// whose text contains Text.
	KindHasText SelectorKind = "has_text"
)

// Selector is an immutable descriptor of how to find an element.
type Selector struct {
	Kind SelectorKind `yaml:"kind"`
	CSS  string       `yaml:"css,omitempty"`
	Text string       `yaml:"text,omitempty"`
}

func CSS(css string) Selector {
	return Selector{Kind: KindCSS, CSS: css}
}

func Text(text string) Selector {
	return Selector{Kind: KindText, Text: text}
}

func ScopedText(css, text string) Selector {
	return Selector{Kind: KindText, CSS: css, Text: text}
}

func HasText(css, text string) Selector {
	return Selector{Kind: KindHasText, CSS: css, Text: text}
}

// Validate reports whether the selector carries the fields its kind needs.
func (s Selector) Validate() error {
	switch s.Kind {
	case KindCSS:
		if s.CSS == "" {
			return fmt.Errorf("css selector must define 'css'")
		}
	case KindText, KindHasText:
		if s.Text == "" {
			return fmt.Errorf("%s selector must define 'text'", s.Kind)
		}
	case "":
		return fmt.Errorf("selector is missing 'kind'")
	default:
		return fmt.Errorf("unknown selector kind %q", s.Kind)
	}
	return nil
}

func (s Selector) String() string {
	switch s.Kind {
	case KindCSS:
		return s.CSS
	case KindText:
		if s.CSS == "" {
			return "text=" + strconv.Quote(s.Text)
		}
		return fmt.Sprintf("%s:text-is(%s)", s.CSS, strconv.Quote(s.Text))
	case KindHasText:
		if s.CSS == "" {
			return "text=" + s.Text
		}
		return fmt.Sprintf("%s:has-text(%s)", s.CSS, strconv.Quote(s.Text))
	default:
		return fmt.Sprintf("%s:%s|%s", s.Kind, s.CSS, s.Text)
	}
}
