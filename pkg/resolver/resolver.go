// Package resolver finds the first element, from an ordered list of candidate
// selectors, that is attached to the page and visible.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

// Match is a resolved element together with the candidate that found it.
type Match struct {
	Element   browser.Element
	Candidate types.Candidate
	Index     int
}

// Resolve tries each candidate in order, giving each up to timeout to become
// visible, and returns the first hit. A miss is reported with ok=false rather
// than an error; the caller decides how severe it is. Driver errors other than
// a timeout count as a miss for that candidate.
func Resolve(ctx context.Context, page browser.Page, candidates []types.Candidate, timeout time.Duration) (Match, bool) {
	for i, c := range candidates {
		if ctx.Err() != nil {
			return Match{}, false
		}
		el, err := page.WaitVisible(ctx, c, timeout)
		if err != nil || el == nil {
			continue
		}
		return Match{Element: el, Candidate: c, Index: i}, true
	}
	return Match{}, false
}

// IsTimeout reports whether err came from a bounded wait running out.
func IsTimeout(err error) bool {
	return errors.Is(err, browser.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
