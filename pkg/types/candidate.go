package types

import "github.com/arnavsurve/sidrastep/pkg/browser"

// Candidate describes one way of finding an element. Candidates are declared in
// ordered lists; earlier entries are tried first.
type Candidate = browser.Selector

// CandidateGroup lists alternative candidates for a single logical option.
type CandidateGroup []Candidate

// MatchPolicy decides how a list of candidate groups is consumed.
type MatchPolicy string

const (
	// FirstMatch stops at the first group that succeeds.
	FirstMatch MatchPolicy = "first_match"
	// CumulativeMatch acts on every group that succeeds.
	CumulativeMatch MatchPolicy = "cumulative_match"
)
