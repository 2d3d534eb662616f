package types

import (
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
)

type Action string

const (
	ActionClick  Action = "click"
	ActionFill   Action = "fill"
	ActionSelect Action = "select"
)

// FailurePolicy decides what a failed step does to the surrounding sequence.
type FailurePolicy string

const (
	OnFailureAbort          FailurePolicy = "abort"
	OnFailureSkip           FailurePolicy = "skip"
	OnFailureRetryAlternate FailurePolicy = "retry_alternate"
)

// Step is one atomic intended action. Steps are built fresh for every call.
type Step struct {
	Name       string
	Targets    []Candidate
	Alternates []Candidate // only tried when OnFailure is OnFailureRetryAlternate
	Action     Action
	Value      string
	Timeout    time.Duration
	OnFailure  FailurePolicy

	// WaitFor, when set, is awaited after a successful action. Settle is the
	// fixed fallback delay used when no load state is given or waiting fails.
	WaitFor browser.LoadState
	Settle  time.Duration
}

// Reason classifies why a step did not succeed.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonElementNotFound    Reason = "ElementNotFound"
	ReasonOptionNotAvailable Reason = "OptionNotAvailable"
	ReasonActionFailed       Reason = "ActionFailed"
	ReasonValueMismatch      Reason = "ValueMismatch"
)

// StepResult is the outcome of executing a single Step.
type StepResult struct {
	Step    string    `json:"step"`
	OK      bool      `json:"ok"`
	Reason  Reason    `json:"reason,omitempty"`
	Err     error     `json:"-"`
	Matched Candidate `json:"matched,omitempty"`
}

type PhaseStatus string

const (
	PhaseSuccess PhaseStatus = "success"
	PhasePartial PhaseStatus = "partial"
	PhaseFailed  PhaseStatus = "failed"
)

// PhaseResult aggregates the step results of one phase.
type PhaseResult struct {
	Phase    string            `json:"phase"`
	Status   PhaseStatus       `json:"status"`
	Messages []string          `json:"messages"`
	Steps    []StepResult      `json:"steps,omitempty"`
	Toggles  int               `json:"toggles,omitempty"`
	Artifact *DownloadArtifact `json:"artifact,omitempty"`
}

func NewPhaseResult(phase string) *PhaseResult {
	return &PhaseResult{Phase: phase, Status: PhaseSuccess}
}

// DownloadArtifact is the exported file, identified by its path and the size
// observed when it was verified.
type DownloadArtifact struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Verified bool   `json:"verified"`
}
