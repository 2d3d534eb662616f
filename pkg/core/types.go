package core

import "github.com/arnavsurve/sidrastep/pkg/types"

type Config = types.Config

type Candidate = types.Candidate

type Level = types.Level

// Level constants
const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)

// Outcome summarises how a completed run went.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded means the CSV was saved but the filters were only
	// partly applied.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeUnverified means the download was saved but no non-empty file
	// could be found at the output path afterwards.
	OutcomeUnverified Outcome = "unverified"
	OutcomeFailed     Outcome = "failed"
)

// RunReport is what a run produced, phase by phase.
type RunReport struct {
	RunID    string                  `json:"run_id"`
	Phases   []*types.PhaseResult    `json:"phases"`
	Artifact *types.DownloadArtifact `json:"artifact,omitempty"`
	Outcome  Outcome                 `json:"outcome"`
}

// Phase returns the result of the named phase, or nil if it never ran.
func (r *RunReport) Phase(name string) *types.PhaseResult {
	for _, p := range r.Phases {
		if p.Phase == name {
			return p
		}
	}
	return nil
}
