// Package phases holds the three ordered stages of a run: navigating to the
// table, configuring its filters and downloading the CSV export.
package phases

import (
	"context"
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/steprunner"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

const (
	NavigationPhaseName = "navigation"
	FiltersPhaseName    = "filters"
	DownloadPhaseName   = "download"
)

// Sequence is the fixed order phases run in.
var Sequence = []string{NavigationPhaseName, FiltersPhaseName, DownloadPhaseName}

type Phase interface {
	Name() string
	Run(ctx context.Context, rc *types.RunContext) (*types.PhaseResult, error)
}

type PhaseFactory func() Phase

var registry = map[string]PhaseFactory{}

// RegisterPhaseFactory is called from each phase's init() function.
func RegisterPhaseFactory(name string, factory PhaseFactory) {
	registry[name] = factory
}

// GetPhase returns a new instance of the named phase.
func GetPhase(name string) (Phase, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("no phase registered with name: %s", name)
	}
	return factory(), nil
}

func phaseLogger(rc *types.RunContext, phase string) types.Logger {
	return rc.Logger.With().Str("phase", phase).Logger()
}

// executorFor builds a step executor whose log lines carry the phase name.
func executorFor(rc *types.RunContext, logger types.Logger) *steprunner.Executor {
	ex := steprunner.New(rc)
	ex.Logger = logger
	return ex
}

// phaseRun bundles the per-call state shared by a phase's helpers.
type phaseRun struct {
	rc     *types.RunContext
	cfg    *types.Config
	logger types.Logger
	ex     *steprunner.Executor
	result *types.PhaseResult
}

func newPhaseRun(rc *types.RunContext, phase string) *phaseRun {
	logger := phaseLogger(rc, phase)
	return &phaseRun{
		rc:     rc,
		cfg:    rc.Config,
		logger: logger,
		ex:     executorFor(rc, logger),
		result: types.NewPhaseResult(phase),
	}
}

func (r *phaseRun) record(res types.StepResult) {
	r.result.Steps = append(r.result.Steps, res)
}

func (r *phaseRun) note(format string, args ...any) {
	r.result.Messages = append(r.result.Messages, fmt.Sprintf(format, args...))
}

func (r *phaseRun) fail(err error) (*types.PhaseResult, error) {
	r.result.Status = types.PhaseFailed
	r.result.Messages = append(r.result.Messages, err.Error())
	return r.result, err
}
