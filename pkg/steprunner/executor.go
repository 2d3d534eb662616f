// Package steprunner executes single UI steps: it resolves the step's target,
// performs the action through the registered ActionRunner, applies the step's
// failure policy and waits for the page to settle.
package steprunner

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/resolver"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

const defaultLoadTimeout = 10 * time.Second

type Executor struct {
	Page   browser.Page
	Logger types.Logger
	// LoadTimeout bounds the post-action load state wait.
	LoadTimeout time.Duration
}

func New(rc *types.RunContext) *Executor {
	timeout := defaultLoadTimeout
	if rc.Config != nil && rc.Config.Timeouts.Page > 0 {
		timeout = rc.Config.Timeouts.Page
	}
	return &Executor{Page: rc.Page, Logger: rc.Logger, LoadTimeout: timeout}
}

// Execute runs one step. The returned error is non-nil only when the step
// failed under an abort policy (a *types.StepError), when the step itself is
// malformed, or when ctx was cancelled. A skipped failure is reported through
// StepResult alone.
func (e *Executor) Execute(ctx context.Context, step types.Step) (types.StepResult, error) {
	res := types.StepResult{Step: step.Name}
	logger := stepLogger(e.Logger, step)

	runner, err := GetRunner(step.Action)
	if err != nil {
		res.Reason, res.Err = types.ReasonActionFailed, err
		return res, &types.StepError{Step: step.Name, Reason: res.Reason, Err: err}
	}
	if err := runner.Validate(step); err != nil {
		res.Reason, res.Err = types.ReasonActionFailed, err
		return res, &types.StepError{Step: step.Name, Reason: res.Reason, Err: err}
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res, err
	}

	match, ok := resolver.Resolve(ctx, e.Page, step.Targets, step.Timeout)
	if !ok && step.OnFailure == types.OnFailureRetryAlternate && len(step.Alternates) > 0 {
		logger.Debug().Msg("Primary candidates not visible, trying alternates")
		match, ok = resolver.Resolve(ctx, e.Page, step.Alternates, step.Timeout)
	}
	if !ok {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res, err
		}
		err := fmt.Errorf("%w: no visible match among %d candidates", types.ErrElementNotFound,
			len(step.Targets)+len(step.Alternates))
		return e.fail(logger, step, res, types.ReasonElementNotFound, err)
	}
	res.Matched = match.Candidate

	if err := runner.Run(ctx, match.Element, step); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
			return res, ctxErr
		}
		return e.fail(logger, step, res, classify(err), err)
	}
	res.OK = true
	logger.Debug().Str("matched", match.Candidate.String()).Msg("Step succeeded")

	if err := e.settle(ctx, logger, step); err != nil {
		return res, err
	}
	return res, nil
}

// ExecuteGroups runs base once per candidate group, substituting the group as
// the step's targets. FirstMatch stops after the first successful group;
// CumulativeMatch runs them all.
func (e *Executor) ExecuteGroups(ctx context.Context, base types.Step, groups []types.CandidateGroup, policy types.MatchPolicy) ([]types.StepResult, error) {
	results := make([]types.StepResult, 0, len(groups))
	for i, group := range groups {
		step := base
		step.Name = fmt.Sprintf("%s[%d]", base.Name, i)
		step.Targets = group

		res, err := e.Execute(ctx, step)
		results = append(results, res)
		if err != nil {
			return results, err
		}
		if policy == types.FirstMatch && res.OK {
			break
		}
	}
	return results, nil
}

func (e *Executor) fail(logger types.Logger, step types.Step, res types.StepResult, reason types.Reason, err error) (types.StepResult, error) {
	res.Reason = reason
	res.Err = err
	if step.OnFailure == types.OnFailureSkip {
		logger.Warn().Str("reason", string(reason)).Err(err).Msg("Step skipped")
		return res, nil
	}
	logger.Error().Str("reason", string(reason)).Err(err).Msg("Step failed")
	return res, &types.StepError{Step: step.Name, Reason: reason, Err: err}
}

// settle waits for the step's load state, falling back to the fixed delay.
func (e *Executor) settle(ctx context.Context, logger types.Logger, step types.Step) error {
	if step.WaitFor != "" {
		err := e.Page.WaitForLoadState(ctx, step.WaitFor, e.LoadTimeout)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Debug().Err(err).Str("state", string(step.WaitFor)).Msg("Load state not reached, settling")
	}
	return sleep(ctx, step.Settle)
}
