package phases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

type NavigationPhase struct{}

func init() {
	RegisterPhaseFactory(NavigationPhaseName, func() Phase { return &NavigationPhase{} })
}

func (p *NavigationPhase) Name() string { return NavigationPhaseName }

func (p *NavigationPhase) Run(ctx context.Context, rc *types.RunContext) (*types.PhaseResult, error) {
	return Navigate(ctx, rc, rc.Config.TableID)
}

// Navigate opens the portal and searches for tableID. Every step aborts on
// failure; any failure is returned wrapped in types.ErrNavigationAborted.
func Navigate(ctx context.Context, rc *types.RunContext, tableID string) (*types.PhaseResult, error) {
	r := newPhaseRun(rc, NavigationPhaseName)
	abort := func(err error) (*types.PhaseResult, error) {
		return r.fail(fmt.Errorf("%w: %w", types.ErrNavigationAborted, err))
	}

	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return abort(errors.New("table id is empty"))
	}

	r.logger.Info().Str("url", r.cfg.BaseURL).Msg("Opening portal")
	if err := rc.Page.Goto(ctx, r.cfg.BaseURL, browser.LoadStateNetworkIdle); err != nil {
		return abort(fmt.Errorf("open %s: %w", r.cfg.BaseURL, err))
	}
	if err := rc.Page.WaitForLoadState(ctx, browser.LoadStateDOMContentLoaded, r.cfg.Timeouts.Page); err != nil {
		if ctx.Err() != nil {
			return abort(ctx.Err())
		}
		r.logger.Warn().Err(err).Msg("Document not reported loaded, continuing")
	}

	nav := r.cfg.Navigation
	steps := []types.Step{
		{
			Name:      "open_search",
			Targets:   nav.SearchOpen,
			Action:    types.ActionClick,
			Timeout:   r.cfg.Timeouts.Element,
			OnFailure: types.OnFailureAbort,
			Settle:    r.cfg.Timeouts.Settle,
		},
		{
			Name:      "fill_table_id",
			Targets:   nav.SearchInput,
			Action:    types.ActionFill,
			Value:     tableID,
			Timeout:   r.cfg.Timeouts.Element,
			OnFailure: types.OnFailureAbort,
		},
		{
			Name:      "submit_search",
			Targets:   nav.SearchSubmit,
			Action:    types.ActionClick,
			Timeout:   r.cfg.Timeouts.Element,
			OnFailure: types.OnFailureAbort,
			WaitFor:   browser.LoadStateNetworkIdle,
			Settle:    r.cfg.Timeouts.Settle,
		},
	}
	for _, step := range steps {
		res, err := r.ex.Execute(ctx, step)
		r.record(res)
		if err != nil {
			return abort(err)
		}
	}

	r.note("table %s opened", tableID)
	r.logger.Info().Str("table_id", tableID).Msg("Table opened")
	return r.result, nil
}
