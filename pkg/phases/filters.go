package phases

import (
	"context"
	"fmt"
	"strings"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

type FiltersPhase struct{}

func init() {
	RegisterPhaseFactory(FiltersPhaseName, func() Phase { return &FiltersPhase{} })
}

func (p *FiltersPhase) Name() string { return FiltersPhaseName }

func (p *FiltersPhase) Run(ctx context.Context, rc *types.RunContext) (*types.PhaseResult, error) {
	return ConfigureFilters(ctx, rc, rc.Config.Filters.AgeGroups, rc.Config.Filters.Territorial.Options)
}

// ConfigureFilters selects every age group in ageGroups and sets the
// territorial breakdown. Individual failures are absorbed into the result's
// status; the only error returned is a cancelled context.
func ConfigureFilters(ctx context.Context, rc *types.RunContext, ageGroups []types.CandidateGroup, territorialOptions []types.CandidateGroup) (*types.PhaseResult, error) {
	r := newPhaseRun(rc, FiltersPhaseName)
	timeouts := r.cfg.Timeouts

	ageResults, err := r.ex.ExecuteGroups(ctx, types.Step{
		Name:      "age_group",
		Action:    types.ActionClick,
		Timeout:   timeouts.Element,
		OnFailure: types.OnFailureSkip,
		Settle:    timeouts.Settle,
	}, ageGroups, types.CumulativeMatch)
	for _, res := range ageResults {
		r.record(res)
	}
	if err != nil {
		return r.fail(err)
	}
	ageApplied := countOK(ageResults)
	r.note("age groups applied: %d of %d", ageApplied, len(ageGroups))
	if ageApplied < len(ageGroups) {
		r.logger.Warn().Int("applied", ageApplied).Int("requested", len(ageGroups)).Msg("Not every age group could be selected")
	}

	state, toggles, err := r.reconcileTree(ctx)
	r.result.Toggles = toggles
	if err != nil {
		return r.fail(err)
	}
	territorialOK := false
	switch state {
	case treeConfirmed:
		territorialOK = true
		r.note("territorial level %q is the only one selected (%d toggles)", r.cfg.Filters.Territorial.Tree.TargetLabel, toggles)
	case treeUnconfirmed:
		// No label fallback: a label click toggles the target again.
		r.note("territorial tree present but not confirmed after %d toggles", toggles)
	default:
		r.logger.Warn().Msg("Territorial tree not found, falling back to option labels")
		results, err := r.ex.ExecuteGroups(ctx, types.Step{
			Name:      "territorial",
			Action:    types.ActionClick,
			Timeout:   timeouts.Element,
			OnFailure: types.OnFailureSkip,
			Settle:    timeouts.Settle,
		}, territorialOptions, types.FirstMatch)
		for _, res := range results {
			r.record(res)
		}
		if err != nil {
			return r.fail(err)
		}
		territorialOK = countOK(results) > 0
		if territorialOK {
			r.note("territorial option selected by label")
		} else {
			r.note("territorial breakdown not applied")
		}
	}

	if len(r.cfg.Filters.Apply) > 0 {
		res, err := r.ex.Execute(ctx, types.Step{
			Name:      "apply_filters",
			Targets:   r.cfg.Filters.Apply,
			Action:    types.ActionClick,
			Timeout:   timeouts.Element,
			OnFailure: types.OnFailureSkip,
			WaitFor:   browser.LoadStateNetworkIdle,
			Settle:    timeouts.Settle,
		})
		r.record(res)
		if err != nil {
			return r.fail(err)
		}
		if !res.OK {
			r.logger.Info().Msg("No apply control visible, filters take effect on selection")
		}
	}

	switch {
	case ageApplied == len(ageGroups) && territorialOK:
		r.result.Status = types.PhaseSuccess
	case ageApplied == 0 && !territorialOK:
		r.result.Status = types.PhaseFailed
	default:
		r.result.Status = types.PhasePartial
	}
	r.logger.Info().Str("status", string(r.result.Status)).Msg("Filters configured")
	return r.result, nil
}

type treeState int

const (
	treeAbsent treeState = iota
	treeUnconfirmed
	treeConfirmed
)

// reconcileTree makes the tree's target level the only checked one, toggling
// just the items whose state disagrees, then re-reads the tree to confirm.
// Only a tree that is not configured or not on the page is treeAbsent; any
// later failure leaves it treeUnconfirmed.
func (r *phaseRun) reconcileTree(ctx context.Context) (treeState, int, error) {
	tree := r.cfg.Filters.Territorial.Tree
	if tree.Items.Kind == "" || tree.TargetLabel == "" {
		return treeAbsent, 0, nil
	}
	page := r.rc.Page

	if _, err := page.WaitVisible(ctx, tree.Items, r.cfg.Timeouts.Element); err != nil {
		if ctx.Err() != nil {
			return treeAbsent, 0, ctx.Err()
		}
		r.logger.Debug().Err(err).Msg("Territorial tree not visible")
		return treeAbsent, 0, nil
	}

	items, err := page.QueryAll(ctx, tree.Items)
	if err != nil || len(items) == 0 {
		r.logger.Warn().Err(err).Msg("Could not list territorial tree items")
		return treeAbsent, 0, nil
	}

	toggles := 0
	for _, item := range items {
		label, checked, err := readTreeItem(ctx, item, tree)
		if err != nil {
			r.logger.Warn().Err(err).Msg("Could not read territorial tree item")
			return treeUnconfirmed, toggles, nil
		}
		want := isTargetLevel(label, tree.TargetLabel)
		if want == checked {
			continue
		}

		toggle, err := firstVisible(ctx, item, tree.Toggle)
		if err != nil {
			r.logger.Warn().Err(err).Str("item", label).Msg("Territorial toggle not found")
			return treeUnconfirmed, toggles, nil
		}
		if err := toggle.Click(ctx); err != nil {
			if ctx.Err() != nil {
				return treeUnconfirmed, toggles, ctx.Err()
			}
			r.logger.Warn().Err(err).Str("item", label).Msg("Territorial toggle failed")
			return treeUnconfirmed, toggles, nil
		}
		toggles++
		if want {
			r.logger.Info().Str("item", label).Msg("Selected territorial level")
		} else {
			r.logger.Info().Str("item", label).Msg("Deselected territorial level")
		}
	}

	items, err = page.QueryAll(ctx, tree.Items)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Could not re-read territorial tree")
		return treeUnconfirmed, toggles, nil
	}
	checkedCount, targetChecked := 0, false
	for _, item := range items {
		label, checked, err := readTreeItem(ctx, item, tree)
		if err != nil {
			return treeUnconfirmed, toggles, nil
		}
		if checked {
			checkedCount++
			targetChecked = targetChecked || isTargetLevel(label, tree.TargetLabel)
		}
	}
	if !targetChecked || checkedCount != 1 {
		r.logger.Warn().Int("checked", checkedCount).Msg("Territorial tree state not confirmed")
		return treeUnconfirmed, toggles, nil
	}
	return treeConfirmed, toggles, nil
}

func readTreeItem(ctx context.Context, item browser.Element, tree types.TreeConfig) (string, bool, error) {
	text, err := item.Text(ctx)
	if err != nil {
		return "", false, fmt.Errorf("read label: %w", err)
	}
	checks, err := item.QueryAll(ctx, tree.Check)
	if err != nil {
		return "", false, fmt.Errorf("find check box: %w", err)
	}
	if len(checks) == 0 {
		return "", false, fmt.Errorf("item %q has no check box", strings.TrimSpace(text))
	}
	class, err := checks[0].Attribute(ctx, "class")
	if err != nil {
		return "", false, fmt.Errorf("read check state: %w", err)
	}
	return strings.TrimSpace(text), hasClass(class, tree.CheckedClass), nil
}

func firstVisible(ctx context.Context, parent browser.Element, sel browser.Selector) (browser.Element, error) {
	els, err := parent.QueryAll(ctx, sel)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if ok, err := el.Visible(ctx); err == nil && ok {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrElementNotFound, sel)
}

func isTargetLevel(label, target string) bool {
	return strings.HasPrefix(label, target)
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func countOK(results []types.StepResult) int {
	n := 0
	for _, res := range results {
		if res.OK {
			n++
		}
	}
	return n
}
