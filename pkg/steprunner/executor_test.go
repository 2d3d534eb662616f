package steprunner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	bt "github.com/arnavsurve/sidrastep/pkg/browser/browsertest"
	"github.com/arnavsurve/sidrastep/pkg/log"
	"github.com/arnavsurve/sidrastep/pkg/steprunner"
	"github.com/arnavsurve/sidrastep/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	searchBox = browser.CSS("input.search")
	okButton  = browser.HasText("button", "OK")
	okText    = browser.Text("OK")
	formatSel = browser.CSS("select.format")
)

func newExecutor(page *bt.Page) *steprunner.Executor {
	return steprunner.New(&types.RunContext{
		Page:   page,
		Logger: log.Nop(),
		Config: &types.Config{Timeouts: types.Timeouts{Page: time.Second}},
	})
}

func TestExecuteClick(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okButton))
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:    "submit",
		Targets: []types.Candidate{okButton},
		Action:  types.ActionClick,
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, okButton, res.Matched)
	assert.Equal(t, 1, page.Clicks("ok"))
}

func TestExecuteFailurePolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  types.FailurePolicy
		wantErr bool
	}{
		{name: "abort", policy: types.OnFailureAbort, wantErr: true},
		{name: "default is abort", policy: "", wantErr: true},
		{name: "skip", policy: types.OnFailureSkip, wantErr: false},
		{name: "retry without alternates", policy: types.OnFailureRetryAlternate, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := bt.NewPage(bt.Hidden(bt.Button("ok", "OK", okButton)))
			ex := newExecutor(page)

			res, err := ex.Execute(context.Background(), types.Step{
				Name:      "submit",
				Targets:   []types.Candidate{okButton},
				Action:    types.ActionClick,
				OnFailure: tt.policy,
			})
			assert.False(t, res.OK)
			assert.Equal(t, types.ReasonElementNotFound, res.Reason)
			assert.ErrorIs(t, res.Err, types.ErrElementNotFound)
			assert.Zero(t, page.Clicks("ok"))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var stepErr *types.StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, "submit", stepErr.Step)
			assert.Equal(t, types.ReasonElementNotFound, stepErr.Reason)
			assert.ErrorIs(t, err, types.ErrElementNotFound)
		})
	}
}

func TestExecuteRetryAlternate(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okText))
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:       "confirm",
		Targets:    []types.Candidate{okButton},
		Alternates: []types.Candidate{okText},
		Action:     types.ActionClick,
		OnFailure:  types.OnFailureRetryAlternate,
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, okText, res.Matched)
	assert.Equal(t, 1, page.Clicks("ok"))
}

func TestExecuteAlternatesIgnoredUnlessRetry(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okText))
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:       "confirm",
		Targets:    []types.Candidate{okButton},
		Alternates: []types.Candidate{okText},
		Action:     types.ActionClick,
		OnFailure:  types.OnFailureSkip,
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Zero(t, page.Clicks("ok"))
}

func TestExecuteFillReplacesValue(t *testing.T) {
	input := &bt.Element{Name: "search", Shown: true, Val: "old", Selectors: []browser.Selector{searchBox}}
	page := bt.NewPage(input)
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:    "fill_table_id",
		Targets: []types.Candidate{searchBox},
		Action:  types.ActionFill,
		Value:   "1209",
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "1209", input.Val)
}

func TestExecuteFillValueMismatch(t *testing.T) {
	input := &bt.Element{Name: "search", Shown: true, Val: "old", FillKeepsOld: true, Selectors: []browser.Selector{searchBox}}
	page := bt.NewPage(input)
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:      "fill_table_id",
		Targets:   []types.Candidate{searchBox},
		Action:    types.ActionFill,
		Value:     "1209",
		OnFailure: types.OnFailureSkip,
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, types.ReasonValueMismatch, res.Reason)
}

func TestExecuteSelect(t *testing.T) {
	sel := &bt.Element{Name: "format", Shown: true, Options: []string{"us.csv", "br.csv"}, Selectors: []browser.Selector{formatSel}}
	page := bt.NewPage(sel)
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:    "format",
		Targets: []types.Candidate{formatSel},
		Action:  types.ActionSelect,
		Value:   "br.csv",
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "br.csv", sel.Val)
}

func TestExecuteSelectOptionNotAvailable(t *testing.T) {
	sel := &bt.Element{Name: "format", Shown: true, Options: []string{"us.csv"}, Selectors: []browser.Selector{formatSel}}
	page := bt.NewPage(sel)
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:    "format",
		Targets: []types.Candidate{formatSel},
		Action:  types.ActionSelect,
		Value:   "br.csv",
	})
	assert.Equal(t, types.ReasonOptionNotAvailable, res.Reason)
	assert.ErrorIs(t, err, types.ErrOptionNotAvailable)
}

func TestExecuteActionFailed(t *testing.T) {
	btn := bt.Button("ok", "OK", okButton)
	btn.ClickErr = errors.New("detached")
	page := bt.NewPage(btn)
	ex := newExecutor(page)

	res, err := ex.Execute(context.Background(), types.Step{
		Name:      "submit",
		Targets:   []types.Candidate{okButton},
		Action:    types.ActionClick,
		OnFailure: types.OnFailureSkip,
	})
	require.NoError(t, err)
	assert.Equal(t, types.ReasonActionFailed, res.Reason)
}

func TestExecuteRejectsMalformedStep(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okButton))
	ex := newExecutor(page)

	_, err := ex.Execute(context.Background(), types.Step{Name: "x", Targets: []types.Candidate{okButton}, Action: "hover", OnFailure: types.OnFailureSkip})
	assert.Error(t, err)

	_, err = ex.Execute(context.Background(), types.Step{Name: "y", Targets: []types.Candidate{formatSel}, Action: types.ActionSelect})
	assert.ErrorContains(t, err, "must define a value")
	assert.Zero(t, page.Clicks("ok"))
}

func TestExecuteWaitsForLoadState(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okButton))
	ex := newExecutor(page)

	_, err := ex.Execute(context.Background(), types.Step{
		Name:    "submit",
		Targets: []types.Candidate{okButton},
		Action:  types.ActionClick,
		WaitFor: browser.LoadStateNetworkIdle,
		Settle:  time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"click:ok", "load:networkidle"}, page.EventLog())
}

func TestExecuteSettleHonoursCancellation(t *testing.T) {
	page := bt.NewPage(bt.Button("ok", "OK", okButton))
	page.LoadStateErr = browser.ErrTimeout
	ex := newExecutor(page)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := ex.Execute(ctx, types.Step{
		Name:    "submit",
		Targets: []types.Candidate{okButton},
		Action:  types.ActionClick,
		WaitFor: browser.LoadStateNetworkIdle,
		Settle:  time.Hour,
	})
	assert.True(t, res.OK)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteGroups(t *testing.T) {
	a := browser.ScopedText("label", "60 a 69 anos")
	b := browser.ScopedText("label", "70 anos ou mais")
	missing := browser.ScopedText("label", "80 anos ou mais")

	base := types.Step{Name: "age", Action: types.ActionClick, OnFailure: types.OnFailureSkip}
	groups := []types.CandidateGroup{{missing}, {a}, {b}}

	t.Run("cumulative", func(t *testing.T) {
		page := bt.NewPage(bt.Button("a", "60 a 69 anos", a), bt.Button("b", "70 anos ou mais", b))
		results, err := newExecutor(page).ExecuteGroups(context.Background(), base, groups, types.CumulativeMatch)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.False(t, results[0].OK)
		assert.True(t, results[1].OK)
		assert.True(t, results[2].OK)
		assert.Equal(t, "age[1]", results[1].Step)
		assert.Equal(t, []string{"click:a", "click:b"}, page.EventLog())
	})

	t.Run("first match", func(t *testing.T) {
		page := bt.NewPage(bt.Button("a", "60 a 69 anos", a), bt.Button("b", "70 anos ou mais", b))
		results, err := newExecutor(page).ExecuteGroups(context.Background(), base, groups, types.FirstMatch)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[1].OK)
		assert.Zero(t, page.Clicks("b"))
	})

	t.Run("abort stops the loop", func(t *testing.T) {
		page := bt.NewPage(bt.Button("a", "60 a 69 anos", a))
		abort := base
		abort.OnFailure = types.OnFailureAbort
		results, err := newExecutor(page).ExecuteGroups(context.Background(), abort, groups, types.CumulativeMatch)
		assert.ErrorIs(t, err, types.ErrElementNotFound)
		assert.Len(t, results, 1)
		assert.Zero(t, page.Clicks("a"))
	})
}
