package phases_test

import (
	"context"
	"errors"
	"testing"

	bt "github.com/arnavsurve/sidrastep/pkg/browser/browsertest"
	"github.com/arnavsurve/sidrastep/pkg/phases"
	"github.com/arnavsurve/sidrastep/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigateOpensTable(t *testing.T) {
	page := bt.NewPage(navigationElements()...)
	cfg := testConfig(t)

	result, err := phases.Navigate(context.Background(), runContext(cfg, page), "1209")
	require.NoError(t, err)
	assert.Equal(t, types.PhaseSuccess, result.Status)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "1209", page.Find("input").Val)
	assert.Equal(t, []string{
		"goto:https://sidra.example/",
		"load:domcontentloaded",
		"click:open",
		"fill:input=1209",
		"click:submit",
		"load:networkidle",
	}, page.EventLog())
}

func TestNavigateEmptyTableID(t *testing.T) {
	page := bt.NewPage(navigationElements()...)

	result, err := phases.Navigate(context.Background(), runContext(testConfig(t), page), "  ")
	assert.ErrorIs(t, err, types.ErrNavigationAborted)
	assert.Equal(t, types.PhaseFailed, result.Status)
	assert.Empty(t, page.EventLog())
}

func TestNavigateAbortsOnMissingSearchBox(t *testing.T) {
	elements := navigationElements()
	elements[1] = bt.Hidden(elements[1])
	page := bt.NewPage(elements...)

	result, err := phases.Navigate(context.Background(), runContext(testConfig(t), page), "1209")
	assert.ErrorIs(t, err, types.ErrNavigationAborted)
	assert.ErrorIs(t, err, types.ErrElementNotFound)
	var stepErr *types.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "fill_table_id", stepErr.Step)
	assert.Equal(t, types.PhaseFailed, result.Status)
	assert.Zero(t, page.Clicks("submit"))
}

func TestNavigateGotoFailure(t *testing.T) {
	page := bt.NewPage(navigationElements()...)
	page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	_, err := phases.Navigate(context.Background(), runContext(testConfig(t), page), "1209")
	assert.ErrorIs(t, err, types.ErrNavigationAborted)
	assert.ErrorContains(t, err, "ERR_NAME_NOT_RESOLVED")
	assert.Zero(t, page.Clicks("open"))
}

func TestPhaseRegistry(t *testing.T) {
	for _, name := range phases.Sequence {
		p, err := phases.GetPhase(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := phases.GetPhase("upload")
	assert.Error(t, err)
}
