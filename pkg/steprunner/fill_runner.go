package steprunner

import (
	"context"
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

// FillRunner replaces an input's value and reads it back.
type FillRunner struct{}

func init() {
	RegisterRunnerFactory(types.ActionFill, func() ActionRunner {
		return &FillRunner{}
	})
}

func (fr *FillRunner) Validate(step types.Step) error {
	return nil
}

func (fr *FillRunner) Run(ctx context.Context, el browser.Element, step types.Step) error {
	if err := el.Fill(ctx, step.Value); err != nil {
		return fmt.Errorf("fill %q: %w", step.Name, err)
	}

	got, err := el.Value(ctx)
	if err != nil {
		return fmt.Errorf("read back %q: %w", step.Name, err)
	}
	if got != step.Value {
		return fmt.Errorf("%w: %q holds %q, want %q", errValueMismatch, step.Name, got, step.Value)
	}
	return nil
}
