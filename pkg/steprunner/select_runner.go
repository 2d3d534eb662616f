package steprunner

import (
	"context"
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

// SelectRunner picks an option of a select control by its exact value.
type SelectRunner struct{}

func init() {
	RegisterRunnerFactory(types.ActionSelect, func() ActionRunner {
		return &SelectRunner{}
	})
}

func (sr *SelectRunner) Validate(step types.Step) error {
	if step.Value == "" {
		return fmt.Errorf("select step %q must define a value", step.Name)
	}
	return nil
}

func (sr *SelectRunner) Run(ctx context.Context, el browser.Element, step types.Step) error {
	if err := el.SelectOption(ctx, step.Value); err != nil {
		return fmt.Errorf("select %q in %q: %w", step.Value, step.Name, err)
	}
	return nil
}
