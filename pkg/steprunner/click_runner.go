package steprunner

import (
	"context"
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

type ClickRunner struct{}

func init() {
	RegisterRunnerFactory(types.ActionClick, func() ActionRunner {
		return &ClickRunner{}
	})
}

func (cr *ClickRunner) Validate(step types.Step) error {
	if step.Value != "" {
		return fmt.Errorf("click step %q must not define a value", step.Name)
	}
	return nil
}

func (cr *ClickRunner) Run(ctx context.Context, el browser.Element, step types.Step) error {
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("click %q: %w", step.Name, err)
	}
	return nil
}
