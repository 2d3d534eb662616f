package steprunner

import (
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/types"
)

type RunnerFactory func() ActionRunner

// registry stores each action's runner factory. GetRunner calls the appropriate factory to yield a
// new ActionRunner for a step.
var registry = map[types.Action]RunnerFactory{}

// This is called in each action runner's init() function to register its factory function with the
// registry.
func RegisterRunnerFactory(action types.Action, factory RunnerFactory) {
	registry[action] = factory
}

// GetRunner returns the ActionRunner registered for the step's action.
func GetRunner(action types.Action) (ActionRunner, error) {
	factory, ok := registry[action]
	if !ok {
		return nil, fmt.Errorf("no runner registered for action: %s", action)
	}

	return factory(), nil
}
