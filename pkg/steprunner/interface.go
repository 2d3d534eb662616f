package steprunner

import (
	"context"

	"github.com/arnavsurve/sidrastep/pkg/browser"
	"github.com/arnavsurve/sidrastep/pkg/types"
)

// ActionRunner performs one kind of step action on an already resolved element.
type ActionRunner interface {
	Validate(step types.Step) error
	Run(ctx context.Context, el browser.Element, step types.Step) error
}
