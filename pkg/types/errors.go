package types

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/sidrastep/pkg/browser"
)

var (
	// ErrElementNotFound means a control never resolved within its timeout.
	ErrElementNotFound = errors.New("element not found")
	// ErrOptionNotAvailable means a select control lacks the requested value.
	ErrOptionNotAvailable = browser.ErrOptionNotAvailable
	// ErrDownloadTimeout means no download event followed the export action.
	ErrDownloadTimeout = errors.New("download timeout")
	// ErrNavigationAborted means the table search sequence failed.
	ErrNavigationAborted = errors.New("navigation aborted")
)

// StepError is returned when a step whose policy is abort fails.
type StepError struct {
	Step   string
	Reason Reason
	Err    error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %q failed [%s]: %v", e.Step, e.Reason, e.Err)
	}
	return fmt.Sprintf("step %q failed [%s]", e.Step, e.Reason)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// PhaseError ties a fatal error to the phase that raised it.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %q: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
