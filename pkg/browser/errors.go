package browser

import "errors"

var (
	ErrTimeout            = errors.New("browser operation timed out")
	ErrOptionNotAvailable = errors.New("option not available")
	ErrUnknownDriver      = errors.New("unknown browser driver")
)
