package monitor

import (
	"errors"
	"fmt"
)

// Failure categories the module reports back to the host framework.
// Timeout expiry is deliberately absent: running out the window is the
// normal way a session ends.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrSubscription    = errors.New("subscription error")
	ErrReporting       = errors.New("reporting error")
)

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func subscriptionErr(err error) error {
	return fmt.Errorf("%w: %v", ErrSubscription, err)
}

func reportingErr(err error) error {
	return fmt.Errorf("%w: %v", ErrReporting, err)
}
