package cli

import (
	"errors"
	"fmt"
)

// ErrReported marks an error whose details a command already printed.
var ErrReported = errors.New("command failed")

// Reported wraps err so main exits non-zero without printing it again.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrReported, err)
}
