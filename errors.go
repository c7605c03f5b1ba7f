package rubikscube

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rubikscube package.
var (
	// Caller errors
	ErrOutOfRange = errors.New("rubikscube: action out of range")

	// Construction errors
	ErrInvalidConfiguration = errors.New("rubikscube: invalid configuration")
	ErrInvalidState         = errors.New("rubikscube: invalid cube state")

	// Parsing errors
	ErrInvalidNotation = errors.New("rubikscube: invalid move notation")
)

func outOfRange(action, count int) error {
	return fmt.Errorf("%w: action %d not in [0, %d)", ErrOutOfRange, action, count)
}
