package blackjack

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every InvariantError.
var ErrInvariant = errors.New("blackjack: invariant violation")

// InvariantError reports a broken mutation discipline on a hand or shoe, such
// as removing a card that is not there. It is raised with panic: the state it
// describes can only come from a programming error.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariant, e.Op, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func violate(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
