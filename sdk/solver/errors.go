package solver

import (
	"errors"
	"fmt"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/internal/memo"
)

// ErrInvariant is returned when a computation aborted on a broken internal
// invariant: a card removed twice, a memo key written twice, or a hand with no
// legal action. The caches of the solver that returned it should be discarded
// with Reset.
var ErrInvariant = errors.New("solver: invariant violation")

// recoverInvariant turns invariant panics raised inside the recursion into an
// error on *err. Any other panic is re-raised.
func recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case *blackjack.InvariantError:
		*err = fmt.Errorf("%w: %w", ErrInvariant, v)
	case *memo.DuplicateKeyError:
		*err = fmt.Errorf("%w: %w", ErrInvariant, v)
	default:
		panic(r)
	}
}

func violate(op, format string, args ...any) {
	panic(&blackjack.InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
