package blackjack

import (
	"fmt"
	"strings"
)

// Action is a player decision. The set is closed; values are ordered the way
// the solver enumerates them.
type Action uint8

const (
	Stand Action = iota
	Hit
	Double
	Split
	Surrender
)

// NumActions is the number of player actions.
const NumActions = 5

// Actions lists every action in enumeration order.
var Actions = [NumActions]Action{Stand, Hit, Double, Split, Surrender}

func (a Action) String() string {
	switch a {
	case Stand:
		return "STD"
	case Hit:
		return "HIT"
	case Double:
		return "DBL"
	case Split:
		return "SPT"
	case Surrender:
		return "SUR"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// ParseAction accepts either the short code or the full action name, in any
// case.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "std", "stand", "s":
		return Stand, nil
	case "hit", "h":
		return Hit, nil
	case "dbl", "double", "d":
		return Double, nil
	case "spt", "split", "p":
		return Split, nil
	case "sur", "surrender", "r":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
