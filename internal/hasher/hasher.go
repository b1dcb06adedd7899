package hasher

import (
	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/internal/memo"
)

const (
	// scores above 21 all behave as a bust
	scoreCardinality = 23
	// dealer hands are told apart by one card, two cards, or more
	dealerLenCardinality = 3
	// no pending sibling, or the denomination of the pending siblings
	pendingCardinality = blackjack.NumDenominations + 1
)

// Hasher builds memo keys for one rule set. Every dimension that the rules or
// the dealer resolution can observe is part of the key; anything else is left
// out so equivalent states share an entry.
//
// A Hasher reuses its buffer and is not safe for concurrent use.
type Hasher struct {
	rules blackjack.Rules
	p     Packer
	wide  uint64
}

// New returns a hasher for the rules.
func New(rules blackjack.Rules) *Hasher {
	return &Hasher{rules: rules}
}

// PlayerKey identifies a player decision point.
//
// Fields in order, with cardinalities:
//
//	score capped at 22                       23
//	soft                                      2
//	natural                                   2
//	double count                  MaxDoubles+1  (only when MaxDoubles > 0)
//	splits done                   SplitLimit+1  (only when SplitLimit > 0)
//	splits to solve               SplitLimit+1  (only when SplitLimit > 0)
//	pending sibling denomination             11  (only when SplitLimit > 0)
//	legality of each action                 2 each, enumeration order
//	dealer up card denomination              10
//	dealer natural already resolved          2
//	shoe                                     see addShoe
func (h *Hasher) PlayerKey(hand *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, checked bool) memo.Key {
	p := &h.p
	p.Reset()
	p.Add(scoreCardinality, min(hand.Score(), 22))
	p.AddBool(hand.IsSoft())
	p.AddBool(h.rules.IsBlackjack(hand))
	if h.rules.MaxDoubles > 0 {
		p.Add(h.rules.MaxDoubles+1, hand.DoubleCount())
	}
	if h.rules.SplitLimit > 0 {
		p.Add(h.rules.SplitLimit+1, hand.SplitsDone())
		p.Add(h.rules.SplitLimit+1, hand.SplitsToSolve())
		pending := 0
		if n := hand.SplitsToSolve(); n > 0 {
			pending = int(hand.PendingSplits()[n-1].Rank.Denomination()) + 1
		}
		p.Add(pendingCardinality, pending)
	}
	for _, a := range blackjack.Actions {
		p.AddBool(h.rules.CanTakeAction(hand, a))
	}
	p.Add(blackjack.NumDenominations, int(up))
	p.AddBool(checked)
	h.addShoe(shoe)
	return h.key()
}

// DealerKey identifies a dealer resolution against a standing player score.
//
// Fields in order, with cardinalities:
//
//	dealer card count 1, 2 or 3+                    3
//	dealer score capped at 22                      23
//	soft, only when the dealer draws to it          2
//	player score capped at 22                      23
//	shoe                                           see addShoe
//
// Softness only matters while the dealer still draws, so a soft 18 and a
// hard 18 share a key.
func (h *Hasher) DealerKey(dealer *blackjack.Hand, playerScore int, shoe *blackjack.Shoe) memo.Key {
	p := &h.p
	p.Reset()
	p.Add(dealerLenCardinality, min(dealer.Len(), dealerLenCardinality)-1)
	p.Add(scoreCardinality, min(dealer.Score(), 22))
	p.AddBool(dealer.IsSoft() && h.rules.ShouldHitDealerHand(dealer))
	p.Add(scoreCardinality, min(playerScore, 22))
	h.addShoe(shoe)
	return h.key()
}

// WideKeys returns how many keys so far outgrew 64 bits.
func (h *Hasher) WideKeys() uint64 {
	return h.wide
}

func (h *Hasher) key() memo.Key {
	if h.p.Wide() {
		h.wide++
	}
	return h.p.Key()
}

// addShoe appends one field per denomination holding the remaining count,
// with the initial count plus one as cardinality. An infinite shoe never
// changes and contributes nothing.
func (h *Hasher) addShoe(shoe *blackjack.Shoe) {
	if shoe.IsInfinite() {
		return
	}
	for _, d := range blackjack.Denominations {
		h.p.Add(shoe.InitialDenomination(d)+1, shoe.CountDenomination(d))
	}
}
