package solver

import (
	"fmt"

	"github.com/lox/bjev/blackjack"
)

// surrenderValue is what a surrendered hand returns.
const surrenderValue = -0.5

// bestValue returns the value of the best legal play of h.
//
// checked tells whether the dealer has already looked for a natural. It is
// forced on when the up card cannot hide one or the rules never peek, so
// those positions share one cache entry.
func (s *Solver) bestValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, checked bool) float64 {
	s.stats.BestNodes++
	if !s.rules.DealerPeeks(up) {
		checked = true
	}

	key := s.hasher.PlayerKey(h, shoe, up, checked)
	if v, ok := s.player.Get(key); ok {
		return v
	}

	var v float64
	switch {
	case !checked && h.Len() == 2 && !h.IsSplit() && h.DoubleCount() == 0:
		// Settle the dealer natural once, before any decision: a player
		// natural pushes against it and everything else loses the bet.
		hole, _ := blackjack.BlackjackHoleCard(up)
		pbj := 0.0
		if n := shoe.Len(); n > 0 {
			pbj = float64(shoe.CountDenomination(hole)) / float64(n)
		}
		natural := -1.0
		if s.rules.IsBlackjack(h) {
			natural = 0
		}
		v = (1-pbj)*s.bestValue(h, shoe, up, true) + pbj*natural
	case h.Len() < 2:
		// not a decision point yet
		v = s.drawValue(h, shoe, up, checked)
	default:
		legal := false
		for _, a := range blackjack.Actions {
			ev, ok := s.actionValue(h, shoe, up, a, checked)
			if ok && (!legal || ev > v) {
				v = ev
				legal = true
			}
		}
		if !legal {
			violate("best action", "no legal action for %s", h)
		}
	}

	s.player.Put(key, v)
	return v
}

// actionValue returns the value of forcing a on h, or false if a is illegal.
func (s *Solver) actionValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, a blackjack.Action, checked bool) (float64, bool) {
	if !s.rules.CanTakeAction(h, a) {
		return 0, false
	}
	s.stats.ActionNodes++

	switch a {
	case blackjack.Stand:
		return s.standValue(h, shoe, up) + s.pendingValue(h, shoe, up, checked), true
	case blackjack.Hit:
		return s.drawValue(h, shoe, up, checked), true
	case blackjack.Double:
		return s.doubleValue(h, shoe, up, checked) + s.pendingValue(h, shoe, up, checked), true
	case blackjack.Split:
		var v float64
		withSplit(h, func() {
			v = s.bestValue(h, shoe, up, checked)
		})
		return v, true
	case blackjack.Surrender:
		return surrenderValue + s.pendingValue(h, shoe, up, checked), true
	default:
		panic(fmt.Sprintf("solver: unhandled action %s", a))
	}
}

func (s *Solver) standValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination) float64 {
	switch {
	case s.rules.IsBlackjack(h):
		return s.rules.PayoutBlackjack()
	case h.IsBusted():
		return -1
	default:
		dealer := blackjack.NewHand(blackjack.NewCard(up.Rank(), blackjack.Spades))
		return s.dealerValue(h.Score(), dealer, shoe)
	}
}

// drawValue deals every possible next card to h and plays on optimally.
func (s *Solver) drawValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, checked bool) float64 {
	total := 0.0
	for _, d := range blackjack.Denominations {
		if shoe.CountDenomination(d) == 0 {
			continue
		}
		p := s.drawOdds(shoe, up, checked, d)
		withDrawn(shoe, h, d, func() {
			total += p * s.bestValue(h, shoe, up, checked)
		})
	}
	return total
}

// doubleValue deals one card at double stakes. The doubled hand forgets its
// split lineage; any pending siblings are settled by the caller.
func (s *Solver) doubleValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, checked bool) float64 {
	total := 0.0
	for _, d := range blackjack.Denominations {
		if shoe.CountDenomination(d) == 0 {
			continue
		}
		p := s.drawOdds(shoe, up, checked, d)
		withDrawn(shoe, h, d, func() {
			doubled := h.WithoutSplitInformation()
			doubled.Double()
			total += p * 2 * s.bestValue(doubled, shoe, up, checked)
		})
	}
	return total
}

// pendingValue plays the next split sibling once h is finished. The cards h
// drew after its first card go back into the shoe while the sibling plays.
func (s *Solver) pendingValue(h *blackjack.Hand, shoe *blackjack.Shoe, up blackjack.Denomination, checked bool) float64 {
	if h.SplitsToSolve() == 0 {
		return 0
	}
	next := h.NextSplitHand()
	drawn := append([]blackjack.Card(nil), h.Cards()[1:]...)
	var v float64
	withReturned(shoe, drawn, func() {
		v = s.bestValue(next, shoe, up, checked)
	})
	return v
}
