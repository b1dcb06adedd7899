package solver

import "github.com/lox/bjev/blackjack"

// drawOdds returns the probability that the player's next card is of
// denomination d.
//
// Once the dealer has peeked under an ace or ten, the hole card is known not
// to complete a natural, and in a finite shoe that changes the odds of the
// cards the player sees: the hole card is some other card h with probability
// c(h)/valid, and the player then draws from the n-1 cards left. Mixing over
// whether h is d gives
//
//	P(d) = q*(c-1)/(n-1) + (1-q)*c/(n-1),  q = c(d)/valid, or 0 if d is the natural card.
func (s *Solver) drawOdds(shoe *blackjack.Shoe, up blackjack.Denomination, checked bool, d blackjack.Denomination) float64 {
	n := float64(shoe.Len())
	c := float64(shoe.CountDenomination(d))
	if shoe.IsInfinite() || !checked || !s.rules.DealerPeeks(up) {
		return c / n
	}
	hole, _ := blackjack.BlackjackHoleCard(up)
	valid := n - float64(shoe.CountDenomination(hole))
	if n <= 1 || valid <= 0 {
		return c / n
	}
	q := 0.0
	if d != hole {
		q = c / valid
	}
	return q*(c-1)/(n-1) + (1-q)*c/(n-1)
}
