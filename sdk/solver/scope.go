package solver

import "github.com/lox/bjev/blackjack"

// withDrawn moves one card of d from the shoe into h for the duration of fn.
// The card is back in the shoe when withDrawn returns, panics included.
func withDrawn(shoe *blackjack.Shoe, h *blackjack.Hand, d blackjack.Denomination, fn func()) {
	c := shoe.RemoveDenomination(d)
	h.AddCard(c)
	defer func() {
		h.RemoveCard(c)
		shoe.Insert(c)
	}()
	fn()
}

// withReturned puts cards back into the shoe for the duration of fn and takes
// them out again afterwards.
func withReturned(shoe *blackjack.Shoe, cards []blackjack.Card, fn func()) {
	for _, c := range cards {
		shoe.Insert(c)
	}
	defer func() {
		for _, c := range cards {
			if !shoe.RemoveCard(c) {
				violate("return cards", "%s vanished from shoe %s", c, shoe)
			}
		}
	}()
	fn()
}

// withSplit splits the pair in h for the duration of fn.
func withSplit(h *blackjack.Hand, fn func()) {
	h.Split()
	defer h.Unsplit()
	fn()
}
