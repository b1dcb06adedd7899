package blackjack

import "strings"

// Hand is a mutable blackjack hand. Besides the cards it tracks the running
// score (aces as one), the number of aces, how many times the hand was doubled
// and its split lineage: splits already resolved ahead of it and the sibling
// cards still waiting to be played.
//
// The solver mutates one Hand in place while walking the game tree; every
// AddCard is undone by a RemoveCard before the caller sees the hand again.
type Hand struct {
	cards        []Card
	runningScore int
	aceCount     int
	doubleCount  int
	splitsDone   int
	pending      []Card
}

// NewHand creates a hand holding the given cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{cards: make([]Card, 0, max(len(cards), 4))}
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// Cards returns the cards in dealing order. The slice must not be modified.
func (h *Hand) Cards() []Card {
	return h.cards
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(c Card) {
	h.cards = append(h.cards, c)
	h.runningScore += c.Value()
	if c.Rank.IsAce() {
		h.aceCount++
	}
}

// RemoveCard removes the most recently added copy of exactly this card.
// Removing a card that is not in the hand panics: it means an add/remove pair
// was broken somewhere.
func (h *Hand) RemoveCard(c Card) {
	for i := len(h.cards) - 1; i >= 0; i-- {
		if h.cards[i] != c {
			continue
		}
		h.cards = append(h.cards[:i], h.cards[i+1:]...)
		h.runningScore -= c.Value()
		if c.Rank.IsAce() {
			h.aceCount--
		}
		return
	}
	violate("remove card", "card %s not in hand %s", c, h)
}

// Score returns the best score of the hand, counting one ace as eleven when
// that does not bust.
func (h *Hand) Score() int {
	if h.IsSoft() {
		return h.runningScore + 10
	}
	return h.runningScore
}

// IsSoft reports whether an ace is currently counted as eleven.
func (h *Hand) IsSoft() bool {
	return h.aceCount > 0 && h.runningScore+10 <= 21
}

// IsBusted reports whether the hand is over 21.
func (h *Hand) IsBusted() bool {
	return h.Score() > 21
}

// DoubleCount returns how many times the hand has been doubled.
func (h *Hand) DoubleCount() int {
	return h.doubleCount
}

// Double records a double on the hand.
func (h *Hand) Double() {
	h.doubleCount++
}

// SplitsDone returns the number of split siblings resolved before this hand.
func (h *Hand) SplitsDone() int {
	return h.splitsDone
}

// SplitsToSolve returns the number of sibling hands still waiting to be played.
func (h *Hand) SplitsToSolve() int {
	return len(h.pending)
}

// PendingSplits returns the sibling cards waiting to be played, last one next.
func (h *Hand) PendingSplits() []Card {
	return h.pending
}

// IsSplit reports whether the hand is part of a split.
func (h *Hand) IsSplit() bool {
	return h.splitsDone+len(h.pending) > 0
}

// IsSplitAces reports whether the hand was created by splitting aces.
func (h *Hand) IsSplitAces() bool {
	return h.IsSplit() && len(h.cards) > 0 && h.cards[0].Rank.IsAce()
}

// IsPair reports whether the hand is two cards of the same denomination.
func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank.Denomination() == h.cards[1].Rank.Denomination()
}

// Split moves the second card of a pair onto the pending sibling stack.
func (h *Hand) Split() {
	if !h.IsPair() {
		violate("split", "%s is not a pair", h)
	}
	c := h.cards[1]
	h.RemoveCard(c)
	h.pending = append(h.pending, c)
}

// Unsplit reverses the most recent Split.
func (h *Hand) Unsplit() {
	if len(h.pending) == 0 {
		violate("unsplit", "%s has no pending siblings", h)
	}
	last := len(h.pending) - 1
	c := h.pending[last]
	h.pending = h.pending[:last]
	if last == 0 {
		h.pending = nil
	}
	h.AddCard(c)
}

// NextSplitHand derives the hand for the next pending sibling: it holds the
// sibling card alone, inherits the remaining siblings and counts one more
// resolved split. The receiver is left untouched.
func (h *Hand) NextSplitHand() *Hand {
	if len(h.pending) == 0 {
		violate("next split hand", "%s has no pending siblings", h)
	}
	last := len(h.pending) - 1
	next := NewHand(h.pending[last])
	next.splitsDone = h.splitsDone + 1
	if last > 0 {
		next.pending = append(make([]Card, 0, last), h.pending[:last]...)
	}
	return next
}

// WithoutSplitInformation clones the hand dropping its split lineage. The
// double count is kept.
func (h *Hand) WithoutSplitInformation() *Hand {
	c := NewHand(h.cards...)
	c.doubleCount = h.doubleCount
	return c
}

// Clone returns a deep copy of the hand.
func (h *Hand) Clone() *Hand {
	c := h.WithoutSplitInformation()
	c.splitsDone = h.splitsDone
	if len(h.pending) > 0 {
		c.pending = append([]Card(nil), h.pending...)
	}
	return c
}

func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
