package blackjack

import (
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/bjev/internal/randutil"
)

// Shoe is the multiset of undealt cards.
//
// A finite shoe tracks counts per rank and suit together with its initial
// composition, so cards can only be put back if they came out of it. An
// infinite shoe keeps single-deck proportions no matter what is removed:
// removal and insertion never change its counts.
type Shoe struct {
	counts   [NumRanks][NumSuits]int
	initial  [NumRanks][NumSuits]int
	ranks    [NumRanks]int
	denoms   [NumDenominations]int
	start    [NumDenominations]int
	total    int
	infinite bool

	// infinite shoes hand out suits in rotation and only count what is out
	nextSuit [NumRanks]uint8
	out      [NumRanks]int
}

// NewShoe creates a finite shoe of the given number of standard decks.
func NewShoe(decks int) *Shoe {
	s := &Shoe{}
	if decks <= 0 {
		return s
	}
	for _, r := range Ranks {
		for _, suit := range Suits {
			s.initial[r][suit] = decks
		}
	}
	s.reset()
	return s
}

// NewShoeFromCards creates a finite shoe holding exactly the given cards.
func NewShoeFromCards(cards []Card) *Shoe {
	s := &Shoe{}
	for _, c := range cards {
		s.initial[c.Rank][c.Suit]++
	}
	s.reset()
	return s
}

// NewInfiniteShoe creates a shoe that always deals with single-deck odds.
func NewInfiniteShoe() *Shoe {
	s := &Shoe{infinite: true}
	for _, r := range Ranks {
		for _, suit := range Suits {
			s.initial[r][suit] = 1
		}
	}
	s.reset()
	return s
}

func (s *Shoe) reset() {
	s.counts = s.initial
	s.ranks = [NumRanks]int{}
	s.denoms = [NumDenominations]int{}
	s.start = [NumDenominations]int{}
	s.total = 0
	for _, r := range Ranks {
		for _, suit := range Suits {
			n := s.initial[r][suit]
			s.ranks[r] += n
			s.denoms[r.Denomination()] += n
			s.start[r.Denomination()] += n
			s.total += n
		}
	}
}

// IsInfinite reports whether removals leave the odds unchanged.
func (s *Shoe) IsInfinite() bool {
	return s.infinite
}

// Len returns the number of cards remaining.
func (s *Shoe) Len() int {
	return s.total
}

// Count returns the number of cards of the given rank remaining.
func (s *Shoe) Count(r Rank) int {
	return s.ranks[r]
}

// CountDenomination returns the number of cards in the given point class.
func (s *Shoe) CountDenomination(d Denomination) int {
	return s.denoms[d]
}

// InitialLen returns the size of the shoe before any card was removed, or zero
// for an infinite shoe.
func (s *Shoe) InitialLen() int {
	if s.infinite {
		return 0
	}
	n := 0
	for _, r := range Ranks {
		for _, suit := range Suits {
			n += s.initial[r][suit]
		}
	}
	return n
}

// InitialDenomination returns how many cards of the point class the shoe
// started with, or zero for an infinite shoe.
func (s *Shoe) InitialDenomination(d Denomination) int {
	if s.infinite {
		return 0
	}
	return s.start[d]
}

// Dealt returns how many cards of the rank are currently out of the shoe.
func (s *Shoe) Dealt(r Rank) int {
	if s.infinite {
		return s.out[r]
	}
	n := 0
	for _, suit := range Suits {
		n += s.initial[r][suit]
	}
	return n - s.ranks[r]
}

// Remove takes one card of the given rank out of the shoe. It returns false
// when no card of that rank is left.
func (s *Shoe) Remove(r Rank) (Card, bool) {
	if s.ranks[r] == 0 {
		return Card{}, false
	}
	if s.infinite {
		suit := Suit(s.nextSuit[r])
		s.nextSuit[r] = (s.nextSuit[r] + 1) % NumSuits
		s.out[r]++
		return NewCard(r, suit), true
	}
	for _, suit := range Suits {
		if s.counts[r][suit] > 0 {
			s.take(r, suit)
			return NewCard(r, suit), true
		}
	}
	return Card{}, false
}

// RemoveDenomination takes one card of the point class out of the shoe.
// Removing from an exhausted class panics.
func (s *Shoe) RemoveDenomination(d Denomination) Card {
	for _, r := range d.Ranks() {
		if c, ok := s.Remove(r); ok {
			return c
		}
	}
	violate("remove", "no %s left in shoe %s", d, s)
	return Card{}
}

// RemoveCard takes a specific card out of the shoe.
func (s *Shoe) RemoveCard(c Card) bool {
	if s.infinite {
		s.out[c.Rank]++
		return true
	}
	if s.counts[c.Rank][c.Suit] == 0 {
		return false
	}
	s.take(c.Rank, c.Suit)
	return true
}

func (s *Shoe) take(r Rank, suit Suit) {
	s.counts[r][suit]--
	s.ranks[r]--
	s.denoms[r.Denomination()]--
	s.total--
}

// Insert puts a card back into the shoe. Inserting more copies of a card than
// a finite shoe started with panics.
func (s *Shoe) Insert(c Card) {
	if s.infinite {
		if s.out[c.Rank] > 0 {
			s.out[c.Rank]--
		}
		return
	}
	if s.counts[c.Rank][c.Suit] >= s.initial[c.Rank][c.Suit] {
		violate("insert", "%s exceeds the initial composition of shoe %s", c, s)
	}
	s.counts[c.Rank][c.Suit]++
	s.ranks[c.Rank]++
	s.denoms[c.Rank.Denomination()]++
	s.total++
}

// Pop removes a card chosen at random, weighted by the remaining counts.
func (s *Shoe) Pop(rng *rand.Rand) (Card, bool) {
	if s.total == 0 {
		return Card{}, false
	}
	r := Rank(randutil.Weighted(rng, s.ranks[:]))
	if s.infinite {
		return s.Remove(r)
	}
	suit := Suit(randutil.Weighted(rng, s.counts[r][:]))
	s.take(r, suit)
	return NewCard(r, suit), true
}

// Burn removes n random cards and returns them. It stops early if the shoe
// runs out.
func (s *Shoe) Burn(rng *rand.Rand, n int) []Card {
	burned := make([]Card, 0, n)
	for range n {
		c, ok := s.Pop(rng)
		if !ok {
			break
		}
		burned = append(burned, c)
	}
	return burned
}

// BlackjackOdds returns the probability that the first two cards dealt from
// the shoe form a natural: an ace and a ten-valued card in either order.
func (s *Shoe) BlackjackOdds() float64 {
	n := s.total
	if n < 2 {
		return 0
	}
	aces := float64(s.denoms[AceValue])
	tens := float64(s.denoms[TenValue])
	if s.infinite {
		return 2 * (aces / float64(n)) * (tens / float64(n))
	}
	return 2 * (aces / float64(n)) * (tens / float64(n-1))
}

// Clone returns an independent copy of the shoe.
func (s *Shoe) Clone() *Shoe {
	c := *s
	return &c
}

// String lists remaining counts per point class, e.g. "{A:4 2:4 ... T:16}".
func (s *Shoe) String() string {
	var b strings.Builder
	b.WriteByte('{')
	if s.infinite {
		b.WriteString("inf ")
	}
	for i, d := range Denominations {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.denoms[d]))
	}
	b.WriteByte('}')
	return b.String()
}
