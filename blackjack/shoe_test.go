package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bjev/internal/randutil"
)

func TestNewShoe(t *testing.T) {
	s := NewShoe(2)
	assert.False(t, s.IsInfinite())
	assert.Equal(t, 104, s.Len())
	assert.Equal(t, 104, s.InitialLen())
	assert.Equal(t, 8, s.Count(Ace))
	assert.Equal(t, 8, s.Count(King))
	assert.Equal(t, 8, s.CountDenomination(SevenValue))
	assert.Equal(t, 32, s.CountDenomination(TenValue))
	assert.Equal(t, 32, s.InitialDenomination(TenValue))
}

func TestShoeRemoveInsert(t *testing.T) {
	s := NewShoe(1)

	c, ok := s.Remove(Queen)
	require.True(t, ok)
	assert.Equal(t, NewCard(Queen, Spades), c)
	assert.Equal(t, 51, s.Len())
	assert.Equal(t, 3, s.Count(Queen))
	assert.Equal(t, 15, s.CountDenomination(TenValue))
	assert.Equal(t, 1, s.Dealt(Queen))

	s.Insert(c)
	assert.Equal(t, NewShoe(1), s)
}

func TestShoeExhaustRank(t *testing.T) {
	s := NewShoe(1)
	for range 4 {
		_, ok := s.Remove(Seven)
		require.True(t, ok)
	}
	_, ok := s.Remove(Seven)
	assert.False(t, ok)
	assert.Equal(t, 0, s.CountDenomination(SevenValue))
	assert.Panics(t, func() { s.RemoveDenomination(SevenValue) })
}

func TestShoeRemoveDenominationWalksTenRanks(t *testing.T) {
	s := NewShoe(1)
	seen := map[Rank]int{}
	for range 16 {
		seen[s.RemoveDenomination(TenValue).Rank]++
	}
	assert.Equal(t, map[Rank]int{Ten: 4, Jack: 4, Queen: 4, King: 4}, seen)
	assert.Equal(t, 36, s.Len())
}

func TestShoeInsertBeyondInitialPanics(t *testing.T) {
	s := NewShoe(1)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*InvariantError)
		assert.True(t, ok)
	}()
	s.Insert(NewCard(Ace, Spades))
}

func TestShoeFromCards(t *testing.T) {
	s := NewShoeFromCards(MustParseCards("AsAhKd5c"))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2, s.Count(Ace))
	assert.Equal(t, 1, s.CountDenomination(TenValue))

	require.True(t, s.RemoveCard(NewCard(Five, Clubs)))
	assert.False(t, s.RemoveCard(NewCard(Five, Clubs)))
	assert.Panics(t, func() { s.Insert(NewCard(Five, Hearts)) })
}

func TestInfiniteShoe(t *testing.T) {
	s := NewInfiniteShoe()
	assert.True(t, s.IsInfinite())
	assert.Equal(t, 52, s.Len())
	assert.Equal(t, 0, s.InitialLen())
	assert.Equal(t, 0, s.InitialDenomination(AceValue))

	suits := make([]Suit, 0, 5)
	for range 5 {
		c, ok := s.Remove(Nine)
		require.True(t, ok)
		suits = append(suits, c.Suit)
	}
	assert.Equal(t, []Suit{Spades, Hearts, Diamonds, Clubs, Spades}, suits)
	assert.Equal(t, 52, s.Len())
	assert.Equal(t, 4, s.Count(Nine))
	assert.Equal(t, 5, s.Dealt(Nine))

	s.Insert(NewCard(Nine, Clubs))
	assert.Equal(t, 4, s.Dealt(Nine))
	assert.Equal(t, 16, s.CountDenomination(TenValue))
}

func TestShoeClone(t *testing.T) {
	s := NewShoe(1)
	c := s.Clone()
	c.RemoveDenomination(FiveValue)
	assert.Equal(t, 52, s.Len())
	assert.Equal(t, 51, c.Len())
}

func TestShoePopIsDeterministic(t *testing.T) {
	a := NewShoe(6)
	b := NewShoe(6)
	burnedA := a.Burn(randutil.New(99), 40)
	burnedB := b.Burn(randutil.New(99), 40)
	assert.Len(t, burnedA, 40)
	assert.Equal(t, burnedA, burnedB)
	assert.Equal(t, a, b)
	assert.Equal(t, 6*52-40, a.Len())

	for _, c := range burnedA {
		a.Insert(c)
	}
	assert.Equal(t, NewShoe(6), a)
}

func TestShoeBurnStopsWhenEmpty(t *testing.T) {
	s := NewShoeFromCards(MustParseCards("2s3s"))
	burned := s.Burn(randutil.New(1), 5)
	assert.Len(t, burned, 2)
	assert.Equal(t, 0, s.Len())
	_, ok := s.Pop(randutil.New(1))
	assert.False(t, ok)
}

func TestBlackjackOdds(t *testing.T) {
	assert.InDelta(t, 0.048265, NewShoe(1).BlackjackOdds(), 1e-6)

	six := NewShoe(6)
	assert.InDelta(t, 2*(24.0/312)*(96.0/311), six.BlackjackOdds(), 1e-12)

	assert.InDelta(t, 2*(4.0/52)*(16.0/52), NewInfiniteShoe().BlackjackOdds(), 1e-12)
	assert.Zero(t, NewShoeFromCards(MustParseCards("A")).BlackjackOdds())
}

// The closed form must agree with counting every ordered two-card deal.
func TestBlackjackOddsMatchesEnumeration(t *testing.T) {
	s := NewShoe(1)
	s.Burn(randutil.New(3), 11)

	naturals, deals := 0, 0
	for _, first := range Denominations {
		n1 := s.CountDenomination(first)
		if n1 == 0 {
			continue
		}
		for _, second := range Denominations {
			n2 := s.CountDenomination(second)
			if first == second {
				n2--
			}
			if n2 <= 0 {
				continue
			}
			deals += n1 * n2
			if (first == AceValue && second == TenValue) || (first == TenValue && second == AceValue) {
				naturals += n1 * n2
			}
		}
	}
	assert.Equal(t, s.Len()*(s.Len()-1), deals)
	assert.InDelta(t, float64(naturals)/float64(deals), s.BlackjackOdds(), 1e-12)
}

func TestShoeString(t *testing.T) {
	assert.Equal(t, "{A:4 2:4 3:4 4:4 5:4 6:4 7:4 8:4 9:4 T:16}", NewShoe(1).String())
	assert.Equal(t, "{inf A:4 2:4 3:4 4:4 5:4 6:4 7:4 8:4 9:4 T:16}", NewInfiniteShoe().String())
}
