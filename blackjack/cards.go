package blackjack

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// Suits lists every suit in index order.
var Suits = [NumSuits]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the single-letter suit code
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank. Aces come first so that a rank doubles as an
// index into per-rank count tables.
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumRanks is the number of ranks in a standard deck.
const NumRanks = 13

// Ranks lists every rank in index order.
var Ranks = [NumRanks]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankValues = [NumRanks]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10}

// String returns the single-character rank code
func (r Rank) String() string {
	if r >= NumRanks {
		return "?"
	}
	return string("A23456789TJQK"[r])
}

// Value is the blackjack score contribution with aces counted as one.
func (r Rank) Value() int {
	return rankValues[r]
}

// IsAce reports whether the rank is an ace.
func (r Rank) IsAce() bool {
	return r == Ace
}

// Denomination returns the point class the rank belongs to.
func (r Rank) Denomination() Denomination {
	if r >= Ten {
		return TenValue
	}
	return Denomination(r)
}

// Denomination groups ranks that are indistinguishable to blackjack scoring:
// ace, two through nine, and the four ten-valued ranks.
type Denomination uint8

const (
	AceValue Denomination = iota
	TwoValue
	ThreeValue
	FourValue
	FiveValue
	SixValue
	SevenValue
	EightValue
	NineValue
	TenValue
)

// NumDenominations is the number of distinct point classes.
const NumDenominations = 10

// Denominations lists every point class in the fixed enumeration order used by
// the solver.
var Denominations = [NumDenominations]Denomination{
	AceValue, TwoValue, ThreeValue, FourValue, FiveValue,
	SixValue, SevenValue, EightValue, NineValue, TenValue,
}

var tenRanks = []Rank{Ten, Jack, Queen, King}

// Ranks returns the ranks making up the denomination.
func (d Denomination) Ranks() []Rank {
	if d == TenValue {
		return tenRanks
	}
	return []Rank{Rank(d)}
}

// Value is the base score of the denomination (ace counted as one).
func (d Denomination) Value() int {
	return int(d) + 1
}

// Rank returns the representative rank of the denomination.
func (d Denomination) Rank() Rank {
	return Rank(d)
}

func (d Denomination) String() string {
	return d.Rank().String()
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character representation of a card (e.g. "Th")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Value returns the blackjack base value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// ParseRank parses a rank code. "10" is accepted as an alias for "T".
func ParseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return parseRank(s[0])
}

func parseRank(c byte) (Rank, error) {
	switch c {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	case '9':
		return Nine, nil
	case '8':
		return Eight, nil
	case '7':
		return Seven, nil
	case '6':
		return Six, nil
	case '5':
		return Five, nil
	case '4':
		return Four, nil
	case '3':
		return Three, nil
	case '2':
		return Two, nil
	default:
		return 0, fmt.Errorf("invalid rank '%c'", c)
	}
}

func parseSuit(c byte) (Suit, bool) {
	switch c {
	case 's', 'S':
		return Spades, true
	case 'h', 'H':
		return Hearts, true
	case 'd', 'D':
		return Diamonds, true
	case 'c', 'C':
		return Clubs, true
	default:
		return 0, false
	}
}

// ParseCard parses a single card such as "Th", "10d" or "7". A missing suit
// defaults to spades.
func ParseCard(s string) (Card, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return Card{}, err
	}
	if len(cards) != 1 {
		return Card{}, fmt.Errorf("expected exactly one card in %q, got %d", s, len(cards))
	}
	return cards[0], nil
}

// ParseCards parses a run of cards. Each card is a rank ("A23456789TJQK" or
// "10") optionally followed by a suit ("shdc"). Spaces and commas are ignored,
// so "Th 5d 6c", "T,5,6" and "T56" are all accepted.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "", "\t", "").Replace(s)
	cards := make([]Card, 0, len(s))
	for i := 0; i < len(s); {
		var (
			rank Rank
			err  error
		)
		if strings.HasPrefix(s[i:], "10") {
			rank = Ten
			i += 2
		} else {
			rank, err = parseRank(s[i])
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", i, err)
			}
			i++
		}
		suit := Spades
		if i < len(s) {
			if parsed, ok := parseSuit(s[i]); ok {
				suit = parsed
				i++
			}
		}
		cards = append(cards, NewCard(rank, suit))
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}
