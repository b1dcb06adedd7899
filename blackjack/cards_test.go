package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "suited",
			input: "Th5d6c",
			expected: []Card{
				{Rank: Ten, Suit: Hearts},
				{Rank: Five, Suit: Diamonds},
				{Rank: Six, Suit: Clubs},
			},
		},
		{
			name:  "suit defaults to spades",
			input: "T56",
			expected: []Card{
				{Rank: Ten, Suit: Spades},
				{Rank: Five, Suit: Spades},
				{Rank: Six, Suit: Spades},
			},
		},
		{
			name:  "separators and ten alias",
			input: "10h, 8 ,a",
			expected: []Card{
				{Rank: Ten, Suit: Hearts},
				{Rank: Eight, Suit: Spades},
				{Rank: Ace, Suit: Spades},
			},
		},
		{
			name:  "case insensitive",
			input: "aSkHqd",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
			},
		},
		{
			name:    "invalid rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("Qc")
	require.NoError(t, err)
	assert.Equal(t, NewCard(Queen, Clubs), c)

	_, err = ParseCard("QcKd")
	require.Error(t, err)

	_, err = ParseCard("")
	require.Error(t, err)
}

func TestParseRank(t *testing.T) {
	for _, r := range Ranks {
		got, err := ParseRank(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRank("10")
	require.NoError(t, err)
	assert.Equal(t, Ten, got)

	_, err = ParseRank("11")
	require.Error(t, err)
}

func TestDenominations(t *testing.T) {
	for _, r := range []Rank{Ten, Jack, Queen, King} {
		assert.Equal(t, TenValue, r.Denomination())
		assert.Equal(t, 10, r.Value())
	}
	assert.Equal(t, AceValue, Ace.Denomination())
	assert.Equal(t, 1, Ace.Value())
	assert.Equal(t, SevenValue, Seven.Denomination())

	total := 0
	for _, d := range Denominations {
		assert.Equal(t, d.Value(), d.Rank().Value())
		for _, r := range d.Ranks() {
			assert.Equal(t, d, r.Denomination())
			total++
		}
	}
	assert.Equal(t, NumRanks, total)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "Th", NewCard(Ten, Hearts).String())
	assert.Equal(t, "As", NewCard(Ace, Spades).String())
	assert.Equal(t, "T", TenValue.String())
	assert.Equal(t, "?", Rank(42).String())
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseCards("Zz") })
}
