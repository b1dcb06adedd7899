package solver

import (
	"context"
	"testing"

	"github.com/lox/bjev/blackjack"
)

// Each iteration uses a fresh solver so the caches start cold.
func BenchmarkSolveInfinite(b *testing.B) {
	rules := fullRules()
	up := blackjack.MustParseCards("6s")[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := New(rules, DefaultOptions())
		if _, err := s.Solve(blackjack.NewInfiniteShoe(), up); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkActionValueSingleDeckSplit(b *testing.B) {
	rules := fullRules()
	hand := blackjack.NewHand(blackjack.MustParseCards("8h8d")...)
	up := blackjack.MustParseCards("6s")[0]
	shoe := blackjack.NewShoe(1)
	for _, c := range blackjack.MustParseCards("8h8d6s") {
		shoe.RemoveCard(c)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := New(rules, DefaultOptions())
		if _, _, err := s.ActionValue(shoe, hand, up, blackjack.Split); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTotalExpectedValueParallel(b *testing.B) {
	opts := DefaultOptions()
	opts.Workers = 4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := New(fullRules(), opts)
		if _, err := s.TotalExpectedValue(context.Background(), blackjack.NewInfiniteShoe()); err != nil {
			b.Fatal(err)
		}
	}
}
