package solver

import (
	"time"

	"github.com/lox/bjev/internal/memo"
)

// Stats captures instrumentation for the work a Solver has done since it was
// created or last Reset.
type Stats struct {
	// BestNodes counts best-action evaluations, cache hits included.
	BestNodes uint64
	// ActionNodes counts legal action evaluations.
	ActionNodes uint64
	// DealerNodes counts dealer resolutions, cache hits included.
	DealerNodes uint64

	Player memo.Counters
	Dealer memo.Counters

	PlayerEntries int
	DealerEntries int

	// WideKeys counts memo keys that did not fit in 64 bits.
	WideKeys uint64

	Duration time.Duration
}

func (s *Stats) add(o Stats) {
	s.BestNodes += o.BestNodes
	s.ActionNodes += o.ActionNodes
	s.DealerNodes += o.DealerNodes
	s.Player.Hits += o.Player.Hits
	s.Player.Misses += o.Player.Misses
	s.Player.Stores += o.Player.Stores
	s.Dealer.Hits += o.Dealer.Hits
	s.Dealer.Misses += o.Dealer.Misses
	s.Dealer.Stores += o.Dealer.Stores
	s.PlayerEntries += o.PlayerEntries
	s.DealerEntries += o.DealerEntries
	s.WideKeys += o.WideKeys
}
