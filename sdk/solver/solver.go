// Package solver computes exact blackjack expected values by walking the whole
// game tree: every player action, every card the shoe can deal and every way
// the dealer can finish, weighted by probability. Strategically equivalent
// positions are collapsed through canonical keys and memoized, which keeps the
// otherwise exponential tree tractable.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/internal/hasher"
	"github.com/lox/bjev/internal/memo"
)

// Solver evaluates positions under one rule set. It owns its caches, which
// are only valid for those rules; use a new Solver per rule set.
//
// A Solver mutates the shoe and hands it is given while it works and restores
// them before returning. It is not safe for concurrent use.
type Solver struct {
	rules  blackjack.Rules
	opts   Options
	log    zerolog.Logger
	hasher *hasher.Hasher
	player *memo.Counting
	dealer *memo.Counting

	stats       Stats
	workerStats Stats
}

// ActionEV is the value of forcing one action.
type ActionEV struct {
	Action blackjack.Action
	EV     float64
	Legal  bool
}

// New returns a solver for the rules.
func New(rules blackjack.Rules, opts Options) (*Solver, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("solver options: %w", err)
	}
	s := &Solver{
		rules:  rules,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "solver").Logger(),
	}
	s.Reset()
	return s, nil
}

// Rules returns the rule set the solver was built for.
func (s *Solver) Rules() blackjack.Rules {
	return s.rules
}

// Reset discards every cached value and counter.
func (s *Solver) Reset() {
	if s.opts.DisableCache {
		s.player = memo.NewCounting(memo.Nop{})
		s.dealer = memo.NewCounting(memo.Nop{})
	} else {
		s.player = memo.NewCounting(memo.NewMemory())
		s.dealer = memo.NewCounting(memo.NewMemory())
	}
	s.hasher = hasher.New(s.rules)
	s.stats = Stats{}
	s.workerStats = Stats{}
}

// Stats reports the work done so far, including parallel workers.
func (s *Solver) Stats() Stats {
	st := s.stats
	st.Player = s.player.Counters()
	st.Dealer = s.dealer.Counters()
	st.PlayerEntries = s.player.Len()
	st.DealerEntries = s.dealer.Len()
	st.WideKeys = s.hasher.WideKeys()
	st.add(s.workerStats)
	return st
}

// Solve returns the value of playing a fresh hand optimally against the up
// card. The up card must already be out of the shoe. The dealer natural is
// still unresolved, so the value includes losing to it.
func (s *Solver) Solve(shoe *blackjack.Shoe, up blackjack.Card) (float64, error) {
	defer s.timed()()
	return s.solve(shoe, up.Rank.Denomination())
}

func (s *Solver) solve(shoe *blackjack.Shoe, up blackjack.Denomination) (ev float64, err error) {
	defer recoverInvariant(&err)
	return s.bestValue(blackjack.NewHand(), shoe, up, false), nil
}

// BestValue returns the value of the best legal action for the hand. The hand
// and up card must already be out of the shoe, and the dealer is taken to have
// checked for a natural.
func (s *Solver) BestValue(shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card) (ev float64, err error) {
	defer recoverInvariant(&err)
	defer s.timed()()
	ev = s.bestValue(hand.Clone(), shoe, up.Rank.Denomination(), true)
	return ev, nil
}

// ActionValue returns the value of forcing the action on the hand, and false
// if the action is not legal for it. Shoe and dealer assumptions are those of
// BestValue.
func (s *Solver) ActionValue(shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card, action blackjack.Action) (ev float64, ok bool, err error) {
	defer recoverInvariant(&err)
	defer s.timed()()
	ev, ok = s.actionValue(hand.Clone(), shoe, up.Rank.Denomination(), action, true)
	return ev, ok, nil
}

// ActionValues evaluates every action in enumeration order.
func (s *Solver) ActionValues(shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card) (evs []ActionEV, err error) {
	defer recoverInvariant(&err)
	defer s.timed()()
	h := hand.Clone()
	d := up.Rank.Denomination()
	evs = make([]ActionEV, 0, blackjack.NumActions)
	for _, a := range blackjack.Actions {
		ev, ok := s.actionValue(h, shoe, d, a, true)
		evs = append(evs, ActionEV{Action: a, EV: ev, Legal: ok})
	}
	return evs, nil
}

// BestAction returns the legal action with the highest value. Ties go to the
// action that comes first in enumeration order.
func (s *Solver) BestAction(shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card) (blackjack.Action, float64, error) {
	evs, err := s.ActionValues(shoe, hand, up)
	if err != nil {
		return 0, 0, err
	}
	best := -1
	for i, e := range evs {
		if e.Legal && (best < 0 || e.EV > evs[best].EV) {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, fmt.Errorf("%w: no legal action for %s", ErrInvariant, hand)
	}
	return evs[best].Action, evs[best].EV, nil
}

// UpCardEV is the value of a fresh hand against one up card, with the chance
// of that up card being dealt.
type UpCardEV struct {
	Up          blackjack.Denomination
	Probability float64
	EV          float64
}

// TotalExpectedValue returns the value of a fresh hand averaged over every up
// card the shoe can deal, weighted by its probability. The shoe is left as it
// was found.
func (s *Solver) TotalExpectedValue(ctx context.Context, shoe *blackjack.Shoe) (float64, error) {
	defer s.timed()()

	ups, err := s.upCardValues(ctx, shoe)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, u := range ups {
		total += u.Probability * u.EV
	}

	st := s.Stats()
	s.log.Info().
		Str("rules", s.rules.String()).
		Str("shoe", shoe.String()).
		Float64("ev", total).
		Int("player_entries", st.PlayerEntries).
		Int("dealer_entries", st.DealerEntries).
		Msg("Total expected value")
	return total, nil
}

// UpCardValues solves a fresh hand against every up card the shoe can deal,
// in denomination order.
func (s *Solver) UpCardValues(ctx context.Context, shoe *blackjack.Shoe) ([]UpCardEV, error) {
	defer s.timed()()
	return s.upCardValues(ctx, shoe)
}

func (s *Solver) upCardValues(ctx context.Context, shoe *blackjack.Shoe) ([]UpCardEV, error) {
	n := shoe.Len()
	if n == 0 {
		return nil, errors.New("up card values: empty shoe")
	}

	var evs [blackjack.NumDenominations]float64
	if s.opts.Workers > 1 {
		if err := s.solveUpCardsParallel(ctx, shoe, &evs); err != nil {
			return nil, err
		}
	} else {
		for _, d := range blackjack.Denominations {
			if shoe.CountDenomination(d) == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ev, err := s.solveUpCard(shoe, d)
			if err != nil {
				return nil, err
			}
			evs[d] = ev
		}
	}

	ups := make([]UpCardEV, 0, blackjack.NumDenominations)
	for _, d := range blackjack.Denominations {
		c := shoe.CountDenomination(d)
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		s.log.Debug().
			Str("up", d.String()).
			Float64("probability", p).
			Float64("ev", evs[d]).
			Msg("Solved up card")
		ups = append(ups, UpCardEV{Up: d, Probability: p, EV: evs[d]})
	}
	return ups, nil
}

// solveUpCard deals the up card out of the shoe, solves and puts it back.
func (s *Solver) solveUpCard(shoe *blackjack.Shoe, d blackjack.Denomination) (float64, error) {
	up := shoe.RemoveDenomination(d)
	defer shoe.Insert(up)
	return s.solve(shoe, d)
}

func (s *Solver) solveUpCardsParallel(ctx context.Context, shoe *blackjack.Shoe, evs *[blackjack.NumDenominations]float64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	opts := s.opts
	opts.Workers = 1
	var workers [blackjack.NumDenominations]*Solver

	for _, d := range blackjack.Denominations {
		if shoe.CountDenomination(d) == 0 {
			continue
		}
		worker, err := New(s.rules, opts)
		if err != nil {
			return err
		}
		workers[d] = worker
		local := shoe.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev, err := worker.solveUpCard(local, d)
			if err != nil {
				return fmt.Errorf("up card %s: %w", d, err)
			}
			evs[d] = ev
			return nil
		})
	}

	err := g.Wait()
	for _, w := range workers {
		if w != nil {
			s.workerStats.add(w.Stats())
		}
	}
	return err
}

// timed returns a func that adds the time since the call to Stats.Duration.
func (s *Solver) timed() func() {
	start := s.opts.Clock.Now()
	return func() {
		s.stats.Duration += s.opts.Clock.Since(start)
	}
}

// Solve builds a solver with default options and solves one up card.
func Solve(rules blackjack.Rules, shoe *blackjack.Shoe, up blackjack.Card) (float64, error) {
	s, err := New(rules, DefaultOptions())
	if err != nil {
		return 0, err
	}
	return s.Solve(shoe, up)
}

// TotalExpectedValue builds a solver with default options and averages over
// every up card.
func TotalExpectedValue(ctx context.Context, rules blackjack.Rules, shoe *blackjack.Shoe) (float64, error) {
	s, err := New(rules, DefaultOptions())
	if err != nil {
		return 0, err
	}
	return s.TotalExpectedValue(ctx, shoe)
}

// ActionValue builds a solver with default options and forces one action.
func ActionValue(rules blackjack.Rules, shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card, action blackjack.Action) (float64, bool, error) {
	s, err := New(rules, DefaultOptions())
	if err != nil {
		return 0, false, err
	}
	return s.ActionValue(shoe, hand, up, action)
}
