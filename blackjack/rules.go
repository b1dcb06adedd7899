package blackjack

import (
	"errors"
	"fmt"
)

// ErrInvalidRules is wrapped by every Rules validation failure.
var ErrInvalidRules = errors.New("invalid rules")

// Rules describes a table's rule variant. The predicates are pure functions of
// the rules and the hand they are asked about.
type Rules struct {
	// Decks is the number of decks in a fresh shoe. Zero selects an infinite
	// shoe.
	Decks int

	// HitSoft17 makes the dealer draw on soft 17 (H17). Otherwise the dealer
	// stands on every 17 (S17).
	HitSoft17 bool

	// Surrender allows late surrender of the first two cards.
	Surrender bool

	// SplitLimit is the number of splits allowed in one round. Zero disables
	// splitting.
	SplitLimit int

	// DoubleAfterSplit allows doubling a hand that came from a split (DAS).
	DoubleAfterSplit bool

	// MaxDoubles is the number of times one hand may double. Zero disables
	// doubling; values above one allow re-doubling after the doubled card.
	MaxDoubles int

	// ResplitAces allows splitting aces again after an ace split.
	ResplitAces bool

	// DrawOnSplitAces allows hitting a hand created by splitting aces.
	DrawOnSplitAces bool

	// DealerBlackjackAfterHand resolves the dealer's hole card only after the
	// player has acted (no peek). A dealer natural is then scored like any
	// other dealer 21.
	DealerBlackjackAfterHand bool

	// BlackjackPayout is the multiple paid on a player natural, 1.5 for 3:2.
	BlackjackPayout float64
}

// Option mutates a Rules value under construction.
type Option func(*Rules)

// DefaultRules returns the plain variant: infinite shoe, dealer stands on soft
// 17, no doubling, no splitting, no surrender, naturals pay 3:2.
func DefaultRules() Rules {
	return Rules{BlackjackPayout: 1.5}
}

// NewRules applies opts on top of DefaultRules.
func NewRules(opts ...Option) Rules {
	r := DefaultRules()
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithDecks sets the number of decks; zero means an infinite shoe.
func WithDecks(n int) Option {
	return func(r *Rules) { r.Decks = n }
}

// WithHitSoft17 makes the dealer hit soft 17.
func WithHitSoft17() Option {
	return func(r *Rules) { r.HitSoft17 = true }
}

// WithSurrender enables late surrender.
func WithSurrender() Option {
	return func(r *Rules) { r.Surrender = true }
}

// WithSplitLimit sets how many splits a round may contain.
func WithSplitLimit(n int) Option {
	return func(r *Rules) { r.SplitLimit = n }
}

// WithDoubleAfterSplit enables DAS.
func WithDoubleAfterSplit() Option {
	return func(r *Rules) { r.DoubleAfterSplit = true }
}

// WithMaxDoubles sets how many times one hand may double.
func WithMaxDoubles(n int) Option {
	return func(r *Rules) { r.MaxDoubles = n }
}

// WithResplitAces lets split aces be split again and doubled.
func WithResplitAces() Option {
	return func(r *Rules) { r.ResplitAces = true }
}

// WithDrawOnSplitAces lets split aces hit and double like any other hand.
func WithDrawOnSplitAces() Option {
	return func(r *Rules) { r.DrawOnSplitAces = true }
}

// WithDealerBlackjackAfterHand turns off the dealer peek.
func WithDealerBlackjackAfterHand() Option {
	return func(r *Rules) { r.DealerBlackjackAfterHand = true }
}

// WithBlackjackPayout sets the multiple paid on a natural.
func WithBlackjackPayout(p float64) Option {
	return func(r *Rules) { r.BlackjackPayout = p }
}

// Validate ensures the rules describe a playable game.
func (r Rules) Validate() error {
	if r.Decks < 0 {
		return fmt.Errorf("%w: decks cannot be negative", ErrInvalidRules)
	}
	if r.SplitLimit < 0 {
		return fmt.Errorf("%w: split limit cannot be negative", ErrInvalidRules)
	}
	if r.MaxDoubles < 0 {
		return fmt.Errorf("%w: max doubles cannot be negative", ErrInvalidRules)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("%w: blackjack payout must be > 0", ErrInvalidRules)
	}
	if r.ResplitAces && r.SplitLimit < 2 {
		return fmt.Errorf("%w: resplitting aces needs a split limit of at least 2", ErrInvalidRules)
	}
	return nil
}

// NewShoe returns a fresh shoe for the configured number of decks.
func (r Rules) NewShoe() *Shoe {
	if r.Decks == 0 {
		return NewInfiniteShoe()
	}
	return NewShoe(r.Decks)
}

// CanTakeAction reports whether the hand may take the action.
func (r Rules) CanTakeAction(h *Hand, a Action) bool {
	switch a {
	case Stand:
		return r.CanStand(h)
	case Hit:
		return r.CanHit(h)
	case Double:
		return r.CanDouble(h)
	case Split:
		return r.CanSplit(h)
	case Surrender:
		return r.CanSurrender(h)
	default:
		panic(fmt.Sprintf("blackjack: unknown action %d", a))
	}
}

// CanHit reports whether the hand may draw another card. Doubled hands and,
// unless drawing is allowed, split aces are finished.
func (r Rules) CanHit(h *Hand) bool {
	if h.DoubleCount() > 0 {
		return false
	}
	if h.Len() >= 2 && h.IsSplitAces() && !r.DrawOnSplitAces {
		return false
	}
	return h.Score() < 21
}

// CanStand reports whether the hand may stand. A hand needs two cards first.
func (r Rules) CanStand(h *Hand) bool {
	return h.Len() > 1
}

// CanDouble reports whether the hand may double. Doubling takes the first two
// cards of a hand, or a hand that already doubled while MaxDoubles allows
// another.
func (r Rules) CanDouble(h *Hand) bool {
	if r.MaxDoubles == 0 || h.DoubleCount() >= r.MaxDoubles {
		return false
	}
	if h.Score() > 21 {
		return false
	}
	if h.Len() != 2 && h.DoubleCount() == 0 {
		return false
	}
	if h.IsSplit() {
		if !r.DoubleAfterSplit {
			return false
		}
		if h.IsSplitAces() && !r.ResplitAces && !r.DrawOnSplitAces {
			return false
		}
	}
	return true
}

// CanSplit reports whether the hand is a pair that may still be split.
func (r Rules) CanSplit(h *Hand) bool {
	if r.SplitLimit == 0 || !h.IsPair() || h.DoubleCount() > 0 {
		return false
	}
	if h.SplitsDone()+h.SplitsToSolve() >= r.SplitLimit {
		return false
	}
	if h.Cards()[0].Rank.IsAce() && h.IsSplit() && !r.ResplitAces {
		return false
	}
	return true
}

// CanSurrender reports whether the hand may give up half its bet.
func (r Rules) CanSurrender(h *Hand) bool {
	return r.Surrender && h.Len() == 2 && !h.IsSplit() && h.DoubleCount() == 0
}

// IsBlackjack reports whether the hand is a natural: 21 on two cards that did
// not come from a split.
func (r Rules) IsBlackjack(h *Hand) bool {
	return h.Len() == 2 && !h.IsSplit() && h.Score() == 21
}

// PayoutBlackjack returns the multiple paid on a player natural.
func (r Rules) PayoutBlackjack() float64 {
	return r.BlackjackPayout
}

// DealerHitsSoft reports whether the dealer draws on a soft hand of the score.
func (r Rules) DealerHitsSoft(score int) bool {
	return score < 17 || (score == 17 && r.HitSoft17)
}

// ShouldHitDealerHand reports whether the dealer draws to the hand.
func (r Rules) ShouldHitDealerHand(h *Hand) bool {
	if h.IsSoft() {
		return r.DealerHitsSoft(h.Score())
	}
	return h.Score() < 17
}

// DealerPeeks reports whether the dealer checks for a natural under the up
// card before the player acts.
func (r Rules) DealerPeeks(up Denomination) bool {
	_, ok := BlackjackHoleCard(up)
	return ok && !r.DealerBlackjackAfterHand
}

// BlackjackHoleCard returns the hole card denomination that would give the
// dealer a natural under the up card. Only aces and ten-valued cards have one.
func BlackjackHoleCard(up Denomination) (Denomination, bool) {
	switch up {
	case AceValue:
		return TenValue, true
	case TenValue:
		return AceValue, true
	default:
		return 0, false
	}
}

func (r Rules) String() string {
	decks := "inf"
	if r.Decks > 0 {
		decks = fmt.Sprintf("%dd", r.Decks)
	}
	dealer := "S17"
	if r.HitSoft17 {
		dealer = "H17"
	}
	return fmt.Sprintf("%s %s split=%d das=%t doubles=%d rsa=%t dsa=%t surrender=%t enhc=%t bj=%g",
		decks, dealer, r.SplitLimit, r.DoubleAfterSplit, r.MaxDoubles, r.ResplitAces,
		r.DrawOnSplitAces, r.Surrender, r.DealerBlackjackAfterHand, r.BlackjackPayout)
}
