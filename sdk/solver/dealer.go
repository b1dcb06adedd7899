package solver

import "github.com/lox/bjev/blackjack"

// dealerValue returns the player's value for standing on playerScore while the
// dealer plays out dealer from the shoe.
//
// While the dealer only holds the up card and peeks, the hole card cannot
// complete a natural: that case was settled before the player acted, so it is
// left out and the remaining cards are renormalised.
func (s *Solver) dealerValue(playerScore int, dealer *blackjack.Hand, shoe *blackjack.Shoe) float64 {
	s.stats.DealerNodes++
	if playerScore > 21 {
		violate("dealer", "busted player score %d reached the dealer", playerScore)
	}

	key := s.hasher.DealerKey(dealer, playerScore, shoe)
	if v, ok := s.dealer.Get(key); ok {
		return v
	}

	var v float64
	if !s.rules.ShouldHitDealerHand(dealer) {
		v = settle(playerScore, dealer.Score())
	} else {
		n := shoe.Len()
		var (
			hole    blackjack.Denomination
			exclude bool
		)
		if up := dealer.Cards()[0].Rank.Denomination(); dealer.Len() == 1 && s.rules.DealerPeeks(up) {
			hole, _ = blackjack.BlackjackHoleCard(up)
			exclude = true
		}
		valid := n
		if exclude {
			valid -= shoe.CountDenomination(hole)
		}
		for _, d := range blackjack.Denominations {
			c := shoe.CountDenomination(d)
			if c == 0 || (exclude && d == hole) {
				continue
			}
			p := float64(c) / float64(valid)
			withDrawn(shoe, dealer, d, func() {
				v += p * s.dealerValue(playerScore, dealer, shoe)
			})
		}
	}

	s.dealer.Put(key, v)
	return v
}

// settle compares a standing player score against the dealer's final score.
func settle(player, dealer int) float64 {
	switch {
	case dealer > 21:
		return 1
	case dealer > player:
		return -1
	case dealer < player:
		return 1
	default:
		return 0
	}
}
