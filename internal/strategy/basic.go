package strategy

import (
	"github.com/lox/fairjack/internal/blackjack"
)

// play is a chart entry; composite entries fall back when the first choice is
// not available.
type play int

const (
	hit play = iota
	stand
	doubleOrHit
	doubleOrStand
	split
	surrenderOrHit
)

// Basic is the multi-deck basic strategy for a dealer standing on soft 17
// with double after split. Insurance is never taken.
type Basic struct{}

func (Basic) Name() string { return "basic" }

// Decide looks up the chart for the current hand against the dealer up-card
func (Basic) Decide(snap blackjack.Snapshot) blackjack.Action {
	hand, ok := snap.CurrentHand()
	if !ok {
		return blackjack.Stand
	}
	upCard, ok := snap.DealerUpCard()
	if !ok {
		return blackjack.Stand
	}
	up := upCard.Value()

	p := chart(hand, up, snap.Can(blackjack.Split))
	return resolve(p, snap)
}

func chart(hand blackjack.HandView, up int, canSplit bool) play {
	if canSplit && len(hand.Cards) == 2 && hand.Cards[0].Rank == hand.Cards[1].Rank {
		if p, ok := pairPlay(hand.Cards[0].Value(), up); ok {
			return p
		}
	}
	if hand.Soft {
		return softPlay(hand.Value, up)
	}
	return hardPlay(hand.Value, up)
}

// pairPlay returns false when the pair is played as a hard total
func pairPlay(card, up int) (play, bool) {
	switch card {
	case 11, 8:
		return split, true
	case 10:
		return stand, true
	case 9:
		if up == 7 || up == 10 || up == 11 {
			return stand, true
		}
		return split, true
	case 7:
		return splitBelow(up, 7)
	case 6:
		return splitBelow(up, 6)
	case 4:
		if up == 5 || up == 6 {
			return split, true
		}
		return 0, false
	case 3, 2:
		return splitBelow(up, 7)
	default:
		return 0, false
	}
}

func splitBelow(up, limit int) (play, bool) {
	if up <= limit {
		return split, true
	}
	return 0, false
}

func softPlay(total, up int) play {
	switch {
	case total >= 19:
		return stand
	case total == 18:
		switch {
		case up >= 3 && up <= 6:
			return doubleOrStand
		case up == 2 || up == 7 || up == 8:
			return stand
		default:
			return hit
		}
	case total == 17:
		if up >= 3 && up <= 6 {
			return doubleOrHit
		}
		return hit
	case total == 15 || total == 16:
		if up >= 4 && up <= 6 {
			return doubleOrHit
		}
		return hit
	case total == 13 || total == 14:
		if up == 5 || up == 6 {
			return doubleOrHit
		}
		return hit
	default:
		return hit
	}
}

func hardPlay(total, up int) play {
	switch {
	case total >= 17:
		return stand
	case total == 16 && up >= 9:
		return surrenderOrHit
	case total == 15 && up == 10:
		return surrenderOrHit
	case total >= 13:
		if up <= 6 {
			return stand
		}
		return hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return stand
		}
		return hit
	case total == 11:
		if up <= 10 {
			return doubleOrHit
		}
		return hit
	case total == 10:
		if up <= 9 {
			return doubleOrHit
		}
		return hit
	case total == 9:
		if up >= 3 && up <= 6 {
			return doubleOrHit
		}
		return hit
	default:
		return hit
	}
}

// resolve maps a chart entry onto an available action
func resolve(p play, snap blackjack.Snapshot) blackjack.Action {
	var prefs []blackjack.Action
	switch p {
	case hit:
		prefs = []blackjack.Action{blackjack.Hit}
	case stand:
		prefs = []blackjack.Action{blackjack.Stand}
	case doubleOrHit:
		prefs = []blackjack.Action{blackjack.Double, blackjack.Hit}
	case doubleOrStand:
		prefs = []blackjack.Action{blackjack.Double, blackjack.Stand}
	case split:
		prefs = []blackjack.Action{blackjack.Split, blackjack.Hit}
	case surrenderOrHit:
		prefs = []blackjack.Action{blackjack.Surrender, blackjack.Hit}
	}
	for _, a := range prefs {
		if snap.Can(a) {
			return a
		}
	}
	return blackjack.Stand
}
