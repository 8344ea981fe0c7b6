package blackjack

// Player is the single seat at the table. It owns the bankroll, the hands of
// the current round in split order and the insurance side bet.
type Player struct {
	balance   Money
	hands     []*Hand
	current   int
	insurance Money
}

// NewPlayer creates a player with the given bankroll
func NewPlayer(balance Money) *Player {
	if balance < 0 {
		balance = 0
	}
	return &Player{balance: balance}
}

func (p *Player) Balance() Money    { return p.balance }
func (p *Player) Insurance() Money  { return p.insurance }
func (p *Player) CurrentIndex() int { return p.current }

// Hands returns the player's hands in split order
func (p *Player) Hands() []*Hand {
	out := make([]*Hand, len(p.hands))
	copy(out, p.hands)
	return out
}

// PlaceBet debits bet and opens the first hand of a round
func (p *Player) PlaceBet(bet Money) bool {
	if bet <= 0 || bet > p.balance || len(p.hands) > 0 {
		return false
	}
	p.balance -= bet
	p.hands = []*Hand{NewHand(bet)}
	p.current = 0
	return true
}

// PlaceInsurance debits an insurance side bet of at most half the current
// hand's wager. Insurance is taken at most once per round.
func (p *Player) PlaceInsurance(amount Money) bool {
	hand, ok := p.CurrentHand()
	if !ok || p.insurance > 0 {
		return false
	}
	if amount <= 0 || amount > hand.bet/2 || amount > p.balance {
		return false
	}
	p.balance -= amount
	p.insurance = amount
	return true
}

// SplitHand splits the current pair into two hands, the new one inserted
// directly after the current hand, and debits a matching wager.
func (p *Player) SplitHand() bool {
	hand, ok := p.CurrentHand()
	if !ok || !hand.CanSplit() || hand.bet > p.balance {
		return false
	}
	p.balance -= hand.bet

	first, second := hand.cards[0], hand.cards[1]
	hand.cards = hand.cards[:0]
	hand.split = true
	hand.AddCard(first)

	other := NewHand(hand.bet)
	other.split = true
	other.AddCard(second)

	p.hands = append(p.hands, nil)
	copy(p.hands[p.current+2:], p.hands[p.current+1:])
	p.hands[p.current+1] = other
	return true
}

// DoubleDown debits the current hand's bet again and marks it doubled
func (p *Player) DoubleDown() bool {
	hand, ok := p.CurrentHand()
	if !ok || !hand.CanDouble() || hand.bet > p.balance {
		return false
	}
	p.balance -= hand.bet
	hand.double()
	return true
}

// Surrender forfeits the current hand and credits back half its bet
func (p *Player) Surrender() bool {
	hand, ok := p.CurrentHand()
	if !ok || !hand.CanSurrender() {
		return false
	}
	hand.Surrender()
	p.balance += hand.bet / 2
	return true
}

// Win credits amount to the balance
func (p *Player) Win(amount Money) bool {
	if amount < 0 {
		return false
	}
	p.balance += amount
	return true
}

// CurrentHand returns the hand being played
func (p *Player) CurrentHand() (*Hand, bool) {
	if p.current < 0 || p.current >= len(p.hands) {
		return nil, false
	}
	return p.hands[p.current], true
}

// HasMoreHands returns true if hands remain after the current one
func (p *Player) HasMoreHands() bool {
	return p.current+1 < len(p.hands)
}

// NextHand moves play to the next hand
func (p *Player) NextHand() bool {
	if !p.HasMoreHands() {
		return false
	}
	p.current++
	return true
}

// ResetHands clears the hands and insurance of the finished round
func (p *Player) ResetHands() {
	p.hands = nil
	p.current = 0
	p.insurance = 0
}

// ActiveHands returns the hands still able to beat the dealer
func (p *Player) ActiveHands() []*Hand {
	var out []*Hand
	for _, h := range p.hands {
		if h.status != StatusBusted && h.status != StatusSurrendered {
			out = append(out, h)
		}
	}
	return out
}

// TotalWagered returns every chip put at risk this round, doubles and
// insurance included.
func (p *Player) TotalWagered() Money {
	total := p.insurance
	for _, h := range p.hands {
		total += h.bet
	}
	return total
}

func (p *Player) clone() *Player {
	c := *p
	c.hands = make([]*Hand, len(p.hands))
	for i, h := range p.hands {
		c.hands[i] = h.clone()
	}
	return &c
}
