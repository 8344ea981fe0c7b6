package blackjack

// HandResult is the settlement of one player hand
type HandResult struct {
	Hand    HandView `json:"hand"`
	Outcome Outcome  `json:"outcome"`
	Payout  Money    `json:"payout"`
}

// InsuranceResult is the settlement of the insurance side bet
type InsuranceResult struct {
	Amount Money `json:"amount"`
	Won    bool  `json:"won"`
	Payout Money `json:"payout"`
}

// RoundResult is the immutable record of a settled round
type RoundResult struct {
	Round        int              `json:"round"`
	GameID       string           `json:"gameId"`
	Hands        []HandResult     `json:"hands"`
	Dealer       HandView         `json:"dealer"`
	Insurance    *InsuranceResult `json:"insurance,omitempty"`
	Wagered      Money            `json:"wagered"`
	Returned     Money            `json:"returned"`
	NetWinnings  Money            `json:"netWinnings"`
	BalanceAfter Money            `json:"balanceAfter"`
}

// Outcomes returns the outcome of every player hand in split order
func (r RoundResult) Outcomes() []Outcome {
	out := make([]Outcome, len(r.Hands))
	for i, h := range r.Hands {
		out[i] = h.Outcome
	}
	return out
}

func (r RoundResult) clone() RoundResult {
	c := r
	c.Hands = make([]HandResult, len(r.Hands))
	for i, h := range r.Hands {
		h.Hand = h.Hand.clone()
		c.Hands[i] = h
	}
	c.Dealer = r.Dealer.clone()
	if r.Insurance != nil {
		ins := *r.Insurance
		c.Insurance = &ins
	}
	return c
}
