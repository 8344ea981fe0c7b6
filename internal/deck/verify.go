package deck

import "github.com/lox/fairjack/internal/fairness"

// VerifyDeal checks a revealed record's commitment and that dealt is a prefix
// of the shoe the record's seeds produce.
func VerifyDeal(rec fairness.Record, dealt []Card) bool {
	if rec.DeckCount < 1 {
		return false
	}
	fresh := freshOrder(rec.DeckCount, nil)
	return fairness.VerifyOrder(rec.ServerSeed, rec.ServerSeedHash, rec.ClientSeed, rec.Algorithm, fresh, dealt)
}

// Replay rebuilds the shoe a revealed record describes. It returns false when
// the commitment does not match.
func Replay(rec fairness.Record) (*Shoe, bool) {
	if rec.DeckCount < 1 || !fairness.VerifyCommitment(rec.ServerSeed, rec.ServerSeedHash) {
		return nil, false
	}
	s := NewShoe(rec.DeckCount)
	s.ShuffleWith(rec.Source())
	return s, true
}
