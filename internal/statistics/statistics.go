// Package statistics aggregates the results of simulated blackjack rounds.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/fairjack/internal/blackjack"
)

// OutcomeCounts tallies settled hands by outcome
type OutcomeCounts struct {
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Surrenders int
}

// Total returns the number of hands counted
func (o OutcomeCounts) Total() int {
	return o.Wins + o.Losses + o.Pushes + o.Blackjacks + o.Surrenders
}

func (o *OutcomeCounts) add(outcome blackjack.Outcome) {
	switch outcome {
	case blackjack.OutcomeWin:
		o.Wins++
	case blackjack.OutcomeLoss:
		o.Losses++
	case blackjack.OutcomePush:
		o.Pushes++
	case blackjack.OutcomeBlackjack:
		o.Blackjacks++
	case blackjack.OutcomeSurrender:
		o.Surrenders++
	}
}

// Statistics tracks simulation results. Per-round values are measured in
// units of the base bet so sessions with different bets can be merged.
type Statistics struct {
	Rounds  int
	SumU    float64
	SumU2   float64   // Sum of squares for variance calculation
	Values  []float64 // Every round result for median/percentile calculation
	Outcome OutcomeCounts

	Hands   int
	Doubles int
	Splits  int

	InsuranceTaken int
	InsuranceWon   int

	// Chip ledger: NetChips must equal HandNet + InsuranceNet.
	Wagered      int64
	NetChips     int64
	HandNet      int64
	InsuranceNet int64
}

// Add incorporates a settled round wagered from baseBet
func (s *Statistics) Add(r blackjack.RoundResult, baseBet blackjack.Money) {
	units := 0.0
	if baseBet > 0 {
		units = float64(r.NetWinnings) / float64(baseBet)
	}
	s.Rounds++
	s.SumU += units
	s.SumU2 += units * units
	s.Values = append(s.Values, units)

	s.Wagered += int64(r.Wagered)
	s.NetChips += int64(r.NetWinnings)

	if len(r.Hands) > 1 {
		s.Splits++
	}
	for _, h := range r.Hands {
		s.Hands++
		s.Outcome.add(h.Outcome)
		if h.Hand.Doubled {
			s.Doubles++
		}
		s.HandNet += int64(h.Payout - h.Hand.Bet)
	}
	if ins := r.Insurance; ins != nil {
		s.InsuranceTaken++
		if ins.Won {
			s.InsuranceWon++
		}
		s.InsuranceNet += int64(ins.Payout - ins.Amount)
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumU += other.SumU
	s.SumU2 += other.SumU2
	s.Values = append(s.Values, other.Values...)

	s.Outcome.Wins += other.Outcome.Wins
	s.Outcome.Losses += other.Outcome.Losses
	s.Outcome.Pushes += other.Outcome.Pushes
	s.Outcome.Blackjacks += other.Outcome.Blackjacks
	s.Outcome.Surrenders += other.Outcome.Surrenders

	s.Hands += other.Hands
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.InsuranceTaken += other.InsuranceTaken
	s.InsuranceWon += other.InsuranceWon

	s.Wagered += other.Wagered
	s.NetChips += other.NetChips
	s.HandNet += other.HandNet
	s.InsuranceNet += other.InsuranceNet
}

// Mean returns the mean result per round in base-bet units
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumU / float64(s.Rounds)
}

// Variance returns the sample variance of the round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumU2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge returns the player's loss as a fraction of chips wagered
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -float64(s.NetChips) / float64(s.Wagered)
}

func (s *Statistics) sorted() []float64 {
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)
	return sorted
}

// Median returns the median round result
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated value at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that hand and insurance results add up to the net
func (s *Statistics) IsLedgerBalanced() bool {
	return s.NetChips == s.HandNet+s.InsuranceNet
}

// Validate checks the statistics for internal consistency
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: net=%d hands=%d insurance=%d", s.NetChips, s.HandNet, s.InsuranceNet)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)", len(s.Values), s.Rounds)
	}
	if s.Outcome.Total() != s.Hands {
		return fmt.Errorf("outcome total (%d) does not match hands count (%d)", s.Outcome.Total(), s.Hands)
	}
	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}
	if s.InsuranceWon > s.InsuranceTaken {
		return fmt.Errorf("insurance won (%d) exceeds taken (%d)", s.InsuranceWon, s.InsuranceTaken)
	}
	return nil
}
