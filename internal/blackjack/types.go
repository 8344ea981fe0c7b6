package blackjack

import "fmt"

// Money is an amount of whole chips. Fractional payouts round down.
type Money int64

// parseEnum finds the value in [0, last] whose String is text
func parseEnum[T interface {
	~int
	fmt.Stringer
}](name string, text []byte, last T) (T, error) {
	for v := T(0); v <= last; v++ {
		if v.String() == string(text) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", name, text)
}

// Phase is the state of the round state machine
type Phase int

const (
	Betting Phase = iota
	Dealing
	PlayerTurn
	DealerTurn
	Settlement
	Finished
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "playerTurn"
	case DealerTurn:
		return "dealerTurn"
	case Settlement:
		return "settlement"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	v, err := parseEnum("phase", text, Finished)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// HandStatus is the lifecycle of a hand. Transitions only move away from
// StatusActive.
type HandStatus int

const (
	StatusActive HandStatus = iota
	StatusStanding
	StatusBusted
	StatusBlackjack
	StatusSurrendered
)

// String returns the string representation of a hand status
func (s HandStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusStanding:
		return "standing"
	case StatusBusted:
		return "busted"
	case StatusBlackjack:
		return "blackjack"
	case StatusSurrendered:
		return "surrendered"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler
func (s HandStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *HandStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("hand status", text, StatusSurrendered)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Action is a player decision during PlayerTurn
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
	Insurance
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	case Insurance:
		return "insurance"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Action) UnmarshalText(text []byte) error {
	v, err := parseEnum("action", text, Insurance)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAction parses an action name
func ParseAction(s string) (Action, error) {
	return parseEnum("action", []byte(s), Insurance)
}

// Outcome is the settled result of one player hand
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
	OutcomePush
	OutcomeBlackjack
	OutcomeSurrender
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeLoss:
		return "loss"
	case OutcomeWin:
		return "win"
	case OutcomePush:
		return "push"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomeSurrender:
		return "surrender"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := parseEnum("outcome", text, OutcomeSurrender)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// RevealPolicy controls when snapshots prepared for players show the server
// seed of the shoe in play.
type RevealPolicy string

const (
	// RevealOnRoundEnd shows the seed once the round is finished. Every
	// round is then dealt from a freshly committed shoe, since a revealed
	// seed predicts every card left in its shoe.
	RevealOnRoundEnd RevealPolicy = "round"
	// RevealOnShoeEnd shows a seed only after its shoe has been retired.
	RevealOnShoeEnd RevealPolicy = "shoe"
)
