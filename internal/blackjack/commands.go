package blackjack

import "fmt"

// CommandKind names an engine command
type CommandKind string

const (
	CommandStart     CommandKind = "start"
	CommandHit       CommandKind = "hit"
	CommandStand     CommandKind = "stand"
	CommandDouble    CommandKind = "double"
	CommandSplit     CommandKind = "split"
	CommandSurrender CommandKind = "surrender"
	CommandInsurance CommandKind = "insurance"
	CommandReset     CommandKind = "reset"
)

// Command is a serialisable engine command. Bet and ClientSeed are only read
// by CommandStart.
type Command struct {
	Kind       CommandKind `json:"type"`
	Bet        Money       `json:"bet,omitempty"`
	ClientSeed string      `json:"client_seed,omitempty"`
}

// ActionCommand returns the command that performs action
func ActionCommand(action Action) Command {
	switch action {
	case Hit:
		return Command{Kind: CommandHit}
	case Stand:
		return Command{Kind: CommandStand}
	case Double:
		return Command{Kind: CommandDouble}
	case Split:
		return Command{Kind: CommandSplit}
	case Surrender:
		return Command{Kind: CommandSurrender}
	case Insurance:
		return Command{Kind: CommandInsurance}
	default:
		return Command{Kind: CommandKind(action.String())}
	}
}

// Validate checks that the command kind is known
func (c Command) Validate() error {
	switch c.Kind {
	case CommandStart, CommandHit, CommandStand, CommandDouble, CommandSplit,
		CommandSurrender, CommandInsurance, CommandReset:
		return nil
	default:
		return fmt.Errorf("unknown command %q", c.Kind)
	}
}

// Apply executes cmd and returns the resulting snapshot and whether the
// command was accepted. Unknown commands are rejected.
func (e *Engine) Apply(cmd Command) (Snapshot, bool) {
	var ok bool
	switch cmd.Kind {
	case CommandStart:
		ok = e.StartNewRound(cmd.Bet, cmd.ClientSeed)
	case CommandHit:
		ok = e.Hit()
	case CommandStand:
		ok = e.Stand()
	case CommandDouble:
		ok = e.Double()
	case CommandSplit:
		ok = e.Split()
	case CommandSurrender:
		ok = e.Surrender()
	case CommandInsurance:
		ok = e.TakeInsurance()
	case CommandReset:
		ok = e.ResetForNewRound()
	}
	return e.Snapshot(), ok
}
