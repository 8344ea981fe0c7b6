package blackjack

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/fairjack/internal/deck"
	"github.com/lox/fairjack/internal/fairness"
	"github.com/lox/fairjack/internal/gameid"
)

// MinRoundCards is the number of cards a round needs to deal its opening
// hands. A new round reshuffles first when fewer remain.
const MinRoundCards = 4

// Observer receives a snapshot after every state transition. Snapshots are
// delivered one at a time in the order they were published, with the engine
// lock released, so observers may read the engine. A command issued from an
// observer is applied at once and its snapshots queue behind the current one.
type Observer func(Snapshot)

// Engine is the round state machine for a single player. All methods are
// safe for concurrent use; commands are serialised.
type Engine struct {
	mu         sync.Mutex
	delivering bool

	settings Settings
	phase    Phase
	player   *Player
	dealer   *Hand
	shoe     *deck.Shoe
	shuffled bool

	fairness *fairness.Record
	previous *fairness.Record

	history      []RoundResult
	historyLimit int
	rounds       int
	shoeRounds   int
	result       *RoundResult

	logger     zerolog.Logger
	clock      quartz.Clock
	newGameID  func() (string, error)
	serverSeed func() (string, error)
	observers  []Observer
	pending    []Snapshot
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used to timestamp fairness records
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithObserver registers an observer
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs) }
}

// WithShoe deals the first shoe from s in its current order. The shoe counts
// as already shuffled, so no fairness record exists until it is replaced.
func WithShoe(s *deck.Shoe) Option {
	return func(e *Engine) {
		e.shoe = s
		e.shuffled = true
	}
}

// WithServerSeedGenerator replaces the random server seed source
func WithServerSeedGenerator(gen func() (string, error)) Option {
	return func(e *Engine) { e.serverSeed = gen }
}

// WithGameIDGenerator replaces the game identifier source
func WithGameIDGenerator(gen func() (string, error)) Option {
	return func(e *Engine) { e.newGameID = gen }
}

// WithHistoryLimit keeps only the most recent n round results. Zero keeps
// every round.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.historyLimit = max(n, 0) }
}

// NewEngine creates an engine in the Betting phase
func NewEngine(settings Settings, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	e := &Engine{
		settings:   settings,
		phase:      Betting,
		player:     NewPlayer(settings.StartingBalance),
		dealer:     NewHand(0),
		logger:     zerolog.Nop(),
		clock:      quartz.NewReal(),
		newGameID:  gameid.NewGenerator(nil).Generate,
		serverSeed: fairness.GenerateServerSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.shoe == nil {
		e.shoe = deck.NewShoe(settings.DeckCount)
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()
	return e, nil
}

// Subscribe registers an observer after construction
func (e *Engine) Subscribe(obs Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, obs)
}

// run executes fn under the engine lock and then delivers the snapshots it
// published.
func (e *Engine) run(fn func() bool) bool {
	e.mu.Lock()
	ok := fn()
	e.mu.Unlock()
	e.deliver()
	return ok
}

// deliver drains the pending snapshots to the observers without holding the
// lock. Only one goroutine delivers at a time; when another is already
// delivering it picks up whatever was queued, so a command can return before
// its snapshots have been seen.
func (e *Engine) deliver() {
	e.mu.Lock()
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	defer func() {
		e.delivering = false
		e.mu.Unlock()
	}()

	for len(e.pending) > 0 {
		snap := e.pending[0]
		e.pending = e.pending[1:]
		e.notify(slices.Clone(e.observers), snap)
	}
	e.pending = nil
}

// notify calls observers with the lock released. Callers hold e.mu.
func (e *Engine) notify(observers []Observer, snap Snapshot) {
	e.mu.Unlock()
	defer e.mu.Lock()
	for _, obs := range observers {
		obs(snap)
	}
}

func (e *Engine) setPhase(p Phase) {
	e.logger.Debug().Stringer("from", e.phase).Stringer("to", p).Msg("Phase transition")
	e.phase = p
	e.publish()
}

// publish queues a snapshot for the observers. Callers hold e.mu.
func (e *Engine) publish() {
	if len(e.observers) == 0 {
		return
	}
	e.pending = append(e.pending, e.snapshotLocked())
}

func (e *Engine) needsReshuffle() bool {
	return !e.shuffled ||
		e.settings.RevealPolicy == RevealOnRoundEnd ||
		e.shoe.NeedsReshuffle(e.settings.PenetrationThreshold) ||
		e.shoe.CardsRemaining() < MinRoundCards
}

// StartNewRound places bet and deals the opening hands. When the shoe needs a
// reshuffle the new fairness record is created, keyed by clientSeed, before
// any chips move. The client seed is ignored when the current shoe continues.
func (e *Engine) StartNewRound(bet Money, clientSeed string) bool {
	return e.run(func() bool {
		if e.phase != Betting {
			e.logger.Debug().Stringer("phase", e.phase).Msg("Rejected start: wrong phase")
			return false
		}
		if bet < e.settings.MinBet || bet > e.settings.MaxBet {
			e.logger.Debug().Int64("bet", int64(bet)).Msg("Rejected start: bet outside table limits")
			return false
		}
		if bet > e.player.balance {
			e.logger.Debug().Int64("bet", int64(bet)).Int64("balance", int64(e.player.balance)).Msg("Rejected start: insufficient balance")
			return false
		}

		var rec *fairness.Record
		if e.needsReshuffle() {
			r, err := e.newRecord(clientSeed)
			if err != nil {
				e.logger.Error().Err(err).Msg("Failed to create fairness record")
				return false
			}
			rec = &r
		}

		if !e.player.PlaceBet(bet) {
			return false
		}
		if rec != nil {
			e.reshuffle(rec)
		}

		e.result = nil
		e.dealer = NewHand(0)
		e.setPhase(Dealing)
		e.deal()
		return true
	})
}

func (e *Engine) newRecord(clientSeed string) (fairness.Record, error) {
	id, err := e.newGameID()
	if err != nil {
		return fairness.Record{}, fmt.Errorf("generate game id: %w", err)
	}
	return fairness.NewRecord(id, clientSeed, e.settings.DeckCount, e.settings.Algorithm,
		fairness.WithClock(e.clock),
		fairness.WithServerSeedGenerator(e.serverSeed),
	)
}

func (e *Engine) reshuffle(rec *fairness.Record) {
	if e.fairness != nil {
		e.previous = e.fairness
	}
	if e.shoe.DeckCount() != rec.DeckCount {
		e.shoe = deck.NewShoe(rec.DeckCount)
	} else {
		e.shoe.Reset()
	}
	e.shoe.ShuffleWith(rec.Source())
	e.fairness = rec
	e.shuffled = true
	e.shoeRounds = 0
	e.logger.Info().
		Str("game_id", rec.GameID).
		Str("server_seed_hash", rec.ServerSeedHash).
		Int("decks", rec.DeckCount).
		Msg("Shoe shuffled")
}

// deal hands out player, dealer, player, dealer and moves to PlayerTurn, or
// straight to settlement on an unmatched player natural.
func (e *Engine) deal() {
	hand, _ := e.player.CurrentHand()
	for range 2 {
		if c, ok := e.shoe.Deal(); ok {
			hand.AddCard(c)
		}
		if c, ok := e.shoe.Deal(); ok {
			e.dealer.AddCard(c)
		}
	}

	if hand.IsBlackjack() && !e.dealer.IsBlackjack() {
		e.settle()
		return
	}
	e.setPhase(PlayerTurn)
}

// Hit draws a card to the current hand
func (e *Engine) Hit() bool {
	return e.run(func() bool {
		hand, ok := e.actingHand()
		if !ok || !hand.CanHit() || e.shoe.CardsRemaining() < 1 {
			return false
		}
		c, _ := e.shoe.Deal()
		hand.AddCard(c)
		e.logger.Debug().Stringer("card", c).Int("value", hand.Value()).Msg("Hit")
		if hand.status == StatusBusted {
			e.advance()
			return true
		}
		e.publish()
		return true
	})
}

// Stand ends play on the current hand
func (e *Engine) Stand() bool {
	return e.run(func() bool {
		hand, ok := e.actingHand()
		if !ok {
			return false
		}
		hand.Stand()
		e.advance()
		return true
	})
}

// Double doubles the current hand's wager, draws exactly one card and stands
func (e *Engine) Double() bool {
	return e.run(func() bool {
		hand, ok := e.actingHand()
		if !ok || !e.canDouble(hand) {
			return false
		}
		if !e.player.DoubleDown() {
			return false
		}
		c, _ := e.shoe.Deal()
		hand.AddCard(c)
		hand.Stand()
		e.logger.Debug().Stringer("card", c).Int("value", hand.Value()).Msg("Doubled")
		e.advance()
		return true
	})
}

// Split splits the current pair and deals one card to each new hand
func (e *Engine) Split() bool {
	return e.run(func() bool {
		hand, ok := e.actingHand()
		if !ok || !hand.CanSplit() || hand.bet > e.player.balance || e.shoe.CardsRemaining() < 2 {
			return false
		}
		if !e.player.SplitHand() {
			return false
		}
		idx := e.player.current
		for _, h := range e.player.hands[idx : idx+2] {
			c, _ := e.shoe.Deal()
			h.AddCard(c)
		}
		e.logger.Debug().Int("hands", len(e.player.hands)).Msg("Split")
		e.publish()
		return true
	})
}

// Surrender forfeits the current hand for half its bet
func (e *Engine) Surrender() bool {
	return e.run(func() bool {
		hand, ok := e.actingHand()
		if !ok || !e.settings.SurrenderAllowed || !hand.CanSurrender() {
			return false
		}
		if !e.player.Surrender() {
			return false
		}
		e.advance()
		return true
	})
}

// TakeInsurance places an insurance bet of half the current hand's wager
// against a dealer Ace.
func (e *Engine) TakeInsurance() bool {
	return e.run(func() bool {
		if !e.canInsure() {
			return false
		}
		hand, _ := e.player.CurrentHand()
		if !e.player.PlaceInsurance(hand.bet / 2) {
			return false
		}
		e.logger.Debug().Int64("amount", int64(e.player.insurance)).Msg("Insurance taken")
		e.publish()
		return true
	})
}

// ResetForNewRound clears the finished round and returns to Betting. The
// shoe, balance and history carry over.
func (e *Engine) ResetForNewRound() bool {
	return e.run(func() bool {
		if e.phase != Finished {
			return false
		}
		e.player.ResetHands()
		e.dealer = NewHand(0)
		e.result = nil
		e.setPhase(Betting)
		return true
	})
}

// actingHand returns the current hand during PlayerTurn
func (e *Engine) actingHand() (*Hand, bool) {
	if e.phase != PlayerTurn {
		return nil, false
	}
	return e.player.CurrentHand()
}

func (e *Engine) canDouble(hand *Hand) bool {
	if !hand.CanDouble() || hand.bet > e.player.balance || e.shoe.CardsRemaining() < 1 {
		return false
	}
	return !hand.split || e.settings.DoubleAfterSplit
}

func (e *Engine) canInsure() bool {
	if e.phase != PlayerTurn || !e.settings.InsuranceAllowed || e.player.insurance > 0 {
		return false
	}
	if len(e.dealer.cards) == 0 || !e.dealer.cards[0].IsAce() {
		return false
	}
	if len(e.player.hands) != 1 {
		return false
	}
	hand := e.player.hands[0]
	if hand.status != StatusActive || hand.Len() != 2 || hand.doubled {
		return false
	}
	amount := hand.bet / 2
	return amount > 0 && amount <= e.player.balance
}

// advance moves to the next hand, or on to the dealer once every hand is done
func (e *Engine) advance() {
	if e.player.NextHand() {
		e.logger.Debug().Int("hand", e.player.current).Msg("Next hand")
		e.publish()
		return
	}
	if len(e.player.ActiveHands()) == 0 {
		e.settle()
		return
	}
	e.setPhase(DealerTurn)
	e.playDealer()
	e.settle()
}

func (e *Engine) dealerShouldHit() bool {
	value, soft := e.dealer.SoftValue()
	if value < 17 {
		return true
	}
	return value == 17 && soft && e.settings.DealerHitsSoft17
}

func (e *Engine) playDealer() {
	for e.dealer.status == StatusActive && e.dealerShouldHit() {
		c, ok := e.shoe.Deal()
		if !ok {
			e.logger.Warn().Int("value", e.dealer.Value()).Msg("Shoe exhausted during dealer play")
			break
		}
		e.dealer.AddCard(c)
	}
	e.dealer.Stand()
}

// payout returns the amount returned for a hand. Surrender refunds were paid
// when the hand was surrendered.
func (e *Engine) payout(h *Hand, dealerValue int, dealerBusted, dealerBlackjack bool) (Outcome, Money) {
	switch {
	case h.status == StatusSurrendered:
		return OutcomeSurrender, h.bet / 2
	case h.status == StatusBusted:
		return OutcomeLoss, 0
	case h.IsBlackjack() && !dealerBlackjack:
		return OutcomeBlackjack, h.bet + Money(math.Floor(float64(h.bet)*e.settings.BlackjackPayout))
	case dealerBusted:
		return OutcomeWin, h.bet * 2
	case h.Value() > dealerValue:
		return OutcomeWin, h.bet * 2
	case h.Value() == dealerValue:
		return OutcomePush, h.bet
	default:
		return OutcomeLoss, 0
	}
}

// settle pays every hand, records the round and finishes it
func (e *Engine) settle() {
	e.setPhase(Settlement)

	dealerValue := e.dealer.Value()
	dealerBusted := e.dealer.IsBusted()
	dealerBlackjack := e.dealer.IsBlackjack()

	wagered := e.player.TotalWagered()
	var returned Money
	result := RoundResult{
		Round:  e.rounds + 1,
		Dealer: viewHand(e.dealer),
	}
	if e.fairness != nil {
		result.GameID = e.fairness.GameID
	}

	for _, h := range e.player.hands {
		outcome, amount := e.payout(h, dealerValue, dealerBusted, dealerBlackjack)
		if outcome != OutcomeSurrender {
			e.player.Win(amount)
		}
		returned += amount
		result.Hands = append(result.Hands, HandResult{Hand: viewHand(h), Outcome: outcome, Payout: amount})
	}

	if ins := e.player.insurance; ins > 0 {
		ir := &InsuranceResult{Amount: ins, Won: dealerBlackjack}
		if dealerBlackjack {
			ir.Payout = ins * 3
			e.player.Win(ir.Payout)
			returned += ir.Payout
		}
		result.Insurance = ir
	}

	result.Wagered = wagered
	result.Returned = returned
	result.NetWinnings = returned - wagered
	result.BalanceAfter = e.player.balance

	e.rounds++
	e.shoeRounds++
	e.history = append(e.history, result)
	if e.historyLimit > 0 && len(e.history) > e.historyLimit {
		e.history = slices.Delete(e.history, 0, len(e.history)-e.historyLimit)
	}
	e.result = &result

	e.logger.Debug().
		Int("round", result.Round).
		Int64("net", int64(result.NetWinnings)).
		Int64("balance", int64(result.BalanceAfter)).
		Msg("Round settled")
	e.setPhase(Finished)
}

// AvailableActions returns the actions the player may take right now
func (e *Engine) AvailableActions() []Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.availableActionsLocked()
}

func (e *Engine) availableActionsLocked() []Action {
	hand, ok := e.actingHand()
	if !ok {
		return nil
	}
	var actions []Action
	if hand.CanHit() && e.shoe.CardsRemaining() > 0 {
		actions = append(actions, Hit)
	}
	actions = append(actions, Stand)
	if e.canDouble(hand) {
		actions = append(actions, Double)
	}
	if hand.CanSplit() && hand.bet <= e.player.balance && e.shoe.CardsRemaining() >= 2 {
		actions = append(actions, Split)
	}
	if e.settings.SurrenderAllowed && hand.CanSurrender() {
		actions = append(actions, Surrender)
	}
	if e.canInsure() {
		actions = append(actions, Insurance)
	}
	return actions
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Balance returns the player's balance
func (e *Engine) Balance() Money {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.balance
}

// Settings returns the table rules
func (e *Engine) Settings() Settings {
	return e.settings
}

// FairnessData returns the full record of the shoe in play, server seed
// included. It returns false before the first shuffle.
func (e *Engine) FairnessData() (fairness.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fairness == nil {
		return fairness.Record{}, false
	}
	return *e.fairness, true
}

// RoundHistory returns the settled rounds, oldest first
func (e *Engine) RoundHistory() []RoundResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RoundResult, len(e.history))
	for i, r := range e.history {
		out[i] = r.clone()
	}
	return out
}

// Snapshot returns a deep copy of the engine state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	hands := make([]HandView, len(e.player.hands))
	for i, h := range e.player.hands {
		hands[i] = viewHand(h)
	}
	snap := Snapshot{
		Phase: e.phase,
		Player: PlayerView{
			Balance:     e.player.balance,
			Hands:       hands,
			CurrentHand: e.player.current,
			Insurance:   e.player.insurance,
		},
		Dealer: viewHand(e.dealer),
		Shoe: ShoeView{
			DeckCount:   e.shoe.DeckCount(),
			Size:        e.shoe.Len(),
			Remaining:   e.shoe.CardsRemaining(),
			Penetration: e.shoe.Penetration(),
			Dealt:       e.shoe.DealtCards(),
			Rounds:      e.shoeRounds,
		},
		Settings: e.settings,
		Actions:  e.availableActionsLocked(),
		Rounds:   e.rounds,
	}
	if e.fairness != nil {
		rec := *e.fairness
		snap.Fairness = &rec
	}
	if e.previous != nil {
		rec := *e.previous
		snap.PreviousFairness = &rec
	}
	snap.History = make([]RoundResult, len(e.history))
	for i, r := range e.history {
		snap.History[i] = r.clone()
	}
	if e.result != nil {
		res := e.result.clone()
		snap.Result = &res
	}
	return snap
}
