// Package tui is the interactive terminal table.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/fairjack/internal/blackjack"
	"github.com/lox/fairjack/internal/deck"
)

type inputMode int

const (
	modeAction inputMode = iota
	modeBet
	modeSeed
)

const sidebarWidth = 40

// Model is the Bubble Tea model for one player at one table
type Model struct {
	engine *blackjack.Engine
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model
	mode        inputMode

	// State
	snap        blackjack.Snapshot
	clientSeed  string // used at the next reshuffle
	lastBet     blackjack.Money
	gameLog     []string
	status      string
	lastGameID  string
	loggedRound int
	quitting    bool

	// Dimensions
	width  int
	height int
}

// New creates a model driving engine. clientSeed, when set, keys the first
// shoe.
func New(engine *blackjack.Engine, logger *log.Logger, clientSeed string) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		clientSeed:  clientSeed,
		lastBet:     engine.Settings().MinBet,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.mode != modeAction {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "h":
		m.act(blackjack.Hit, m.engine.Hit)
	case "s":
		m.act(blackjack.Stand, m.engine.Stand)
	case "d":
		m.act(blackjack.Double, m.engine.Double)
	case "p":
		m.act(blackjack.Split, m.engine.Split)
	case "r":
		m.act(blackjack.Surrender, m.engine.Surrender)
	case "i":
		m.act(blackjack.Insurance, m.engine.TakeInsurance)
	case "n":
		return m, m.beginBet()
	case "c":
		return m, m.beginSeed()
	case "up", "k":
		m.logViewport.ScrollUp(1)
	case "down", "j":
		m.logViewport.ScrollDown(1)
	}
	return m, nil
}

func (m *Model) act(action blackjack.Action, fn func() bool) {
	if !fn() {
		m.status = fmt.Sprintf("%s is not available", action)
		m.logger.Debug("Rejected action", "action", action, "phase", m.engine.Phase())
	} else {
		m.status = ""
	}
	m.refresh()
}

func (m *Model) beginBet() tea.Cmd {
	if m.engine.Phase() == blackjack.Finished {
		m.engine.ResetForNewRound()
		m.refresh()
	}
	if m.engine.Phase() != blackjack.Betting {
		m.status = "finish the round first"
		return nil
	}
	m.mode = modeBet
	m.status = ""
	m.input.Placeholder = "bet"
	m.input.SetValue(strconv.FormatInt(int64(m.lastBet), 10))
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) beginSeed() tea.Cmd {
	m.mode = modeSeed
	m.status = ""
	m.input.Placeholder = "client seed (blank for random)"
	m.input.SetValue(m.clientSeed)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.endInput()
		if mode == modeBet {
			m.placeBet(value)
		} else {
			m.clientSeed = value
			m.status = "client seed applies from the next shoe"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeAction
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) placeBet(value string) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		m.status = fmt.Sprintf("invalid bet %q", value)
		return
	}
	bet := blackjack.Money(n)
	if !m.engine.StartNewRound(bet, m.clientSeed) {
		s := m.engine.Settings()
		m.status = fmt.Sprintf("bet %d rejected: limits %d-%d, balance %d", bet, s.MinBet, s.MaxBet, m.engine.Balance())
		return
	}
	m.lastBet = bet
	m.status = ""
	m.refresh()
}

// refresh reloads the public snapshot and logs shoe changes and results
func (m *Model) refresh() {
	m.snap = m.engine.Snapshot().Public()

	if f := m.snap.Fairness; f != nil && f.GameID != m.lastGameID {
		if prev := m.snap.PreviousFairness; prev != nil && prev.Revealed() {
			m.addLog(InfoStyle.Render(fmt.Sprintf("Shoe %s retired, server seed %s", prev.GameID, prev.ServerSeed)))
		}
		m.addLog(LabelStyle.Render(fmt.Sprintf("New shoe %s", f.GameID)) +
			fmt.Sprintf(" %d decks, commitment %s, client seed %s", f.DeckCount, f.ServerSeedHash, f.ClientSeed))
		m.lastGameID = f.GameID
		m.clientSeed = ""
	}

	if r := m.snap.Result; r != nil && r.Round != m.loggedRound {
		m.loggedRound = r.Round
		m.addLog(m.formatResult(*r))
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the round log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

func (m *Model) formatResult(r blackjack.RoundResult) string {
	var hands []string
	for _, h := range r.Hands {
		hands = append(hands, fmt.Sprintf("%s %s", formatHand(h.Hand), h.Outcome))
	}
	net := fmt.Sprintf("%+d", r.NetWinnings)
	switch {
	case r.NetWinnings > 0:
		net = SuccessStyle.Render(net)
	case r.NetWinnings < 0:
		net = ErrorStyle.Render(net)
	}
	line := fmt.Sprintf("Round %d: %s vs dealer %s, net %s", r.Round, strings.Join(hands, ", "), formatHand(r.Dealer), net)
	if r.Insurance != nil {
		line += fmt.Sprintf(" (insurance %d, won %t)", r.Insurance.Amount, r.Insurance.Won)
	}
	return line
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render("fairjack") + " " + InfoStyle.Render(m.snap.Phase.String())

	tableWidth := max(m.width-sidebarWidth-4, 20)
	table := paneStyle.Width(tableWidth).Render(m.renderTable())
	sidebar := paneStyle.Width(sidebarWidth).Render(m.renderSidebar())
	top := lipgloss.JoinHorizontal(lipgloss.Top, table, sidebar)

	actions := m.renderActionPane()
	actionPane := focusedPaneStyle.Width(max(m.width-2, 1)).Render(actions)

	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(top) - lipgloss.Height(actionPane) - 2
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(logHeight, 1)
	logPane := paneStyle.Width(max(m.width-2, 1)).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, top, logPane, actionPane)
}

func (m *Model) renderTable() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Dealer: "))
	if len(m.snap.Dealer.Cards) > 0 {
		b.WriteString(formatHand(m.snap.Dealer))
	}
	b.WriteString("\n\n")

	if len(m.snap.Player.Hands) == 0 {
		b.WriteString(InfoStyle.Render("Press n to place a bet"))
		return b.String()
	}
	for i, h := range m.snap.Player.Hands {
		label := fmt.Sprintf("Hand %d (bet %d", i+1, h.Bet)
		if h.Doubled {
			label += ", doubled"
		}
		label += "): "
		if m.snap.Phase == blackjack.PlayerTurn && i == m.snap.Player.CurrentHand {
			b.WriteString(CurrentHandStyle.Render("> " + label))
		} else {
			b.WriteString(LabelStyle.Render("  " + label))
		}
		b.WriteString(formatHand(h))
		if h.Status != blackjack.StatusActive {
			b.WriteString(" " + InfoStyle.Render(h.Status.String()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", LabelStyle.Render("Balance:"), m.snap.Player.Balance)
	if m.snap.Player.Insurance > 0 {
		fmt.Fprintf(&b, "%s %d\n", LabelStyle.Render("Insurance:"), m.snap.Player.Insurance)
	}
	fmt.Fprintf(&b, "%s %d/%d (%.0f%%)\n", LabelStyle.Render("Shoe:"), m.snap.Shoe.Remaining, m.snap.Shoe.Size, m.snap.Shoe.Penetration*100)
	fmt.Fprintf(&b, "%s %d\n\n", LabelStyle.Render("Rounds:"), m.snap.Rounds)

	f := m.snap.Fairness
	if f == nil {
		b.WriteString(InfoStyle.Render("No shoe committed yet"))
		return b.String()
	}
	b.WriteString(LabelStyle.Render("Game ") + f.GameID + "\n")
	b.WriteString(LabelStyle.Render("Commitment\n") + wrap(f.ServerSeedHash, sidebarWidth-2) + "\n")
	b.WriteString(LabelStyle.Render("Client seed ") + f.ClientSeed + "\n")
	if f.Revealed() {
		b.WriteString(SuccessStyle.Render("Server seed\n") + wrap(f.ServerSeed, sidebarWidth-2))
	} else {
		b.WriteString(InfoStyle.Render("Server seed hidden until reveal"))
	}
	if m.clientSeed != "" {
		b.WriteString("\n" + WarningStyle.Render("Next shoe seed ") + m.clientSeed)
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch m.mode {
	case modeBet:
		b.WriteString(ActionsStyle.Render("Bet amount") + "\n")
		b.WriteString(m.input.View())
	case modeSeed:
		b.WriteString(ActionsStyle.Render("Client seed") + "\n")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderAvailableActions())
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(WarningStyle.Render(m.status) + "\n")
	}

	help := "n new round • c client seed • ↑↓ scroll log • q quit"
	if m.mode != modeAction {
		help = "Enter to submit • Esc to cancel"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

var actionKeys = map[blackjack.Action]string{
	blackjack.Hit:       "h",
	blackjack.Stand:     "s",
	blackjack.Double:    "d",
	blackjack.Split:     "p",
	blackjack.Surrender: "r",
	blackjack.Insurance: "i",
}

func (m *Model) renderAvailableActions() string {
	if len(m.snap.Actions) == 0 {
		return InfoStyle.Render("No actions available")
	}
	var actions []string
	for _, a := range m.snap.Actions {
		actions = append(actions, fmt.Sprintf("[%s]%s", actionKeys[a], a))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatHand renders cards with suit colours, face-down cards and the total
func formatHand(h blackjack.HandView) string {
	parts := make([]string, 0, len(h.Cards)+h.Hidden)
	for _, c := range h.Cards {
		parts = append(parts, formatCard(c))
	}
	for range h.Hidden {
		parts = append(parts, HiddenCardStyle.Render("??"))
	}
	value := strconv.Itoa(h.Value)
	if h.Soft {
		value = "soft " + value
	}
	return "[" + strings.Join(parts, " ") + "] " + value
}

func formatCard(c deck.Card) string {
	if c.Color() == deck.Red {
		return RedCardStyle.Render(c.Unicode())
	}
	return BlackCardStyle.Render(c.Unicode())
}

func wrap(s string, width int) string {
	if width < 1 || len(s) <= width {
		return s
	}
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return strings.Join(append(lines, s), "\n")
}
