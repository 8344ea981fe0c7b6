package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairjack/internal/blackjack"
)

// With server seed "server-seed" and client seed "client-seed" a single deck
// deals 6H 9H 3S 5H KH: the player stands on 9 and the dealer busts.
func newModel(t *testing.T) (*Model, *blackjack.Engine) {
	t.Helper()
	settings := blackjack.DefaultSettings()
	settings.DeckCount = 1
	e, err := blackjack.NewEngine(settings,
		blackjack.WithLogger(zerolog.Nop()),
		blackjack.WithServerSeedGenerator(func() (string, error) { return "server-seed", nil }),
	)
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := New(e, logger, "")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, e
}

func press(m *Model, keys string) {
	for _, r := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func enter(m *Model) {
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestPlayRound(t *testing.T) {
	m, e := newModel(t)

	press(m, "c")
	typeText(m, "client-seed")
	enter(m)
	assert.Equal(t, "client-seed", m.clientSeed)

	press(m, "n")
	require.Equal(t, modeBet, m.mode)
	assert.Equal(t, "10", m.input.Value())
	enter(m)

	require.Equal(t, blackjack.PlayerTurn, e.Phase())
	assert.Empty(t, m.clientSeed, "seed is consumed by the new shoe")
	view := m.View()
	assert.Contains(t, view, "Commitment")
	assert.Contains(t, view, "hidden until reveal")
	assert.Contains(t, view, "??")

	press(m, "s")
	assert.Equal(t, blackjack.Finished, e.Phase())
	assert.Equal(t, blackjack.Money(1010), e.Balance())

	logs := m.Log()
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0], "client-seed")
	assert.Contains(t, logs[1], "Round 1")
	assert.Contains(t, logs[1], "win")
	assert.Contains(t, m.View(), "hidden until reveal", "shoe stays in play")
}

func TestNewRoundFromFinishedResets(t *testing.T) {
	m, e := newModel(t)
	press(m, "n")
	enter(m)
	if e.Phase() == blackjack.PlayerTurn {
		press(m, "s")
	}
	require.Equal(t, blackjack.Finished, e.Phase())

	press(m, "n")
	assert.Equal(t, blackjack.Betting, e.Phase())
	assert.Equal(t, modeBet, m.mode)
}

func TestBetEntryErrors(t *testing.T) {
	m, e := newModel(t)

	press(m, "n")
	m.input.SetValue("lots")
	enter(m)
	assert.Equal(t, blackjack.Betting, e.Phase())
	assert.Contains(t, m.status, "invalid bet")

	press(m, "n")
	m.input.SetValue("5000")
	enter(m)
	assert.Equal(t, blackjack.Betting, e.Phase())
	assert.Contains(t, m.status, "rejected")
}

func TestEscapeCancelsInput(t *testing.T) {
	m, e := newModel(t)
	press(m, "n")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeAction, m.mode)
	assert.Equal(t, blackjack.Betting, e.Phase())
}

func TestUnavailableAction(t *testing.T) {
	m, _ := newModel(t)
	press(m, "h")
	assert.Equal(t, "hit is not available", m.status)
}

func TestActionKeysWhileInputFocused(t *testing.T) {
	m, e := newModel(t)
	press(m, "n")
	press(m, "h")
	assert.Equal(t, blackjack.Betting, e.Phase())
	assert.True(t, strings.HasSuffix(m.input.Value(), "h"))
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestViewBeforeResize(t *testing.T) {
	settings := blackjack.DefaultSettings()
	e, err := blackjack.NewEngine(settings)
	require.NoError(t, err)
	m := New(e, log.New(io.Discard), "")
	assert.Equal(t, "Loading...", m.View())
}
