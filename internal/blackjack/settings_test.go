package blackjack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	assert.Equal(t, RevealOnShoeEnd, DefaultSettings().RevealPolicy)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"no decks", func(s *Settings) { s.DeckCount = 0 }},
		{"zero min bet", func(s *Settings) { s.MinBet = 0 }},
		{"max below min", func(s *Settings) { s.MaxBet = 5 }},
		{"zero penetration", func(s *Settings) { s.PenetrationThreshold = 0 }},
		{"penetration above one", func(s *Settings) { s.PenetrationThreshold = 1.5 }},
		{"zero payout", func(s *Settings) { s.BlackjackPayout = 0 }},
		{"negative balance", func(s *Settings) { s.StartingBalance = -1 }},
		{"unknown algorithm", func(s *Settings) { s.Algorithm = "dice" }},
		{"unknown reveal policy", func(s *Settings) { s.RevealPolicy = "never" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "playerTurn", PlayerTurn.String())
	assert.Equal(t, "surrendered", StatusSurrendered.String())
	assert.Equal(t, "insurance", Insurance.String())
	assert.Equal(t, "blackjack", OutcomeBlackjack.String())

	for _, a := range []Action{Hit, Stand, Double, Split, Surrender, Insurance} {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	_, err := ParseAction("fold")
	assert.Error(t, err)
}

func TestSnapshotJSON(t *testing.T) {
	e := newStackedEngine(t, []string{"10C", "10D", "8H", "7S"})
	require.True(t, e.StartNewRound(10, ""))

	data, err := json.Marshal(e.Snapshot().Public())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "playerTurn", decoded["phase"])
	dealer := decoded["dealer"].(map[string]any)
	assert.Equal(t, []any{"10D"}, dealer["cards"])
	assert.Equal(t, float64(1), dealer["hidden"])
	assert.Contains(t, decoded["actions"], "stand")
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	e := newStackedEngine(t, []string{"10C", "10D", "8H", "7S", "2C"})
	require.True(t, e.StartNewRound(10, ""))
	want := e.Snapshot().Public()

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, PlayerTurn, got.Phase)
	assert.Equal(t, want.Actions, got.Actions)
	assert.Equal(t, want.Player.Hands, got.Player.Hands)
	assert.Equal(t, want.Dealer, got.Dealer)
	assert.Equal(t, want.Settings, got.Settings)
	assert.True(t, got.Can(Hit))
}

func TestEnumUnmarshalRejectsUnknown(t *testing.T) {
	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("lunch")))
	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("push")))
	assert.Equal(t, OutcomePush, o)
	var s HandStatus
	require.NoError(t, s.UnmarshalText([]byte("busted")))
	assert.Equal(t, StatusBusted, s)
}
