package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2},
		{Five, 5},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
	}

	for _, tt := range tests {
		t.Run(tt.rank.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewCard(tt.rank, Spades).Value())
		})
	}
}

func TestCardColor(t *testing.T) {
	assert.Equal(t, Red, NewCard(Ace, Hearts).Color())
	assert.Equal(t, Red, NewCard(Two, Diamonds).Color())
	assert.Equal(t, Black, NewCard(King, Spades).Color())
	assert.Equal(t, Black, NewCard(Seven, Clubs).Color())
}

func TestCardStrings(t *testing.T) {
	c := NewCard(Ten, Hearts)
	assert.Equal(t, "10H", c.String())
	assert.Equal(t, "10♥", c.Unicode())
	assert.Equal(t, "AS", NewCard(Ace, Spades).String())
	assert.Equal(t, "Q♣", NewCard(Queen, Clubs).Unicode())
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		{name: "ten as digits", input: "10H", want: NewCard(Ten, Hearts)},
		{name: "ten as T", input: "Td", want: NewCard(Ten, Diamonds)},
		{name: "ace", input: "AS", want: NewCard(Ace, Spades)},
		{name: "lower case", input: "kc", want: NewCard(King, Clubs)},
		{name: "pip", input: "7D", want: NewCard(Seven, Diamonds)},
		{name: "invalid rank", input: "1S", wantErr: true},
		{name: "invalid suit", input: "AX", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(rank, suit)
			parsed, err := ParseCard(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	}
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal([]Card{NewCard(Ten, Hearts), NewCard(Ace, Spades)})
	require.NoError(t, err)
	assert.JSONEq(t, `["10H","AS"]`, string(data))

	var cards []Card
	require.NoError(t, json.Unmarshal(data, &cards))
	assert.Equal(t, []Card{NewCard(Ten, Hearts), NewCard(Ace, Spades)}, cards)

	_, err = json.Marshal(Card{})
	assert.Error(t, err)
}

func TestZeroCardInvalid(t *testing.T) {
	assert.False(t, Card{}.IsValid())
	assert.True(t, NewCard(Two, Clubs).IsValid())
}
