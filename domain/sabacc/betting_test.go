package sabacc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayers(stacks ...int) []Player {
	players := make([]Player, len(stacks))
	for i, s := range stacks {
		players[i] = Player{Seat: i, Stack: s, Status: StatusActive}
	}
	return players
}

func TestBettingBlinds(t *testing.T) {
	players := newPlayers(100, 100, 3)
	players[1].SmallBlind = true
	players[2].BigBlind = true
	b := NewBetting(3, 10)

	assert.Equal(t, 5, b.Ante(&players[1]))
	assert.Equal(t, 3, b.Ante(&players[2]))
	assert.Equal(t, 0, b.Ante(&players[0]))

	assert.Equal(t, StatusAllIn, players[2].Status)
	assert.Equal(t, 5, b.BetTo())
	assert.Equal(t, 5, b.Owed(&players[0]))
	assert.Equal(t, 0, b.Owed(&players[1]))
	assert.Equal(t, 8, b.Total())
}

func TestBettingRaise(t *testing.T) {
	players := newPlayers(100, 100, 100)
	b := NewBetting(3, 10)

	require.NoError(t, b.Raise(&players[0], 20, players))
	assert.Equal(t, 20, b.BetTo())
	assert.Equal(t, 80, players[0].Stack)

	require.NoError(t, b.Raise(&players[1], 10, players))
	assert.Equal(t, 30, b.BetTo())
	assert.Equal(t, 10, b.Owed(&players[0]))
	assert.Equal(t, 30, b.Owed(&players[2]))

	assert.ErrorIs(t, b.CheckRaise(&players[2], 0, players), ErrIllegalBet)
	assert.ErrorIs(t, b.CheckRaise(&players[2], 71, players), ErrIllegalBet)
	assert.NoError(t, b.CheckRaise(&players[2], 70, players))

	b.NewRound()
	assert.Zero(t, b.BetTo())
	assert.Zero(t, b.Committed(0))
	assert.Equal(t, 20, b.Contributed(0))
}

func TestBettingRaiseUncontested(t *testing.T) {
	players := newPlayers(100, 100)
	b := NewBetting(2, 10)
	b.Fold(&players[1])

	assert.ErrorIs(t, b.Raise(&players[0], 10, players), ErrIllegalBet)
	assert.Zero(t, b.Total())
}

func TestBettingCallIsCapped(t *testing.T) {
	players := newPlayers(100, 15)
	b := NewBetting(2, 10)
	require.NoError(t, b.Raise(&players[0], 40, players))

	assert.Equal(t, 15, b.Call(&players[1]))
	assert.Zero(t, players[1].Stack)
	assert.Equal(t, StatusAllIn, players[1].Status)
}

func TestBettingAllIn(t *testing.T) {
	players := newPlayers(100, 30, 10)
	b := NewBetting(3, 10)
	require.NoError(t, b.Raise(&players[0], 20, players))

	assert.True(t, b.AllIn(&players[1]))
	assert.Equal(t, 30, b.BetTo())
	assert.False(t, b.AllIn(&players[2]))
	assert.Equal(t, 30, b.BetTo())
}

func TestBettingSidePots(t *testing.T) {
	players := newPlayers(200, 50, 200, 200)
	b := NewBetting(4, 10)

	b.AllIn(&players[1])
	b.Call(&players[2])
	require.NoError(t, b.Raise(&players[3], 50, players))
	b.Call(&players[2])
	b.Call(&players[0])
	b.Fold(&players[0])

	pots := b.Pots(players)
	require.Len(t, pots, 2)
	assert.Equal(t, Pot{Amount: 200, Eligible: []int{1, 2, 3}}, pots[0])
	assert.Equal(t, Pot{Amount: 150, Eligible: []int{2, 3}}, pots[1])
	assert.Equal(t, b.Total(), pots[0].Amount+pots[1].Amount)
}

func TestBettingPotsMergeEqualLayers(t *testing.T) {
	players := newPlayers(100, 100, 100)
	b := NewBetting(3, 10)
	require.NoError(t, b.Raise(&players[0], 10, players))
	b.Call(&players[1])
	b.Call(&players[2])
	b.NewRound()
	require.NoError(t, b.Raise(&players[0], 20, players))
	b.Call(&players[1])
	b.Call(&players[2])

	assert.Equal(t, []Pot{{Amount: 90, Eligible: []int{0, 1, 2}}}, b.Pots(players))
}

func TestBettingFoldedExcess(t *testing.T) {
	players := newPlayers(100, 100, 100)
	b := NewBetting(3, 10)
	require.NoError(t, b.Raise(&players[0], 10, players))
	b.Call(&players[1])
	require.NoError(t, b.Raise(&players[2], 30, players))
	b.Fold(&players[0])
	b.Fold(&players[1])

	assert.Equal(t, []Pot{{Amount: 60, Eligible: []int{2}}}, b.Pots(players))
}

func TestBettingDeadMoney(t *testing.T) {
	players := newPlayers(100, 100)
	b := NewBetting(2, 10)
	b.AddDead(25)
	assert.Equal(t, 5, b.Forfeit(&players[1], 5))

	pots := b.Pots(players)
	require.Len(t, pots, 1)
	assert.Equal(t, Pot{Amount: 30, Eligible: []int{0, 1}}, pots[0])
	assert.Equal(t, 95, players[1].Stack)

	b.Call(&players[0])
	require.NoError(t, b.Raise(&players[0], 10, players))
	b.Call(&players[1])
	assert.Equal(t, 50, b.Pots(players)[0].Amount)
}

func TestBettingStakeKeepsLevel(t *testing.T) {
	players := newPlayers(100, 5, 100)
	b := NewBetting(3, 10)
	b.AllIn(&players[1])
	require.NoError(t, b.Raise(&players[0], 20, players))
	b.Stake(&players[2], "ship")

	assert.Equal(t, StatusStaked, players[2].Status)
	assert.Equal(t, "ship", players[2].Stake)
	pots := b.Pots(players)
	require.Len(t, pots, 2)
	assert.Equal(t, Pot{Amount: 10, Eligible: []int{0, 1}}, pots[0])
	assert.Equal(t, Pot{Amount: 20, Eligible: []int{0}}, pots[1])
}
