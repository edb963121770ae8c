package sabacc

import (
	"context"
	"errors"
	"testing"

	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	kingNine   = [2]string{"KW", "9C"}
	lowPair    = [2]string{"2S", "9S"}
	fifteen    = [2]string{"8D", "7D"}
	threeEqual = []int{200, 200, 200}
)

func threePlayers(t *testing.T, p1, p2, p0 [2]string, s0, s1, s2 *script) *fixture {
	t.Helper()
	return newFixture(t, testConfig(), threeEqual, threeHanded(t, p1, p2, p0), s0, s1, s2)
}

func TestHandPlaysToShowdown(t *testing.T) {
	f := threePlayers(t, kingNine, [2]string{"10C", "5D"}, lowPair,
		newScript().on(RequestWager, Fold{}),
		newScript().on(RequestWager, Raise{Amount: 20}),
		newScript())
	res := f.run(t)

	assert.Equal(t, PhaseSettled, f.hand.Phase())
	assert.True(t, res.Revealed)
	assert.Equal(t, []int{200, 230, 170}, res.Stacks)
	assert.Equal(t, threeEqual, res.Starting)
	assert.Equal(t, []int{1}, res.Winners())
	assert.Len(t, res.Scores, 2)
	assert.Equal(t, 23, res.Scores[1].Value)
	assert.Equal(t, 15, res.Scores[2].Value)
	require.Len(t, res.Awards, 1)
	assert.Equal(t, 60, res.Awards[0].Amount)

	assert.Equal(t, EventStarted, f.events[0].Kind)
	assert.Equal(t, EventSettled, f.events[len(f.events)-1].Kind)
	blinds := f.eventsOf(EventBlind)
	require.Len(t, blinds, 2)
	assert.Equal(t, 1, blinds[0].Seat)
	assert.Equal(t, 5, blinds[0].Amount)
	assert.Equal(t, 2, blinds[1].Seat)
	assert.Equal(t, 10, blinds[1].Amount)
	assert.Len(t, f.hand.deck.Cards(deck.CommunityPile), 5)
	assert.Len(t, f.hand.deck.Cards(deck.DiscardPile), 3)
}

func TestHandDealOrder(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair, newScript(), newScript(), newScript())
	f.run(t)

	dealt := f.eventsOf(EventDealt)
	require.Len(t, dealt, 1)
	assert.Equal(t, cards(t, "4W", "5W", "6W"), dealt[0].Cards)

	players := f.hand.Players()
	assert.Equal(t, cards(t, "KW", "9C"), players[1].Hand)
	assert.Equal(t, cards(t, "8D", "7D"), players[2].Hand)
	assert.Equal(t, cards(t, "2S", "9S"), players[0].Hand)
	assert.Equal(t, cards(t, "7W"), f.hand.deck.Cards(deck.DiscardPile)[:1])
}

func TestHandSnapshotHidesOtherHands(t *testing.T) {
	var checked bool
	f := threePlayers(t, kingNine, fifteen, lowPair, newScript(), newScript(), newScript())
	f.hand.observers = append(f.hand.observers, ObserverFunc(func(e Event) {
		if e.Kind != EventDealt {
			return
		}
		checked = true
		for _, p := range e.Snapshot.Players {
			assert.Nil(t, p.Hand)
			assert.Equal(t, 2, p.HandSize)
		}
		own := f.hand.Snapshot(1)
		assert.Equal(t, cards(t, "KW", "9C"), own.Me().Hand)
		assert.Nil(t, own.Players[2].Hand)
		assert.Equal(t, 5, own.Owed())
	}))
	f.run(t)
	assert.True(t, checked)
}

func TestHangedManNullifiesEmperor(t *testing.T) {
	f := threePlayers(t, [2]string{"T4", "8C"}, [2]string{"T12", "6C"}, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0, Target: 2}),
		newScript().on(RequestNullify, Nullify{}))
	res := f.run(t)

	nullify := f.scripts[2].requests(RequestNullify)
	require.Len(t, nullify, 1)
	require.NotNil(t, nullify[0].Effect)
	assert.Equal(t, "The Emperor", nullify[0].Effect.Name)
	assert.Equal(t, 1, nullify[0].Effect.Source)
	require.NotNil(t, nullify[0].View.Pending)

	assert.Empty(t, f.scripts[2].requests(RequestEmperor))
	assert.Equal(t, StatusActive, f.hand.Players()[2].Status)
	assert.ElementsMatch(t, cards(t, "T4", "T12"), f.hand.deck.Cards(deck.RemovedPile))
	require.Len(t, res.Effects, 1)
	assert.Equal(t, 2, res.Effects[0].NullifiedBy)
	assert.True(t, res.Effects[0].Nullified())
	assert.Len(t, f.eventsOf(EventNullified), 1)
	assert.Equal(t, []int{0}, res.Winners())
}

func TestEmperor(t *testing.T) {
	t.Run("target folds", func(t *testing.T) {
		f := threePlayers(t, [2]string{"T4", "8C"}, fifteen, lowPair,
			newScript(),
			newScript().on(RequestTrump, PlayTrump{Index: 0, Target: 2}),
			newScript())
		res := f.run(t)

		assert.Len(t, f.scripts[2].requests(RequestEmperor), 1)
		assert.Equal(t, StatusFolded, f.hand.Players()[2].Status)
		assert.Equal(t, []int{220, 190, 190}, res.Stacks)
		assert.False(t, res.Effects[0].Nullified())
		assert.Contains(t, f.hand.deck.Cards(deck.RemovedPile), deck.T(deck.Emperor))
	})
	t.Run("target antes up", func(t *testing.T) {
		f := threePlayers(t, [2]string{"T4", "8C"}, fifteen, lowPair,
			newScript(),
			newScript().on(RequestTrump, PlayTrump{Index: 0, Target: 2}),
			newScript().on(RequestEmperor, AnteUp{}))
		res := f.run(t)

		assert.Equal(t, []int{190, 190, 220}, res.Stacks)
		require.Len(t, res.Awards, 1)
		assert.Equal(t, 40, res.Awards[0].Amount)
	})
	t.Run("target discards two", func(t *testing.T) {
		f := threePlayers(t, [2]string{"T4", "8C"}, fifteen, lowPair,
			newScript(),
			newScript().on(RequestTrump, PlayTrump{Index: 0, Target: 2}),
			newScript().on(RequestEmperor, DiscardPair{First: 0, Second: 1}))
		f.run(t)

		assert.Empty(t, f.hand.Players()[2].Hand)
		assert.Equal(t, cards(t, "7W", "7D", "8D"), f.hand.deck.Cards(deck.DiscardPile)[:3])
	})
}

func TestHermitLocksAndShields(t *testing.T) {
	f := threePlayers(t, [2]string{"T9", "KW"}, [2]string{"T4", "6C"}, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript().on(RequestTrump, PlayTrump{Index: 0, Target: 1}))
	res := f.run(t)

	p1 := f.hand.Players()[1]
	assert.Equal(t, StatusLocked, p1.Status)
	assert.Equal(t, cards(t, "T9"), p1.Tableau)
	assert.Len(t, f.scripts[1].requests(RequestWager), 1)

	rejected := f.eventsOf(EventRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 2, rejected[0].Seat)
	assert.Len(t, f.scripts[2].requests(RequestTrump), 4)
	assert.Equal(t, []int{1}, res.Winners())
	assert.Equal(t, 220, res.Stacks[1])
}

func TestJudgmentForcesShowdown(t *testing.T) {
	f := threePlayers(t, [2]string{"T20", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	res := f.run(t)

	assert.Len(t, f.hand.deck.Cards(deck.CommunityPile), 3)
	assert.Empty(t, f.scripts[1].requests(RequestDraw))
	assert.Empty(t, f.scripts[0].requests(RequestWager))
	require.Len(t, res.Awards, 1)
	assert.Equal(t, []int{1, 2}, res.Awards[0].Eligible)
	assert.Equal(t, []int{200, 190, 210}, res.Stacks)
}

func TestHierophantCollectsBeforeApplying(t *testing.T) {
	f := threePlayers(t, [2]string{"T5", "KW"}, fifteen, lowPair,
		newScript().on(RequestConfess, Fold{}),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	res := f.run(t)

	asked := f.scripts[0].requests(RequestConfess)
	require.Len(t, asked, 1)
	assert.Nil(t, asked[0].View.Players[2].Confessed)
	assert.Equal(t, StatusActive, asked[0].View.Players[2].Status)

	players := f.hand.Players()
	require.NotNil(t, players[2].Confessed)
	assert.Equal(t, 15, *players[2].Confessed)
	assert.Nil(t, players[1].Confessed)
	assert.Equal(t, StatusFolded, players[0].Status)
	assert.Equal(t, []int{2}, res.Winners())
}

func TestChariot(t *testing.T) {
	f := threePlayers(t, [2]string{"T7", "KW"}, [2]string{"10C", "6C"}, lowPair,
		newScript().on(RequestChariot, Fold{}),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	f.run(t)

	players := f.hand.Players()
	assert.Equal(t, cards(t, "6C"), players[2].Hand)
	assert.Equal(t, StatusFolded, players[0].Status)
	assert.Equal(t, cards(t, "7W", "10C"), f.hand.deck.Cards(deck.DiscardPile)[:2])
}

func TestSunShowsEveryHand(t *testing.T) {
	f := threePlayers(t, [2]string{"T19", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	f.run(t)

	var sun *Event
	for _, e := range f.eventsOf(EventEffect) {
		if e.Seat == 1 {
			sun = &e
		}
	}
	require.NotNil(t, sun)
	assert.True(t, sun.Snapshot.AllFaceUp)
	assert.Equal(t, cards(t, "8D", "7D"), sun.Snapshot.Players[2].Hand)
	assert.Equal(t, cards(t, "2S", "9S"), sun.Snapshot.Players[0].Hand)
	assert.Equal(t, cards(t, "T19"), f.hand.Players()[1].Tableau)
}

func TestMoonAddsCommunityCard(t *testing.T) {
	f := threePlayers(t, [2]string{"T18", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	f.run(t)

	effects := f.eventsOf(EventEffect)
	require.Len(t, effects, 1)
	assert.Equal(t, PhaseFlop, effects[0].Phase)
	assert.Equal(t, cards(t, "4W", "5W", "6W", "1W"), effects[0].Snapshot.Community)
	assert.Len(t, f.hand.deck.Cards(deck.CommunityPile), 6)
}

func TestWheelOfFortune(t *testing.T) {
	f := threePlayers(t, [2]string{"T10", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().
			on(RequestTrump, PlayTrump{Index: 0}).
			on(RequestKeep, Keep{Indices: []int{0}}),
		newScript())
	f.run(t)

	keep := f.scripts[1].requests(RequestKeep)
	require.Len(t, keep, 1)
	assert.Equal(t, cards(t, "1W", "2W", "3W", "8W"), keep[0].Cards)
	assert.Equal(t, cards(t, "KW", "1W"), f.hand.Players()[1].Hand)
	assert.Equal(t, cards(t, "7W", "2W", "3W", "8W"), f.hand.deck.Cards(deck.DiscardPile)[:4])
}

func TestWheelOfFortuneRejectedKeepLeavesCardsOnThePile(t *testing.T) {
	f := threePlayers(t, [2]string{"T10", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().
			on(RequestTrump, PlayTrump{Index: 0}).
			on(RequestKeep, Keep{Indices: []int{9}}, Keep{Indices: []int{0}}),
		newScript())
	f.run(t)

	rejected := f.eventsOf(EventRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 1, rejected[0].Seat)
	assert.Len(t, f.scripts[1].requests(RequestKeep), 2)
	assert.Equal(t, cards(t, "KW", "1W"), f.hand.Players()[1].Hand)
	assert.Equal(t, cards(t, "7W", "2W", "3W", "8W"), f.hand.deck.Cards(deck.DiscardPile)[:4])
}

func TestMagicianArrangesDrawPile(t *testing.T) {
	f := threePlayers(t, [2]string{"T1", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().
			on(RequestTrump, PlayTrump{Index: 0}).
			on(RequestArrange, Arrange{Order: []int{3, 2, 1, 0}}),
		newScript())
	f.run(t)

	arrange := f.scripts[1].requests(RequestArrange)
	require.Len(t, arrange, 1)
	assert.Equal(t, cards(t, "1W", "2W", "3W", "8W"), arrange[0].Cards)
	assert.Equal(t, cards(t, "7W", "8W", "2W"), f.hand.deck.Cards(deck.DiscardPile))
	assert.Equal(t, cards(t, "4W", "5W", "6W", "3W", "1W"), f.hand.deck.Cards(deck.CommunityPile))
}

func TestUniversePeeks(t *testing.T) {
	f := threePlayers(t, [2]string{"T21", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().on(RequestTrump, PlayTrump{Index: 0}),
		newScript())
	f.run(t)

	peek := f.scripts[1].requests(RequestPeek)
	require.Len(t, peek, 1)
	assert.Equal(t, cards(t, "1W", "2W", "3W", "8W", "9W", "10W"), peek[0].Cards)
	assert.Equal(t, cards(t, "7W", "1W", "3W"), f.hand.deck.Cards(deck.DiscardPile))
}

func TestDevilHandoff(t *testing.T) {
	f := threePlayers(t, [2]string{"T15", "KW"}, fifteen, lowPair,
		newScript(),
		newScript().on(RequestDevil, GiveDevil{Target: 2}),
		newScript())
	res := f.run(t)

	players := f.hand.Players()
	assert.Equal(t, cards(t, "KW"), players[1].Hand)
	assert.Contains(t, players[2].Hand, deck.T(deck.Devil))
	require.Len(t, res.Effects, 1)
	assert.Equal(t, 2, res.Effects[0].Target)
	assert.Len(t, f.eventsOf(EventDevil), 1)
	assert.NotEmpty(t, f.scripts[2].requests(RequestDevil))
	assert.Equal(t, 0, res.Scores[2].Value)
}

func TestRejectedDecisionIsAskedAgain(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair,
		newScript(),
		newScript().on(RequestWager, Knock{}, Fold{}),
		newScript())
	f.run(t)

	rejected := f.eventsOf(EventRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 1, rejected[0].Seat)
	assert.Empty(t, f.eventsOf(EventFallback))
	assert.Equal(t, StatusFolded, f.hand.Players()[1].Status)
	assert.Len(t, f.scripts[1].requests(RequestWager), 2)
}

func TestFallbackAfterMaxAttempts(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair,
		newScript(),
		newScript().on(RequestWager, Knock{}, Raise{Amount: 1000}, Knock{}),
		newScript())
	f.run(t)

	assert.Len(t, f.eventsOf(EventRejected), 3)
	fallback := f.eventsOf(EventFallback)
	require.Len(t, fallback, 1)
	assert.Equal(t, 1, fallback[0].Seat)
	assert.Equal(t, StatusFolded, f.hand.Players()[1].Status)
}

func TestActorErrorFallsBack(t *testing.T) {
	broken := ActorFunc(func(context.Context, Request) (Decision, error) {
		return nil, errors.New("connection lost")
	})
	seats := []Seat{
		{Name: "A", Stack: 200, Actor: newScript()},
		{Name: "B", Stack: 200, Actor: broken},
		{Name: "C", Stack: 200, Actor: newScript()},
	}
	var fallbacks int
	h, err := NewHand(testConfig(), seats, 0,
		WithDeck(threeHanded(t, kingNine, fifteen, lowPair)),
		WithLogger(quietLogger()),
		WithObserver(ObserverFunc(func(e Event) {
			if e.Kind == EventFallback {
				fallbacks++
			}
		})))
	require.NoError(t, err)
	res, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fallbacks)
	assert.Equal(t, StatusFolded, h.Players()[1].Status)
	assert.Equal(t, 195, res.Stacks[1])
}

func TestValidate(t *testing.T) {
	var h *Hand
	var outOfTurn, closedWindow error
	seat1 := ActorFunc(func(_ context.Context, req Request) (Decision, error) {
		if req.Kind == RequestWager && outOfTurn == nil {
			outOfTurn = h.Validate(Request{Kind: RequestWager, Seat: 2}, Call{})
			closedWindow = h.Validate(Request{Kind: RequestNullify, Seat: 1}, Nullify{})
		}
		return passive(req), nil
	})
	seats := []Seat{
		{Name: "A", Stack: 200, Actor: newScript()},
		{Name: "B", Stack: 200, Actor: seat1},
		{Name: "C", Stack: 200, Actor: newScript()},
	}
	h, err := NewHand(testConfig(), seats, 0,
		WithDeck(threeHanded(t, kingNine, fifteen, lowPair)),
		WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = h.Run(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, outOfTurn, ErrIllegalAction)
	assert.ErrorIs(t, closedWindow, ErrIllegalEffect)
	assert.ErrorIs(t, h.Validate(Request{Kind: RequestTrump, Seat: 1}, PlayTrump{}), ErrIllegalEffect)
	assert.ErrorIs(t, h.Validate(Request{Kind: RequestWager, Seat: 1}, Call{}), ErrIllegalAction)
	assert.ErrorIs(t, h.Validate(Request{Kind: RequestWager, Seat: 9}, Call{}), ErrIllegalAction)
}

func TestValidateEmptyDrawPile(t *testing.T) {
	for _, reshuffle := range []bool{false, true} {
		cfg := testConfig()
		cfg.Reshuffle = reshuffle
		seats := []Seat{
			{Name: "A", Stack: 100, Actor: newScript()},
			{Name: "B", Stack: 100, Actor: newScript()},
		}
		h, err := NewHand(cfg, seats, 0, WithLogger(quietLogger()))
		require.NoError(t, err)
		for h.deck.Len(deck.DrawPile) > 0 {
			require.NoError(t, h.deck.DealToDiscard())
		}
		h.phase = PhaseFlop
		h.turn = 1

		err = h.Validate(Request{Kind: RequestDraw, Seat: 1}, DrawFromPile{})
		if reshuffle {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrEmptyPile)
		}
		assert.NoError(t, h.Validate(Request{Kind: RequestDraw, Seat: 1}, Pass{}))
		assert.NoError(t, h.Validate(Request{Kind: RequestDraw, Seat: 1}, DrawDiscardRun{From: 77}))
	}
}

func TestSidePots(t *testing.T) {
	f := newFixture(t, testConfig(), []int{200, 50, 200},
		threeHanded(t, kingNine, [2]string{"KC", "8C"}, lowPair),
		newScript().on(RequestWager, Raise{Amount: 50}),
		newScript().on(RequestWager, AllIn{}),
		newScript())
	res := f.run(t)

	require.Len(t, res.Awards, 2)
	side, main := res.Awards[0], res.Awards[1]
	assert.Equal(t, Award{Pot: 1, Amount: 100, Eligible: []int{0, 2}, Winners: []int{2}, Shares: []int{100}}, side)
	assert.Equal(t, Award{Pot: 0, Amount: 150, Eligible: []int{0, 1, 2}, Winners: []int{1}, Shares: []int{150}}, main)
	assert.Equal(t, []int{100, 150, 200}, res.Stacks)
}

func TestNestedSidePots(t *testing.T) {
	// Seat 1 and seat 2 go all-in for 30 and 80, seat 3 raises to 120 and
	// the dealer calls.
	f := newFixture(t, testConfig(), []int{200, 30, 80, 200},
		dealing(t, kingNine, [2]string{"KC", "8C"}, fifteen, lowPair),
		newScript().on(RequestWager, Call{}),
		newScript().on(RequestWager, AllIn{}),
		newScript().on(RequestWager, AllIn{}),
		newScript().on(RequestWager, Raise{Amount: 40}))
	res := f.run(t)

	for s, c := range []int{120, 30, 80, 120} {
		assert.Equal(t, c, f.hand.bet.Contributed(s), "seat %d", s)
	}
	require.Len(t, res.Awards, 3)
	assert.Equal(t, Award{Pot: 2, Amount: 80, Eligible: []int{0, 3}, Winners: []int{3}, Shares: []int{80}}, res.Awards[0])
	assert.Equal(t, Award{Pot: 1, Amount: 150, Eligible: []int{0, 2, 3}, Winners: []int{2}, Shares: []int{150}}, res.Awards[1])
	assert.Equal(t, Award{Pot: 0, Amount: 120, Eligible: []int{0, 1, 2, 3}, Winners: []int{1}, Shares: []int{120}}, res.Awards[2])

	// Seat 1 holds the best hand but only takes the layer it reached.
	assert.Equal(t, 23, res.Scores[1].Value)
	assert.Equal(t, []int{0, 120, 150, 80}, res.Won)
	assert.Equal(t, []int{80, 120, 150, 160}, res.Stacks)
	for _, a := range res.Awards[:2] {
		assert.NotContains(t, a.Eligible, 1)
	}
}

func TestBustedPotCarriesOver(t *testing.T) {
	f := threePlayers(t, [2]string{"KW", "QW"}, [2]string{"KC", "QC"}, lowPair,
		newScript().on(RequestWager, Fold{}),
		newScript(),
		newScript())
	res := f.run(t)

	assert.Equal(t, 20, res.CarryOver)
	require.Len(t, res.Awards, 1)
	assert.True(t, res.Awards[0].Carried)
	assert.Empty(t, res.Winners())
	assert.Equal(t, []int{200, 190, 190}, res.Stacks)
	assert.Len(t, f.eventsOf(EventCarryOver), 1)
}

func TestLastPlayerTakesPotUnseen(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair,
		newScript().on(RequestWager, Fold{}),
		newScript().on(RequestWager, Fold{}),
		newScript())
	res := f.run(t)

	assert.False(t, res.Revealed)
	assert.Nil(t, res.Scores)
	assert.Empty(t, f.eventsOf(EventShowdown))
	assert.Equal(t, []int{200, 195, 205}, res.Stacks)
	assert.Nil(t, f.hand.Snapshot(NoSeat).Players[2].Hand)
}

func TestTiedHands(t *testing.T) {
	tests := []struct {
		ties   TiePolicy
		stacks []int
		shares []int
	}{
		{TieSplit, []int{189, 206, 205}, []int{17, 16}},
		{TieBreak, []int{189, 222, 189}, []int{33}},
	}
	for _, tt := range tests {
		t.Run(tt.ties.String(), func(t *testing.T) {
			cfg := testConfig()
			cfg.Ties = tt.ties
			f := newFixture(t, cfg, threeEqual,
				threeHanded(t, kingNine, [2]string{"KC", "9W"}, lowPair),
				newScript().on(RequestWager, Call{}, Fold{}),
				newScript().on(RequestWager, Raise{Amount: 1}),
				newScript())
			res := f.run(t)

			require.Len(t, res.Awards, 1)
			assert.Equal(t, 33, res.Awards[0].Amount)
			assert.Equal(t, tt.shares, res.Awards[0].Shares)
			assert.Equal(t, tt.stacks, res.Stacks)
		})
	}
}

func TestStakeTransfersToWinner(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair,
		newScript().on(RequestWager, Stake{Item: "ship"}),
		newScript(),
		newScript())
	res := f.run(t)

	assert.Equal(t, StatusStaked, f.hand.Players()[0].Status)
	assert.Equal(t, []Transfer{{Item: "ship", From: 0, To: 1}}, res.Transfers)
	assert.Equal(t, []int{200, 210, 190}, res.Stacks)
	assert.Len(t, f.eventsOf(EventTransfer), 1)
}

func TestStakerWithTheBestHandKeepsTheItem(t *testing.T) {
	f := threePlayers(t, fifteen, lowPair, kingNine,
		newScript().on(RequestWager, Stake{Item: "ship"}),
		newScript(),
		newScript())
	res := f.run(t)

	assert.Equal(t, 0, f.hand.bet.Contributed(0))
	assert.Equal(t, 23, res.Scores[0].Value)
	require.Len(t, res.Awards, 1)
	assert.Equal(t, []int{1, 2}, res.Awards[0].Eligible)
	assert.Equal(t, []int{1}, res.Awards[0].Winners)
	assert.Empty(t, res.Transfers)
	assert.Empty(t, f.eventsOf(EventTransfer))
	assert.Equal(t, []int{200, 210, 190}, res.Stacks)
}

func TestNewHandErrors(t *testing.T) {
	actor := newScript()
	tests := []struct {
		name   string
		seats  []Seat
		dealer int
	}{
		{"one seat", []Seat{{Stack: 10, Actor: actor}}, 0},
		{"one seat with chips", []Seat{{Stack: 10, Actor: actor}, {Actor: actor}}, 0},
		{"dealer without chips", []Seat{{Stack: 10, Actor: actor}, {Stack: 10, Actor: actor}, {Actor: actor}}, 2},
		{"negative stack", []Seat{{Stack: 10, Actor: actor}, {Stack: -1, Actor: actor}}, 0},
		{"no actor", []Seat{{Stack: 10, Actor: actor}, {Stack: 10}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHand(testConfig(), tt.seats, tt.dealer)
			assert.Error(t, err)
		})
	}

	_, err := NewHand(Config{BigBlind: 0, MaxAttempts: 1}, []Seat{{Stack: 1, Actor: actor}, {Stack: 1, Actor: actor}}, 0)
	assert.Error(t, err)
}

func TestRunTwice(t *testing.T) {
	f := threePlayers(t, kingNine, fifteen, lowPair, newScript(), newScript(), newScript())
	f.run(t)
	_, err := f.hand.Run(context.Background())
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, ok := f.hand.Result()
	assert.True(t, ok)
}
