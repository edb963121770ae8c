package bot

import (
	"context"
	"log/slog"
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

// Computer plays for one seat by looking at the distance of its hand from 23.
// It only answers with decisions the hand accepts.
type Computer struct {
	log *slog.Logger
}

// NewComputer returns a computer player. A nil logger falls back to
// slog.Default.
func NewComputer(log *slog.Logger) *Computer {
	if log == nil {
		log = slog.Default()
	}
	return &Computer{log: log}
}

func (c *Computer) Decide(ctx context.Context, req sabacc.Request) (sabacc.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := req.View
	hand := v.Me().Hand

	var d sabacc.Decision
	switch req.Kind {
	case sabacc.RequestWager:
		d = wager(v, req.Owed)
	case sabacc.RequestTrump:
		d = trump(v)
	case sabacc.RequestDraw:
		d = draw(v)
	case sabacc.RequestDiscard:
		d = discard(hand, false)
	case sabacc.RequestChariot:
		d = discard(hand, true)
	case sabacc.RequestDevil:
		d = devil(v)
	case sabacc.RequestNullify:
		d = nullify(v, req.Effect)
	case sabacc.RequestConfess:
		d = sabacc.Confess{}
	case sabacc.RequestEmperor:
		d = emperor(v)
	case sabacc.RequestArrange:
		order := make([]int, len(req.Cards))
		for i := range order {
			order[i] = i
		}
		d = sabacc.Arrange{Order: order}
	case sabacc.RequestKeep:
		d = keep(hand, req.Cards)
	default:
		d = sabacc.Pass{}
	}
	c.log.Debug("computer decided", "seat", req.Seat, "request", req.Kind, "decision", sabacc.Describe(d))
	return d, nil
}

// better reports whether cards a would beat cards b at showdown.
func better(a, b []deck.Card) bool {
	return sabacc.Compare(sabacc.Evaluate(a), sabacc.Evaluate(b), sabacc.TieSplit) > 0
}

func strong(s sabacc.Score, within int) bool {
	return !s.Busted && s.Distance() <= within
}

func without(cards []deck.Card, idx ...int) []deck.Card {
	out := make([]deck.Card, 0, len(cards))
	for i, c := range cards {
		if !slices.Contains(idx, i) {
			out = append(out, c)
		}
	}
	return out
}

// wager raises one big blind with a hand within 3 of 23 when nobody raised
// yet, folds hopeless hands facing a real bet and calls or knocks otherwise.
func wager(v sabacc.Snapshot, owed int) sabacc.Decision {
	me := v.Me()
	s := sabacc.Evaluate(me.Hand)
	switch {
	case strong(s, 3) && v.BetToCall <= v.BigBlind && contested(v) && owed+v.BigBlind <= me.Stack:
		return sabacc.Raise{Amount: v.BigBlind}
	case owed == 0:
		return sabacc.Knock{}
	case s.Busted && owed > v.BigBlind:
		return sabacc.Fold{}
	case s.Distance() > 12 && owed > me.Stack/4:
		return sabacc.Fold{}
	}
	return sabacc.Call{}
}

// contested mirrors the betting engine: a raise needs another active seat.
func contested(v sabacc.Snapshot) bool {
	return slices.ContainsFunc(v.Players, func(p sabacc.PlayerView) bool {
		return p.Seat != v.Viewer && p.Status == sabacc.StatusActive
	})
}

// richest returns the targetable opponent with the largest stack, or NoSeat.
func richest(v sabacc.Snapshot) int {
	seat, stack := sabacc.NoSeat, -1
	for _, p := range v.Players {
		if p.Seat == v.Viewer || !p.Status.InHand() || p.Status == sabacc.StatusLocked {
			continue
		}
		if p.Stack > stack {
			seat, stack = p.Seat, p.Stack
		}
	}
	return seat
}

func trump(v sabacc.Snapshot) sabacc.Decision {
	hand := v.Me().Hand
	s := sabacc.Evaluate(hand)
	for i, c := range hand {
		if !sabacc.Playable(c) {
			continue
		}
		switch c.Rank() {
		case deck.Hermit, deck.Judgment:
			if strong(s, 2) {
				return sabacc.PlayTrump{Index: i, Target: sabacc.NoSeat}
			}
		case deck.Wheel:
			if !s.Busted && s.Distance() > 8 && v.DrawSize > 0 {
				return sabacc.PlayTrump{Index: i, Target: sabacc.NoSeat}
			}
		case deck.Emperor:
			if t := richest(v); t != sabacc.NoSeat {
				return sabacc.PlayTrump{Index: i, Target: t}
			}
		}
	}
	return sabacc.Pass{}
}

// draw takes the visible card that improves the hand most. Without one it
// draws blind from the pile when the hand is still far from 23.
func draw(v sabacc.Snapshot) sabacc.Decision {
	hand := v.Me().Hand
	best, choice := hand, sabacc.Decision(sabacc.Pass{})
	if n := len(v.Discard); n > 0 {
		cand := append(slices.Clone(hand), v.Discard[n-1])
		if better(cand, best) {
			best, choice = cand, sabacc.DrawDiscardRun{From: n - 1}
		}
	}
	for ci, cc := range v.Community {
		for gi := range hand {
			cand := slices.Clone(hand)
			cand[gi] = cc
			if better(cand, best) {
				best, choice = cand, sabacc.DrawCommunity{Community: ci, Give: gi}
			}
		}
	}
	if _, pass := choice.(sabacc.Pass); pass && v.DrawSize > 0 {
		if s := sabacc.Evaluate(hand); !s.Busted && s.Distance() > 6 {
			return sabacc.DrawFromPile{}
		}
	}
	return choice
}

// discard drops the card whose removal helps most. A forced discard drops
// the least harmful card and folds only with an empty hand.
func discard(hand []deck.Card, forced bool) sabacc.Decision {
	idx, best := -1, hand
	for i := range hand {
		cand := without(hand, i)
		if (forced && idx < 0) || better(cand, best) {
			idx, best = i, cand
		}
	}
	switch {
	case idx >= 0:
		return sabacc.Discard{Index: idx}
	case forced:
		return sabacc.Fold{}
	}
	return sabacc.Pass{}
}

func devil(v sabacc.Snapshot) sabacc.Decision {
	hand := v.Me().Hand
	i := slices.IndexFunc(hand, func(c deck.Card) bool { return c.Is(deck.Devil) })
	t := richest(v)
	if i < 0 || t == sabacc.NoSeat || !better(without(hand, i), hand) {
		return sabacc.Pass{}
	}
	return sabacc.GiveDevil{Target: t}
}

// nullify cancels effects aimed at the bot and an early showdown.
func nullify(v sabacc.Snapshot, eff *sabacc.EffectRecord) sabacc.Decision {
	me := v.Me()
	holds := slices.ContainsFunc(me.Hand, func(c deck.Card) bool { return c.Is(deck.HangedMan) })
	if eff == nil || !holds || me.Status == sabacc.StatusLocked || eff.Source == me.Seat {
		return sabacc.Pass{}
	}
	if eff.Target == me.Seat || eff.Card.Is(deck.Judgment) {
		return sabacc.Nullify{}
	}
	return sabacc.Pass{}
}

func emperor(v sabacc.Snapshot) sabacc.Decision {
	me := v.Me()
	if me.Stack >= v.BigBlind {
		return sabacc.AnteUp{}
	}
	if len(me.Hand) < 2 {
		return sabacc.Fold{}
	}
	first, second := 0, 1
	best := without(me.Hand, first, second)
	for i := range me.Hand {
		for j := i + 1; j < len(me.Hand); j++ {
			if cand := without(me.Hand, i, j); better(cand, best) {
				first, second, best = i, j, cand
			}
		}
	}
	return sabacc.DiscardPair{First: first, Second: second}
}

// keep adds shown cards one at a time while each improves the hand.
func keep(hand, shown []deck.Card) sabacc.Decision {
	cur := slices.Clone(hand)
	var idx []int
	for i, c := range shown {
		if cand := append(slices.Clone(cur), c); better(cand, cur) {
			cur = cand
			idx = append(idx, i)
		}
	}
	return sabacc.Keep{Indices: idx}
}
