package sabacc

import (
	"context"
	"fmt"
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// takeTurn runs one seat's turn: optional Devil handoff, wager, optional
// trump, at most one draw per round and at most one discard.
func (h *Hand) takeTurn(ctx context.Context, seat int) {
	h.turn = seat
	p := &h.players[seat]

	if p.holds(deck.Devil) >= 0 && len(h.others(seat)) > 0 {
		if d, ok := h.ask(ctx, Request{Kind: RequestDevil, Seat: seat}).(GiveDevil); ok {
			h.playTrump(ctx, seat, p.holds(deck.Devil), d.Target)
		}
	}

	wager := h.ask(ctx, Request{Kind: RequestWager, Seat: seat, Owed: h.bet.Owed(p)})
	h.acted[seat] = true
	h.applyWager(p, wager)
	if p.Status == StatusFolded {
		return
	}

	if slices.ContainsFunc(p.Hand, Playable) {
		if d, ok := h.ask(ctx, Request{Kind: RequestTrump, Seat: seat}).(PlayTrump); ok {
			h.playTrump(ctx, seat, d.Index, d.Target)
			if h.showdownDue() {
				return
			}
		}
	}

	if !h.drawn[seat] {
		h.applyDraw(p, h.ask(ctx, Request{Kind: RequestDraw, Seat: seat}))
	}
	if len(p.Hand) > 0 {
		if d, ok := h.ask(ctx, Request{Kind: RequestDiscard, Seat: seat}).(Discard); ok {
			c := p.take(d.Index)
			h.deck.Discard(c)
			h.emit(Event{Kind: EventDiscard, Seat: seat, Target: NoSeat, Cards: []deck.Card{c}})
		}
	}
}

func (h *Hand) applyWager(p *Player, d Decision) {
	before := p.Stack
	switch d := d.(type) {
	case Fold:
		h.fold(p, "fold")
		return
	case Call:
		h.bet.Call(p)
	case Knock:
	case Raise:
		if err := h.bet.Raise(p, d.Amount, h.players); err != nil {
			h.log.Error("validated raise failed", "seat", p.Seat, "err", err)
		}
	case AllIn:
		h.bet.AllIn(p)
	case Stake:
		h.bet.Stake(p, d.Item)
	}
	h.log.Info("wager", "seat", p.Seat, "decision", Describe(d), "stack", p.Stack, "bet_to", h.bet.BetTo())
	h.emit(Event{Kind: EventWager, Seat: p.Seat, Target: NoSeat, Amount: before - p.Stack, Detail: Describe(d)})
}

func (h *Hand) applyDraw(p *Player, d Decision) {
	var public []deck.Card
	switch d := d.(type) {
	case DrawFromPile:
		if h.deck.Len(deck.DrawPile) == 0 {
			h.recycle()
		}
		c, err := h.deck.Draw()
		if err != nil {
			h.log.Error("validated draw failed", "seat", p.Seat, "err", err)
			return
		}
		p.Hand = append(p.Hand, c)
	case DrawDiscardRun:
		run, err := h.deck.TakeDiscardRun(d.From)
		if err != nil {
			h.log.Error("validated draw failed", "seat", p.Seat, "err", err)
			return
		}
		p.Hand = append(p.Hand, run...)
		public = run
	case DrawCommunity:
		give := p.take(d.Give)
		taken, err := h.deck.SwapCommunity(d.Community, give)
		if err != nil {
			p.Hand = slices.Insert(p.Hand, d.Give, give)
			h.log.Error("validated swap failed", "seat", p.Seat, "err", err)
			return
		}
		p.Hand = append(p.Hand, taken)
		public = []deck.Card{taken, give}
	default:
		return
	}
	h.drawn[p.Seat] = true
	h.emit(Event{Kind: EventDraw, Seat: p.Seat, Target: NoSeat, Cards: public, Detail: Describe(d)})
}

// Validate checks d as an answer to req against the current state without
// changing it. The error wraps one of the package's sentinel errors.
func (h *Hand) Validate(req Request, d Decision) error {
	if req.Seat < 0 || req.Seat >= len(h.players) {
		return fmt.Errorf("%w: no seat %d", ErrIllegalAction, req.Seat)
	}
	if d == nil {
		return fmt.Errorf("%w: no decision", ErrIllegalAction)
	}
	p := &h.players[req.Seat]
	if req.Kind.onTurn() {
		if !h.phase.Betting() {
			if req.Kind == RequestTrump || req.Kind == RequestDevil {
				return fmt.Errorf("%w: no trump can be played during %s", ErrIllegalEffect, h.phase)
			}
			return fmt.Errorf("%w: no turns during %s", ErrIllegalAction, h.phase)
		}
		if req.Seat != h.turn {
			return fmt.Errorf("%w: seat %d acted out of turn", ErrIllegalAction, req.Seat)
		}
	}

	switch req.Kind {
	case RequestWager:
		return h.checkWager(p, d)
	case RequestTrump:
		return h.checkTrump(p, d)
	case RequestDraw:
		return h.checkDraw(p, d)
	case RequestDiscard, RequestChariot:
		switch d := d.(type) {
		case Pass:
			if req.Kind == RequestChariot {
				return mismatch(req, d)
			}
		case Fold:
			if req.Kind == RequestDiscard {
				return mismatch(req, d)
			}
		case Discard:
			return checkIndex(p.Hand, d.Index)
		default:
			return mismatch(req, d)
		}
	case RequestDevil:
		switch d := d.(type) {
		case Pass:
		case GiveDevil:
			if p.holds(deck.Devil) < 0 {
				return fmt.Errorf("%w: seat %d does not hold the devil", ErrIllegalEffect, p.Seat)
			}
			return h.checkTarget(p.Seat, d.Target)
		default:
			return mismatch(req, d)
		}
	case RequestNullify:
		switch d := d.(type) {
		case Pass:
		case Nullify:
			return h.checkNullify(p)
		default:
			return mismatch(req, d)
		}
	case RequestConfess:
		switch d := d.(type) {
		case Confess, Fold:
		default:
			return mismatch(req, d)
		}
	case RequestEmperor:
		switch d := d.(type) {
		case Fold:
		case AnteUp:
			if p.Stack < h.cfg.BigBlind {
				return fmt.Errorf("%w: ante of %d with a stack of %d", ErrIllegalBet, h.cfg.BigBlind, p.Stack)
			}
		case DiscardPair:
			if d.First == d.Second {
				return fmt.Errorf("%w: the same card twice", ErrIllegalAction)
			}
			if err := checkIndex(p.Hand, d.First); err != nil {
				return err
			}
			return checkIndex(p.Hand, d.Second)
		default:
			return mismatch(req, d)
		}
	case RequestArrange:
		a, ok := d.(Arrange)
		if !ok {
			return mismatch(req, d)
		}
		if len(a.Order) != len(req.Cards) || !distinctIn(a.Order, len(req.Cards)) {
			return fmt.Errorf("%w: %v does not order %d cards", ErrIllegalAction, a.Order, len(req.Cards))
		}
	case RequestKeep:
		k, ok := d.(Keep)
		if !ok {
			return mismatch(req, d)
		}
		if !distinctIn(k.Indices, len(req.Cards)) {
			return fmt.Errorf("%w: cannot keep %v of %d cards", ErrIllegalAction, k.Indices, len(req.Cards))
		}
	case RequestPeek:
		if _, ok := d.(Pass); !ok {
			return mismatch(req, d)
		}
	default:
		return fmt.Errorf("%w: unknown request %s", ErrIllegalAction, req.Kind)
	}
	return nil
}

func (h *Hand) checkWager(p *Player, d Decision) error {
	owed := h.bet.Owed(p)
	switch d := d.(type) {
	case Call, Fold, AllIn:
	case Knock:
		if owed > 0 {
			return fmt.Errorf("%w: knock while %d is owed", ErrIllegalAction, owed)
		}
	case Raise:
		return h.bet.CheckRaise(p, d.Amount, h.players)
	case Stake:
		if d.Item == "" {
			return fmt.Errorf("%w: stake without an item", ErrIllegalBet)
		}
		if owed == 0 {
			return fmt.Errorf("%w: nothing owed to stake against", ErrIllegalBet)
		}
	default:
		return mismatch(Request{Kind: RequestWager}, d)
	}
	return nil
}

func (h *Hand) checkTrump(p *Player, d Decision) error {
	switch d := d.(type) {
	case Pass:
		return nil
	case PlayTrump:
		if err := checkIndex(p.Hand, d.Index); err != nil {
			return err
		}
		c := p.Hand[d.Index]
		info, ok := TrumpOf(c)
		if !ok {
			return fmt.Errorf("%w: %v is not a trump", ErrIllegalEffect, c)
		}
		if !Playable(c) {
			return fmt.Errorf("%w: %s cannot be played on a turn", ErrIllegalEffect, info.Name)
		}
		if info.Targeted {
			return h.checkTarget(p.Seat, d.Target)
		}
		return nil
	}
	return mismatch(Request{Kind: RequestTrump}, d)
}

func (h *Hand) checkDraw(p *Player, d Decision) error {
	if _, pass := d.(Pass); !pass && h.drawn[p.Seat] {
		return fmt.Errorf("%w: seat %d already drew this round", ErrIllegalAction, p.Seat)
	}
	switch d := d.(type) {
	case Pass:
	case DrawFromPile:
		if !h.canDraw(1) {
			return fmt.Errorf("%w: draw pile exhausted", ErrEmptyPile)
		}
	case DrawDiscardRun:
		if h.deck.Len(deck.DiscardPile) == 0 {
			return fmt.Errorf("%w: discard pile is empty", ErrEmptyPile)
		}
		if d.From < 0 || d.From >= h.deck.Len(deck.DiscardPile) {
			return fmt.Errorf("%w: no discard at %d", ErrIllegalAction, d.From)
		}
	case DrawCommunity:
		if d.Community < 0 || d.Community >= h.deck.Len(deck.CommunityPile) {
			return fmt.Errorf("%w: no community card at %d", ErrIllegalAction, d.Community)
		}
		return checkIndex(p.Hand, d.Give)
	default:
		return mismatch(Request{Kind: RequestDraw}, d)
	}
	return nil
}

// checkTarget validates the seat named by a targeted trump.
func (h *Hand) checkTarget(source, target int) error {
	if target < 0 || target >= len(h.players) {
		return fmt.Errorf("%w: no seat %d", ErrIllegalEffect, target)
	}
	if target == source {
		return fmt.Errorf("%w: seat %d targeted itself", ErrIllegalEffect, source)
	}
	t := &h.players[target]
	if t.immune() {
		return fmt.Errorf("%w: seat %d is immune", ErrIllegalEffect, target)
	}
	if !t.targetable() {
		return fmt.Errorf("%w: seat %d is not in the hand", ErrIllegalEffect, target)
	}
	return nil
}

func (h *Hand) checkNullify(p *Player) error {
	if h.pending == nil {
		return fmt.Errorf("%w: no effect is waiting to be nullified", ErrIllegalEffect)
	}
	if h.pending.Source == p.Seat {
		return fmt.Errorf("%w: seat %d cannot nullify its own effect", ErrIllegalEffect, p.Seat)
	}
	if p.holds(deck.HangedMan) < 0 {
		return fmt.Errorf("%w: seat %d does not hold the hanged man", ErrIllegalEffect, p.Seat)
	}
	if !p.targetable() {
		return fmt.Errorf("%w: seat %d cannot act", ErrIllegalEffect, p.Seat)
	}
	return nil
}

func checkIndex(cards []deck.Card, i int) error {
	if i < 0 || i >= len(cards) {
		return fmt.Errorf("%w: no card at index %d of %d", ErrIllegalAction, i, len(cards))
	}
	return nil
}

// distinctIn reports whether every index is below n and none repeats.
func distinctIn(idx []int, n int) bool {
	seen := make([]bool, n)
	for _, i := range idx {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func mismatch(req Request, d Decision) error {
	return fmt.Errorf("%w: %s is not an answer to a %s request", ErrIllegalAction, Describe(d), req.Kind)
}
