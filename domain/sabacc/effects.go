package sabacc

import (
	"context"
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// Effect is one of the 22 trump effects below, each carrying its payload.
type Effect interface {
	// Number is the trump number the effect belongs to.
	Number() uint8
}

type (
	FoolEffect          struct{}
	MagicianEffect      struct{ Count int }
	HighPriestessEffect struct{}
	EmpressEffect       struct{}
	EmperorEffect       struct{ Target int }
	HierophantEffect    struct{}
	// LoversEffect is resolved at scoring, where the evaluator picks Sign.
	LoversEffect     struct{ Sign int }
	ChariotEffect    struct{}
	StrengthEffect   struct{}
	HermitEffect     struct{}
	WheelEffect      struct{ Count int }
	JusticeEffect    struct{}
	HangedManEffect  struct{}
	DeathEffect      struct{}
	TemperanceEffect struct{}
	DevilEffect      struct{ Target int }
	TowerEffect      struct{}
	StarEffect       struct{}
	MoonEffect       struct{}
	SunEffect        struct{}
	JudgmentEffect   struct{}
	UniverseEffect   struct{ Count int }
)

func (FoolEffect) Number() uint8          { return 0 }
func (MagicianEffect) Number() uint8      { return 1 }
func (HighPriestessEffect) Number() uint8 { return 2 }
func (EmpressEffect) Number() uint8       { return 3 }
func (EmperorEffect) Number() uint8       { return 4 }
func (HierophantEffect) Number() uint8    { return 5 }
func (LoversEffect) Number() uint8        { return 6 }
func (ChariotEffect) Number() uint8       { return 7 }
func (StrengthEffect) Number() uint8      { return 8 }
func (HermitEffect) Number() uint8        { return 9 }
func (WheelEffect) Number() uint8         { return 10 }
func (JusticeEffect) Number() uint8       { return 11 }
func (HangedManEffect) Number() uint8     { return 12 }
func (DeathEffect) Number() uint8         { return 13 }
func (TemperanceEffect) Number() uint8    { return 14 }
func (DevilEffect) Number() uint8         { return 15 }
func (TowerEffect) Number() uint8         { return 16 }
func (StarEffect) Number() uint8          { return 17 }
func (MoonEffect) Number() uint8          { return 18 }
func (SunEffect) Number() uint8           { return 19 }
func (JudgmentEffect) Number() uint8      { return 20 }
func (UniverseEffect) Number() uint8      { return 21 }

// EffectFor builds the effect of trump card c. target is used by the
// targeted cards only.
func EffectFor(c deck.Card, target int) (Effect, bool) {
	if !c.IsTrump() {
		return nil, false
	}
	switch c.Rank() {
	case 0:
		return FoolEffect{}, true
	case 1:
		return MagicianEffect{Count: 4}, true
	case 2:
		return HighPriestessEffect{}, true
	case 3:
		return EmpressEffect{}, true
	case 4:
		return EmperorEffect{Target: target}, true
	case 5:
		return HierophantEffect{}, true
	case 6:
		return LoversEffect{Sign: 1}, true
	case 7:
		return ChariotEffect{}, true
	case 8:
		return StrengthEffect{}, true
	case 9:
		return HermitEffect{}, true
	case 10:
		return WheelEffect{Count: 4}, true
	case 11:
		return JusticeEffect{}, true
	case 12:
		return HangedManEffect{}, true
	case 13:
		return DeathEffect{}, true
	case 14:
		return TemperanceEffect{}, true
	case 15:
		return DevilEffect{Target: target}, true
	case 16:
		return TowerEffect{}, true
	case 17:
		return StarEffect{}, true
	case 18:
		return MoonEffect{}, true
	case 19:
		return SunEffect{}, true
	case 20:
		return JudgmentEffect{}, true
	case 21:
		return UniverseEffect{Count: 6}, true
	}
	return nil, false
}

// EffectRecord is a trump played during the hand.
type EffectRecord struct {
	Source int       `json:"source"`
	Card   deck.Card `json:"card"`
	Name   string    `json:"name"`
	Target int       `json:"target"`
	Effect Effect    `json:"-"`
	// NullifiedBy is the seat that cancelled the effect with The Hanged
	// Man, or NoSeat.
	NullifiedBy int `json:"nullified_by"`
}

func (r EffectRecord) Nullified() bool { return r.NullifiedBy != NoSeat }

// playTrump takes the trump at index idx from seat's hand, opens the Hanged
// Man window and, unless cancelled, resolves the effect.
func (h *Hand) playTrump(ctx context.Context, seat, idx, target int) {
	p := &h.players[seat]
	card := p.Hand[idx]
	info, _ := TrumpOf(card)
	eff, ok := EffectFor(card, target)
	if !ok {
		h.log.Error("no effect for card", "seat", seat, "card", card)
		return
	}
	if !info.Targeted {
		target = NoSeat
	}
	p.take(idx)
	rec := EffectRecord{Source: seat, Card: card, Name: info.Name, Target: target, Effect: eff, NullifiedBy: NoSeat}
	h.pending = &rec
	h.log.Info("trump played", "seat", seat, "card", info.Name, "target", target)
	h.emit(Event{Kind: EventTrump, Seat: seat, Target: target, Cards: []deck.Card{card}, Detail: info.Name})

	if h.nullifyWindow(ctx, &rec) {
		h.effects = append(h.effects, rec)
		return
	}
	h.pending = nil
	h.dispose(&rec)
	h.resolve(ctx, &rec)
	h.effects = append(h.effects, rec)
}

// nullifyWindow offers every other seat holding The Hanged Man, in order from
// the player's left, the chance to cancel rec. It reports whether one did;
// both cards are then out of the game.
func (h *Hand) nullifyWindow(ctx context.Context, rec *EffectRecord) bool {
	n := len(h.players)
	for i := 1; i < n; i++ {
		s := (rec.Source + i) % n
		o := &h.players[s]
		if !o.targetable() || o.holds(deck.HangedMan) < 0 {
			continue
		}
		pending := *rec
		if _, ok := h.ask(ctx, Request{Kind: RequestNullify, Seat: s, Effect: &pending}).(Nullify); !ok {
			continue
		}
		hanged := o.take(o.holds(deck.HangedMan))
		h.pending = nil
		h.deck.Remove(rec.Card, hanged)
		rec.NullifiedBy = s
		h.log.Info("effect nullified", "seat", s, "card", rec.Name)
		h.emit(Event{Kind: EventNullified, Seat: s, Target: rec.Source, Cards: []deck.Card{rec.Card, hanged}, Detail: rec.Name})
		return true
	}
	return false
}

// dispose puts a played trump where its kind sends it.
func (h *Hand) dispose(rec *EffectRecord) {
	p := &h.players[rec.Source]
	info, _ := TrumpOf(rec.Card)
	switch info.Kind {
	case KindInstant:
		h.deck.Remove(rec.Card)
	case KindPersistent:
		p.Tableau = append(p.Tableau, rec.Card)
	case KindTransfer:
		t := &h.players[rec.Target]
		t.Hand = append(t.Hand, rec.Card)
	default:
		p.Hand = append(p.Hand, rec.Card)
	}
}

// resolve applies an effect whose window closed.
func (h *Hand) resolve(ctx context.Context, rec *EffectRecord) {
	p := &h.players[rec.Source]
	switch e := rec.Effect.(type) {
	case MagicianEffect:
		h.magician(ctx, p, e, rec)
	case EmperorEffect:
		h.emperor(ctx, &h.players[e.Target], rec)
	case HierophantEffect:
		h.hierophant(ctx, rec)
	case ChariotEffect:
		h.chariot(ctx, rec)
	case HermitEffect:
		p.Status = StatusLocked
		h.effect(rec, NoSeat, 0, "sits out until showdown")
	case WheelEffect:
		h.wheel(ctx, p, e, rec)
	case DevilEffect:
		h.emit(Event{Kind: EventDevil, Seat: rec.Source, Target: e.Target, Cards: []deck.Card{rec.Card}, Detail: rec.Name})
	case MoonEffect:
		h.forced(h.deck.DealToCommunity, "moon community card")
		h.effect(rec, NoSeat, 0, "community card added")
	case SunEffect:
		h.allFaceUp = true
		for i := range h.players {
			h.players[i].FaceUp = true
		}
		h.effect(rec, NoSeat, 0, "all hands face up")
	case JudgmentEffect:
		h.judgment = true
		h.effect(rec, NoSeat, 0, "immediate showdown")
	case UniverseEffect:
		if cards := h.deck.PeekDraw(e.Count); len(cards) > 0 {
			h.ask(ctx, Request{Kind: RequestPeek, Seat: p.Seat, Cards: cards})
		}
		h.effect(rec, NoSeat, 0, "looked at the draw pile")
	case FoolEffect, HighPriestessEffect, EmpressEffect, LoversEffect, StrengthEffect,
		JusticeEffect, HangedManEffect, DeathEffect, TemperanceEffect, TowerEffect, StarEffect:
		h.log.Error("trump has no turn effect", "seat", p.Seat, "card", rec.Name)
	}
}

func (h *Hand) effect(rec *EffectRecord, target, amount int, detail string) {
	h.emit(Event{Kind: EventEffect, Seat: rec.Source, Target: target, Amount: amount, Detail: rec.Name + ": " + detail})
}

// others lists, from source's left, the seats an effect of source may touch.
func (h *Hand) others(source int) []int {
	var seats []int
	n := len(h.players)
	for i := 1; i < n; i++ {
		s := (source + i) % n
		if h.players[s].targetable() {
			seats = append(seats, s)
		}
	}
	return seats
}

func (h *Hand) magician(ctx context.Context, p *Player, e MagicianEffect, rec *EffectRecord) {
	cards := h.deck.PeekDraw(e.Count)
	if len(cards) == 0 {
		h.effect(rec, NoSeat, 0, "nothing to arrange")
		return
	}
	a, _ := h.ask(ctx, Request{Kind: RequestArrange, Seat: p.Seat, Cards: cards}).(Arrange)
	if err := h.deck.ArrangeTop(a.Order); err != nil {
		h.log.Error("validated arrangement failed", "seat", p.Seat, "err", err)
	}
	h.effect(rec, NoSeat, len(cards), "draw pile rearranged")
}

func (h *Hand) emperor(ctx context.Context, t *Player, rec *EffectRecord) {
	if !t.targetable() {
		h.effect(rec, t.Seat, 0, "target no longer in the hand")
		return
	}
	switch d := h.ask(ctx, Request{Kind: RequestEmperor, Seat: t.Seat, Effect: rec}).(type) {
	case AnteUp:
		paid := h.bet.Forfeit(t, h.cfg.BigBlind)
		h.effect(rec, t.Seat, paid, "ante added to the pot")
	case DiscardPair:
		first, second := max(d.First, d.Second), min(d.First, d.Second)
		cards := []deck.Card{t.take(first), t.take(second)}
		h.deck.Discard(cards...)
		h.emit(Event{Kind: EventDiscard, Seat: t.Seat, Target: rec.Source, Cards: cards, Detail: rec.Name})
	default:
		h.fold(t, rec.Name)
	}
}

// hierophant collects every answer before applying any.
func (h *Hand) hierophant(ctx context.Context, rec *EffectRecord) {
	seats := h.others(rec.Source)
	answers := make([]Decision, len(seats))
	for i, s := range seats {
		answers[i] = h.ask(ctx, Request{Kind: RequestConfess, Seat: s, Effect: rec})
	}
	for i, s := range seats {
		t := &h.players[s]
		if _, ok := answers[i].(Confess); ok {
			v := Evaluate(t.Hand).Value
			t.Confessed = &v
			h.emit(Event{Kind: EventConfess, Seat: s, Target: rec.Source, Amount: v, Detail: rec.Name})
			continue
		}
		h.fold(t, rec.Name)
	}
}

// chariot collects every answer before applying any. Players without cards
// fold.
func (h *Hand) chariot(ctx context.Context, rec *EffectRecord) {
	seats := h.others(rec.Source)
	answers := make([]Decision, len(seats))
	for i, s := range seats {
		if len(h.players[s].Hand) == 0 {
			answers[i] = Fold{}
			continue
		}
		answers[i] = h.ask(ctx, Request{Kind: RequestChariot, Seat: s, Effect: rec})
	}
	for i, s := range seats {
		t := &h.players[s]
		if d, ok := answers[i].(Discard); ok {
			c := t.take(d.Index)
			h.deck.Discard(c)
			h.emit(Event{Kind: EventDiscard, Seat: s, Target: rec.Source, Cards: []deck.Card{c}, Detail: rec.Name})
			continue
		}
		h.fold(t, rec.Name)
	}
}

func (h *Hand) wheel(ctx context.Context, p *Player, e WheelEffect, rec *EffectRecord) {
	if h.deck.Len(deck.DrawPile) < e.Count {
		h.recycle()
	}
	// The cards stay on the draw pile until the keep decision is final.
	cards := h.deck.PeekDraw(e.Count)
	if len(cards) == 0 {
		h.effect(rec, NoSeat, 0, "draw pile empty")
		return
	}
	k, _ := h.ask(ctx, Request{Kind: RequestKeep, Seat: p.Seat, Cards: cards}).(Keep)
	cards, err := h.deck.DrawN(len(cards))
	if err != nil {
		h.log.Error("peeked cards gone", "seat", p.Seat, "err", err)
		return
	}
	var rest []deck.Card
	for i, c := range cards {
		if slices.Contains(k.Indices, i) {
			p.Hand = append(p.Hand, c)
		} else {
			rest = append(rest, c)
		}
	}
	h.deck.Discard(rest...)
	h.emit(Event{Kind: EventDiscard, Seat: p.Seat, Target: NoSeat, Cards: rest, Detail: rec.Name})
	h.effect(rec, NoSeat, len(cards)-len(rest), "cards kept")
}
