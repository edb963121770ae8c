package sabacc

import (
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// PlayerView is a player as seen by the snapshot's viewer.
type PlayerView struct {
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Stack       int    `json:"stack"`
	Status      Status `json:"status"`
	Committed   int    `json:"committed"`
	Contributed int    `json:"contributed"`
	HandSize    int    `json:"hand_size"`
	// Hand is nil unless the viewer may see it.
	Hand       []deck.Card `json:"hand,omitempty"`
	Tableau    []deck.Card `json:"tableau,omitempty"`
	FaceUp     bool        `json:"face_up"`
	Dealer     bool        `json:"dealer"`
	SmallBlind bool        `json:"small_blind"`
	BigBlind   bool        `json:"big_blind"`
	Stake      string      `json:"stake,omitempty"`
	Confessed  *int        `json:"confessed,omitempty"`
}

// Snapshot is a read-only copy of a hand for rendering and deciding.
type Snapshot struct {
	HandID string `json:"hand_id"`
	Phase  Phase  `json:"phase"`
	// Viewer is the seat the snapshot was taken for, or NoSeat for the
	// public view.
	Viewer    int            `json:"viewer"`
	Dealer    int            `json:"dealer"`
	Turn      int            `json:"turn"`
	BetToCall int            `json:"bet_to_call"`
	BigBlind  int            `json:"big_blind"`
	AllFaceUp bool           `json:"all_face_up"`
	Players   []PlayerView   `json:"players"`
	DrawSize  int            `json:"draw_size"`
	Discard   []deck.Card    `json:"discard"`
	Community []deck.Card    `json:"community"`
	Removed   []deck.Card    `json:"removed"`
	Pots      []Pot          `json:"pots"`
	Pending   *EffectRecord  `json:"pending,omitempty"`
	Effects   []EffectRecord `json:"effects,omitempty"`
}

// Snapshot copies the hand as viewer sees it. Pass NoSeat for the public view.
func (h *Hand) Snapshot(viewer int) Snapshot {
	s := Snapshot{
		HandID:    h.ID,
		Phase:     h.phase,
		Viewer:    viewer,
		Dealer:    h.dealer,
		Turn:      h.turn,
		BetToCall: h.bet.BetTo(),
		BigBlind:  h.cfg.BigBlind,
		AllFaceUp: h.allFaceUp,
		Players:   make([]PlayerView, len(h.players)),
		DrawSize:  h.deck.Len(deck.DrawPile),
		Discard:   h.deck.Cards(deck.DiscardPile),
		Community: h.deck.Cards(deck.CommunityPile),
		Removed:   h.deck.Cards(deck.RemovedPile),
		Pots:      h.bet.Pots(h.players),
		Effects:   slices.Clone(h.effects),
	}
	if h.pending != nil {
		pending := *h.pending
		s.Pending = &pending
	}
	for i, p := range h.players {
		v := PlayerView{
			Seat:        p.Seat,
			Name:        p.Name,
			Stack:       p.Stack,
			Status:      p.Status,
			Committed:   h.bet.Committed(i),
			Contributed: h.bet.Contributed(i),
			HandSize:    len(p.Hand),
			Tableau:     slices.Clone(p.Tableau),
			FaceUp:      p.FaceUp || h.allFaceUp,
			Dealer:      i == h.dealer,
			SmallBlind:  p.SmallBlind,
			BigBlind:    p.BigBlind,
			Stake:       p.Stake,
		}
		if p.Confessed != nil {
			c := *p.Confessed
			v.Confessed = &c
		}
		if i == viewer || v.FaceUp || (h.revealed() && p.Status.InHand()) {
			v.Hand = slices.Clone(p.Hand)
		}
		s.Players[i] = v
	}
	return s
}

// Me returns the viewer's own view. It is the zero value for public snapshots.
func (s Snapshot) Me() PlayerView {
	if s.Viewer < 0 || s.Viewer >= len(s.Players) {
		return PlayerView{Seat: NoSeat}
	}
	return s.Players[s.Viewer]
}

// Owed returns what the viewer needs to call.
func (s Snapshot) Owed() int {
	return max(0, s.BetToCall-s.Me().Committed)
}
