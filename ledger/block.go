package ledger

import (
	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

// Block is one recorded event.
type Block struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Entry     Entry  `json:"entry"`
	Signature []byte `json:"signature"`
}

// Entry is the part of a hand event worth keeping: everything but the
// snapshot, which can be rebuilt by replaying the entries.
type Entry struct {
	HandID string           `json:"hand_id"`
	Seq    int              `json:"seq"`
	Kind   sabacc.EventKind `json:"kind"`
	Phase  string           `json:"phase"`
	Seat   int              `json:"seat"`
	Target int              `json:"target"`
	Cards  []deck.Card      `json:"cards,omitempty"`
	Amount int              `json:"amount,omitempty"`
	Detail string           `json:"detail,omitempty"`
}

// EntryOf drops the snapshot of e.
func EntryOf(e sabacc.Event) Entry {
	return Entry{
		HandID: e.HandID,
		Seq:    e.Seq,
		Kind:   e.Kind,
		Phase:  e.Phase.String(),
		Seat:   e.Seat,
		Target: e.Target,
		Cards:  e.Cards,
		Amount: e.Amount,
		Detail: e.Detail,
	}
}
