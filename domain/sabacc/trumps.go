package sabacc

import "github.com/luca-patrignani/sabacc/domain/deck"

// TrumpKind classifies how a trump card acts.
type TrumpKind uint8

const (
	// KindPlain cards only count toward the hand value.
	KindPlain TrumpKind = iota
	// KindFlexible cards count for plus or minus their value at scoring.
	KindFlexible
	// KindInstant cards are played on the owner's turn, applied, then
	// removed from the game.
	KindInstant
	// KindPersistent cards stay face up in front of the owner.
	KindPersistent
	// KindCounter cards are played out of turn to cancel an effect.
	KindCounter
	// KindTransfer cards may be handed to an opponent at the start of the
	// owner's turn.
	KindTransfer
)

// TrumpInfo is one row of the trump table.
type TrumpInfo struct {
	Number uint8     `json:"number"`
	Name   string    `json:"name"`
	Value  int       `json:"value"`
	Kind   TrumpKind `json:"kind"`
	// Targeted cards need the player to name another seat.
	Targeted bool   `json:"targeted"`
	Text     string `json:"text"`
}

var trumpTable = [22]TrumpInfo{
	{0, "The Fool", 0, KindPlain, false, "no effect"},
	{1, "The Magician", 0, KindInstant, false, "rearrange the top 4 cards of the draw pile"},
	{2, "The High Priestess", -2, KindPlain, false, "-2"},
	{3, "The Empress", -3, KindPlain, false, "-3"},
	{4, "The Emperor", 0, KindInstant, true, "target adds a big blind, discards 2 or folds"},
	{5, "The Hierophant", 0, KindInstant, false, "everyone confesses their hand value or folds"},
	{6, "The Lovers", 6, KindFlexible, false, "+6 or -6"},
	{7, "The Chariot", 0, KindInstant, false, "everyone discards a card or folds"},
	{8, "Strength", -8, KindPlain, false, "-8"},
	{9, "The Hermit", 0, KindPersistent, false, "sit out to showdown, immune to effects"},
	{10, "Wheel of Fortune", 0, KindInstant, false, "draw 4, keep any"},
	{11, "Justice", -11, KindPlain, false, "-11"},
	{12, "The Hanged Man", 0, KindCounter, false, "cancel the effect just played"},
	{13, "Death", -13, KindPlain, false, "-13"},
	{14, "Temperance", -14, KindPlain, false, "-14"},
	{15, "The Devil", -15, KindTransfer, true, "-15, may be given away at the start of your turn"},
	{16, "The Tower", -16, KindPlain, false, "-16"},
	{17, "The Star", -17, KindPlain, false, "-17"},
	{18, "The Moon", 0, KindInstant, false, "the dealer adds a community card"},
	{19, "The Sun", 0, KindPersistent, false, "all hands face up"},
	{20, "The Last Judgment", 0, KindInstant, false, "immediate showdown"},
	{21, "The Universe", 0, KindInstant, false, "look at the top 6 cards of the draw pile"},
}

// TrumpOf returns the table row for a trump card. ok is false for suited cards.
func TrumpOf(c deck.Card) (info TrumpInfo, ok bool) {
	if !c.IsTrump() {
		return TrumpInfo{}, false
	}
	return trumpTable[c.Rank()], true
}

// Trumps returns a copy of the full trump table.
func Trumps() []TrumpInfo {
	return append([]TrumpInfo(nil), trumpTable[:]...)
}

// Playable reports whether c can be played on its owner's turn.
func Playable(c deck.Card) bool {
	info, ok := TrumpOf(c)
	return ok && (info.Kind == KindInstant || info.Kind == KindPersistent)
}
