// Package sabacc implements the rules of one hand of sabacc played with a
// 78-card tarot deck: blinds and betting with side pots, draw and discard,
// the effects of the 22 trump cards, and showdown scoring toward 23.
//
// # Core Types
//
// Hand: the state machine for a single hand. It owns the deck, the players'
// cards, the pots and every status flag, and requests decisions from the
// seats' Actors. Run drives it from Init to Settled.
//
// Betting: per-round bet-to-call, per-seat commitments and the main/side pot
// layering with eligibility.
//
// Score: the evaluation of a set of held cards. Compare ranks two scores,
// including the override hand and the configured tie policy.
//
// Effect: one of 22 variants, one per trump card, resolved through a single
// switch once the Hanged Man window has closed.
//
// Table: stacks, dealer button and carried-over pots across hands.
//
// # Decisions
//
// The engine never lets an actor touch its state. For every decision point
// it sends a Request holding a Snapshot from the seat's point of view and
// expects a Decision of one of the types listed for that request kind. An
// invalid decision is rejected with ErrIllegalBet, ErrIllegalAction,
// ErrIllegalEffect or ErrEmptyPile, leaves the hand untouched, and is
// requested again. Actors that keep failing get the fallback decision (fold
// or pass), so a hand always reaches Settled.
//
// # Game Flow
//
// Init → Dealt → Flop → Turn → River → Showdown → Settled. The Last Judgment
// and a lone remaining player jump straight to Showdown.
package sabacc
