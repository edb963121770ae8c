package sabacc

import (
	"errors"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

var (
	// ErrIllegalBet rejects raises that are not positive, exceed the stack
	// or come when nobody is left to answer them.
	ErrIllegalBet = errors.New("illegal bet")
	// ErrIllegalAction rejects decisions out of turn, knocks while a bet is
	// owed and indexes that name no card.
	ErrIllegalAction = errors.New("illegal action")
	// ErrIllegalEffect rejects trump plays outside their window or aimed at
	// an immune or inactive seat.
	ErrIllegalEffect = errors.New("illegal effect")
	// ErrEmptyPile is returned for draws from an exhausted draw pile.
	ErrEmptyPile = deck.ErrEmptyPile
)
