package sabacc

import (
	"context"
	"fmt"
)

// Table carries stacks, the dealer button and carried-over pots from one
// hand to the next. It keeps no other session state.
type Table struct {
	cfg    Config
	seats  []Seat
	dealer int
	carry  int
	hands  int
	opts   []Option
	last   *Hand
}

// NewTable seats players with their starting stacks. The first dealer is
// seat 0. opts are applied to every hand.
func NewTable(cfg Config, seats []Seat, opts ...Option) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(seats) < 2 || len(seats) > 8 {
		return nil, fmt.Errorf("a table needs 2 to 8 seats, got %d", len(seats))
	}
	return &Table{cfg: cfg, seats: append([]Seat(nil), seats...), opts: opts}, nil
}

// PlayHand plays one hand and moves the dealer button to the next seat that
// still has chips.
func (t *Table) PlayHand(ctx context.Context, opts ...Option) (Result, error) {
	if t.Playing() < 2 {
		return Result{}, fmt.Errorf("%w: fewer than two seats have chips", ErrIllegalAction)
	}
	if t.seats[t.dealer].Stack == 0 {
		t.dealer = t.nextWithChips(t.dealer)
	}
	all := append(append([]Option{}, t.opts...), opts...)
	all = append(all, WithCarry(t.carry))
	h, err := NewHand(t.cfg, t.seats, t.dealer, all...)
	if err != nil {
		return Result{}, err
	}
	res, err := h.Run(ctx)
	if err != nil {
		return Result{}, err
	}
	for i := range t.seats {
		t.seats[i].Stack = res.Stacks[i]
	}
	t.carry = res.CarryOver
	t.hands++
	t.last = h
	if t.Playing() >= 2 {
		t.dealer = t.nextWithChips(t.dealer)
	}
	return res, nil
}

func (t *Table) nextWithChips(seat int) int {
	for i := 1; i <= len(t.seats); i++ {
		s := (seat + i) % len(t.seats)
		if t.seats[s].Stack > 0 {
			return s
		}
	}
	return seat
}

// Playing counts the seats with chips.
func (t *Table) Playing() int {
	n := 0
	for _, s := range t.seats {
		if s.Stack > 0 {
			n++
		}
	}
	return n
}

// Seats returns a copy of the seats with their current stacks.
func (t *Table) Seats() []Seat { return append([]Seat(nil), t.seats...) }

func (t *Table) Dealer() int    { return t.dealer }
func (t *Table) CarryOver() int { return t.carry }
func (t *Table) Hands() int     { return t.hands }

// LastHand returns the most recently played hand, or nil.
func (t *Table) LastHand() *Hand { return t.last }

// Chips returns every chip at the table, including a carried-over pot.
func (t *Table) Chips() int {
	total := t.carry
	for _, s := range t.seats {
		total += s.Stack
	}
	return total
}
