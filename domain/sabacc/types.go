package sabacc

import (
	"fmt"
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// Status of a player within the current hand.
type Status uint8

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	// StatusStaked marks a player who pledged an item instead of chips.
	StatusStaked
	// StatusLocked marks the Hermit holder: out of the turn order, immune,
	// still eligible at showdown.
	StatusLocked
	// StatusOut marks a seat with no chips that was not dealt in.
	StatusOut
)

var statusNames = [...]string{"active", "folded", "all-in", "staked", "locked", "out"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	return unmarshalName(statusNames[:], text, (*uint8)(s), "status")
}

// InHand reports whether the player can still win a pot.
func (s Status) InHand() bool { return s != StatusFolded && s != StatusOut }

// Phase of a hand.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseDealt
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseSettled
)

var phaseNames = [...]string{"init", "dealt", "flop", "turn", "river", "showdown", "settled"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(text []byte) error {
	return unmarshalName(phaseNames[:], text, (*uint8)(p), "phase")
}

func unmarshalName(names []string, text []byte, dst *uint8, what string) error {
	i := slices.Index(names, string(text))
	if i < 0 {
		return fmt.Errorf("unknown %s %q", what, text)
	}
	*dst = uint8(i)
	return nil
}

// Betting reports whether decisions are taken in this phase.
func (p Phase) Betting() bool { return p >= PhaseFlop && p <= PhaseRiver }

// TiePolicy selects what happens when two hands have the same distance to 23.
type TiePolicy uint8

const (
	// TieSplit splits the pot between equal values.
	TieSplit TiePolicy = iota
	// TieBreak compares the highest card, then its suit, and splits only
	// what is still equal after that.
	TieBreak
)

func (t TiePolicy) String() string {
	if t == TieBreak {
		return "break"
	}
	return "split"
}

// ParseTiePolicy accepts "split" or "break".
func ParseTiePolicy(s string) (TiePolicy, error) {
	switch s {
	case "split":
		return TieSplit, nil
	case "break":
		return TieBreak, nil
	}
	return TieSplit, fmt.Errorf("unknown tie policy %q", s)
}

// Config holds the house rules of a game.
type Config struct {
	// BigBlind is the minimum bet. The small blind is half of it.
	BigBlind int
	Ties     TiePolicy
	// Reshuffle recycles the discard pile into the draw pile when a card
	// is needed and the draw pile is empty.
	Reshuffle bool
	// MaxAttempts bounds how many invalid decisions a seat may submit for
	// one request before the fallback applies.
	MaxAttempts int
}

// DefaultConfig returns the rules used when nothing is configured.
func DefaultConfig() Config {
	return Config{BigBlind: 10, Ties: TieSplit, MaxAttempts: 3}
}

func (c Config) SmallBlind() int { return c.BigBlind / 2 }

func (c Config) validate() error {
	if c.BigBlind < 1 {
		return fmt.Errorf("big blind must be positive, got %d", c.BigBlind)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}

// Seat describes a player joining a hand.
type Seat struct {
	Name  string
	Stack int
	Actor Actor
}

// Player is the per-hand state of a seat.
type Player struct {
	Seat  int
	Name  string
	Stack int
	Hand  []deck.Card
	// Tableau holds the persistent trumps played face up in front of the player.
	Tableau    []deck.Card
	Status     Status
	FaceUp     bool
	SmallBlind bool
	BigBlind   bool
	Stake      string
	// Confessed holds the value declared to the Hierophant, if any.
	Confessed *int
}

// holds returns the position of trump n in the player's hand, or -1.
func (p *Player) holds(n uint8) int {
	return slices.IndexFunc(p.Hand, func(c deck.Card) bool { return c.Is(n) })
}

// take removes and returns the card at index i of the hand.
func (p *Player) take(i int) deck.Card {
	c := p.Hand[i]
	p.Hand = slices.Delete(p.Hand, i, i+1)
	return c
}

// immune reports whether effects may not touch the player.
func (p *Player) immune() bool { return p.Status == StatusLocked }

// targetable reports whether another player's effect may name this player.
func (p *Player) targetable() bool { return p.Status.InHand() && !p.immune() }
