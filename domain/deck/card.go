package deck

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Suit of a tarot card. Trump is the fifth "suit" holding the 22 trionfi.
type Suit uint8

const (
	Wands Suit = iota
	Cups
	Swords
	Disks
	Trump
)

// Suited ranks above ten.
const (
	Ace    = 1
	Page   = 11
	Knight = 12
	Queen  = 13
	King   = 14
)

// Numbers of the trump cards referenced by the rules.
const (
	Fool       = 0
	Magician   = 1
	Emperor    = 4
	Hierophant = 5
	Lovers     = 6
	Chariot    = 7
	Hermit     = 9
	Wheel      = 10
	HangedMan  = 12
	Devil      = 15
	Moon       = 18
	Sun        = 19
	Judgment   = 20
	Universe   = 21
)

const (
	// FaceDown is the display string for a card the viewer cannot see.
	FaceDown = "▓▓"
	// Size is the number of cards in a full tarot deck.
	Size = 78
)

var suitCodes = [...]string{"W", "C", "S", "D", "T"}

func (s Suit) String() string {
	switch s {
	case Wands:
		return "Wands"
	case Cups:
		return "Cups"
	case Swords:
		return "Swords"
	case Disks:
		return "Disks"
	case Trump:
		return "Trump"
	}
	return "Suit(" + strconv.Itoa(int(s)) + ")"
}

// Card is an immutable (rank, suit) pair.
type Card struct {
	suit Suit
	rank uint8
}

// NewCard creates a Card with validation.
//
// Suited cards take ranks 1-14 (Ace=1, Page=11, Knight=12, Queen=13, King=14);
// trump cards take ranks 0-21.
func NewCard(suit Suit, rank uint8) (Card, error) {
	switch {
	case suit == Trump && rank <= 21:
	case suit < Trump && rank >= 1 && rank <= King:
	default:
		return Card{}, fmt.Errorf("invalid card %d, %d", suit, rank)
	}
	return Card{suit: suit, rank: rank}, nil
}

// MustCard is NewCard for literals known to be valid.
func MustCard(suit Suit, rank uint8) Card {
	c, err := NewCard(suit, rank)
	if err != nil {
		panic(err)
	}
	return c
}

// T returns the trump card with the given number.
func T(n uint8) Card { return MustCard(Trump, n) }

func (c Card) Suit() Suit  { return c.suit }
func (c Card) Rank() uint8 { return c.rank }

// IsTrump reports whether c is one of the 22 trionfi.
func (c Card) IsTrump() bool { return c.suit == Trump }

// Is reports whether c is the trump with number n.
func (c Card) Is(n uint8) bool { return c.suit == Trump && c.rank == n }

// String returns the compact code of the card: rank letter or number followed
// by the suit letter ("QW", "10C", "1D"), or "T" plus the number for trumps.
func (c Card) String() string {
	if c.suit == Trump {
		return "T" + strconv.Itoa(int(c.rank))
	}
	var rank string
	switch c.rank {
	case Page:
		rank = "P"
	case Knight:
		rank = "N"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = strconv.Itoa(int(c.rank))
	}
	return rank + suitCodes[c.suit]
}

// ParseCard is the inverse of Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", s)
	}
	if s[0] == 'T' {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 || n > 21 {
			return Card{}, fmt.Errorf("invalid trump code %q", s)
		}
		return NewCard(Trump, uint8(n))
	}
	suit := strings.Index("WCSD", s[len(s)-1:])
	if suit < 0 {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}
	var rank int
	switch r := s[:len(s)-1]; r {
	case "P":
		rank = Page
	case "N":
		rank = Knight
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		n, err := strconv.Atoi(r)
		if err != nil {
			return Card{}, fmt.Errorf("invalid rank in %q", s)
		}
		rank = n
	}
	if rank < 1 || rank > King {
		return Card{}, fmt.Errorf("invalid rank in %q", s)
	}
	return NewCard(Suit(suit), uint8(rank))
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FullSet returns the 78 cards in canonical order: the four suits Ace to King,
// then the trumps 0 to 21.
func FullSet() []Card {
	cards := make([]Card, 0, Size)
	for s := Wands; s < Trump; s++ {
		for r := uint8(1); r <= King; r++ {
			cards = append(cards, Card{suit: s, rank: r})
		}
	}
	for r := uint8(0); r <= 21; r++ {
		cards = append(cards, Card{suit: Trump, rank: r})
	}
	return cards
}
