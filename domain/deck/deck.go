package deck

import (
	"errors"
	"fmt"
)

// ErrEmptyPile is returned when a card is requested from an exhausted pile.
var ErrEmptyPile = errors.New("empty pile")

// ErrNoSuchCard is returned when an index does not name a card in a pile.
var ErrNoSuchCard = errors.New("no such card")

// Pile names one of the four shared card locations.
type Pile uint8

const (
	DrawPile Pile = iota
	DiscardPile
	CommunityPile
	RemovedPile
)

func (p Pile) String() string {
	switch p {
	case DrawPile:
		return "draw"
	case DiscardPile:
		return "discard"
	case CommunityPile:
		return "community"
	case RemovedPile:
		return "removed"
	}
	return "unknown"
}

// Deck owns the four shared piles of one hand. The last element of the draw
// and discard slices is the top of the pile.
//
// Every method is a transfer: a card leaving a pile either lands in another
// pile or is returned to the caller, who becomes responsible for it. Cards
// handed back through Discard and Remove come from the caller.
type Deck struct {
	draw      []Card
	discard   []Card
	community []Card
	removed   []Card
	shuffler  Shuffler
}

// New returns a deck holding all 78 cards face down in a shuffled draw pile.
func New(shuffler Shuffler) *Deck {
	if shuffler == nil {
		shuffler = NewStreamShuffler()
	}
	d := &Deck{draw: FullSet(), shuffler: shuffler}
	d.Shuffle()
	return d
}

// Stacked returns a deck whose draw pile yields top in order, followed by the
// remaining cards of the set in canonical order. It is meant for replays and
// tests that need a known deal.
func Stacked(top ...Card) (*Deck, error) {
	used := make(map[Card]bool, len(top))
	for _, c := range top {
		if _, err := NewCard(c.suit, c.rank); err != nil {
			return nil, err
		}
		if used[c] {
			return nil, fmt.Errorf("card %v stacked twice", c)
		}
		used[c] = true
	}
	draw := make([]Card, 0, Size)
	full := FullSet()
	for i := len(full) - 1; i >= 0; i-- {
		if !used[full[i]] {
			draw = append(draw, full[i])
		}
	}
	for i := len(top) - 1; i >= 0; i-- {
		draw = append(draw, top[i])
	}
	return &Deck{draw: draw, shuffler: NewStreamShuffler()}, nil
}

// Shuffle shuffles the draw pile in place.
func (d *Deck) Shuffle() {
	d.shuffler.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Draw removes and returns the top card of the draw pile.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		return Card{}, fmt.Errorf("%w: draw pile exhausted", ErrEmptyPile)
	}
	top := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return top, nil
}

// DrawN removes the top n cards, top first. It fails without moving anything
// when fewer than n cards are left.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.draw) {
		return nil, fmt.Errorf("%w: need %d cards, %d left", ErrEmptyPile, n, len(d.draw))
	}
	out := make([]Card, 0, n)
	for range n {
		c, _ := d.Draw()
		out = append(out, c)
	}
	return out, nil
}

// DealToDiscard burns the top of the draw pile face up onto the discard pile.
func (d *Deck) DealToDiscard() error {
	c, err := d.Draw()
	if err != nil {
		return err
	}
	d.discard = append(d.discard, c)
	return nil
}

// DealToCommunity turns the top of the draw pile face up among the community cards.
func (d *Deck) DealToCommunity() error {
	c, err := d.Draw()
	if err != nil {
		return err
	}
	d.community = append(d.community, c)
	return nil
}

// Discard stacks cards face up on the discard pile, in order.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// Remove takes cards out of play for the rest of the hand.
func (d *Deck) Remove(cards ...Card) {
	d.removed = append(d.removed, cards...)
}

// TakeDiscardRun removes the discard card at position from (0 is the bottom)
// together with every card stacked above it, bottom first.
func (d *Deck) TakeDiscardRun(from int) ([]Card, error) {
	if len(d.discard) == 0 {
		return nil, fmt.Errorf("%w: discard pile is empty", ErrEmptyPile)
	}
	if from < 0 || from >= len(d.discard) {
		return nil, fmt.Errorf("%w: discard position %d of %d", ErrNoSuchCard, from, len(d.discard))
	}
	run := append([]Card(nil), d.discard[from:]...)
	d.discard = d.discard[:from]
	return run, nil
}

// TopOfDiscard returns the position of the top discard card, or -1.
func (d *Deck) TopOfDiscard() int {
	return len(d.discard) - 1
}

// SwapCommunity replaces community card i with give and returns the card taken.
func (d *Deck) SwapCommunity(i int, give Card) (Card, error) {
	if i < 0 || i >= len(d.community) {
		return Card{}, fmt.Errorf("%w: community position %d of %d", ErrNoSuchCard, i, len(d.community))
	}
	taken := d.community[i]
	d.community[i] = give
	return taken, nil
}

// PeekDraw returns up to n cards from the top of the draw pile, top first,
// without moving them.
func (d *Deck) PeekDraw(n int) []Card {
	n = min(n, len(d.draw))
	out := make([]Card, n)
	for i := range n {
		out[i] = d.draw[len(d.draw)-1-i]
	}
	return out
}

// ArrangeTop reorders the top len(order) cards of the draw pile. order is a
// permutation of PeekDraw(len(order)) positions listing the new top first.
func (d *Deck) ArrangeTop(order []int) error {
	n := len(order)
	if n > len(d.draw) {
		return fmt.Errorf("%w: cannot arrange %d of %d cards", ErrEmptyPile, n, len(d.draw))
	}
	seen := make([]bool, n)
	for _, o := range order {
		if o < 0 || o >= n || seen[o] {
			return fmt.Errorf("%w: %v is not a permutation of %d cards", ErrNoSuchCard, order, n)
		}
		seen[o] = true
	}
	top := d.PeekDraw(n)
	base := len(d.draw) - 1
	for i, o := range order {
		d.draw[base-i] = top[o]
	}
	return nil
}

// RecycleDiscards shuffles the whole discard pile back under the draw pile
// and returns how many cards moved. It is a house rule; nothing calls it
// implicitly.
func (d *Deck) RecycleDiscards() int {
	n := len(d.discard)
	if n == 0 {
		return 0
	}
	recycled := d.discard
	d.discard = nil
	d.shuffler.Shuffle(len(recycled), func(i, j int) {
		recycled[i], recycled[j] = recycled[j], recycled[i]
	})
	d.draw = append(recycled, d.draw...)
	return n
}

// Len returns the number of cards in pile p.
func (d *Deck) Len(p Pile) int {
	switch p {
	case DrawPile:
		return len(d.draw)
	case DiscardPile:
		return len(d.discard)
	case CommunityPile:
		return len(d.community)
	case RemovedPile:
		return len(d.removed)
	}
	return 0
}

// Cards returns a copy of pile p, bottom first.
func (d *Deck) Cards(p Pile) []Card {
	var src []Card
	switch p {
	case DrawPile:
		src = d.draw
	case DiscardPile:
		src = d.discard
	case CommunityPile:
		src = d.community
	case RemovedPile:
		src = d.removed
	}
	return append([]Card(nil), src...)
}
