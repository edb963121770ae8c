package sabacc

import (
	"slices"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// Target is the hand value every player aims for.
const Target = 23

// Score is the evaluated best value of a set of held cards.
type Score struct {
	// Value is the signed total of the best assignment of flexible cards.
	Value    int  `json:"value"`
	Busted   bool `json:"busted"`
	Override bool `json:"override"`
	// High is the highest-ranked card, meaningful when the hand is not empty.
	High     deck.Card `json:"high"`
	highRank int
}

// Distance returns how far the score is from 23 in absolute value.
func (s Score) Distance() int { return Target - abs(s.Value) }

// IsOverride reports whether cards are exactly the Fool with the 2 and 3 of
// one suit.
func IsOverride(cards []deck.Card) bool {
	if len(cards) != 3 {
		return false
	}
	var fool, two, three bool
	suit := deck.Trump
	for _, c := range cards {
		switch {
		case c.Is(deck.Fool):
			fool = true
		case !c.IsTrump() && (c.Rank() == 2 || c.Rank() == 3):
			if suit != deck.Trump && suit != c.Suit() {
				return false
			}
			suit = c.Suit()
			two = two || c.Rank() == 2
			three = three || c.Rank() == 3
		}
	}
	return fool && two && three
}

// Evaluate scores cards by trying every combination of flexible values
// (Ace as 1 or 11, The Lovers as +6 or -6) and keeping the one whose
// absolute total is closest to 23 without passing it. When every combination
// busts, the least busted one is reported. Among combinations of equal
// absolute total, the one with more Aces counted high wins.
func Evaluate(cards []deck.Card) Score {
	fixed := 0
	aces, lovers := 0, 0
	for _, c := range cards {
		switch {
		case c.IsTrump():
			info := trumpTable[c.Rank()]
			if info.Kind == KindFlexible {
				lovers++
			} else {
				fixed += info.Value
			}
		case c.Rank() == deck.Ace:
			aces++
		default:
			fixed += int(c.Rank())
		}
	}

	type choice struct{ total, acesHigh int }
	better := func(a, b choice) bool {
		ab, bb := abs(a.total) > Target, abs(b.total) > Target
		switch {
		case ab != bb:
			return !ab
		case abs(a.total) != abs(b.total):
			if ab {
				return abs(a.total) < abs(b.total)
			}
			return abs(a.total) > abs(b.total)
		case a.acesHigh != b.acesHigh:
			return a.acesHigh > b.acesHigh
		}
		return a.total > b.total
	}

	var best choice
	first := true
	for high := 0; high <= aces; high++ {
		for mask := 0; mask < 1<<lovers; mask++ {
			total := fixed + aces + 10*high
			for l := 0; l < lovers; l++ {
				if mask&(1<<l) != 0 {
					total -= 6
				} else {
					total += 6
				}
			}
			c := choice{total: total, acesHigh: high}
			if first || better(c, best) {
				best, first = c, false
			}
		}
	}

	s := Score{
		Value:    best.total,
		Busted:   abs(best.total) > Target,
		Override: IsOverride(cards),
	}
	s.High, s.highRank = highCard(cards, best.acesHigh > 0)
	return s
}

// highCard returns the highest card of a hand: trumps above suited cards, an
// Ace counted as 11 above the King, ties on rank settled by suit precedence.
func highCard(cards []deck.Card, aceHigh bool) (deck.Card, int) {
	var high deck.Card
	best := -1
	for _, c := range cards {
		r := cardRank(c, aceHigh)
		if r > best || (r == best && suitPrecedence(c.Suit()) > suitPrecedence(high.Suit())) {
			high, best = c, r
		}
	}
	return high, best
}

func cardRank(c deck.Card, aceHigh bool) int {
	switch {
	case c.IsTrump():
		return 100 + int(c.Rank())
	case c.Rank() == deck.Ace && aceHigh:
		return 15
	}
	return int(c.Rank())
}

// suitPrecedence orders Trump > Wands > Cups > Swords > Disks.
func suitPrecedence(s deck.Suit) int {
	switch s {
	case deck.Trump:
		return 4
	case deck.Wands:
		return 3
	case deck.Cups:
		return 2
	case deck.Swords:
		return 1
	}
	return 0
}

// Compare returns a positive number when a beats b, negative when b beats a
// and zero when the pot should be split between them.
func Compare(a, b Score, ties TiePolicy) int {
	switch {
	case a.Override != b.Override:
		return boolSign(a.Override)
	case a.Busted != b.Busted:
		return boolSign(!a.Busted)
	case a.Busted:
		return 0
	case abs(a.Value) != abs(b.Value):
		return abs(a.Value) - abs(b.Value)
	case ties == TieSplit:
		return 0
	case a.highRank != b.highRank:
		return a.highRank - b.highRank
	case a.highRank < 0:
		return 0
	}
	return suitPrecedence(a.High.Suit()) - suitPrecedence(b.High.Suit())
}

// Best returns the indexes of the winning scores.
func Best(scores []Score, ties TiePolicy) []int {
	var winners []int
	for i, s := range scores {
		if len(winners) == 0 {
			winners = []int{i}
			continue
		}
		switch c := Compare(s, scores[winners[0]], ties); {
		case c > 0:
			winners = []int{i}
		case c == 0:
			winners = append(winners, i)
		}
	}
	return slices.Clip(winners)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func boolSign(b bool) int {
	if b {
		return 1
	}
	return -1
}
