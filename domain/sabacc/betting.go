package sabacc

import (
	"fmt"
	"slices"
)

// Pot is an amount of chips and the seats that can win it.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// Betting tracks the chips committed to one hand. Contributions are kept per
// seat for the whole hand; pots are derived from them on demand by layering
// at every contribution level of a player still in the hand.
type Betting struct {
	bigBlind    int
	betTo       int
	raised      bool
	committed   []int
	contributed []int
	// dead chips belong to the main pot without raising anyone's level:
	// carried-over pots and antes forced by The Emperor.
	dead int
}

// NewBetting returns the betting state for seats players.
func NewBetting(seats, bigBlind int) *Betting {
	return &Betting{
		bigBlind:    bigBlind,
		committed:   make([]int, seats),
		contributed: make([]int, seats),
	}
}

// NewRound clears the per-round bet-to-call and commitments.
func (b *Betting) NewRound() {
	b.betTo = 0
	b.raised = false
	clear(b.committed)
}

// BetTo is the amount every player must have committed this round.
func (b *Betting) BetTo() int { return b.betTo }

// Committed returns what seat put in during this round.
func (b *Betting) Committed(seat int) int { return b.committed[seat] }

// Contributed returns what seat put in during the whole hand.
func (b *Betting) Contributed(seat int) int { return b.contributed[seat] }

// Owed returns the chips p needs to call.
func (b *Betting) Owed(p *Player) int {
	return max(0, b.betTo-b.committed[p.Seat])
}

// post moves up to amount chips from p's stack into the pot and returns the
// amount moved. A player whose stack runs out goes all-in.
func (b *Betting) post(p *Player, amount int) int {
	amount = min(amount, p.Stack)
	p.Stack -= amount
	b.committed[p.Seat] += amount
	b.contributed[p.Seat] += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}

// Ante posts the blind p owes, if any. A short stack posts what it has.
func (b *Betting) Ante(p *Player) int {
	var blind int
	switch {
	case p.BigBlind:
		blind = b.bigBlind
	case p.SmallBlind:
		blind = b.bigBlind / 2
	default:
		return 0
	}
	if b.raised {
		return 0
	}
	posted := b.post(p, blind-b.committed[p.Seat])
	b.betTo = max(b.betTo, b.committed[p.Seat])
	return posted
}

// Call commits what p owes, capped at the stack.
func (b *Betting) Call(p *Player) int {
	return b.post(p, b.Owed(p))
}

// CheckRaise validates a raise by amount without changing anything.
func (b *Betting) CheckRaise(p *Player, amount int, players []Player) error {
	if amount <= 0 {
		return fmt.Errorf("%w: raise of %d", ErrIllegalBet, amount)
	}
	if need := b.Owed(p) + amount; need > p.Stack {
		return fmt.Errorf("%w: raise needs %d, stack is %d, go all-in instead", ErrIllegalBet, need, p.Stack)
	}
	if !b.contested(p, players) {
		return fmt.Errorf("%w: nobody left to call a raise", ErrIllegalBet)
	}
	return nil
}

// contested reports whether any other player can still answer a bet.
func (b *Betting) contested(p *Player, players []Player) bool {
	return slices.ContainsFunc(players, func(o Player) bool {
		return o.Seat != p.Seat && o.Status == StatusActive
	})
}

// Raise commits the call plus amount and makes that the new bet-to-call.
func (b *Betting) Raise(p *Player, amount int, players []Player) error {
	if err := b.CheckRaise(p, amount, players); err != nil {
		return err
	}
	b.post(p, b.Owed(p)+amount)
	b.betTo = b.committed[p.Seat]
	b.raised = true
	return nil
}

// AllIn commits p's whole stack and reports whether that reopened the
// betting by exceeding the bet-to-call.
func (b *Betting) AllIn(p *Player) bool {
	b.post(p, p.Stack)
	if b.committed[p.Seat] > b.betTo {
		b.betTo = b.committed[p.Seat]
		b.raised = true
		return true
	}
	return false
}

// Stake records a pledged item as a zero-chip call. The player is capped at
// the chips already contributed, the same way an all-in player is.
func (b *Betting) Stake(p *Player, item string) {
	p.Stake = item
	p.Status = StatusStaked
}

// Fold marks p as folded. Committed chips stay in the pots.
func (b *Betting) Fold(p *Player) {
	p.Status = StatusFolded
}

// AddDead adds chips that belong to the main pot without a contributor.
func (b *Betting) AddDead(amount int) { b.dead += amount }

// Forfeit moves amount from p's stack straight into the main pot.
func (b *Betting) Forfeit(p *Player, amount int) int {
	amount = min(amount, p.Stack)
	p.Stack -= amount
	b.dead += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}

// Total returns every chip committed to the hand.
func (b *Betting) Total() int {
	total := b.dead
	for _, c := range b.contributed {
		total += c
	}
	return total
}

// Pots splits the committed chips into the main pot followed by side pots.
// Every contribution level of a player still in the hand closes a layer;
// a layer is eligible to the players who reached it. Consecutive layers with
// the same eligible seats are merged, so only all-in, staked and locked
// players open side pots. Chips of folded players above the highest level
// fall into the last pot; dead chips into the main pot.
func (b *Betting) Pots(players []Player) []Pot {
	var levels []int
	for _, p := range players {
		if c := b.contributed[p.Seat]; p.Status.InHand() && c > 0 {
			levels = append(levels, c)
		}
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		amount := 0
		for _, c := range b.contributed {
			amount += min(c, level) - min(c, prev)
		}
		var eligible []int
		for _, p := range players {
			if p.Status.InHand() && b.contributed[p.Seat] >= level {
				eligible = append(eligible, p.Seat)
			}
		}
		if n := len(pots); n > 0 && slices.Equal(pots[n-1].Eligible, eligible) {
			pots[n-1].Amount += amount
		} else {
			pots = append(pots, Pot{Amount: amount, Eligible: eligible})
		}
		prev = level
	}

	excess := 0
	for _, c := range b.contributed {
		excess += max(0, c-prev)
	}
	if excess == 0 && b.dead == 0 {
		return pots
	}
	if len(pots) == 0 {
		var eligible []int
		for _, p := range players {
			if p.Status.InHand() {
				eligible = append(eligible, p.Seat)
			}
		}
		pots = []Pot{{Eligible: eligible}}
	}
	pots[0].Amount += b.dead
	pots[len(pots)-1].Amount += excess
	return pots
}
