package sabacc

import "slices"

// Award is the outcome of one pot.
type Award struct {
	// Pot is 0 for the main pot and counts up through the side pots.
	Pot      int   `json:"pot"`
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
	Winners  []int `json:"winners,omitempty"`
	Shares   []int `json:"shares,omitempty"`
	// Carried is set when every eligible hand busted and the pot moves to
	// the next hand.
	Carried bool `json:"carried,omitempty"`
}

// Transfer records a staked item changing hands.
type Transfer struct {
	Item string `json:"item"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Result summarises a settled hand.
type Result struct {
	HandID string `json:"hand_id"`
	Dealer int    `json:"dealer"`
	// Revealed is false when a lone player took the pots unseen.
	Revealed  bool           `json:"revealed"`
	Scores    map[int]Score  `json:"scores,omitempty"`
	Awards    []Award        `json:"awards"`
	Won       []int          `json:"won"`
	// Starting and Stacks are the stacks before the blinds and after the
	// pots were paid.
	Starting  []int          `json:"starting"`
	Stacks    []int          `json:"stacks"`
	CarryOver int            `json:"carry_over"`
	Transfers []Transfer     `json:"transfers,omitempty"`
	Effects   []EffectRecord `json:"effects,omitempty"`
}

// Winners returns the seats that won chips.
func (r Result) Winners() []int {
	var seats []int
	for s, w := range r.Won {
		if w > 0 {
			seats = append(seats, s)
		}
	}
	return seats
}

// settle scores the remaining hands and pays the pots from the last side pot
// back to the main pot.
func (h *Hand) settle() {
	pots := h.bet.Pots(h.players)
	res := &Result{
		HandID: h.ID,
		Dealer: h.dealer,
		Won:    make([]int, len(h.players)),
	}
	var contenders []int
	for _, p := range h.players {
		if p.Status.InHand() {
			contenders = append(contenders, p.Seat)
		}
	}
	res.Revealed = len(contenders) > 1
	if res.Revealed {
		res.Scores = make(map[int]Score, len(contenders))
		for _, s := range contenders {
			p := &h.players[s]
			sc := Evaluate(p.Hand)
			res.Scores[s] = sc
			h.log.Info("showdown", "seat", s, "hand", p.Hand, "value", sc.Value, "busted", sc.Busted, "override", sc.Override)
			h.emit(Event{Kind: EventShowdown, Seat: s, Target: NoSeat, Cards: slices.Clone(p.Hand), Amount: sc.Value})
		}
		h.result = res
	}

	for i := len(pots) - 1; i >= 0; i-- {
		pot := pots[i]
		award := Award{Pot: i, Amount: pot.Amount, Eligible: pot.Eligible}
		winners := h.potWinners(pot, res)
		if len(winners) == 0 {
			award.Carried = true
			res.CarryOver += pot.Amount
			h.log.Info("pot carried over", "pot", i, "amount", pot.Amount)
			h.emit(Event{Kind: EventCarryOver, Seat: NoSeat, Target: NoSeat, Amount: pot.Amount})
		} else {
			award.Winners = winners
			award.Shares = h.split(pot.Amount, winners)
			for j, w := range winners {
				h.players[w].Stack += award.Shares[j]
				h.paid += award.Shares[j]
				res.Won[w] += award.Shares[j]
				h.log.Info("pot awarded", "pot", i, "seat", w, "amount", award.Shares[j])
				h.emit(Event{Kind: EventAward, Seat: w, Target: NoSeat, Amount: award.Shares[j]})
			}
		}
		res.Awards = append(res.Awards, award)
	}

	h.transferStakes(res)
	res.Starting = slices.Clone(h.starts)
	res.Stacks = make([]int, len(h.players))
	for i, p := range h.players {
		res.Stacks[i] = p.Stack
	}
	res.Effects = slices.Clone(h.effects)
	h.result = res
	h.emit(Event{Kind: EventSettled, Seat: NoSeat, Target: NoSeat, Amount: res.CarryOver})
}

// potWinners ranks the eligible hands of a pot. A pot only one player reached
// goes back to that player. It returns nothing when the pot has no eligible
// player or every eligible hand busted.
func (h *Hand) potWinners(pot Pot, res *Result) []int {
	if !res.Revealed || len(pot.Eligible) == 1 {
		return h.inSeatOrder(slices.DeleteFunc(slices.Clone(pot.Eligible), func(s int) bool {
			return !h.players[s].Status.InHand()
		}))
	}
	if len(pot.Eligible) == 0 {
		return nil
	}
	scores := make([]Score, len(pot.Eligible))
	for i, s := range pot.Eligible {
		scores[i] = res.Scores[s]
	}
	best := Best(scores, h.cfg.Ties)
	if scores[best[0]].Busted {
		return nil
	}
	winners := make([]int, len(best))
	for i, b := range best {
		winners[i] = pot.Eligible[b]
	}
	return h.inSeatOrder(winners)
}

// inSeatOrder sorts seats starting left of the dealer.
func (h *Hand) inSeatOrder(seats []int) []int {
	n := len(h.players)
	slices.SortFunc(seats, func(a, b int) int {
		return (a-h.dealer-1+n)%n - (b-h.dealer-1+n)%n
	})
	return seats
}

// split divides amount evenly; the odd chips go one each in seat order.
func (h *Hand) split(amount int, winners []int) []int {
	shares := make([]int, len(winners))
	each, rest := amount/len(winners), amount%len(winners)
	for i := range shares {
		shares[i] = each
		if i < rest {
			shares[i]++
		}
	}
	return shares
}

// transferStakes hands every staked item to the first winner of the main pot
// unless the pot was carried over or its owner holds a hand at least as good
// as the winners'. A staker who put no chips in is in no pot but still keeps
// the item with the best hand.
func (h *Hand) transferStakes(res *Result) {
	var main *Award
	for i := range res.Awards {
		if res.Awards[i].Pot == 0 {
			main = &res.Awards[i]
		}
	}
	for _, p := range h.players {
		if p.Stake == "" || main == nil || main.Carried || h.stakeHolds(p.Seat, main.Winners, res) {
			continue
		}
		t := Transfer{Item: p.Stake, From: p.Seat, To: main.Winners[0]}
		res.Transfers = append(res.Transfers, t)
		h.emit(Event{Kind: EventTransfer, Seat: t.From, Target: t.To, Detail: t.Item})
	}
}

func (h *Hand) stakeHolds(seat int, winners []int, res *Result) bool {
	if slices.Contains(winners, seat) {
		return true
	}
	if !res.Revealed || !h.players[seat].Status.InHand() {
		return false
	}
	mine := res.Scores[seat]
	for _, w := range winners {
		if Compare(mine, res.Scores[w], h.cfg.Ties) < 0 {
			return false
		}
	}
	return true
}

// Result returns the outcome once the hand is settled.
func (h *Hand) Result() (Result, bool) {
	if h.result == nil || h.phase != PhaseSettled {
		return Result{}, false
	}
	return *h.result, true
}

// revealed reports whether the showdown showed every remaining hand.
func (h *Hand) revealed() bool { return h.result != nil && h.result.Revealed }
