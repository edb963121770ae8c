package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

// prompter asks the person at the keyboard.
type prompter interface {
	Select(text string, options []string) (int, error)
	MultiSelect(text string, options []string) ([]int, error)
	Input(text, def string) (string, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Select(text string, options []string) (int, error) {
	picked, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(text).
		WithOptions(options).
		WithMaxHeight(len(options)).
		Show()
	if err != nil {
		return -1, err
	}
	return slices.Index(options, picked), nil
}

func (ptermPrompter) MultiSelect(text string, options []string) ([]int, error) {
	picked, err := pterm.DefaultInteractiveMultiselect.
		WithDefaultText(text).
		WithOptions(options).
		WithMaxHeight(len(options)).
		Show()
	if err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(picked))
	for _, p := range picked {
		idx = append(idx, slices.Index(options, p))
	}
	slices.Sort(idx)
	return idx, nil
}

func (ptermPrompter) Input(text, def string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(text).WithDefaultValue(def).Show()
}

// console is the human seat. Invalid answers are sent anyway: the hand
// rejects them and asks again.
type console struct {
	in prompter
}

// choice is one line of a select prompt.
type choice struct {
	label    string
	decision sabacc.Decision
}

func (c *console) Decide(ctx context.Context, req sabacc.Request) (sabacc.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch req.Kind {
	case sabacc.RequestWager:
		printState(req.View)
	case sabacc.RequestArrange:
		return c.arrange(req)
	case sabacc.RequestKeep:
		return c.keep(req)
	case sabacc.RequestPeek:
		pterm.Info.Printfln("Top of the draw pile: %s", cardList(req.Cards))
		return sabacc.Pass{}, nil
	}

	opts := choices(req)
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = fmt.Sprintf("%d) %s", i+1, o.label)
	}
	i, err := c.in.Select(question(req), labels)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(opts) {
		return nil, fmt.Errorf("no option %d", i)
	}
	return c.complete(req, opts[i].decision)
}

// complete asks for the amount, item or cards some decisions still need.
func (c *console) complete(req sabacc.Request, d sabacc.Decision) (sabacc.Decision, error) {
	me := req.View.Me()
	switch d.(type) {
	case sabacc.Raise:
		for {
			s, err := c.in.Input(fmt.Sprintf("Raise by how much? (stack %d, owed %d)", me.Stack, req.Owed),
				strconv.Itoa(req.View.BigBlind))
			if err != nil {
				return nil, err
			}
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return sabacc.Raise{Amount: n}, nil
			}
			pterm.Error.Printfln("%q is not a number", s)
		}
	case sabacc.Stake:
		for {
			s, err := c.in.Input("What do you stake?", "")
			if err != nil {
				return nil, err
			}
			if s = strings.TrimSpace(s); s != "" {
				return sabacc.Stake{Item: s}, nil
			}
		}
	case sabacc.DiscardPair:
		for {
			idx, err := c.in.MultiSelect("Pick two cards to discard", cardLabels(me.Hand))
			if err != nil {
				return nil, err
			}
			if len(idx) == 2 {
				return sabacc.DiscardPair{First: idx[0], Second: idx[1]}, nil
			}
			pterm.Error.Printfln("pick exactly two cards, not %d", len(idx))
		}
	}
	return d, nil
}

func (c *console) arrange(req sabacc.Request) (sabacc.Decision, error) {
	pterm.Info.Printfln("Top of the draw pile: %s", cardList(req.Cards))
	def := make([]string, len(req.Cards))
	for i := range def {
		def[i] = strconv.Itoa(i + 1)
	}
	for {
		s, err := c.in.Input("New order, top first", strings.Join(def, " "))
		if err != nil {
			return nil, err
		}
		if order, err := parseOrder(s); err == nil {
			return sabacc.Arrange{Order: order}, nil
		}
		pterm.Error.Printfln("%q is not a list of card positions", s)
	}
}

func (c *console) keep(req sabacc.Request) (sabacc.Decision, error) {
	idx, err := c.in.MultiSelect("Cards to keep", cardLabels(req.Cards))
	if err != nil {
		return nil, err
	}
	return sabacc.Keep{Indices: idx}, nil
}

// parseOrder reads 1-based positions separated by spaces or commas.
func parseOrder(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	order := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		order[i] = n - 1
	}
	return order, nil
}

func question(req sabacc.Request) string {
	switch req.Kind {
	case sabacc.RequestWager:
		if req.Owed > 0 {
			return fmt.Sprintf("%d to call", req.Owed)
		}
		return "Your bet"
	case sabacc.RequestTrump:
		return "Play a trump?"
	case sabacc.RequestDraw:
		return "Draw"
	case sabacc.RequestDiscard:
		return "Discard"
	case sabacc.RequestDevil:
		return "You hold The Devil"
	case sabacc.RequestNullify:
		return "You hold The Hanged Man"
	}
	if req.Effect != nil {
		return fmt.Sprintf("%s was played by %s", req.Effect.Name, seatName(req.View, req.Effect.Source))
	}
	return req.Kind.String()
}

// choices lists the decisions offered for req. Raise, Stake and DiscardPair
// are placeholders completed by further prompts.
func choices(req sabacc.Request) []choice {
	v := req.View
	me := v.Me()
	var out []choice
	switch req.Kind {
	case sabacc.RequestWager:
		if req.Owed == 0 {
			out = append(out, choice{"Knock", sabacc.Knock{}})
		} else {
			out = append(out, choice{fmt.Sprintf("Call %d", min(req.Owed, me.Stack)), sabacc.Call{}})
		}
		out = append(out,
			choice{"Raise", sabacc.Raise{}},
			choice{fmt.Sprintf("All-in (%d)", me.Stack), sabacc.AllIn{}})
		if req.Owed > 0 {
			out = append(out, choice{"Stake an item", sabacc.Stake{}})
		}
		return append(out, choice{"Fold", sabacc.Fold{}})

	case sabacc.RequestTrump:
		out = append(out, choice{"Keep my trumps", sabacc.Pass{}})
		for i, c := range me.Hand {
			info, ok := sabacc.TrumpOf(c)
			if !ok || !sabacc.Playable(c) {
				continue
			}
			if !info.Targeted {
				out = append(out, choice{fmt.Sprintf("Play %s: %s", info.Name, info.Text),
					sabacc.PlayTrump{Index: i, Target: sabacc.NoSeat}})
				continue
			}
			for _, t := range targets(v) {
				out = append(out, choice{fmt.Sprintf("Play %s on %s: %s", info.Name, seatName(v, t), info.Text),
					sabacc.PlayTrump{Index: i, Target: t}})
			}
		}
		return out

	case sabacc.RequestDraw:
		out = append(out, choice{"Stand", sabacc.Pass{}})
		if v.DrawSize > 0 {
			out = append(out, choice{"Draw from the pile", sabacc.DrawFromPile{}})
		}
		for i, c := range v.Discard {
			out = append(out, choice{fmt.Sprintf("Take %s from the discards (%s)", c, cardList(v.Discard[i:])),
				sabacc.DrawDiscardRun{From: i}})
		}
		for ci, cc := range v.Community {
			for gi, g := range me.Hand {
				out = append(out, choice{fmt.Sprintf("Swap %s for community %s", g, cc),
					sabacc.DrawCommunity{Community: ci, Give: gi}})
			}
		}
		return out

	case sabacc.RequestDiscard:
		out = append(out, choice{"Keep every card", sabacc.Pass{}})
		for i, c := range me.Hand {
			out = append(out, choice{"Discard " + c.String(), sabacc.Discard{Index: i}})
		}
		return out

	case sabacc.RequestChariot:
		for i, c := range me.Hand {
			out = append(out, choice{"Discard " + c.String(), sabacc.Discard{Index: i}})
		}
		return append(out, choice{"Fold", sabacc.Fold{}})

	case sabacc.RequestDevil:
		out = append(out, choice{"Keep The Devil", sabacc.Pass{}})
		for _, t := range targets(v) {
			out = append(out, choice{"Give The Devil to " + seatName(v, t), sabacc.GiveDevil{Target: t}})
		}
		return out

	case sabacc.RequestNullify:
		label := "Cancel the effect"
		if req.Effect != nil {
			label = fmt.Sprintf("Cancel %s played by %s", req.Effect.Name, seatName(v, req.Effect.Source))
		}
		return []choice{{"Let it resolve", sabacc.Pass{}}, {label, sabacc.Nullify{}}}

	case sabacc.RequestConfess:
		return []choice{
			{fmt.Sprintf("Confess (%d)", sabacc.Evaluate(me.Hand).Value), sabacc.Confess{}},
			{"Fold", sabacc.Fold{}},
		}

	case sabacc.RequestEmperor:
		if me.Stack >= v.BigBlind {
			out = append(out, choice{fmt.Sprintf("Add %d to the pot", v.BigBlind), sabacc.AnteUp{}})
		}
		if len(me.Hand) >= 2 {
			out = append(out, choice{"Discard two cards", sabacc.DiscardPair{}})
		}
		return append(out, choice{"Fold", sabacc.Fold{}})
	}
	return []choice{{"Pass", sabacc.Pass{}}}
}

// targets lists the opponents a targeted trump may name.
func targets(v sabacc.Snapshot) []int {
	var seats []int
	for _, p := range v.Players {
		if p.Seat != v.Viewer && p.Status.InHand() && p.Status != sabacc.StatusLocked {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

func cardLabels(cards []deck.Card) []string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = fmt.Sprintf("%d) %s", i+1, describeCard(c))
	}
	return labels
}

func describeCard(c deck.Card) string {
	if info, ok := sabacc.TrumpOf(c); ok {
		return fmt.Sprintf("%s %s", c, info.Name)
	}
	return c.String()
}
