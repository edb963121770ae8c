package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

func banner() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("S", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("abacc", pterm.FgDarkGray.ToStyle()),
	).Render()
}

func seatName(v sabacc.Snapshot, seat int) string {
	if seat < 0 || seat >= len(v.Players) {
		return "the table"
	}
	return v.Players[seat].Name
}

// cardList shows cards separated by dashes.
func cardList(cards []deck.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	s := make([]string, len(cards))
	for i, c := range cards {
		s[i] = c.String()
	}
	return strings.Join(s, " - ")
}

// hidden shows n face-down cards.
func hidden(n int) string {
	if n == 0 {
		return "-"
	}
	return strings.TrimSuffix(strings.Repeat(deck.FaceDown+" - ", n), " - ")
}

// printState renders the opponents, the board and the viewer's own seat.
func printState(v sabacc.Snapshot, extra ...pterm.Panel) {
	var others []pterm.Panel
	var mine pterm.Panel
	for _, p := range v.Players {
		if p.Status == sabacc.StatusOut {
			continue
		}
		if p.Seat == v.Viewer {
			mine = pterm.Panel{Data: playerInfo(p, true)}
			continue
		}
		others = append(others, pterm.Panel{Data: playerInfo(p, false)})
	}
	board := pterm.Panel{Data: boardInfo(v)}
	dashboard := append([]pterm.Panel{mine}, extra...)

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		others,
		{board},
		dashboard,
	}).Render()
}

func playerInfo(p sabacc.PlayerView, main bool) string {
	hpadding := 4
	if main {
		hpadding = 10
	}
	pbox := pterm.DefaultBox.WithHorizontalPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)

	var status string
	switch p.Status {
	case sabacc.StatusFolded:
		status = pterm.LightRed("Folded")
	case sabacc.StatusActive:
		status = pterm.LightGreen("Active")
	default:
		status = pterm.LightYellow(p.Status.String())
	}
	var marks []string
	if p.Dealer {
		marks = append(marks, "D")
	}
	if p.SmallBlind {
		marks = append(marks, "SB")
	}
	if p.BigBlind {
		marks = append(marks, "BB")
	}
	title := p.Name
	if len(marks) > 0 {
		title += " (" + strings.Join(marks, ",") + ")"
	}

	hand := hidden(p.HandSize)
	if p.Hand != nil {
		hand = cardList(p.Hand)
	}
	body := fmt.Sprintf("%s\nIn the pot: %d\nStack: %d\n%s", status, p.Contributed, p.Stack, pterm.BgGreen.Sprint(hand))
	if main && p.Hand != nil {
		s := sabacc.Evaluate(p.Hand)
		body += fmt.Sprintf("\nValue: %d", s.Value)
		if s.Busted {
			body += " " + pterm.LightRed("busted")
		}
	}
	if len(p.Tableau) > 0 {
		body += "\nFace up: " + cardList(p.Tableau)
	}
	if p.Stake != "" {
		body += "\nStaked: " + p.Stake
	}
	if p.Confessed != nil {
		body += fmt.Sprintf("\nConfessed: %d", *p.Confessed)
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprint(body)
}

func boardInfo(v sabacc.Snapshot) string {
	top := "-"
	if n := len(v.Discard); n > 0 {
		top = v.Discard[n-1].String()
	}
	board := fmt.Sprintf("Community: %s | Discard: %s (%d) | Draw: %d", cardList(v.Community), top, len(v.Discard), v.DrawSize)
	for i, p := range v.Pots {
		board += " | Pot" + strconv.Itoa(i) + ": " + strconv.Itoa(p.Amount)
	}
	return pterm.BgGreen.Sprint("\n" + board + " | " + v.Phase.String() + "\n")
}

// winnerPanel lists what every seat won, and the values shown when the
// hand went to a showdown.
func winnerPanel(res sabacc.Result, names []string) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprint(resultInfo(res, names))}
}

func resultInfo(res sabacc.Result, names []string) string {
	name := func(seat int) string {
		if seat < len(names) {
			return names[seat]
		}
		return "seat " + strconv.Itoa(seat)
	}
	var b strings.Builder
	for _, seat := range res.Winners() {
		won := res.Won[seat]
		sc, shown := res.Scores[seat]
		switch {
		case !res.Revealed || !shown:
			b.WriteString(pterm.Sprintfln("%s won %d taking down the pot", pterm.LightCyan(name(seat)), won))
		case sc.Override:
			b.WriteString(pterm.Sprintfln("%s won %d with the override hand", pterm.LightCyan(name(seat)), won))
		default:
			b.WriteString(pterm.Sprintfln("%s won %d with %d", pterm.LightCyan(name(seat)), won, sc.Value))
		}
	}
	if res.CarryOver > 0 {
		b.WriteString(pterm.Sprintfln("%d carried over to the next hand", res.CarryOver))
	}
	for _, t := range res.Transfers {
		b.WriteString(pterm.Sprintfln("%s takes %s from %s", name(t.To), t.Item, name(t.From)))
	}
	return b.String()
}

// eventLine is the one-line log of an event shown in the console.
func eventLine(e sabacc.Event) string {
	line := fmt.Sprintf("%s %s", e.Kind, seatName(e.Snapshot, e.Seat))
	if e.Target != sabacc.NoSeat {
		line += " -> " + seatName(e.Snapshot, e.Target)
	}
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	if len(e.Cards) > 0 {
		line += " [" + cardList(e.Cards) + "]"
	}
	if e.Amount != 0 {
		line += fmt.Sprintf(" (%d)", e.Amount)
	}
	return line
}

// feed prints the events of every hand. Rejections of the human seat are
// shown as errors so the player knows why they are asked again.
type feed struct {
	human int
}

func (f feed) Observe(e sabacc.Event) {
	switch e.Kind {
	case sabacc.EventRejected, sabacc.EventFallback:
		if e.Seat == f.human {
			pterm.Error.Println(eventLine(e))
		}
	case sabacc.EventStarted, sabacc.EventDealt, sabacc.EventSettled:
	case sabacc.EventShowdown:
		printState(e.Snapshot)
	default:
		pterm.Info.Println(eventLine(e))
	}
}
