package sabacc

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/stretchr/testify/require"
)

// script answers requests from per-kind queues and otherwise plays
// passively: call what is owed, knock, confess, keep nothing, pass.
type script struct {
	queue map[RequestKind][]Decision
	seen  []Request
}

func newScript() *script {
	return &script{queue: make(map[RequestKind][]Decision)}
}

func (s *script) on(kind RequestKind, ds ...Decision) *script {
	s.queue[kind] = append(s.queue[kind], ds...)
	return s
}

func (s *script) Decide(_ context.Context, req Request) (Decision, error) {
	s.seen = append(s.seen, req)
	if q := s.queue[req.Kind]; len(q) > 0 {
		s.queue[req.Kind] = q[1:]
		return q[0], nil
	}
	return passive(req), nil
}

// requests returns the requests of one kind the script received.
func (s *script) requests(kind RequestKind) []Request {
	var out []Request
	for _, r := range s.seen {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func passive(req Request) Decision {
	switch req.Kind {
	case RequestWager:
		if req.Owed > 0 {
			return Call{}
		}
		return Knock{}
	case RequestConfess:
		return Confess{}
	case RequestChariot:
		return Discard{Index: 0}
	case RequestEmperor:
		return Fold{}
	case RequestArrange, RequestKeep:
		return fallback(req)
	}
	return Pass{}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cards(t *testing.T, codes ...string) []deck.Card {
	t.Helper()
	out := make([]deck.Card, len(codes))
	for i, code := range codes {
		c, err := deck.ParseCard(code)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func stacked(t *testing.T, codes ...string) *deck.Deck {
	t.Helper()
	d, err := deck.Stacked(cards(t, codes...)...)
	require.NoError(t, err)
	return d
}

// threeHanded deals seat 1, seat 2 and seat 0 (dealer) the given pairs, then
// a 7W burn and the community cards 4W 5W 6W.
func threeHanded(t *testing.T, p1, p2, p0 [2]string) *deck.Deck {
	t.Helper()
	return dealing(t, p1, p2, p0)
}

// dealing stacks the pairs in dealing order, seat 1 first and the dealer
// last, followed by the 7W burn and the 4W 5W 6W community.
func dealing(t *testing.T, pairs ...[2]string) *deck.Deck {
	t.Helper()
	var codes []string
	for _, p := range pairs {
		codes = append(codes, p[0], p[1])
	}
	return stacked(t, append(codes, "7W", "4W", "5W", "6W")...)
}

type fixture struct {
	hand    *Hand
	scripts []*script
	events  []Event
}

// newFixture builds a hand whose observer checks chip and card conservation
// after every event.
func newFixture(t *testing.T, cfg Config, stacks []int, d *deck.Deck, scripts ...*script) *fixture {
	t.Helper()
	f := &fixture{scripts: scripts}
	seats := make([]Seat, len(stacks))
	for i, s := range stacks {
		seats[i] = Seat{Name: string(rune('A' + i)), Stack: s, Actor: scripts[i]}
	}
	h, err := NewHand(cfg, seats, 0,
		WithDeck(d),
		WithLogger(quietLogger()),
		WithObserver(ObserverFunc(func(e Event) {
			f.events = append(f.events, e)
			if got := f.hand.ChipsInPlay(); got != f.hand.StartingChips() {
				t.Errorf("after %s: chips in play %d, want %d", e.Kind, got, f.hand.StartingChips())
			}
			assertFullDeck(t, f.hand.Cards())
		})))
	require.NoError(t, err)
	f.hand = h
	return f
}

func (f *fixture) run(t *testing.T) Result {
	t.Helper()
	res, err := f.hand.Run(context.Background())
	require.NoError(t, err)
	return res
}

func (f *fixture) eventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range f.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func assertFullDeck(t *testing.T, got []deck.Card) {
	t.Helper()
	codes := make([]string, len(got))
	for i, c := range got {
		codes[i] = c.String()
	}
	var want []string
	for _, c := range deck.FullSet() {
		want = append(want, c.String())
	}
	sort.Strings(codes)
	sort.Strings(want)
	if len(codes) != len(want) {
		t.Errorf("card count %d, want %d", len(codes), len(want))
		return
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("card set differs at %d: %s != %s", i, codes[i], want[i])
			return
		}
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	return cfg
}
