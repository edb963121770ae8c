package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/sabacc/bot"
	"github.com/luca-patrignani/sabacc/config"
	"github.com/luca-patrignani/sabacc/domain/deck"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
	"github.com/luca-patrignani/sabacc/ledger"
	"github.com/luca-patrignani/sabacc/network"
	"github.com/luca-patrignani/sabacc/store"
)

const defaultSpectatePort = 8080

// session wires one table to its history, spectators and archive.
type session struct {
	cfg   config.Config
	log   *slog.Logger
	names []string
	table *sabacc.Table
	chain *ledger.Blockchain
	db    *store.DB
	// saved counts the ledger blocks already archived.
	saved   int
	closers []func()
}

func newSession(ctx context.Context, cfg config.Config, log *slog.Logger, human sabacc.Actor, name string) (*session, error) {
	s := &session{cfg: cfg, log: log}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.names = bot.Names(cfg.Players, rand.New(rand.NewSource(seed)))

	seats := make([]sabacc.Seat, cfg.Players)
	for i := range seats {
		seats[i] = sabacc.Seat{Name: s.names[i], Stack: cfg.Stack, Actor: bot.NewComputer(log)}
	}
	viewer := sabacc.NoSeat
	if human != nil {
		viewer = 0
		if name != "" {
			s.names[0] = name
		}
		seats[0] = sabacc.Seat{Name: s.names[0], Stack: cfg.Stack, Actor: human}
	}

	chain, err := ledger.NewBlockchain(ledger.WithLogger(log))
	if err != nil {
		return nil, err
	}
	s.chain = chain
	observers := []sabacc.Observer{chain, feed{human: viewer}}

	if cfg.SpectateAddr != "" {
		hub, err := s.spectate(ctx)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("spectator server: %w", err)
		}
		observers = append(observers, hub)
	}

	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		s.db = db
		s.closers = append(s.closers, db.Close)
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx, db); err != nil {
				s.close()
				return nil, fmt.Errorf("migrating archive: %w", err)
			}
		}
	}

	s.table, err = sabacc.NewTable(cfg.Rules(), seats, sabacc.WithLogger(log), sabacc.WithObserver(observers...))
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// spectate starts the hub and its server on cfg.SpectateAddr.
func (s *session) spectate(ctx context.Context) (*network.Hub, error) {
	host, port, err := splitHostPort(s.cfg.SpectateAddr, defaultSpectatePort)
	if err != nil {
		return nil, err
	}
	l, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}
	public, err := advertisedHost(l)
	if err != nil {
		l.Close()
		return nil, err
	}
	_, port, _ = net.SplitHostPort(l.Addr().String())
	public = net.JoinHostPort(public, port)

	opts := []network.ServerOption{network.WithHistory(s.chain), network.WithLogger(s.log)}
	scheme := "http"
	if s.cfg.TLS {
		cert, _, err := network.SelfSignedCertificate(public, host)
		if err != nil {
			l.Close()
			return nil, err
		}
		opts = append(opts, network.WithCertificate(cert))
		scheme = "https"
	}

	hubCtx, cancel := context.WithCancel(ctx)
	hub := network.NewHub(s.log)
	go hub.Run(hubCtx)
	server := network.NewServer(hub, opts...)
	go func() {
		if err := server.Serve(l); err != nil {
			s.log.Error("spectator server stopped", "err", err)
		}
	}()
	s.closers = append(s.closers, func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("spectator server shutdown", "err", err)
		}
		cancel()
	})
	pterm.Info.Printfln("Spectators can follow at %s://%s/api/snapshot", scheme, public)
	return hub, nil
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (s *session) shuffler() deck.Shuffler {
	if s.cfg.Seed != 0 {
		return deck.NewSeededShuffler(s.cfg.Seed + int64(s.table.Hands()))
	}
	return deck.NewStreamShuffler()
}

func (s *session) play(ctx context.Context) error {
	for s.cfg.Hands == 0 || s.table.Hands() < s.cfg.Hands {
		if s.table.Playing() < 2 {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.table.PlayHand(ctx, sabacc.WithShuffler(s.shuffler()))
		if err != nil {
			return err
		}
		pterm.DefaultPanel.WithPanels([][]pterm.Panel{{winnerPanel(res, s.names)}}).Render()
		if err := s.archive(ctx, res); err != nil {
			s.log.Error("archiving hand failed", "hand", res.HandID, "err", err)
		}
	}
	if err := s.chain.Verify(); err != nil {
		return fmt.Errorf("hand history: %w", err)
	}
	s.log.Info("session over", "hands", s.table.Hands(), "blocks", s.chain.Len(), "carry_over", s.table.CarryOver())
	s.standings(ctx)
	return nil
}

func (s *session) archive(ctx context.Context, res sabacc.Result) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.SaveHand(ctx, res, s.names); err != nil {
		return err
	}
	blocks := s.chain.Blocks()
	if err := s.db.SaveBlocks(ctx, s.chain.ID, blocks[s.saved:]); err != nil {
		return err
	}
	s.saved = len(blocks)
	return nil
}

// standings prints the archived totals, or the current stacks without an
// archive.
func (s *session) standings(ctx context.Context) {
	data := pterm.TableData{{"Player", "Stack"}}
	if s.db != nil {
		rows, err := s.db.Standings(ctx)
		if err == nil {
			data = pterm.TableData{{"Player", "Hands", "Won", "Stack", "Busted"}}
			for _, r := range rows {
				data = append(data, []string{r.Name, strconv.Itoa(r.Hands), strconv.Itoa(r.Won), strconv.Itoa(r.Stack), strconv.Itoa(r.Busted)})
			}
			pterm.DefaultTable.WithHasHeader().WithData(data).Render()
			return
		}
		s.log.Warn("reading standings", "err", err)
	}
	for _, seat := range s.table.Seats() {
		data = append(data, []string{seat.Name, strconv.Itoa(seat.Stack)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
