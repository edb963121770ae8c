package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/sabacc/config"
	"github.com/luca-patrignani/sabacc/domain/sabacc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	banner()

	var human sabacc.Actor
	name := cfg.Name
	if !cfg.Watch {
		human = &console{in: ptermPrompter{}}
		if name == "" {
			name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your username").WithDefaultValue("Player").Show()
			pterm.Println()
		}
		pterm.Info.Printfln("Your username: %s", name)
	}

	if err := run(ctx, cfg, logger, human, name); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(ptermLevel(level))))
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	}
	return pterm.LogLevelError
}

// run plays hands until one seat holds every chip, cfg.Hands hands were
// played or ctx is cancelled. A nil human seats a computer in seat 0 too.
func run(ctx context.Context, cfg config.Config, log *slog.Logger, human sabacc.Actor, name string) error {
	s, err := newSession(ctx, cfg, log, human, name)
	if err != nil {
		return err
	}
	defer s.close()
	return s.play(ctx)
}
