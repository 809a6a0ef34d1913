package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/neonstrike/internal/autoplay"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/pkg/logger"
)

const defaultGames = 100

func main() {
	var (
		games   = flag.Int("games", defaultGames, "Number of matches to play")
		mode    = flag.String("mode", string(model.ModeSingle), "SINGLE or MULTIPLAYER")
		workers = flag.Int("workers", runtime.NumCPU(), "Concurrent matches")
		seed    = flag.Uint64("seed", 1, "Base seed for the computer's aim")
		budget  = flag.Int("budget", 0, "Tick budget per match (0 for the default)")
		output  = flag.String("output", "", "JSON results file")
		verbose = flag.Bool("verbose", false, "Log every game")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		autoplay.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &autoplay.Config{
		Games:      *games,
		Mode:       model.GameMode(*mode),
		Workers:    *workers,
		Seed:       *seed,
		TickBudget: *budget,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, _, err := autoplay.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "autoplay failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
