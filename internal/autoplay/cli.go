package autoplay

import "os"

// ShowHelp prints usage information for the autoplay tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Neon Strike Autoplay
====================

Plays headless matches with the computer on every turn and checks each
finished scorecard against an independent scorer.

Usage:
  go run ./cmd/autoplay [options]

Options:
  -games int
        Number of matches to play (default 100)
  -mode string
        SINGLE or MULTIPLAYER (default "SINGLE")
  -workers int
        Concurrent matches (default CPU cores)
  -seed uint
        Base seed for the computer's aim (default 1)
  -budget int
        Tick budget per match (default 100000)
  -output string
        JSON results file
  -verbose
        Log every game
  -help
        Show this help message

Examples:
  go run ./cmd/autoplay -games 500 -mode MULTIPLAYER -workers 8
  go run ./cmd/autoplay -games 10 -seed 7 -output results/run.json -verbose
`)
}
