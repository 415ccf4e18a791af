package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	tea "github.com/charmbracelet/bubbletea"
	flags "github.com/jessevdk/go-flags"

	"github.com/erickcestari/bolt12-offer-decoder/offers"
	"github.com/erickcestari/bolt12-offer-decoder/tui"
)

const version = "0.1.0"

// config holds the command line options for the decoder.
type config struct {
	Offer string `long:"offer" description:"Offer string to pre-fill the input with."`

	LogFile string `long:"logfile" description:"Write debug logs to this file. The terminal itself is owned by the UI, so logging is off unless a file is given."`

	ShowVersion bool `short:"V" long:"version" description:"Print version and exit."`
}

func run() error {
	cfg := &config{
		Offer: tui.DefaultOffer,
	}

	if _, err := flags.Parse(cfg); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) &&
			flagsErr.Type == flags.ErrHelp {

			os.Exit(0)
		}

		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("bolt12-offer-decoder version %v\n", version)
		return nil
	}

	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(
			cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()

		logger := btclog.NewBackend(logFile).Logger(offers.Subsystem)
		logger.SetLevel(btclog.LevelTrace)
		offers.UseLogger(logger)
	}

	program := tea.NewProgram(tui.New(cfg.Offer), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bolt12-offer-decoder: %v\n", err)
		os.Exit(1)
	}
}
