/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Seednode/costars/game"
	"github.com/spf13/cobra"
)

// openInput picks the game source: --input, then the positional argument,
// then stdin. "-" always means stdin.
func openInput(cmd *cobra.Command, cfg *Config, args []string) (io.ReadCloser, string, error) {
	path := cfg.input
	if path == "" && len(args) > 0 {
		path = args[0]
	}

	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	return f, path, nil
}

func loadInput(cfg *Config, r io.Reader, source string) (*game.Input, error) {
	format := cfg.inputFormat
	if format == game.FormatAuto && source != "stdin" {
		format = game.FormatFromPath(source)
	}

	in, err := game.Load(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	if cfg.strict {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
	}

	return in, nil
}

func formatMove(l game.Labels, m game.Move) string {
	return fmt.Sprintf("%s: %s <- %s (%s)", l.Name(m.Player), m.Name, m.Token, strings.Join(m.Via, ", "))
}

func runPlay(cmd *cobra.Command, cfg *Config, args []string) error {
	startTime := time.Now()

	r, source, err := openInput(cmd, cfg, args)
	if err != nil {
		return err
	}
	defer r.Close()

	in, err := loadInput(cfg, r, source)
	if err != nil {
		return err
	}

	logf(cfg, "LOAD: %d actresses, %d actors and %d movies from %s",
		len(in.Actresses),
		len(in.Actors),
		len(in.Movies),
		source,
	)

	state, err := in.Seed()
	if errors.Is(err, game.ErrNoGame) {
		logf(cfg, "PLAY: %v", err)

		return nil
	}
	if err != nil {
		return err
	}

	outcome, moves := game.Replay(in.Catalog(), state)
	if outcome == game.Undetermined {
		logf(cfg, "PLAY: %v", game.ErrEmptyActiveList)
	}

	labels := cfg.labels()
	out := cmd.OutOrStdout()

	if cfg.trace {
		fmt.Fprintf(out, "%s: %s\n", labels.A, state.Token)
		for _, m := range moves {
			fmt.Fprintln(out, formatMove(labels, m))
		}
	}

	fmt.Fprintln(out, labels.Render(outcome))

	logf(cfg, "PLAY: %s after %d moves in %s",
		outcome,
		len(moves),
		time.Since(startTime).Round(time.Microsecond),
	)

	return nil
}
