/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/session"

	"github.com/spf13/cobra"
)

// linePresenter prints automated sales and unlocks as they happen.
type linePresenter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *linePresenter) Render(engine.GameState) {}

func (p *linePresenter) Earned(e engine.Earned) {
	if e.Manual {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[auto] sold %s for %s coins\n", e.Type, session.FormatCoins(e.Amount))
}

func (p *linePresenter) Unlocked(as []catalog.Achievement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range as {
		fmt.Fprintf(p.out, "Achievement unlocked: %s (%s)\n", a.Name, a.Description)
	}
}

var runName string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play in a plain line-based console",
	Long: `Runs the game without the full-screen interface. Auto-sellers keep earning
while it runs. Type help for the list of commands, exit to save and quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		game, err := openLive(ctx, cfg, &linePresenter{out: out})
		if err != nil {
			fail("failed to start game: %v", err)
		}
		defer func() {
			if err := game.Close(); err != nil {
				fmt.Fprintf(out, "Error saving game: %v\n", err)
			}
		}()

		in := bufio.NewReader(cmd.InOrStdin())
		if err := ensurePlayerName(ctx, game.session, runName, in, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if err := console(ctx, game.session, in, out); err != nil && ctx.Err() == nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	},
}

// console reads commands until exit, end of input or ctx is done.
func console(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
		close(lines)
	}()

	status, err := s.Execute(ctx, "status")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, status)
	fmt.Fprint(out, "> ")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			line = strings.TrimSpace(line)
			if line == "exit" || line == "quit" {
				return nil
			}
			msg, err := s.Execute(ctx, line)
			if msg != "" {
				fmt.Fprintln(out, msg)
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			fmt.Fprint(out, "> ")
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "display name; skips the name prompt")
}
