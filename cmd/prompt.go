package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/suderio/farmstead/internal/session"
)

// ensurePlayerName asks once for a display name when the save has none. A name
// given on the command line is used without asking. An empty answer leaves the
// player anonymous, which keeps them off the leaderboard.
//
// in is read one line at a time so the rest of the input stays available.
func ensurePlayerName(ctx context.Context, s *session.Session, flagName string, in *bufio.Reader, out io.Writer) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	if flagName = strings.TrimSpace(flagName); flagName != "" {
		if flagName == state.PlayerName {
			return nil
		}
		return s.SetName(ctx, flagName)
	}
	if state.PlayerName != "" {
		return nil
	}

	fmt.Fprint(out, "What's your name, farmer? ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return nil
	}
	return s.SetName(ctx, name)
}
