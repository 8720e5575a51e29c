// Package leaderboard talks to the remote score board: it mirrors the player's
// balance after every change and fetches the ranked list on demand.
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entry is one row of the board.
type Entry struct {
	Name     string `json:"name"`
	Currency int64  `json:"currency"`
}

// Poster submits a score.
type Poster interface {
	Post(ctx context.Context, e Entry) error
}

// Client is an HTTP client for a board exposing POST and GET on {base}/scores.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) scoresURL() string {
	return c.baseURL + "/scores"
}

// Post submits the player's current balance.
func (c *Client) Post(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scoresURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post score: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to post score: %s", resp.Status)
	}
	return nil
}

// Fetch returns the raw board, possibly with several rows per name.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scoresURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", c.scoresURL(), resp.Status)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	return entries, nil
}

// Top fetches the board and ranks it.
func (c *Client) Top(ctx context.Context, n int) ([]Entry, error) {
	entries, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(entries, n), nil
}
