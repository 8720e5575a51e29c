package cmd

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/config"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/leaderboard"
	"github.com/suderio/farmstead/internal/persistence"
	"github.com/suderio/farmstead/internal/scheduler"
	"github.com/suderio/farmstead/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, seed string) *session.Session {
	t.Helper()
	store := persistence.NewMemoryStore()
	if seed != "" {
		store.Seed([]byte(seed))
	}
	s, err := session.New(context.Background(), session.Options{
		Catalog: catalog.Default(),
		Store:   store,
		Clock:   scheduler.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
		Inline:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func playerName(t *testing.T, s *session.Session) string {
	t.Helper()
	state, err := s.State(context.Background())
	require.NoError(t, err)
	return state.PlayerName
}

func TestEnsurePlayerName(t *testing.T) {
	ctx := context.Background()

	t.Run("prompts when the save has no name", func(t *testing.T) {
		s := newTestSession(t, "")
		in := bufio.NewReader(strings.NewReader("  Ada \nsell chicken\n"))
		var out bytes.Buffer

		require.NoError(t, ensurePlayerName(ctx, s, "", in, &out))
		assert.Equal(t, "Ada", playerName(t, s))
		assert.Contains(t, out.String(), "What's your name")

		rest, err := in.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "sell chicken\n", rest, "only the name line is consumed")
	})

	t.Run("empty answer stays anonymous", func(t *testing.T) {
		s := newTestSession(t, "")
		require.NoError(t, ensurePlayerName(ctx, s, "", bufio.NewReader(strings.NewReader("\n")), &bytes.Buffer{}))
		assert.Empty(t, playerName(t, s))
	})

	t.Run("end of input stays anonymous", func(t *testing.T) {
		s := newTestSession(t, "")
		require.NoError(t, ensurePlayerName(ctx, s, "", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}))
		assert.Empty(t, playerName(t, s))
	})

	t.Run("flag wins without asking", func(t *testing.T) {
		s := newTestSession(t, `{"player_name":"Old"}`)
		var out bytes.Buffer
		require.NoError(t, ensurePlayerName(ctx, s, "New", bufio.NewReader(strings.NewReader("")), &out))
		assert.Equal(t, "New", playerName(t, s))
		assert.Empty(t, out.String())
	})

	t.Run("named save is not asked again", func(t *testing.T) {
		s := newTestSession(t, `{"player_name":"Ada"}`)
		var out bytes.Buffer
		require.NoError(t, ensurePlayerName(ctx, s, "", bufio.NewReader(strings.NewReader("Bob\n")), &out))
		assert.Equal(t, "Ada", playerName(t, s))
		assert.Empty(t, out.String())
	})
}

func TestProducerArg(t *testing.T) {
	cat := catalog.Default()

	got, err := producerArg(cat, " Cow ")
	require.NoError(t, err)
	assert.Equal(t, catalog.ProducerType("cow"), got)

	_, err = producerArg(cat, "goat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chicken, cow, sheep")
}

func TestConsole(t *testing.T) {
	s := newTestSession(t, "")
	in := strings.NewReader("sell chicken\ndance\nexit\nsell chicken\n")
	var out bytes.Buffer

	require.NoError(t, console(context.Background(), s, in, &out))

	text := out.String()
	assert.Contains(t, text, "Sold chicken for 5 coins.")
	assert.Contains(t, text, "Error: ")
	assert.Equal(t, 1, strings.Count(text, "Sold chicken"), "nothing after exit runs")

	state, err := s.State(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 55, state.Currency)
}

func TestConsoleStopsAtEndOfInput(t *testing.T) {
	s := newTestSession(t, "")
	var out bytes.Buffer
	assert.NoError(t, console(context.Background(), s, strings.NewReader("status\n"), &out))
}

func TestImportRecord(t *testing.T) {
	cat := catalog.Default()

	t.Run("keeps automations and repairs the tier index", func(t *testing.T) {
		raw := `{"currency":120,"automations":{"chicken":{"level":2,"interval":10000}},"automation_tier_index":{"chicken":1}}`
		data, warnings, err := importRecord([]byte(raw), cat)
		require.NoError(t, err)
		assert.NotEmpty(t, warnings)

		res, err := persistence.Restore(data, engine.NewState(cat))
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
		assert.EqualValues(t, 120, res.State.Currency)
		require.Len(t, res.Rearm, 1)
		assert.Equal(t, engine.AutomationHolding{Tier: 2, IntervalMs: 10000}, res.Rearm[0].Holding)
		assert.Equal(t, 3, res.State.AutomationTierIndex["chicken"])
	})

	t.Run("accepts compressed records", func(t *testing.T) {
		packed, err := persistence.Compress([]byte(`{"currency":7}`))
		require.NoError(t, err)
		data, warnings, err := importRecord(packed, cat)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Contains(t, string(data), `"currency":7`)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := importRecord([]byte("not json"), cat)
		assert.ErrorIs(t, err, persistence.ErrCorruptRecord)

		_, _, err = importRecord([]byte("  "), cat)
		assert.ErrorIs(t, err, persistence.ErrCorruptRecord)
	})
}

func TestCheckCatalog(t *testing.T) {
	dir := t.TempDir()

	cat, err := checkCatalog("")
	require.NoError(t, err)
	assert.Contains(t, renderCatalog(cat), "chicken")

	bad := filepath.Join(dir, "bad.yaml")
	src := strings.Replace(defaultCatalogYAML(t), "stats.total_manual_sales >= 1", "stats.total_manual_sales >=", 1)
	require.NoError(t, os.WriteFile(bad, []byte(src), 0644))
	_, err = checkCatalog(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first_sale")
}

func defaultCatalogYAML(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "internal", "catalog", "default.yaml"))
	require.NoError(t, err)
	return string(data)
}

func TestSimulateNeverWritesTheSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	seed := []byte(`{"currency":100,"producers":{"chicken":{"count":1,"product_name":"egg","unit_value":5}}}`)
	require.NoError(t, os.WriteFile(path, seed, 0644))

	cfg := config.Config{Store: persistence.KindFile, SavePath: path}
	out, err := simulate(context.Background(), cfg, 10*time.Minute, time.Minute, true)
	require.NoError(t, err)
	assert.Contains(t, out, "upgrades bought")
	assert.NotContains(t, out, " 0 upgrades bought")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, seed, after)
}

func TestRenderLeaderboard(t *testing.T) {
	out := renderLeaderboard([]leaderboard.Entry{{Name: "Ada", Currency: 1500}, {Name: "Bob", Currency: 20}}, "Bob")
	assert.Contains(t, out, " 1. Ada")
	assert.Contains(t, out, "1.5k")
	assert.Contains(t, out, " 2. Bob")

	assert.Contains(t, renderLeaderboard(nil, ""), "no scores yet")
}

func TestRenderAutomationOffers(t *testing.T) {
	cat := catalog.Default()
	state := engine.NewState(cat)
	state.Automations["cow"] = engine.AutomationHolding{Tier: 3, IntervalMs: 5000}
	state.AutomationTierIndex["cow"] = 4
	state.Automations["sheep"] = engine.AutomationHolding{Tier: 1, IntervalMs: 15000}
	state.AutomationTierIndex["sheep"] = 2

	out := renderAutomation(*state, cat)
	assert.Regexp(t, `chicken\s+off\s+Buy for 100`, out)
	assert.Regexp(t, `cow\s+level 3, every 5s\s+Max Level`, out)
	assert.Regexp(t, `sheep\s+level 1, every 15s\s+Upgrade for 600`, out)
}

func TestFarmModel(t *testing.T) {
	s := newTestSession(t, "")
	m := newFarmModel(s)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.textInput.SetValue("se")
	m.updateSuggestions()
	assert.True(t, m.showList)
	for _, item := range m.suggestions.Items() {
		assert.True(t, strings.HasPrefix(item.FilterValue(), "se"))
	}

	m.textInput.SetValue("sell chicken")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"sell chicken"}, m.history)
	assert.Empty(t, m.textInput.Value())

	msg := m.execute("sell chicken")()
	m.Update(msg)
	assert.Contains(t, m.logContent, "Sold chicken for 5 coins.")

	m.Update(earnedMsg{engine.Earned{Type: "cow", Amount: 20}})
	assert.Contains(t, m.logContent, "[auto] sold cow for 20 coins")

	m.Update(unlockedMsg{[]catalog.Achievement{{Name: "First Sale", Description: "Sell a product by hand."}}})
	assert.Contains(t, m.logContent, "Achievement unlocked: First Sale")

	state, err := s.State(context.Background())
	require.NoError(t, err)
	m.Update(stateMsg{state})
	assert.Contains(t, m.View(), "Farmstead")
}
