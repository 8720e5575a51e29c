package cmd

import (
	"fmt"
	"strings"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/leaderboard"
	"github.com/suderio/farmstead/internal/session"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A8F29")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C9A227")).
			Padding(0, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	coinStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8B923"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

func coins(amount int64) string {
	return coinStyle.Render(session.FormatCoins(amount))
}

// renderShop lists every animal in the catalog with what the player owns.
func renderShop(state engine.GameState, cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Animals") + "\n")
	for _, item := range cat.Shop {
		owned := 0
		if p, ok := state.Producers[item.Type]; ok {
			owned = p.Count
		}
		fmt.Fprintf(&b, "%-8s x%-4d %-5s %3d each   buy %s\n",
			item.Type, owned, item.Product, item.UnitValue, coins(item.Price))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderAutomation shows each auto-seller: current level, next price, or Max Level.
func renderAutomation(state engine.GameState, cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Auto-sellers") + "\n")
	for _, t := range cat.AutomationTypes() {
		offer, err := engine.OfferFor(&state, cat, t)
		if err != nil {
			continue
		}
		current := "off"
		if offer.Current != nil {
			current = fmt.Sprintf("level %d, every %s", offer.Current.Tier, session.FormatInterval(offer.Current.IntervalMs))
		}
		next := "Max Level"
		if !offer.Max {
			verb := "Upgrade"
			if offer.Current == nil {
				verb = "Buy"
			}
			next = fmt.Sprintf("%s for %s (every %s)", verb, coins(offer.Price), session.FormatInterval(offer.IntervalMs))
		}
		fmt.Fprintf(&b, "%-8s %-24s %s\n", t, current, next)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStats(state engine.GameState) string {
	return fmt.Sprintf("%s\nearned %s · animals bought %d · auto-sellers bought %d · sold by hand %d",
		headerStyle.Render("Stats"),
		coins(state.Stats.TotalCurrencyEarned), state.Stats.TotalProducersBought,
		state.Stats.TotalAutomationsBought, state.Stats.TotalManualSales)
}

func renderAchievements(state engine.GameState, cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Achievements") + "\n")
	for _, a := range cat.Achievements {
		if state.Achievements[a.ID] {
			b.WriteString(unlockedStyle.Render("[x] "+a.Name) + "\n")
		} else {
			b.WriteString(lockedStyle.Render("[ ] "+a.Name+": "+a.Description) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFarm(state engine.GameState, cat *catalog.Catalog) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderShop(state, cat),
		"",
		renderAutomation(state, cat),
		"",
		renderStats(state),
	)
}

func renderTitle(state engine.GameState) string {
	name := state.PlayerName
	if name == "" {
		name = "anonymous farmer"
	}
	return titleStyle.Render(fmt.Sprintf(" Farmstead | %s | %s coins ", name, session.FormatCoins(state.Currency)))
}

// renderLeaderboard numbers the ranked entries and highlights the player's own row.
func renderLeaderboard(entries []leaderboard.Entry, self string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Leaderboard") + "\n")
	if len(entries) == 0 {
		b.WriteString(lockedStyle.Render("no scores yet"))
		return b.String()
	}
	for i, e := range entries {
		row := fmt.Sprintf("%2d. %-20s %s", i+1, e.Name, coins(e.Currency))
		if self != "" && e.Name == self {
			row = unlockedStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCatalog describes the static game data.
func renderCatalog(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Shop") + "\n")
	for _, item := range cat.Shop {
		fmt.Fprintf(&b, "%-8s %-10s price %s  yields %s worth %d\n",
			item.Type, item.Name, coins(item.Price), item.Product, item.UnitValue)
	}

	b.WriteString("\n" + headerStyle.Render("Automation tiers") + "\n")
	for i, tier := range cat.Tiers {
		fmt.Fprintf(&b, "level %d  every %-6s x%d base price\n",
			i+1, session.FormatInterval(tier.IntervalMs), tier.Multiplier)
	}
	for _, item := range cat.Automations {
		fmt.Fprintf(&b, "%-8s base price %s\n", item.Type, coins(item.BasePrice))
	}

	b.WriteString("\n" + headerStyle.Render("Achievements") + "\n")
	for _, a := range cat.Achievements {
		fmt.Fprintf(&b, "%-16s %s\n", a.ID, infoStyle.Render(a.Predicate))
	}
	return strings.TrimRight(b.String(), "\n")
}
