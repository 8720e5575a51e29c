package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
)

// ErrUnknownCommand is returned by Execute for an unrecognized console command.
var ErrUnknownCommand = errors.New("unknown command")

const consoleHelp = `commands:
  status                      show coins, animals and automations
  sell <type> [and <type>]    sell everything a kind of animal produced
  buy <type> [and <type>]     buy one animal at the shop price
  automate <type>             buy or upgrade the auto-seller for a kind
  redeem <code>               redeem a reward code
  name <display name>         set your leaderboard name
  save                        save now
  help                        show this help`

// Execute runs one console line and returns the text to show the player.
func (s *Session) Execute(ctx context.Context, line string) (string, error) {
	in := ParseInput(line)
	switch in.Command {
	case "":
		return "", nil
	case "help", "?":
		return consoleHelp, nil
	case "status":
		state, err := s.State(ctx)
		if err != nil {
			return "", err
		}
		return Summary(state, s.cat), nil
	case "sell":
		return s.execSell(ctx, in)
	case "buy":
		return s.execBuy(ctx, in)
	case "automate", "upgrade":
		return s.execAutomate(ctx, in)
	case "redeem":
		amount, err := s.Redeem(ctx, in.Arg("code"))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Success! Received %s coins!", FormatCoins(amount)), nil
	case "name":
		name := in.Arg("as")
		if err := s.SetName(ctx, name); err != nil {
			return "", err
		}
		return fmt.Sprintf("Welcome, %s!", strings.TrimSpace(name)), nil
	case "save":
		if err := s.Save(ctx); err != nil {
			return "", err
		}
		return "Saved.", nil
	default:
		return "", fmt.Errorf("%w %q, try help", ErrUnknownCommand, in.Command)
	}
}

func (s *Session) execSell(ctx context.Context, in ParsedInput) (string, error) {
	if len(in.Args) == 0 {
		return "", errors.New("sell what? e.g. sell chicken")
	}
	var lines []string
	for _, arg := range in.Args {
		t := catalog.ProducerType(strings.ToLower(arg))
		earned, err := s.Sell(ctx, t, engine.Point{})
		if err != nil {
			return "", err
		}
		if earned == 0 {
			lines = append(lines, fmt.Sprintf("You have no %s to sell from.", t))
			continue
		}
		lines = append(lines, fmt.Sprintf("Sold %s for %s coins.", t, FormatCoins(earned)))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) execBuy(ctx context.Context, in ParsedInput) (string, error) {
	if len(in.Args) == 0 {
		return "", errors.New("buy what? e.g. buy cow")
	}
	items := make([]catalog.ShopItem, 0, len(in.Args))
	for _, arg := range in.Args {
		t := catalog.ProducerType(strings.ToLower(arg))
		item, ok := s.cat.ShopItem(t)
		if !ok {
			return "", fmt.Errorf("%w: %s", engine.ErrUnknownProducer, t)
		}
		items = append(items, item)
	}

	// Animals are always bought at the catalog price shown in the shop.
	var lines []string
	for _, item := range items {
		if err := s.BuyProducer(ctx, item.Type, item.Price); err != nil {
			return strings.Join(lines, "\n"), err
		}
		lines = append(lines, fmt.Sprintf("Bought a %s for %s coins.", item.Name, FormatCoins(item.Price)))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Session) execAutomate(ctx context.Context, in ParsedInput) (string, error) {
	if len(in.Args) != 1 {
		return "", errors.New("automate what? e.g. automate chicken")
	}
	t := catalog.ProducerType(strings.ToLower(in.Args[0]))
	bought, err := s.BuyAutomation(ctx, t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Auto-seller for %s is now level %d (every %s) for %s coins.",
		t, bought.Holding.Tier, FormatInterval(bought.Holding.IntervalMs), FormatCoins(bought.Price)), nil
}

// Summary renders a plain-text overview of a state.
func Summary(state engine.GameState, cat *catalog.Catalog) string {
	var b strings.Builder
	name := state.PlayerName
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&b, "%s: %s coins\n", name, FormatCoins(state.Currency))

	for _, t := range state.SortedProducerTypes() {
		p := state.Producers[t]
		fmt.Fprintf(&b, "  %-8s x%-4d %s @ %d", t, p.Count, p.ProductName, p.UnitValue)
		if a, ok := state.Automations[t]; ok {
			fmt.Fprintf(&b, "  auto level %d every %s", a.Tier, FormatInterval(a.IntervalMs))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "earned %s, %d animals bought, %d auto-sellers bought, %d sales by hand\n",
		FormatCoins(state.Stats.TotalCurrencyEarned), state.Stats.TotalProducersBought,
		state.Stats.TotalAutomationsBought, state.Stats.TotalManualSales)

	unlocked := 0
	for _, a := range cat.Achievements {
		if state.Achievements[a.ID] {
			unlocked++
		}
	}
	fmt.Fprintf(&b, "achievements %d/%d", unlocked, len(cat.Achievements))
	return b.String()
}
