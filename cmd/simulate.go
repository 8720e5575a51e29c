/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/config"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/persistence"
	"github.com/suderio/farmstead/internal/scheduler"
	"github.com/suderio/farmstead/internal/session"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	simulateFor      time.Duration
	simulateStep     time.Duration
	simulateReinvest bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fast-forward a copy of the save on a virtual clock",
	Long: `Runs the auto-sellers of a copy of the current save for the given amount of
virtual time and prints what the farm would look like afterwards. The real save
is never written.

With --reinvest the simulated farmer spends coins on the cheapest available
automation upgrade after every step.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		setupLogging(cmd.ErrOrStderr(), cfg.Level())
		if simulateFor <= 0 || simulateStep <= 0 {
			fail("--for and --step must be positive")
		}

		ctx := context.Background()
		result, err := simulate(ctx, cfg, simulateFor, simulateStep, simulateReinvest)
		if err != nil {
			fail("%v", err)
		}
		fmt.Println()
		fmt.Println(result)
	},
}

func simulate(ctx context.Context, cfg config.Config, span, step time.Duration, reinvest bool) (string, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return "", err
	}
	seed, err := readSave(ctx, cfg)
	if err != nil {
		return "", err
	}

	store := persistence.NewMemoryStore()
	store.Seed(seed)
	clock := scheduler.NewFakeClock(time.Now())
	s, err := session.New(ctx, session.Options{
		Catalog: cat,
		Store:   store,
		Clock:   clock,
		Inline:  true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start simulation: %w", err)
	}
	defer s.Close(ctx)

	before, err := s.State(ctx)
	if err != nil {
		return "", err
	}

	var upgrades int
	bar := progressbar.Default(int64(span/step), "Simulating")
	for elapsed := time.Duration(0); elapsed < span; elapsed += step {
		clock.Advance(min(step, span-elapsed))
		if reinvest {
			n, err := reinvestOnce(ctx, s, cat)
			if err != nil {
				return "", err
			}
			upgrades += n
		}
		bar.Add(1)
	}
	bar.Finish()

	after, err := s.State(ctx)
	if err != nil {
		return "", err
	}

	out := fmt.Sprintf("After %s: %s coins (%+d), %d upgrades bought\n",
		span, session.FormatCoins(after.Currency), after.Currency-before.Currency, upgrades)
	return out + session.Summary(after, cat), nil
}

// reinvestOnce keeps buying the cheapest affordable automation tier.
func reinvestOnce(ctx context.Context, s *session.Session, cat *catalog.Catalog) (int, error) {
	bought := 0
	for {
		state, err := s.State(ctx)
		if err != nil {
			return bought, err
		}
		var offers []engine.Offer
		for _, t := range cat.AutomationTypes() {
			offer, err := engine.OfferFor(&state, cat, t)
			if err != nil || offer.Max || offer.Price > state.Currency {
				continue
			}
			offers = append(offers, offer)
		}
		if len(offers) == 0 {
			return bought, nil
		}
		sort.Slice(offers, func(i, j int) bool {
			if offers[i].Price != offers[j].Price {
				return offers[i].Price < offers[j].Price
			}
			return offers[i].Type < offers[j].Type
		})
		if _, err := s.BuyAutomation(ctx, offers[0].Type); err != nil {
			return bought, err
		}
		bought++
	}
}

// readSave returns the raw record in the configured slot, or nil if there is none.
func readSave(ctx context.Context, cfg config.Config) ([]byte, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	data, err := store.Load(ctx)
	if errors.Is(err, persistence.ErrNoRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().DurationVar(&simulateFor, "for", time.Hour, "virtual time to simulate")
	simulateCmd.Flags().DurationVar(&simulateStep, "step", time.Minute, "virtual time between progress updates")
	simulateCmd.Flags().BoolVar(&simulateReinvest, "reinvest", false, "buy the cheapest automation upgrade whenever affordable")
}
