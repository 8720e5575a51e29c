// Package engine implements the farm economy: selling products, buying animals
// and automation tiers, redeeming codes. The Engine owns no goroutines and no
// locks; callers serialize access (see the session loop).
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
)

// Automator installs and removes the recurring income timer of a producer type.
type Automator interface {
	Arm(t catalog.ProducerType, interval time.Duration)
	Retire(t catalog.ProducerType)
}

// Offer describes the next automation purchase for a producer type.
type Offer struct {
	Type       catalog.ProducerType
	Tier       int
	Price      int64
	IntervalMs int64
	Max        bool
	Current    *AutomationHolding
}

// Engine applies economy operations to a GameState.
type Engine struct {
	state    *GameState
	catalog  *catalog.Catalog
	timers   Automator
	observer Observer
}

// New wires an engine around an explicitly owned state.
func New(state *GameState, cat *catalog.Catalog, timers Automator) *Engine {
	return &Engine{
		state:    state,
		catalog:  cat,
		timers:   timers,
		observer: nopObserver{},
	}
}

// SetObserver registers the sink for Earned events.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
}

// State exposes the live state. Only the engine and the achievement evaluator mutate it.
func (e *Engine) State() *GameState {
	return e.state
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() GameState {
	return e.state.Clone()
}

// SellManual sells everything a producer type yields right now. It silently does
// nothing when no animal of that type is owned.
func (e *Engine) SellManual(t catalog.ProducerType, at Point) (int64, bool) {
	earnings, ok := e.earn(t)
	if !ok {
		return 0, false
	}
	e.state.Stats.TotalManualSales++
	e.observer.Earned(Earned{Type: t, Amount: earnings, At: at, Manual: true})
	return earnings, true
}

// ApplyAutomatedIncome is the scheduler tick. It pays like SellManual but is
// not counted as a manual sale.
func (e *Engine) ApplyAutomatedIncome(t catalog.ProducerType) (int64, bool) {
	earnings, ok := e.earn(t)
	if !ok {
		return 0, false
	}
	e.observer.Earned(Earned{Type: t, Amount: earnings})
	return earnings, true
}

func (e *Engine) earn(t catalog.ProducerType) (int64, bool) {
	p, ok := e.state.Producers[t]
	if !ok || p.Count <= 0 {
		return 0, false
	}
	earnings := mulSat(int64(p.Count), p.UnitValue)
	e.state.Currency = addSat(e.state.Currency, earnings)
	e.state.Stats.TotalCurrencyEarned = addSat(e.state.Stats.TotalCurrencyEarned, earnings)
	return earnings, true
}

// BuyProducer buys one animal at the price the player was shown.
func (e *Engine) BuyProducer(t catalog.ProducerType, expectedPrice int64) error {
	if expectedPrice < 0 {
		return ErrInvalidPrice
	}
	p, owned := e.state.Producers[t]
	var item catalog.ShopItem
	if !owned {
		var ok bool
		if item, ok = e.catalog.ShopItem(t); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownProducer, t)
		}
	}
	if e.state.Currency < expectedPrice {
		return ErrInsufficientFunds
	}

	e.state.Currency -= expectedPrice
	if !owned {
		p = &ProducerHolding{ProductName: item.Product, UnitValue: item.UnitValue}
		e.state.Producers[t] = p
	}
	p.Count++
	e.state.Stats.TotalProducersBought++
	return nil
}

// AutomationOffer prices the next automation tier for a producer type.
func (e *Engine) AutomationOffer(t catalog.ProducerType) (Offer, error) {
	return OfferFor(e.state, e.catalog, t)
}

// OfferFor prices the next automation tier of t against any state, for example
// a snapshot held by the presentation.
func OfferFor(s *GameState, cat *catalog.Catalog, t catalog.ProducerType) (Offer, error) {
	base, ok := cat.BasePrice(t)
	if !ok {
		return Offer{}, fmt.Errorf("%w: %s", ErrUnknownProducer, t)
	}

	offer := Offer{Type: t, Tier: tierIndex(s, t)}
	if current, ok := s.Automations[t]; ok {
		offer.Current = &current
	}

	tier, ok := cat.Tier(offer.Tier)
	if !ok {
		offer.Max = true
		return offer, nil
	}
	offer.Price = mulSat(base, tier.Multiplier)
	offer.IntervalMs = tier.IntervalMs
	return offer, nil
}

// Purchase is an automation tier that was bought and what it cost.
type Purchase struct {
	Holding AutomationHolding
	Price   int64
}

// BuyAutomation buys the next tier of automation for a producer type and
// replaces its income timer.
func (e *Engine) BuyAutomation(t catalog.ProducerType) (Purchase, error) {
	offer, err := e.AutomationOffer(t)
	if err != nil {
		return Purchase{}, err
	}
	if offer.Max {
		return Purchase{}, ErrMaxTierReached
	}
	if e.state.Currency < offer.Price {
		return Purchase{}, ErrInsufficientFunds
	}

	e.state.Currency -= offer.Price
	e.state.Stats.TotalAutomationsBought++

	holding := AutomationHolding{Tier: offer.Tier, IntervalMs: offer.IntervalMs}
	e.timers.Retire(t)
	e.state.Automations[t] = holding
	e.state.AutomationTierIndex[t] = offer.Tier + 1
	e.timers.Arm(t, holding.Interval())
	return Purchase{Holding: holding, Price: offer.Price}, nil
}

// ReinstateAutomation restores an automation read from a save without charging for it.
func (e *Engine) ReinstateAutomation(t catalog.ProducerType, holding AutomationHolding) {
	e.timers.Retire(t)
	e.state.Automations[t] = holding
	if e.state.AutomationTierIndex[t] <= holding.Tier {
		e.state.AutomationTierIndex[t] = holding.Tier + 1
	}
	e.timers.Arm(t, holding.Interval())
}

func tierIndex(s *GameState, t catalog.ProducerType) int {
	if i, ok := s.AutomationTierIndex[t]; ok && i >= 1 {
		return i
	}
	return 1
}

// RedeemCode credits a single-use reward code.
func (e *Engine) RedeemCode(code string) (int64, error) {
	normalized := catalog.NormalizeCode(code)
	if normalized == "" {
		return 0, ErrEmptyCode
	}
	amount, ok := e.catalog.Reward(normalized)
	if !ok {
		return 0, ErrInvalidCode
	}
	if _, used := e.state.RedeemedCodes[normalized]; used {
		return 0, ErrCodeAlreadyUsed
	}

	e.state.Currency = addSat(e.state.Currency, amount)
	e.state.RedeemedCodes[normalized] = struct{}{}
	return amount, nil
}

// SetPlayerName sets the display name mirrored to the leaderboard.
func (e *Engine) SetPlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	e.state.PlayerName = name
	return nil
}

func addSat(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}
