package engine

import (
	"sort"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
)

// ProducerHolding is an owned stack of one animal kind. ProductName and UnitValue
// are fixed when the first animal of the kind is acquired.
type ProducerHolding struct {
	Count       int    `json:"count"`
	ProductName string `json:"product_name"`
	UnitValue   int64  `json:"unit_value"`
}

// AutomationHolding records the automation tier already bought for a producer type.
// The live timer is owned by the scheduler, never by the state.
type AutomationHolding struct {
	Tier       int   `json:"tier"`
	IntervalMs int64 `json:"interval_ms"`
}

// Interval is the tick period of the automation.
func (a AutomationHolding) Interval() time.Duration {
	return time.Duration(a.IntervalMs) * time.Millisecond
}

// Stats are lifetime counters. They never decrease.
type Stats struct {
	TotalCurrencyEarned    int64 `json:"total_currency_earned"`
	TotalProducersBought   int64 `json:"total_producers_bought"`
	TotalAutomationsBought int64 `json:"total_automations_bought"`
	TotalManualSales       int64 `json:"total_manual_sales"`
}

// GameState is the single mutable aggregate of a save file.
type GameState struct {
	Currency            int64                                      `json:"currency"`
	Producers           map[catalog.ProducerType]*ProducerHolding  `json:"producers"`
	Automations         map[catalog.ProducerType]AutomationHolding `json:"automations"`
	Stats               Stats                                      `json:"stats"`
	Achievements        map[string]bool                            `json:"achievements"`
	AutomationTierIndex map[catalog.ProducerType]int               `json:"automation_tier_index"`
	RedeemedCodes       map[string]struct{}                        `json:"-"`
	PlayerName          string                                     `json:"player_name"`
}

// NewGameState creates a state with every map initialized and nothing owned.
func NewGameState() *GameState {
	return &GameState{
		Producers:           make(map[catalog.ProducerType]*ProducerHolding),
		Automations:         make(map[catalog.ProducerType]AutomationHolding),
		Achievements:        make(map[string]bool),
		AutomationTierIndex: make(map[catalog.ProducerType]int),
		RedeemedCodes:       make(map[string]struct{}),
	}
}

// NewState builds the fresh game described by the catalog's start block.
func NewState(cat *catalog.Catalog) *GameState {
	s := NewGameState()
	s.Currency = cat.Start.Currency

	for t, count := range cat.Start.Producers {
		item, ok := cat.ShopItem(t)
		if !ok || count <= 0 {
			continue
		}
		s.Producers[t] = &ProducerHolding{
			Count:       count,
			ProductName: item.Product,
			UnitValue:   item.UnitValue,
		}
		s.Stats.TotalProducersBought += int64(count)
	}

	for _, t := range cat.AutomationTypes() {
		s.AutomationTierIndex[t] = 1
	}
	return s
}

// Clone returns a deep copy safe to hand to read-only adapters.
func (s *GameState) Clone() GameState {
	c := *s
	c.Producers = make(map[catalog.ProducerType]*ProducerHolding, len(s.Producers))
	for t, p := range s.Producers {
		holding := *p
		c.Producers[t] = &holding
	}
	c.Automations = make(map[catalog.ProducerType]AutomationHolding, len(s.Automations))
	for t, a := range s.Automations {
		c.Automations[t] = a
	}
	c.Achievements = make(map[string]bool, len(s.Achievements))
	for id, ok := range s.Achievements {
		c.Achievements[id] = ok
	}
	c.AutomationTierIndex = make(map[catalog.ProducerType]int, len(s.AutomationTierIndex))
	for t, i := range s.AutomationTierIndex {
		c.AutomationTierIndex[t] = i
	}
	c.RedeemedCodes = make(map[string]struct{}, len(s.RedeemedCodes))
	for code := range s.RedeemedCodes {
		c.RedeemedCodes[code] = struct{}{}
	}
	return c
}

// ProducerCount is the total number of animals owned across all kinds.
func (s *GameState) ProducerCount() int {
	total := 0
	for _, p := range s.Producers {
		total += p.Count
	}
	return total
}

// SortedCodes lists redeemed codes in a stable order.
func (s *GameState) SortedCodes() []string {
	codes := make([]string, 0, len(s.RedeemedCodes))
	for code := range s.RedeemedCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SortedProducerTypes lists owned producer types in a stable order.
func (s *GameState) SortedProducerTypes() []catalog.ProducerType {
	types := make([]catalog.ProducerType, 0, len(s.Producers))
	for t := range s.Producers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
