// Package catalog holds the static game data: what can be bought, what it
// yields, how automation tiers are priced and which achievements exist.
// A Catalog is loaded once at startup and never mutated afterwards.
package catalog

import "strings"

// ProducerType identifies an animal kind (e.g. "chicken").
type ProducerType string

// ShopItem is a producer offered in the shop.
type ShopItem struct {
	Type      ProducerType `yaml:"type"`
	Name      string       `yaml:"name"`
	Price     int64        `yaml:"price"`
	Product   string       `yaml:"product"`
	UnitValue int64        `yaml:"unit_value"`
}

// AutomationItem declares that a producer type can be automated and at what base price.
type AutomationItem struct {
	Type      ProducerType `yaml:"type"`
	BasePrice int64        `yaml:"base_price"`
}

// Tier is one purchasable automation level. Tiers are 1-indexed in the game
// and ordered by decreasing interval and increasing multiplier.
type Tier struct {
	IntervalMs int64 `yaml:"interval_ms"`
	Multiplier int64 `yaml:"multiplier"`
}

// Achievement is a declarative unlock rule. Predicate is a CEL boolean expression
// evaluated against the game state.
type Achievement struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Predicate   string `yaml:"predicate"`
}

// Start describes the fresh game a new player receives.
type Start struct {
	Currency  int64                `yaml:"currency"`
	Producers map[ProducerType]int `yaml:"producers"`
}

// Catalog is the full static configuration of the game.
type Catalog struct {
	Shop            []ShopItem       `yaml:"shop"`
	Automations     []AutomationItem `yaml:"automations"`
	Tiers           []Tier           `yaml:"tiers"`
	Achievements    []Achievement    `yaml:"achievements"`
	RedemptionCodes map[string]int64 `yaml:"redemption_codes"`
	Start           Start            `yaml:"start"`
}

// ShopItem finds the shop entry for a producer type.
func (c *Catalog) ShopItem(t ProducerType) (ShopItem, bool) {
	for _, item := range c.Shop {
		if item.Type == t {
			return item, true
		}
	}
	return ShopItem{}, false
}

// BasePrice returns the automation base price for a producer type.
func (c *Catalog) BasePrice(t ProducerType) (int64, bool) {
	for _, item := range c.Automations {
		if item.Type == t {
			return item.BasePrice, true
		}
	}
	return 0, false
}

// Tier returns the 1-indexed tier i.
func (c *Catalog) Tier(i int) (Tier, bool) {
	if i < 1 || i > len(c.Tiers) {
		return Tier{}, false
	}
	return c.Tiers[i-1], true
}

// MaxTier is the number of defined tiers.
func (c *Catalog) MaxTier() int {
	return len(c.Tiers)
}

// AutomationTypes lists the automatable producer types in declaration order.
func (c *Catalog) AutomationTypes() []ProducerType {
	types := make([]ProducerType, 0, len(c.Automations))
	for _, item := range c.Automations {
		types = append(types, item.Type)
	}
	return types
}

// Reward looks up a redemption code. The code is normalized first.
func (c *Catalog) Reward(code string) (int64, bool) {
	amount, ok := c.RedemptionCodes[NormalizeCode(code)]
	return amount, ok
}

// AddCodes merges extra redemption codes into the catalog, overriding existing rewards.
func (c *Catalog) AddCodes(codes map[string]int64) {
	if c.RedemptionCodes == nil {
		c.RedemptionCodes = make(map[string]int64, len(codes))
	}
	for code, amount := range codes {
		c.RedemptionCodes[NormalizeCode(code)] = amount
	}
}

// NormalizeCode makes redemption codes case-insensitive and whitespace-tolerant.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
