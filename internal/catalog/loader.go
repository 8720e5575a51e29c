package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the embedded catalog shipped with the binary.
func Default() *Catalog {
	c, err := Decode(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path falls back to the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode parses and validates a YAML catalog.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
	}

	codes := c.RedemptionCodes
	c.RedemptionCodes = nil
	c.AddCodes(codes)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural rules the engine relies on: every tier list is
// non-empty and strictly faster/pricier, every automation refers to a shop item,
// and identifiers are unique.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Shop) == 0 {
		errs = append(errs, errors.New("shop must list at least one producer"))
	}
	seen := make(map[ProducerType]bool, len(c.Shop))
	for _, item := range c.Shop {
		switch {
		case item.Type == "":
			errs = append(errs, fmt.Errorf("shop item %q has no type", item.Name))
		case seen[item.Type]:
			errs = append(errs, fmt.Errorf("shop item %s is declared twice", item.Type))
		}
		seen[item.Type] = true
		if item.Price < 0 {
			errs = append(errs, fmt.Errorf("shop item %s has negative price", item.Type))
		}
		if item.UnitValue <= 0 {
			errs = append(errs, fmt.Errorf("shop item %s must have a positive unit_value", item.Type))
		}
		if item.Product == "" {
			errs = append(errs, fmt.Errorf("shop item %s has no product", item.Type))
		}
	}

	if len(c.Tiers) == 0 {
		errs = append(errs, errors.New("at least one automation tier is required"))
	}
	for i, tier := range c.Tiers {
		if tier.IntervalMs <= 0 || tier.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("tier %d must have positive interval_ms and multiplier", i+1))
		}
		if i == 0 {
			continue
		}
		prev := c.Tiers[i-1]
		if tier.IntervalMs >= prev.IntervalMs {
			errs = append(errs, fmt.Errorf("tier %d must be faster than tier %d", i+1, i))
		}
		if tier.Multiplier <= prev.Multiplier {
			errs = append(errs, fmt.Errorf("tier %d must cost more than tier %d", i+1, i))
		}
	}

	automated := make(map[ProducerType]bool, len(c.Automations))
	for _, item := range c.Automations {
		if !seen[item.Type] {
			errs = append(errs, fmt.Errorf("automation %s has no matching shop item", item.Type))
		}
		if automated[item.Type] {
			errs = append(errs, fmt.Errorf("automation %s is declared twice", item.Type))
		}
		automated[item.Type] = true
		if item.BasePrice <= 0 {
			errs = append(errs, fmt.Errorf("automation %s must have a positive base_price", item.Type))
		}
	}

	ids := make(map[string]bool, len(c.Achievements))
	for _, a := range c.Achievements {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("achievement %q has no id", a.Name))
		} else if ids[a.ID] {
			errs = append(errs, fmt.Errorf("achievement %s is declared twice", a.ID))
		}
		ids[a.ID] = true
		if a.Predicate == "" {
			errs = append(errs, fmt.Errorf("achievement %s has no predicate", a.ID))
		}
	}

	for code, amount := range c.RedemptionCodes {
		if code == "" {
			errs = append(errs, errors.New("redemption code cannot be empty"))
		}
		if amount <= 0 {
			errs = append(errs, fmt.Errorf("redemption code %s must grant a positive amount", code))
		}
	}

	if c.Start.Currency < 0 {
		errs = append(errs, errors.New("start currency cannot be negative"))
	}
	for t, count := range c.Start.Producers {
		if !seen[t] {
			errs = append(errs, fmt.Errorf("start producer %s has no matching shop item", t))
		}
		if count < 0 {
			errs = append(errs, fmt.Errorf("start producer %s has negative count", t))
		}
	}

	return errors.Join(errs...)
}
