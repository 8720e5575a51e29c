// Package persistence converts game state to and from its durable record and
// stores records in named save slots.
//
// Restore merges a record over a fresh default state field by field, so a save
// written by an older build (missing fields) or partially damaged on disk keeps
// every field that still decodes.
package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
)

// AutomationRecord is the persisted form of an automation: no timer handle.
type AutomationRecord struct {
	Level    int   `json:"level"`
	Interval int64 `json:"interval"`
}

// Record is the JSON document written to a save slot.
type Record struct {
	Currency            int64                                           `json:"currency"`
	Producers           map[catalog.ProducerType]engine.ProducerHolding `json:"producers"`
	Automations         map[catalog.ProducerType]AutomationRecord       `json:"automations"`
	Stats               engine.Stats                                    `json:"stats"`
	Achievements        map[string]bool                                 `json:"achievements"`
	AutomationTierIndex map[catalog.ProducerType]int                    `json:"automation_tier_index"`
	RedeemedCodes       []string                                        `json:"redeemed_codes"`
	PlayerName          string                                          `json:"player_name"`
}

// Rearm is an automation found in a record that must be reinstated and armed.
type Rearm struct {
	Type    catalog.ProducerType
	Holding engine.AutomationHolding
}

// Restored is the outcome of merging a record over defaults.
type Restored struct {
	State    *engine.GameState
	Rearm    []Rearm
	Warnings []string
}

// Snapshot encodes the durable part of a state.
func Snapshot(s *engine.GameState) ([]byte, error) {
	rec := Record{
		Currency:            s.Currency,
		Producers:           make(map[catalog.ProducerType]engine.ProducerHolding, len(s.Producers)),
		Automations:         make(map[catalog.ProducerType]AutomationRecord, len(s.Automations)),
		Stats:               s.Stats,
		Achievements:        make(map[string]bool, len(s.Achievements)),
		AutomationTierIndex: make(map[catalog.ProducerType]int, len(s.AutomationTierIndex)),
		RedeemedCodes:       s.SortedCodes(),
		PlayerName:          s.PlayerName,
	}
	for t, p := range s.Producers {
		rec.Producers[t] = *p
	}
	for t, a := range s.Automations {
		rec.Automations[t] = AutomationRecord{Level: a.Tier, Interval: a.IntervalMs}
	}
	for id, ok := range s.Achievements {
		rec.Achievements[id] = ok
	}
	for t, i := range s.AutomationTierIndex {
		rec.AutomationTierIndex[t] = i
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save record: %w", err)
	}
	return data, nil
}

// Restore merges a record over a copy of defaults. Scalars in the record replace
// the defaults; producers, stats, achievements and tier indexes are merged key by
// key; redeemed codes are taken from the record. Automations come back empty in
// the state and are listed in Rearm instead, because their timers must be
// recreated by the caller.
//
// Empty data yields the defaults. Data that is not a JSON object yields the
// defaults together with ErrCorruptRecord.
func Restore(data []byte, defaults *engine.GameState) (Restored, error) {
	base := defaults.Clone()
	res := Restored{State: &base}

	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return res, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if fields == nil {
		return res, nil
	}

	m := merger{state: res.State, fields: fields}
	m.currency()
	m.playerName()
	m.producers()
	m.stats()
	m.achievements()
	m.tierIndex()
	m.redeemedCodes()
	res.Rearm = m.automations()
	res.Warnings = m.warnings
	return res, nil
}

type merger struct {
	state    *engine.GameState
	fields   map[string]json.RawMessage
	warnings []string
}

func (m *merger) warn(format string, args ...any) {
	m.warnings = append(m.warnings, fmt.Sprintf(format, args...))
}

// field decodes a top-level field. It reports false when the field is absent or
// malformed; malformed fields are recorded as warnings.
func (m *merger) field(name string, target any) bool {
	raw, ok := m.fields[name]
	if !ok || isNull(raw) {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		m.warn("%s: %v", name, err)
		return false
	}
	return true
}

// entries decodes a top-level object field into raw per-key values.
func (m *merger) entries(name string) map[string]json.RawMessage {
	var entries map[string]json.RawMessage
	if !m.field(name, &entries) {
		return nil
	}
	return entries
}

func (m *merger) currency() {
	var currency int64
	if !m.field("currency", &currency) {
		return
	}
	if currency < 0 {
		m.warn("currency: negative balance %d", currency)
		return
	}
	m.state.Currency = currency
}

func (m *merger) playerName() {
	var name string
	if m.field("player_name", &name) {
		m.state.PlayerName = name
	}
}

func (m *merger) producers() {
	for key, raw := range m.entries("producers") {
		var p engine.ProducerHolding
		if err := json.Unmarshal(raw, &p); err != nil {
			m.warn("producers.%s: %v", key, err)
			continue
		}
		if p.Count < 0 || p.UnitValue <= 0 || p.ProductName == "" {
			m.warn("producers.%s: invalid holding %+v", key, p)
			continue
		}
		m.state.Producers[catalog.ProducerType(key)] = &p
	}
}

func (m *merger) stats() {
	counters := map[string]*int64{
		"total_currency_earned":    &m.state.Stats.TotalCurrencyEarned,
		"total_producers_bought":   &m.state.Stats.TotalProducersBought,
		"total_automations_bought": &m.state.Stats.TotalAutomationsBought,
		"total_manual_sales":       &m.state.Stats.TotalManualSales,
	}
	for key, raw := range m.entries("stats") {
		target, known := counters[key]
		if !known {
			continue
		}
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
			m.warn("stats.%s: invalid counter %s", key, raw)
			continue
		}
		*target = v
	}
}

func (m *merger) achievements() {
	for id, raw := range m.entries("achievements") {
		var unlocked bool
		if err := json.Unmarshal(raw, &unlocked); err != nil {
			m.warn("achievements.%s: %v", id, err)
			continue
		}
		m.state.Achievements[id] = unlocked
	}
}

func (m *merger) tierIndex() {
	for key, raw := range m.entries("automation_tier_index") {
		var i int
		if err := json.Unmarshal(raw, &i); err != nil || i < 1 {
			m.warn("automation_tier_index.%s: invalid index %s", key, raw)
			continue
		}
		m.state.AutomationTierIndex[catalog.ProducerType(key)] = i
	}
}

func (m *merger) redeemedCodes() {
	var raw []json.RawMessage
	if !m.field("redeemed_codes", &raw) {
		return
	}
	codes := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		var code string
		if err := json.Unmarshal(item, &code); err != nil {
			m.warn("redeemed_codes: %v", err)
			continue
		}
		if code = catalog.NormalizeCode(code); code != "" {
			codes[code] = struct{}{}
		}
	}
	m.state.RedeemedCodes = codes
}

func (m *merger) automations() []Rearm {
	m.state.Automations = make(map[catalog.ProducerType]engine.AutomationHolding)

	var rearm []Rearm
	for key, raw := range m.entries("automations") {
		var a AutomationRecord
		if err := json.Unmarshal(raw, &a); err != nil {
			m.warn("automations.%s: %v", key, err)
			continue
		}
		if a.Level < 1 || a.Interval <= 0 {
			m.warn("automations.%s: invalid automation %+v", key, a)
			continue
		}
		t := catalog.ProducerType(key)
		if m.state.AutomationTierIndex[t] <= a.Level {
			m.warn("automation_tier_index.%s: repaired to %d", key, a.Level+1)
			m.state.AutomationTierIndex[t] = a.Level + 1
		}
		rearm = append(rearm, Rearm{
			Type:    t,
			Holding: engine.AutomationHolding{Tier: a.Level, IntervalMs: a.Interval},
		})
	}
	sort.Slice(rearm, func(i, j int) bool { return rearm[i].Type < rearm[j].Type })
	return rearm
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
