// Package achievement evaluates catalog achievement predicates against game state.
//
// Predicates are CEL expressions compiled once when the evaluator is built. They
// see the state through these variables:
//
//	currency          int
//	producer_count    int   animals owned across all kinds
//	automation_count  int   producer types with an active auto-seller
//	stats             map   total_currency_earned, total_producers_bought,
//	                        total_automations_bought, total_manual_sales
//	producers         map   type -> {count, unit_value, product_name}
//	automations       map   type -> {tier, interval_ms}
//	achievements      map   id -> unlocked
package achievement

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
)

type rule struct {
	def catalog.Achievement
	prg cel.Program
}

// Evaluator holds compiled predicates in catalog declaration order.
type Evaluator struct {
	env   *cel.Env
	rules []rule
}

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		ext.Strings(),

		cel.Variable("currency", cel.IntType),
		cel.Variable("producer_count", cel.IntType),
		cel.Variable("automation_count", cel.IntType),
		cel.Variable("stats", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("producers", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("automations", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("achievements", cel.MapType(cel.StringType, cel.BoolType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// NewEvaluator compiles every predicate. All compile errors are reported together.
func NewEvaluator(defs []catalog.Achievement) (*Evaluator, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	ev := &Evaluator{env: env}
	var errs []error
	for _, def := range defs {
		prg, err := compile(env, def.Predicate)
		if err != nil {
			errs = append(errs, fmt.Errorf("achievement %s: %w", def.ID, err))
			continue
		}
		ev.rules = append(ev.rules, rule{def: def, prg: prg})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return ev, nil
}

func compile(env *cel.Env, expression string) (cel.Program, error) {
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("predicate must be boolean, got %s", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return prg, nil
}

// Evaluate marks every achievement whose predicate now holds and that was not
// unlocked before, and returns those in declaration order. A predicate that
// fails at runtime (a missing map key, for instance) counts as not satisfied.
func (e *Evaluator) Evaluate(s *engine.GameState) []catalog.Achievement {
	vars := Variables(s)

	var unlocked []catalog.Achievement
	for _, r := range e.rules {
		if s.Achievements[r.def.ID] {
			continue
		}
		out, _, err := r.prg.Eval(vars)
		if err != nil {
			slog.Debug("achievement predicate not evaluable", "id", r.def.ID, "error", err)
			continue
		}
		if ok, isBool := out.Value().(bool); !isBool || !ok {
			continue
		}
		s.Achievements[r.def.ID] = true
		unlocked = append(unlocked, r.def)
	}
	return unlocked
}

// Len is the number of compiled achievements.
func (e *Evaluator) Len() int { return len(e.rules) }

// Variables builds the CEL activation for a state.
func Variables(s *engine.GameState) map[string]any {
	producers := make(map[string]any, len(s.Producers))
	for t, p := range s.Producers {
		producers[string(t)] = map[string]any{
			"count":        int64(p.Count),
			"unit_value":   p.UnitValue,
			"product_name": p.ProductName,
		}
	}
	automations := make(map[string]any, len(s.Automations))
	for t, a := range s.Automations {
		automations[string(t)] = map[string]any{
			"tier":        int64(a.Tier),
			"interval_ms": a.IntervalMs,
		}
	}
	achievements := make(map[string]bool, len(s.Achievements))
	for id, ok := range s.Achievements {
		achievements[id] = ok
	}

	return map[string]any{
		"currency":         s.Currency,
		"producer_count":   int64(s.ProducerCount()),
		"automation_count": int64(len(s.Automations)),
		"stats": map[string]int64{
			"total_currency_earned":    s.Stats.TotalCurrencyEarned,
			"total_producers_bought":   s.Stats.TotalProducersBought,
			"total_automations_bought": s.Stats.TotalAutomationsBought,
			"total_manual_sales":       s.Stats.TotalManualSales,
		},
		"producers":    producers,
		"automations":  automations,
		"achievements": achievements,
	}
}
