package engine

import "github.com/suderio/farmstead/internal/catalog"

// Point is a screen coordinate supplied by the presentation layer.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Earned is emitted whenever a sale credits currency.
type Earned struct {
	Type   catalog.ProducerType `json:"type"`
	Amount int64                `json:"amount"`
	At     Point                `json:"at"`
	Manual bool                 `json:"manual"`
}

// Observer receives engine events. Implementations must not mutate the engine.
type Observer interface {
	Earned(Earned)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Earned)

// Earned calls f(e).
func (f ObserverFunc) Earned(e Earned) { f(e) }

type nopObserver struct{}

func (nopObserver) Earned(Earned) {}
