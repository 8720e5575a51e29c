// Package session wires the farm together: it restores the save, arms the
// automation timers, runs every mutation on one loop, and after each change
// re-evaluates achievements, re-renders and mirrors the score.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suderio/farmstead/internal/achievement"
	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/leaderboard"
	"github.com/suderio/farmstead/internal/persistence"
	"github.com/suderio/farmstead/internal/scheduler"
)

// Presenter receives read-only copies of the state. It must not call back into
// the session from these methods.
type Presenter interface {
	Render(state engine.GameState)
	Earned(e engine.Earned)
	Unlocked(achievements []catalog.Achievement)
}

// Publisher receives the player's score after every change.
type Publisher interface {
	Publish(e leaderboard.Entry)
}

type nopPresenter struct{}

func (nopPresenter) Render(engine.GameState)        {}
func (nopPresenter) Earned(engine.Earned)           {}
func (nopPresenter) Unlocked([]catalog.Achievement) {}

// Options configure a Session. Catalog and Store are required.
type Options struct {
	Catalog   *catalog.Catalog
	Store     persistence.Store
	Clock     scheduler.Clock
	Presenter Presenter
	Publisher Publisher
	// AutosaveInterval of zero disables periodic saves; Close still saves.
	AutosaveInterval time.Duration
	// Inline runs everything on the caller's goroutine instead of a loop. Only
	// safe with a clock that fires on the caller's goroutine, like FakeClock.
	Inline bool
	// QueueSize bounds the loop queue.
	QueueSize int
}

// Session owns the game state for the lifetime of the process.
type Session struct {
	cat       *catalog.Catalog
	store     persistence.Store
	clock     scheduler.Clock
	eng       *engine.Engine
	sched     *scheduler.Scheduler
	eval      *achievement.Evaluator
	presenter Presenter
	publisher Publisher
	run       runner
	loop      *Loop
	autosave  scheduler.Stopper
	warnings  []string
	// pending holds achievements unlocked while restoring, until a presenter
	// is there to show them.
	pending []catalog.Achievement
	closed  bool
}

// New restores the saved game from opts.Store, or starts a fresh one, and
// starts the loop.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("session needs a catalog")
	}
	if opts.Store == nil {
		return nil, errors.New("session needs a store")
	}
	if opts.Clock == nil {
		opts.Clock = scheduler.RealClock{}
	}
	presenting := opts.Presenter != nil
	if !presenting {
		opts.Presenter = nopPresenter{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}

	eval, err := achievement.NewEvaluator(opts.Catalog.Achievements)
	if err != nil {
		return nil, fmt.Errorf("failed to compile achievements: %w", err)
	}

	s := &Session{
		cat:       opts.Catalog,
		store:     opts.Store,
		clock:     opts.Clock,
		eval:      eval,
		presenter: opts.Presenter,
		publisher: opts.Publisher,
	}
	if opts.Inline {
		s.run = inline{}
	} else {
		s.loop = NewLoop(opts.QueueSize)
		s.run = s.loop
	}

	restored, err := s.restore(ctx)
	if err != nil {
		return nil, err
	}

	s.sched = scheduler.New(s.clock, s.run.Post, s.automatedIncome)
	s.eng = engine.New(restored.State, s.cat, s.sched)
	s.eng.SetObserver(engine.ObserverFunc(func(e engine.Earned) { s.presenter.Earned(e) }))
	for _, r := range restored.Rearm {
		s.eng.ReinstateAutomation(r.Type, r.Holding)
	}
	s.pending = s.eval.Evaluate(s.eng.State())
	if presenting {
		s.flushPending()
	}

	if opts.AutosaveInterval > 0 {
		s.autosave = s.clock.Every(opts.AutosaveInterval, func() {
			s.run.Post(s.autosaveTick)
		})
	}
	if s.loop != nil {
		go s.loop.Run(context.Background())
	}
	return s, nil
}

func (s *Session) restore(ctx context.Context) (persistence.Restored, error) {
	defaults := engine.NewState(s.cat)

	data, err := s.store.Load(ctx)
	if errors.Is(err, persistence.ErrCorruptRecord) {
		s.quarantine(ctx, err)
		data = nil
	} else if err != nil && !errors.Is(err, persistence.ErrNoRecord) {
		return persistence.Restored{}, fmt.Errorf("failed to load save: %w", err)
	}

	restored, err := persistence.Restore(data, defaults)
	if errors.Is(err, persistence.ErrCorruptRecord) {
		s.quarantine(ctx, err)
	} else if err != nil {
		return persistence.Restored{}, err
	}

	for _, w := range restored.Warnings {
		slog.Warn("save record field ignored", "detail", w)
	}
	s.warnings = append(s.warnings, restored.Warnings...)
	return restored, nil
}

func (s *Session) quarantine(ctx context.Context, cause error) {
	slog.Error("save record unreadable, starting fresh", "error", cause)
	s.warnings = append(s.warnings, cause.Error())
	if err := s.store.Quarantine(ctx); err != nil {
		slog.Error("failed to quarantine save record", "error", err)
	}
}

// automatedIncome runs on the loop for every scheduler tick.
func (s *Session) automatedIncome(t catalog.ProducerType) {
	if _, paid := s.eng.ApplyAutomatedIncome(t); paid {
		s.changed()
	}
}

func (s *Session) autosaveTick() {
	if s.closed {
		return
	}
	if err := s.save(context.Background()); err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

func (s *Session) flushPending() {
	if len(s.pending) == 0 {
		return
	}
	for _, a := range s.pending {
		slog.Info("achievement unlocked", "id", a.ID, "name", a.Name)
	}
	s.presenter.Unlocked(s.pending)
	s.pending = nil
}

// changed runs after every mutation.
func (s *Session) changed() {
	state := s.eng.State()
	if unlocked := s.eval.Evaluate(state); len(unlocked) > 0 {
		for _, a := range unlocked {
			slog.Info("achievement unlocked", "id", a.ID, "name", a.Name)
		}
		s.presenter.Unlocked(unlocked)
	}
	s.presenter.Render(s.eng.Snapshot())
	if s.publisher != nil {
		s.publisher.Publish(leaderboard.Entry{Name: state.PlayerName, Currency: state.Currency})
	}
}

func (s *Session) save(ctx context.Context) error {
	data, err := persistence.Snapshot(s.eng.State())
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *Session) do(ctx context.Context, fn func() error) error {
	return s.run.Do(ctx, func() error {
		if s.closed {
			return ErrClosed
		}
		return fn()
	})
}

// Catalog returns the catalog the session prices against.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Warnings lists what was ignored or repaired while restoring the save.
func (s *Session) Warnings() []string { return append([]string(nil), s.warnings...) }

// SetPresenter replaces the presenter and renders the current state to it,
// followed by any achievements unlocked at startup that nobody has seen yet.
func (s *Session) SetPresenter(ctx context.Context, p Presenter) error {
	if p == nil {
		p = nopPresenter{}
	}
	return s.do(ctx, func() error {
		s.presenter = p
		p.Render(s.eng.Snapshot())
		if _, nop := p.(nopPresenter); !nop {
			s.flushPending()
		}
		return nil
	})
}

// State returns a deep copy of the current state.
func (s *Session) State(ctx context.Context) (engine.GameState, error) {
	var state engine.GameState
	err := s.do(ctx, func() error {
		state = s.eng.Snapshot()
		return nil
	})
	return state, err
}

// Sell sells a producer type's output by hand. Selling a type that is not owned
// earns nothing and is not an error.
func (s *Session) Sell(ctx context.Context, t catalog.ProducerType, at engine.Point) (int64, error) {
	var earned int64
	err := s.do(ctx, func() error {
		var ok bool
		if earned, ok = s.eng.SellManual(t, at); ok {
			s.changed()
		}
		return nil
	})
	return earned, err
}

// BuyProducer buys one animal at the price the player was shown.
func (s *Session) BuyProducer(ctx context.Context, t catalog.ProducerType, price int64) error {
	return s.do(ctx, func() error {
		if err := s.eng.BuyProducer(t, price); err != nil {
			return err
		}
		s.changed()
		return nil
	})
}

// BuyAutomation buys the next automation tier for t and re-arms its timer.
func (s *Session) BuyAutomation(ctx context.Context, t catalog.ProducerType) (engine.Purchase, error) {
	var bought engine.Purchase
	err := s.do(ctx, func() error {
		var err error
		if bought, err = s.eng.BuyAutomation(t); err != nil {
			return err
		}
		s.changed()
		return nil
	})
	return bought, err
}

// Redeem credits a reward code.
func (s *Session) Redeem(ctx context.Context, code string) (int64, error) {
	var amount int64
	err := s.do(ctx, func() error {
		var err error
		if amount, err = s.eng.RedeemCode(code); err != nil {
			return err
		}
		s.changed()
		return nil
	})
	return amount, err
}

// SetName sets the display name used on the leaderboard.
func (s *Session) SetName(ctx context.Context, name string) error {
	return s.do(ctx, func() error {
		if err := s.eng.SetPlayerName(name); err != nil {
			return err
		}
		s.changed()
		return nil
	})
}

// Save writes the current state to the store.
func (s *Session) Save(ctx context.Context) error {
	return s.do(ctx, func() error { return s.save(ctx) })
}

// Close stops every timer, saves one last time, stops the loop and closes the
// store. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	var saveErr error
	err := s.run.Do(ctx, func() error {
		if s.closed {
			return ErrClosed
		}
		s.closed = true
		if s.autosave != nil {
			s.autosave.Stop()
		}
		s.sched.Stop()
		saveErr = s.save(ctx)
		return nil
	})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	if err != nil {
		return err
	}

	if s.loop != nil {
		s.loop.Stop()
		select {
		case <-s.loop.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Join(saveErr, s.store.Close())
}
