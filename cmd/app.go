package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/config"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/leaderboard"
	"github.com/suderio/farmstead/internal/persistence"
	"github.com/suderio/farmstead/internal/scheduler"
	"github.com/suderio/farmstead/internal/session"

	"github.com/spf13/viper"
)

// fail prints an error the way every command reports it and exits.
func fail(format string, args ...any) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadConfig() config.Config {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fail("invalid configuration: %v", err)
	}
	return cfg
}

func setupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	cat.AddCodes(cfg.RedemptionCodes)
	return cat, nil
}

func openStore(cfg config.Config) (persistence.Store, error) {
	return persistence.Open(cfg.Store, cfg.SavePath, cfg.SaveSlot)
}

// openOffline opens the save for a one-shot command. Automations are restored
// but their timers never fire; the state is saved when the session closes.
func openOffline(ctx context.Context, cfg config.Config) (*session.Session, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	s, err := session.New(ctx, session.Options{
		Catalog: cat,
		Store:   store,
		Clock:   scheduler.NewFakeClock(time.Now()),
		Inline:  true,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// live is a running game: real timers, autosave and the leaderboard mirror.
type live struct {
	session *session.Session
	cancel  context.CancelFunc
}

func openLive(ctx context.Context, cfg config.Config, presenter session.Presenter) (*live, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	mirrorCtx, cancel := context.WithCancel(ctx)
	opts := session.Options{
		Catalog:          cat,
		Store:            store,
		Clock:            scheduler.RealClock{},
		Presenter:        presenter,
		AutosaveInterval: cfg.AutosaveInterval,
	}
	if cfg.Leaderboard.Enabled() {
		client := leaderboard.NewClient(cfg.Leaderboard.URL, cfg.Leaderboard.Timeout)
		mirror := leaderboard.NewMirror(client, cfg.Leaderboard.MinInterval, cfg.Leaderboard.Timeout)
		go mirror.Run(mirrorCtx)
		opts.Publisher = mirror
	}

	s, err := session.New(ctx, opts)
	if err != nil {
		cancel()
		store.Close()
		return nil, err
	}
	for _, w := range s.Warnings() {
		slog.Warn("save restored with repairs", "detail", w)
	}
	return &live{session: s, cancel: cancel}, nil
}

func (l *live) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := l.session.Close(ctx)
	l.cancel()
	return err
}

// producerArg validates a producer type typed by the player.
func producerArg(cat *catalog.Catalog, arg string) (catalog.ProducerType, error) {
	t := catalog.ProducerType(strings.ToLower(strings.TrimSpace(arg)))
	if _, ok := cat.ShopItem(t); !ok {
		var known []string
		for _, item := range cat.Shop {
			known = append(known, string(item.Type))
		}
		return "", fmt.Errorf("unknown animal %q (known: %s)", arg, strings.Join(known, ", "))
	}
	return t, nil
}

// withOffline runs fn against the save and prints its message. Whatever fn
// changed before failing is still saved, so fn validates its input first.
func withOffline(cfg config.Config, fn func(ctx context.Context, s *session.Session) (string, error)) {
	ctx := context.Background()
	s, err := openOffline(ctx, cfg)
	if err != nil {
		fail("failed to open save: %v", err)
	}

	msg, err := fn(ctx, s)
	if err != nil {
		s.Close(ctx)
		fail("%v", err)
	}
	if err := s.Close(ctx); err != nil {
		fail("failed to save: %v", err)
	}
	if msg != "" {
		fmt.Println(msg)
	}
}

// importRecord validates a record read from outside the store and returns it in
// normalized form together with the repairs that were applied.
func importRecord(raw []byte, cat *catalog.Catalog) ([]byte, []string, error) {
	data, err := persistence.Decompress(raw)
	if err != nil {
		return nil, nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file", persistence.ErrCorruptRecord)
	}
	res, err := persistence.Restore(data, engine.NewState(cat))
	if err != nil {
		return nil, nil, err
	}
	for _, r := range res.Rearm {
		res.State.Automations[r.Type] = r.Holding
	}
	out, err := persistence.Snapshot(res.State)
	if err != nil {
		return nil, nil, err
	}
	return out, res.Warnings, nil
}
