package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/config"
	"github.com/GoPolymarket/vesting-dashboard/internal/dataset"
	"github.com/GoPolymarket/vesting-dashboard/internal/notify"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/report"
	"github.com/GoPolymarket/vesting-dashboard/internal/selection"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// Load triggers, reported in status and notifications.
const (
	TriggerStartup = "startup"
	TriggerManual  = "manual"
	TriggerWatch   = "watch"
)

// DatasetLoader produces a complete bundle or an error.
type DatasetLoader interface {
	Load(ctx context.Context) (*dataset.Bundle, error)
}

// Notifier defines alert methods used by the dashboard.
type Notifier interface {
	NotifyLoad(ctx context.Context, d report.LoadData) error
	NotifyStarted(ctx context.Context, mode, addr string) error
}

// App owns the loaded datasets and the dashboard selection. Readers get the
// current store; a reload swaps in a new one only after it fully succeeds.
type App struct {
	cfg      config.Config
	loader   DatasetLoader
	notifier Notifier
	selector *selection.Selector

	mu        sync.RWMutex
	attempts  uint64 // load attempts started
	published uint64 // attempt number of the store being served
	state     dataset.State
	store   *query.Store
	engine  *comparison.Engine
	stats   LoadStats
	watcher *dataset.Watcher
	onLoad  []func()
}

func New(cfg config.Config) *App {
	loader := dataset.NewLoader(dataset.Source(cfg.Data.PureSource), dataset.Source(cfg.Data.HybridSource), cfg.Data.Strict)
	if cfg.Data.LoadTimeout > 0 {
		loader.Client.Timeout = cfg.Data.LoadTimeout
	}

	var notifier Notifier
	if cfg.Telegram.Enabled {
		notifier = notify.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	a := &App{
		cfg:      cfg,
		loader:   loader,
		notifier: notifier,
		selector: selection.NewSelector(nil),
		state:    dataset.StateLoading,
	}
	if approach, err := vesting.ParseApproach(cfg.TUI.DefaultApproach); err == nil {
		a.selector.SetApproach(approach)
	}
	return a
}

// NewWithLoader builds an app around a custom loader.
func NewWithLoader(cfg config.Config, loader DatasetLoader, notifier Notifier) *App {
	a := New(cfg)
	a.loader = loader
	a.notifier = notifier
	return a
}

func (a *App) Config() config.Config { return a.cfg }

func (a *App) Selector() *selection.Selector { return a.selector }

// Load performs the initial load. A failure is terminal for the session
// until a manual or watch-triggered reload succeeds.
func (a *App) Load(ctx context.Context) error {
	return a.load(ctx, TriggerStartup)
}

// Reload rebuilds both datasets and swaps them in. On failure the previous
// store stays published.
func (a *App) Reload(ctx context.Context) error {
	return a.load(ctx, TriggerManual)
}

func (a *App) load(ctx context.Context, trigger string) error {
	timeout := a.cfg.Data.LoadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.mu.Lock()
	a.attempts++
	seq := a.attempts
	a.mu.Unlock()

	start := time.Now()
	bundle, err := a.loader.Load(lctx)
	elapsed := time.Since(start)

	a.mu.Lock()
	a.stats.record(trigger, elapsed, err)
	if err != nil {
		if a.store == nil {
			a.state = dataset.StateFailed
		}
		a.mu.Unlock()
		log.Printf("app: %s load failed: %v", trigger, err)
		a.notifyLoad(ctx, report.LoadData{Trigger: trigger, Err: err})
		return fmt.Errorf("%s load: %w", trigger, err)
	}
	// An attempt that started earlier never replaces a newer store.
	if seq < a.published {
		a.mu.Unlock()
		log.Printf("app: %s load %s superseded by a newer load, discarded", trigger, bundle.LoadID)
		return nil
	}
	store := query.NewStore(bundle)
	a.store = store
	a.engine = comparison.New(store)
	a.state = dataset.StateLoaded
	a.published = seq
	a.selector.SetProjects(store.Projects())
	a.mu.Unlock()

	log.Printf("app: %s load %s complete in %s", trigger, bundle.LoadID, elapsed.Round(time.Millisecond))
	a.notifyLoad(ctx, report.LoadData{
		Trigger:        trigger,
		LoadID:         bundle.LoadID.String(),
		LoadedAt:       bundle.LoadedAt,
		PureProjects:   len(bundle.Pure.Allocations),
		HybridProjects: len(bundle.Hybrid.Allocations),
	})
	return nil
}

// OnLoad registers fn to run after every load attempt, successful or not.
func (a *App) OnLoad(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLoad = append(a.onLoad, fn)
}

func (a *App) notifyLoad(ctx context.Context, d report.LoadData) {
	a.mu.RLock()
	hooks := append([]func(){}, a.onLoad...)
	a.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
	if a.notifier == nil {
		return
	}
	if err := a.notifier.NotifyLoad(ctx, d); err != nil {
		log.Printf("app: notify load: %v", err)
	}
}

// NotifyStarted announces the running surface when notifications are on.
func (a *App) NotifyStarted(ctx context.Context, mode, addr string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.NotifyStarted(ctx, mode, addr); err != nil {
		log.Printf("app: notify started: %v", err)
	}
}

// Store returns the current store, or false before the first successful load.
func (a *App) Store() (*query.Store, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.store, a.store != nil
}

// Engine returns the comparison engine bound to the current store.
func (a *App) Engine() (*comparison.Engine, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine, a.engine != nil
}

// LoadState reports the data lifecycle and the most recent load error.
func (a *App) LoadState() (dataset.State, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state, a.stats.lastErr
}

// Ready returns nil once data is loaded, dataset.ErrNotLoaded while the
// first load is in flight, or the load error after a failed start.
func (a *App) Ready() error {
	state, err := a.LoadState()
	switch state {
	case dataset.StateLoaded:
		return nil
	case dataset.StateFailed:
		return errors.Join(dataset.ErrNotLoaded, err)
	}
	return dataset.ErrNotLoaded
}

// Watch reloads on changes to file-backed sources until ctx is done. It
// returns immediately when no source is a local file.
func (a *App) Watch(ctx context.Context) error {
	sources := []dataset.Source{dataset.Source(a.cfg.Data.PureSource), dataset.Source(a.cfg.Data.HybridSource)}
	w, err := dataset.NewWatcher(sources, a.cfg.Data.WatchDebounce, func() {
		_ = a.load(ctx, TriggerWatch)
	})
	if err != nil {
		return err
	}
	if !w.Watching() {
		_ = w.Close()
		log.Println("app: no file sources to watch")
		return nil
	}
	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.watcher = nil
		a.mu.Unlock()
	}()

	log.Printf("app: watching %s and %s", a.cfg.Data.PureSource, a.cfg.Data.HybridSource)
	w.Run(ctx)
	return nil
}

func (a *App) watching() bool {
	return a.watcher != nil
}
