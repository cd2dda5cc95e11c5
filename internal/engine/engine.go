package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/timer"
)

const DefaultEventBuffer = 256

var ErrStopped = errors.New("engine is stopped")

type Options struct {
	TurnTimeout time.Duration
	EventBuffer int
	Clock       clockwork.Clock
	Recorder    Recorder
}

// Engine owns every session and its turn timers. All state is touched only from the Run loop.
type Engine struct {
	logger   *slog.Logger
	clock    clockwork.Clock
	registry *registry.Registry
	timers   *timer.Manager
	notifier Notifier
	recorder Recorder

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

func New(logger *slog.Logger, sessions *registry.Registry, notifier Notifier, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}

	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	that := &Engine{
		logger:   logger.With("component", "engine"),
		clock:    opts.Clock,
		registry: sessions,
		notifier: notifier,
		recorder: opts.Recorder,
		events:   make(chan Event, opts.EventBuffer),
		done:     make(chan struct{}),
	}
	that.timers = timer.NewManager(opts.Clock, opts.TurnTimeout, that.onTurnExpired)

	return that
}

// Submit - enqueues an event for the loop. Blocks while the queue is full.
func (that *Engine) Submit(ctx context.Context, event Event) error {
	select {
	case that.events <- event:
		return nil
	case <-that.done:
		return ErrStopped
	case <-ctx.Done():
		return fmt.Errorf("failed to submit event: %w", ctx.Err())
	}
}

// Run - processes events one at a time until ctx is canceled.
func (that *Engine) Run(ctx context.Context) error {
	defer that.stop()

	that.logger.Info("Engine started")

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("Engine stopped", "sessions", that.registry.Len())
			return nil
		case event := <-that.events:
			that.process(event)
		}
	}
}

func (that *Engine) stop() {
	that.stopOnce.Do(func() {
		close(that.done)
		that.timers.Stop()
	})
}

func (that *Engine) process(event Event) {
	defer func() {
		if r := recover(); r != nil {
			that.logger.Error("Event handler panicked",
				"event", fmt.Sprintf("%T", event),
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	switch e := event.(type) {
	case ActionReceived:
		that.handleAction(e)
	case Disconnected:
		that.handleDisconnect(e.ConnID)
	case turnExpired:
		that.handleTurnExpired(e.expiry)
	default:
		that.logger.Warn("Unknown event dropped", "event", fmt.Sprintf("%T", event))
	}
}

func (that *Engine) onTurnExpired(expiry timer.Expiry) {
	select {
	case that.events <- turnExpired{expiry: expiry}:
	case <-that.done:
	}
}
