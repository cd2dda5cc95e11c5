package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/timer"
)

const (
	host  = "conn-host"
	guest = "conn-guest"

	waitFor = time.Second
)

type delivery struct {
	to    []string
	event protocol.Outbound
}

type fakeNotifier struct {
	mu         sync.Mutex
	deliveries []delivery
	panicNext  bool
}

func (that *fakeNotifier) Unicast(connID string, event protocol.Outbound) {
	that.deliver([]string{connID}, event)
}

func (that *fakeNotifier) Broadcast(_ string, connIDs []string, event protocol.Outbound) {
	that.deliver(connIDs, event)
}

func (that *fakeNotifier) deliver(to []string, event protocol.Outbound) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.panicNext {
		that.panicNext = false
		panic("notifier exploded")
	}

	that.deliveries = append(that.deliveries, delivery{to: slices.Clone(to), event: event})
}

// take - returns everything delivered since the previous call.
func (that *fakeNotifier) take() []delivery {
	that.mu.Lock()
	defer that.mu.Unlock()

	taken := that.deliveries
	that.deliveries = nil

	return taken
}

func (that *fakeNotifier) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.deliveries)
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []entity.Result
}

func (that *fakeRecorder) Record(result entity.Result) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.results = append(that.results, result)
}

func (that *fakeRecorder) recorded() []entity.Result {
	that.mu.Lock()
	defer that.mu.Unlock()

	return slices.Clone(that.results)
}

type harness struct {
	engine   *Engine
	clock    *clockwork.FakeClock
	notifier *fakeNotifier
	recorder *fakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	next := 0
	sessions := registry.NewWithGenerator(func() (string, error) {
		next++
		return fmt.Sprintf("GAME%02d", next), nil
	})

	h := &harness{
		clock:    clockwork.NewFakeClock(),
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
	}
	h.engine = New(slog.New(slog.NewTextHandler(io.Discard, nil)), sessions, h.notifier, Options{
		TurnTimeout: timer.DefaultTurnTimeout,
		Clock:       h.clock,
		Recorder:    h.recorder,
	})
	t.Cleanup(h.engine.stop)

	return h
}

func (that *harness) act(connID string, action protocol.Inbound) {
	that.engine.process(ActionReceived{ConnID: connID, Action: action})
}

func (that *harness) move(connID, sessionID string, cell int) {
	that.act(connID, protocol.Move{SessionID: sessionID, CellIndex: &cell})
}

func (that *harness) disconnect(connID string) {
	that.engine.process(Disconnected{ConnID: connID})
}

// startGame - creates a session as host, seats guest and drops the resulting deliveries.
func (that *harness) startGame(t *testing.T) string {
	t.Helper()

	that.act(host, protocol.CreateSession{})

	created := that.notifier.take()
	require.Len(t, created, 1)

	sessionID := created[0].event.(protocol.SessionCreated).SessionID

	that.act(guest, protocol.JoinSession{SessionID: sessionID})
	require.Len(t, that.notifier.take(), 1)

	return sessionID
}

func (that *harness) session(t *testing.T, sessionID string) *entity.Session {
	t.Helper()

	session, err := that.engine.registry.Get(sessionID)
	require.NoError(t, err)

	return session
}

// expireTurn - runs the clock past the turn timeout and returns the expiry the timer queued.
func (that *harness) expireTurn(t *testing.T) Event {
	t.Helper()

	return that.expireTurns(t, 1)[0]
}

// expireTurns - like expireTurn for n armed countdowns.
func (that *harness) expireTurns(t *testing.T, n int) []Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	require.NoError(t, that.clock.BlockUntilContext(ctx, n))
	that.clock.Advance(timer.DefaultTurnTimeout)

	events := make([]Event, 0, n)
	for range n {
		select {
		case event := <-that.engine.events:
			events = append(events, event)
		case <-ctx.Done():
			t.Fatalf("%d of %d turn timers fired", len(events), n)
		}
	}

	return events
}

func errorMessage(t *testing.T, d delivery) string {
	t.Helper()

	event, ok := d.event.(protocol.Error)
	require.True(t, ok, "expected an error event, got %T", d.event)

	return event.Message
}
