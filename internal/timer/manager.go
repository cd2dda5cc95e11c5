package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultTurnTimeout = 15 * time.Second

// Expiry identifies the armed countdown that ran out.
type Expiry struct {
	ConnID     string
	SessionID  string
	Generation uint64
}

type ExpiryHandler func(Expiry)

type seat struct {
	connID    string
	sessionID string
}

type turnTimer struct {
	generation uint64
	timer      clockwork.Timer
	stop       chan struct{}
}

// Manager keeps at most one countdown per connection and session. Expirations are delivered through the handler
// from a timer goroutine, so the receiver must confirm them with Claim before acting.
type Manager struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	duration   time.Duration
	onExpire   ExpiryHandler
	timers     map[seat]*turnTimer
	generation uint64
}

func NewManager(clock clockwork.Clock, duration time.Duration, onExpire ExpiryHandler) *Manager {
	if duration <= 0 {
		duration = DefaultTurnTimeout
	}

	return &Manager{
		clock:    clock,
		duration: duration,
		onExpire: onExpire,
		timers:   make(map[seat]*turnTimer),
	}
}

// Arm - starts the default countdown for connID in sessionID, superseding the one armed for that pair.
func (that *Manager) Arm(connID, sessionID string) Expiry {
	return that.ArmFor(connID, sessionID, that.duration)
}

func (that *Manager) ArmFor(connID, sessionID string, duration time.Duration) Expiry {
	that.mu.Lock()
	defer that.mu.Unlock()

	key := seat{connID: connID, sessionID: sessionID}
	that.disarmLocked(key)

	that.generation++
	armed := &turnTimer{
		generation: that.generation,
		timer:      that.clock.NewTimer(duration),
		stop:       make(chan struct{}),
	}
	that.timers[key] = armed

	expiry := Expiry{ConnID: connID, SessionID: sessionID, Generation: armed.generation}

	go func(t *turnTimer) {
		select {
		case <-t.timer.Chan():
			that.onExpire(expiry)
		case <-t.stop:
		}
	}(armed)

	return expiry
}

// Disarm - cancels the countdowns of connIDs in sessionID. Idempotent.
func (that *Manager) Disarm(sessionID string, connIDs ...string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, connID := range connIDs {
		that.disarmLocked(seat{connID: connID, sessionID: sessionID})
	}
}

// DisarmConn - cancels every countdown of connID whatever the session.
func (that *Manager) DisarmConn(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for key := range that.timers {
		if key.connID == connID {
			that.disarmLocked(key)
		}
	}
}

// Claim - reports whether expiry belongs to the countdown still armed for its seat and forgets it.
// A false result means the countdown was disarmed or superseded after it fired.
func (that *Manager) Claim(expiry Expiry) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	key := seat{connID: expiry.ConnID, sessionID: expiry.SessionID}

	armed, ok := that.timers[key]
	if !ok || armed.generation != expiry.Generation {
		return false
	}

	delete(that.timers, key)

	return true
}

func (that *Manager) Armed(connID, sessionID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.timers[seat{connID: connID, sessionID: sessionID}]

	return ok
}

// Stop - disarms every countdown.
func (that *Manager) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for key := range that.timers {
		that.disarmLocked(key)
	}
}

func (that *Manager) disarmLocked(key seat) {
	armed, ok := that.timers[key]
	if !ok {
		return
	}

	stopAndDrain(armed.timer)
	close(armed.stop)
	delete(that.timers, key)
}

func stopAndDrain(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
