package calculator

import (
	"sync"
	"time"

	"golang.org/x/text/language"
)

// DefaultErrorClearDelay is how long a fault stays on screen before the
// session clears itself.
const DefaultErrorClearDelay = 1500 * time.Millisecond

// Config holds the settings shared by every session.
type Config struct {
	ErrorClearDelay time.Duration
	Locale          language.Tag
}

func (c Config) withDefaults() Config {
	if c.ErrorClearDelay <= 0 {
		c.ErrorClearDelay = DefaultErrorClearDelay
	}
	if c.Locale == language.Und {
		c.Locale = language.English
	}
	return c
}

// Snapshot is what a render sink paints after a command.
type Snapshot struct {
	Display
	Phase string `json:"phase"`
	Error string `json:"error,omitempty"`

	// Generation increases with every dispatched command. A sink that
	// paints asynchronously drops snapshots older than the last one it
	// painted.
	Generation uint64 `json:"-"`
}

// Session owns one engine and plays the render-sink role for it: faults
// are held for display and cleared after a delay. Commands are processed
// one at a time.
type Session struct {
	ID string

	mu         sync.Mutex
	engine     *Engine
	delay      time.Duration
	fault      error
	clearTimer *time.Timer
	generation uint64
	lastUsed   time.Time
	now        func() time.Time

	// OnAutoClear, when set, is called with the fresh snapshot after a
	// fault has been cleared by the timer. It runs without the session
	// lock held, so a newer command may already have been painted: check
	// Snapshot.Generation before painting.
	OnAutoClear func(Snapshot)
}

// NewSession returns an idle session.
func NewSession(id string, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		ID:       id,
		engine:   NewEngine(WithFormatter(NewFormatter(cfg.Locale))),
		delay:    cfg.ErrorClearDelay,
		lastUsed: time.Now(),
		now:      time.Now,
	}
}

// Dispatch applies cmd. A pending auto-clear is cancelled first so it can
// never overwrite the result of a newer command. When cmd faults, the
// returned snapshot carries the fault code and the error is returned as
// well.
func (s *Session) Dispatch(cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAutoClearLocked()
	s.lastUsed = s.now()

	err := s.engine.Apply(cmd)
	if IsFault(err) {
		s.fault = err
		s.scheduleAutoClearLocked()
	}
	return s.snapshotLocked(), err
}

// Snapshot returns the current display without changing anything.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns a copy of the engine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// LastUsed reports when the session last received a command.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close stops any pending auto-clear.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAutoClearLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	state := s.engine.State()
	return Snapshot{
		Display:    s.engine.Display(),
		Phase:      state.Phase().String(),
		Error:      FaultCode(s.fault),
		Generation: s.generation,
	}
}

func (s *Session) cancelAutoClearLocked() {
	s.generation++
	s.fault = nil
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}

func (s *Session) scheduleAutoClearLocked() {
	gen := s.generation
	s.clearTimer = time.AfterFunc(s.delay, func() { s.autoClear(gen) })
}

// autoClear runs on the timer goroutine. A timer that fired after a newer
// command bumped the generation does nothing.
func (s *Session) autoClear(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.engine.Clear()
	s.fault = nil
	s.clearTimer = nil
	snap := s.snapshotLocked()
	hook := s.OnAutoClear
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}
