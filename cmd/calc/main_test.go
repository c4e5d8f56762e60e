package main

import (
	"bytes"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go-chi-calculator/internal/calculator"
)

// recorder captures each flushed frame.
type recorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	frames []string
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, r.buf.String())
	r.buf.Reset()
	return nil
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return ""
	}
	return r.frames[len(r.frames)-1]
}

func TestSplitKeys(t *testing.T) {
	got := splitKeys("12+3 Enter  Backspace c")
	want := []string{"1", "2", "+", "3", "Enter", "Backspace", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTerminalRendersEachKey(t *testing.T) {
	rec := &recorder{}
	term := newTerminal(rec, calculator.Config{})
	defer term.Close()

	if err := term.Run(strings.NewReader("1234*\n2\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := rec.last(), "1,234 ×\n2\n"; got != want {
		t.Fatalf("expected frame %q, got %q", want, got)
	}
}

func TestTerminalShowsErrorThenAutoClears(t *testing.T) {
	rec := &recorder{}
	term := newTerminal(rec, calculator.Config{ErrorClearDelay: 20 * time.Millisecond})
	defer term.Close()

	if err := term.Run(strings.NewReader("8/0 Enter")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := rec.last(); !strings.Contains(got, "Error: division by zero") {
		t.Fatalf("expected error frame, got %q", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec.last() == "\n0\n" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected cleared frame, got %q", rec.last())
}

// gatedWriter blocks the first write of frame once armed, until released.
type gatedWriter struct {
	*recorder
	frame    string
	armed    chan struct{}
	entered  chan struct{}
	released chan struct{}
	once     sync.Once
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	select {
	case <-g.armed:
		if string(p) == g.frame {
			g.once.Do(func() {
				close(g.entered)
				<-g.released
			})
		}
	default:
	}
	return g.recorder.Write(p)
}

func TestTerminalDropsAutoClearFrameSupersededByKey(t *testing.T) {
	w := &gatedWriter{
		recorder: &recorder{},
		frame:    "\n0\n",
		armed:    make(chan struct{}),
		entered:  make(chan struct{}),
		released: make(chan struct{}),
	}
	term := newTerminal(w, calculator.Config{ErrorClearDelay: 100 * time.Millisecond})
	defer term.Close()

	if err := term.Run(strings.NewReader("8/0 Enter")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(w.armed)

	select {
	case <-w.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("auto-clear frame was never painted")
	}

	// A key arrives while the cleared frame is still being written.
	done := make(chan struct{})
	go func() {
		term.Press("5")
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for term.session.State().CurrentOperand != "5" {
		if time.Now().After(deadline) {
			t.Fatal("key was not dispatched")
		}
		time.Sleep(time.Millisecond)
	}
	close(w.released)
	<-done

	if got := w.last(); got != "\n5\n" {
		t.Fatalf("expected newest frame %q, got %q", "\n5\n", got)
	}
}

func TestTerminalPaintSkipsOlderGeneration(t *testing.T) {
	rec := &recorder{}
	term := newTerminal(rec, calculator.Config{})
	defer term.Close()

	term.Press("7")
	newer := term.session.Snapshot()

	stale := newer
	stale.Generation--
	stale.Display = calculator.Display{Current: "0"}
	term.paint(stale, nil)

	if got := rec.last(); got != "\n7\n" {
		t.Fatalf("expected stale frame to be dropped, got %q", got)
	}
}
