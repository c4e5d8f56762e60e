// Command calc drives a calculator session from the terminal. Each input
// line is a sequence of keys: named keys (Enter, Escape, Backspace, Delete)
// are whole words, anything else is read one character per key.
//
//	$ calc
//	12+30*2 Enter
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gosuri/uilive"
	"golang.org/x/text/language"

	"go-chi-calculator/internal/calculator"
)

func main() {
	delayFlag := flag.Duration("d", calculator.DefaultErrorClearDelay, "How long an error stays on screen before clearing")
	localeFlag := flag.String("l", "en", "Locale used for digit grouping (BCP 47 tag)")
	flag.Parse()

	locale, err := language.Parse(*localeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid locale %q: %v\n", *localeFlag, err)
		os.Exit(2)
	}

	writer := uilive.New()
	term := newTerminal(writer, calculator.Config{ErrorClearDelay: *delayFlag, Locale: locale})
	defer term.Close()

	if err := term.Run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// flusher is the part of uilive.Writer the terminal needs.
type flusher interface {
	io.Writer
	Flush() error
}

// terminal is the render sink for one session: it repaints both display
// lines in place after every key and after an error auto-clears. Frames
// are painted in generation order; a late auto-clear frame is dropped.
type terminal struct {
	out     flusher
	session *calculator.Session

	mu      sync.Mutex
	painted uint64
}

func newTerminal(out flusher, cfg calculator.Config) *terminal {
	t := &terminal{
		out:     out,
		session: calculator.NewSession("terminal", cfg),
	}
	t.session.OnAutoClear = func(snap calculator.Snapshot) { t.paint(snap, nil) }
	return t
}

// Run feeds every key read from r to the session until EOF.
func (t *terminal) Run(r io.Reader) error {
	t.paint(t.session.Snapshot(), nil)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, key := range splitKeys(scanner.Text()) {
			t.Press(key)
		}
	}
	return scanner.Err()
}

// Press handles a single key. Unknown keys are ignored.
func (t *terminal) Press(key string) {
	cmd, ok := calculator.KeyCommand(key)
	if !ok {
		return
	}

	snap, err := t.session.Dispatch(cmd)
	t.paint(snap, err)
}

func (t *terminal) Close() {
	t.session.Close()
}

func (t *terminal) paint(snap calculator.Snapshot, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if snap.Generation < t.painted {
		return
	}
	t.painted = snap.Generation

	if err != nil {
		fmt.Fprintf(t.out, "%s\nError: %v\n", snap.Previous, err)
	} else {
		fmt.Fprintf(t.out, "%s\n%s\n", snap.Previous, snap.Current)
	}
	t.out.Flush()
}
