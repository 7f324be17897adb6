// Package shell presents session decisions: a Chrome window driven over the DevTools
// protocol, the system browser, or plain terminal output.
package shell

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/codeview/cli/internal/session"
	"github.com/pterm/pterm"
)

// DefaultQueueSize is large enough for a burst of page loads while a prompt is open.
const DefaultQueueSize = 32

// Queue carries events from shell goroutines to the session loop.
type Queue struct {
	ch chan session.Event
}

// NewQueue returns a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan session.Event, size)}
}

// Post enqueues ev without blocking. It is safe to call from the loop goroutine itself;
// when the queue is full the event is dropped.
func (q *Queue) Post(ev session.Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		pterm.Warning.Printf("Event queue full, dropping %s\n", ev.Name())
		return false
	}
}

// Events returns the receive side for session.Bootstrapper.Run.
func (q *Queue) Events() <-chan session.Event {
	return q.ch
}

// WatchReloadSignal posts ReloadRequested for every SIGHUP until ctx is done.
func WatchReloadSignal(ctx context.Context, q *Queue) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				pterm.Debug.Println("SIGHUP received, reloading")
				q.Post(session.ReloadRequested{})
			}
		}
	}()
}
