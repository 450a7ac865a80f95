// Package notify watches the task collection for work that slips past
// its due date and records a notification the first time each task is
// seen overdue.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
)

// OverdueMsg is a tea.Msg sent after a scan that found newly overdue
// tasks. Count is the number of notifications recorded by that scan.
type OverdueMsg struct {
	Count int
}

// scanTimeout is the maximum time allowed for a single scan.
const scanTimeout = 10 * time.Second

// Watcher periodically scans for overdue tasks in the background and
// reports results to the Bubble Tea runtime over a channel.
type Watcher struct {
	store    store.Store
	interval time.Duration

	resultCh  chan OverdueMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu      sync.Mutex
	running bool
	seen    map[string]bool
}

// New creates a Watcher scanning at the given interval. Non-positive
// intervals fall back to one minute.
func New(s store.Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		store:     s,
		interval:  interval,
		resultCh:  make(chan OverdueMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		seen:      make(map[string]bool),
	}
}

// Start launches the scan goroutine and returns a subscription command
// that delivers OverdueMsg messages to the program. Calling Start on a
// running watcher only renews the subscription. Start must not be
// called again after Stop.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	already := w.running
	w.running = true
	w.mu.Unlock()

	if !already {
		go w.loop()
	}
	return w.waitForResult()
}

// Stop halts the scan goroutine, then closes the result channel so any
// pending subscription wakes with a nil message. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	close(w.resultCh)
}

// Refresh requests an immediate scan.
func (w *Watcher) Refresh() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Prime marks every currently overdue task as already reported, without
// recording notifications. The demo seed includes its own overdue
// notification, so the first scan should only pick up new slips.
func (w *Watcher) Prime(ctx context.Context) error {
	tasks, err := w.store.GetTasks(ctx, store.TaskFilter{})
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.IsOverdue() {
			w.markSeen(t.ID)
		}
	}
	return nil
}

// WaitForNext returns a tea.Cmd that waits for the next scan result.
// Call it after handling an OverdueMsg to keep listening.
func (w *Watcher) WaitForNext() tea.Cmd {
	return w.waitForResult()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		case <-w.triggerCh:
			w.scan()
		}
	}
}

// scan records a notification for every overdue task not yet reported.
// A task flips back to unreported when its due date moves or it leaves
// the overdue state, so postponed-then-missed work is reported again.
func (w *Watcher) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	tasks, err := w.store.GetTasks(ctx, store.TaskFilter{})
	if err != nil {
		return
	}

	var count int
	for _, t := range tasks {
		if !t.IsOverdue() {
			w.forget(t.ID)
			continue
		}
		if w.markSeen(t.ID) {
			continue
		}
		err := w.store.CreateNotification(ctx, model.Notification{
			Title:   "Task Overdue",
			Message: fmt.Sprintf("Task %q is overdue", t.Title),
			Type:    model.NotificationTask,
		})
		if err == nil {
			count++
		}
	}

	if count > 0 {
		w.sendResult(OverdueMsg{Count: count})
	}
}

// markSeen records the task as reported and returns whether it already was.
func (w *Watcher) markSeen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seen[id] {
		return true
	}
	w.seen[id] = true
	return false
}

func (w *Watcher) forget(id string) {
	w.mu.Lock()
	delete(w.seen, id)
	w.mu.Unlock()
}

// sendResult sends without blocking; a full channel drops the message.
func (w *Watcher) sendResult(msg OverdueMsg) {
	select {
	case w.resultCh <- msg:
	default:
	}
}

func (w *Watcher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}
