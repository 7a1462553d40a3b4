// Package debounce delivers edit notifications per input field once the
// field has been idle for its configured delay.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotifierClosed is returned by Notify and Register after Close.
	ErrNotifierClosed = errors.New("edit notifier is closed")
	// ErrFieldNotRegistered is returned by Notify for an unknown field.
	ErrFieldNotRegistered = errors.New("field is not registered")
)

// EditFunc receives the latest text of a field once edits settle.
type EditFunc func(ctx context.Context, text string)

type field struct {
	delay   time.Duration
	fn      EditFunc
	timer   *time.Timer
	pending string
	armed   bool
	// gen identifies the current timer; a fire carrying an older value
	// belongs to a timer that was replaced.
	gen uint64
}

// Notifier debounces edits per field. Rapid notifications reset the field's
// timer and only the most recent text is delivered.
type Notifier struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	fields map[string]*field
	wg     sync.WaitGroup
	closed bool
}

// NewNotifier creates a Notifier. Callbacks receive a context derived from
// ctx that is cancelled by Close.
func NewNotifier(ctx context.Context) *Notifier {
	ctx, cancel := context.WithCancel(ctx)
	return &Notifier{
		ctx:    ctx,
		cancel: cancel,
		fields: make(map[string]*field),
	}
}

// Register installs fn for id. Registering an existing id replaces its
// callback and delay but keeps any pending edit.
func (n *Notifier) Register(id string, delay time.Duration, fn EditFunc) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNotifierClosed
	}

	if f, ok := n.fields[id]; ok {
		f.delay = delay
		f.fn = fn
		return nil
	}
	n.fields[id] = &field{delay: delay, fn: fn}
	return nil
}

// Registered reports whether id has a callback.
func (n *Notifier) Registered(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.fields[id]
	return ok
}

// Notify records text as the latest value of id and restarts its timer.
func (n *Notifier) Notify(id, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNotifierClosed
	}

	f, ok := n.fields[id]
	if !ok {
		return ErrFieldNotRegistered
	}

	f.pending = text
	if f.timer != nil {
		f.timer.Stop()
	}
	if !f.armed {
		f.armed = true
		n.wg.Add(1)
	}
	f.gen++
	gen := f.gen
	f.timer = time.AfterFunc(f.delay, func() { n.fire(id, f, gen) })
	return nil
}

// Flush delivers a pending edit for id immediately, if there is one.
func (n *Notifier) Flush(id string) {
	n.mu.Lock()
	f, ok := n.fields[id]
	if !ok || !f.armed || n.closed {
		n.mu.Unlock()
		return
	}
	if f.timer != nil && !f.timer.Stop() {
		// Timer already fired; its callback delivers the edit.
		n.mu.Unlock()
		return
	}
	gen := f.gen
	n.mu.Unlock()
	n.fire(id, f, gen)
}

func (n *Notifier) fire(id string, f *field, gen uint64) {
	n.mu.Lock()
	if !f.armed || f.gen != gen || n.fields[id] != f {
		n.mu.Unlock()
		return
	}
	f.armed = false
	f.timer = nil
	text, fn, closed := f.pending, f.fn, n.closed
	n.mu.Unlock()

	defer n.wg.Done()
	if closed || fn == nil {
		return
	}
	fn(n.ctx, text)
}

// Close cancels pending edits and waits for running callbacks to return.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for _, f := range n.fields {
		if f.armed && f.timer != nil && f.timer.Stop() {
			f.armed = false
			n.wg.Done()
		}
	}
	n.cancel()
	n.mu.Unlock()

	n.wg.Wait()
}
