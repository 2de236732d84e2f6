// Package txlog records store mutations as a sequenced event log and replays
// that log into a kv.Store.
package txlog

import "sync"

type EventType byte

const (
	_                     = iota
	EventDelete EventType = iota
	EventPut
)

func (t EventType) String() string {
	switch t {
	case EventDelete:
		return "delete"
	case EventPut:
		return "put"
	default:
		return "unknown"
	}
}

// Event is one recorded mutation. Sequence is assigned when the event is
// persisted and strictly increases; Value is empty for deletes.
type Event struct {
	Sequence  uint64
	EventType EventType
	Key       string
	Value     string
}

// TransactionLogger persists put and delete events in the order they are
// written. ReadEvents must be drained before Run is called. WritePut and
// WriteDelete are no-ops before Run and after Close; Err is closed once Close
// has flushed the queue.
type TransactionLogger interface {
	WriteDelete(key string)
	WritePut(key, value string)
	Err() <-chan error
	ReadEvents() (<-chan Event, <-chan error)
	Run()
	// Close flushes queued events and releases the underlying resource.
	Close() error
}

// queueSize bounds how many events may be waiting for the writer goroutine.
const queueSize = 16

// writer feeds events to a single goroutine that persists them in order.
// Events written after close are dropped.
type writer struct {
	mu     sync.RWMutex
	events chan Event
	errors chan error
	closed bool
	wg     sync.WaitGroup
}

// start launches the goroutine calling persist for every queued event. The
// errors channel is closed once the queue is drained after close.
func (w *writer) start(persist func(Event) error) {
	w.events = make(chan Event, queueSize)
	w.errors = make(chan error, 1)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(w.errors)
		for e := range w.events {
			if err := persist(e); err != nil {
				report(w.errors, err)
			}
		}
	}()
}

func (w *writer) write(e Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed || w.events == nil {
		return
	}
	w.events <- e
}

func (w *writer) err() <-chan error {
	return w.errors
}

// close stops accepting events and waits until the queued ones are persisted.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed || w.events == nil {
		w.closed = true
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.events)
	w.mu.Unlock()

	w.wg.Wait()
}

// report hands err to the errors channel without blocking the writer; when
// an earlier error is still unread the new one is dropped.
func report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}
