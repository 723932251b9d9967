package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Fields is the schemaless body of a stored document.
type Fields map[string]interface{}

// Document is one stored record inside a collection.
type Document struct {
	ID     string
	Fields Fields
}

// Where is an equality predicate over a single document field.
type Where struct {
	Field string
	Value interface{}
}

// CondOp selects the kind of condition a conditional write checks.
type CondOp int

const (
	CondAbsent CondOp = iota // field must not exist on the current document
	CondEquals               // field must equal the given value
)

// Condition guards a ConditionalWrite. The write is applied only if the
// condition holds against the document's current state.
type Condition struct {
	Field string
	Op    CondOp
	Value interface{}
}

// ChangeKind classifies one entry of a subscription diff.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

// Change is a single document-level change observed by a subscription.
type Change struct {
	Kind ChangeKind
	Doc  Document
}

// Snapshot carries the full current result set of a subscribed query plus
// the diff against the previously delivered snapshot.
type Snapshot struct {
	Docs    []Document
	Changes []Change
}

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConditionFailed is returned by ConditionalWrite when the guard
	// condition does not hold against the current document state.
	ErrConditionFailed = errors.New("write condition failed")
)

// StoreError wraps a backend transport or service fault.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s on %q: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is the document-store capability surface the coordinators depend on.
// All blocking operations take a context; Subscribe returns a cancelable
// stream that delivers snapshots in the order the store observed them.
type Store interface {
	Get(ctx context.Context, collection, id string) (Fields, error)
	Set(ctx context.Context, collection, id string, fields Fields) error
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, where []Where) ([]Document, error)
	Subscribe(collection string, where []Where) *Subscription
	ConditionalWrite(ctx context.Context, collection, id string, cond Condition, fields Fields) error
}

// Subscription is a long-lived, cancelable stream of query snapshots.
// Events are delivered in order; the channel is closed after Cancel.
type Subscription struct {
	events chan Snapshot

	mu      sync.Mutex
	queue   []Snapshot
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
	cancel  func()
}

func newSubscription(cancel func()) *Subscription {
	s := &Subscription{
		events: make(chan Snapshot),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go s.run()
	return s
}

// Events returns the snapshot stream. The channel is closed once the
// subscription is canceled.
func (s *Subscription) Events() <-chan Snapshot { return s.events }

// Cancel tears the subscription down. It is idempotent and safe to call
// from any goroutine.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.done)
	})
}

// notify enqueues a snapshot for ordered delivery without blocking the
// store's mutation path.
func (s *Subscription) notify(snap Snapshot) {
	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	defer close(s.events)
	for {
		s.mu.Lock()
		var next *Snapshot
		if len(s.queue) > 0 {
			next = &s.queue[0]
			s.queue = s.queue[1:]
		}
		s.mu.Unlock()

		if next == nil {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		select {
		case s.events <- *next:
		case <-s.done:
			return
		}
	}
}

func copyFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	case map[string][]string:
		out := make(map[string][]string, len(val))
		for k, e := range val {
			out[k] = append([]string(nil), e...)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
