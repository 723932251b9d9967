package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// Memory is an in-process Store with push-style subscriptions. It backs the
// service tests and local runs without AWS credentials.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]Fields
	watchers    map[int]*memoryWatcher
	nextWatcher int
}

type memoryWatcher struct {
	collection string
	where      []Where
	last       []Document
	primed     bool
	sub        *Subscription
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Fields),
		watchers:    make(map[int]*memoryWatcher),
	}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFields(doc), nil
}

func (m *Memory) Set(_ context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := m.collections[collection]
	if coll == nil {
		coll = make(map[string]Fields)
		m.collections[collection] = coll
	}
	coll[id] = copyFields(fields)
	m.notifyLocked(collection)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = copyValue(v)
	}
	m.notifyLocked(collection)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := coll[id]; !ok {
		return nil
	}
	delete(coll, id)
	m.notifyLocked(collection)
	return nil
}

func (m *Memory) Query(_ context.Context, collection string, where []Where) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryLocked(collection, where), nil
}

func (m *Memory) ConditionalWrite(_ context.Context, collection, id string, cond Condition, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	current, present := doc[cond.Field]
	switch cond.Op {
	case CondAbsent:
		if present {
			return ErrConditionFailed
		}
	case CondEquals:
		if !present || !reflect.DeepEqual(current, cond.Value) {
			return ErrConditionFailed
		}
	}
	for k, v := range fields {
		doc[k] = copyValue(v)
	}
	m.notifyLocked(collection)
	return nil
}

func (m *Memory) Subscribe(collection string, where []Where) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.nextWatcher
	m.nextWatcher++

	w := &memoryWatcher{collection: collection, where: where}
	w.sub = newSubscription(func() {
		m.mu.Lock()
		delete(m.watchers, key)
		m.mu.Unlock()
	})
	m.watchers[key] = w

	// Initial snapshot: current matches delivered as added changes.
	m.pushLocked(w)
	return w.sub
}

// ActiveSubscriptions reports how many live watchers the store holds.
// Used by tests to verify subscriptions do not leak.
func (m *Memory) ActiveSubscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

func (m *Memory) queryLocked(collection string, where []Where) []Document {
	var docs []Document
	for id, fields := range m.collections[collection] {
		if matches(fields, where) {
			docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (m *Memory) notifyLocked(collection string) {
	for _, w := range m.watchers {
		if w.collection == collection {
			m.pushLocked(w)
		}
	}
}

func (m *Memory) pushLocked(w *memoryWatcher) {
	docs := m.queryLocked(w.collection, w.where)
	changes := diff(w.last, docs)
	if w.primed && len(changes) == 0 {
		return
	}
	w.last = docs
	w.primed = true
	w.sub.notify(Snapshot{Docs: docs, Changes: changes})
}

func matches(fields Fields, where []Where) bool {
	for _, p := range where {
		v, ok := fields[p.Field]
		if !ok || !reflect.DeepEqual(v, p.Value) {
			return false
		}
	}
	return true
}

// diff computes added/modified/removed changes between two ordered result
// sets, matching documents by id.
func diff(prev, next []Document) []Change {
	prevByID := make(map[string]Document, len(prev))
	for _, d := range prev {
		prevByID[d.ID] = d
	}
	var changes []Change
	seen := make(map[string]bool, len(next))
	for _, d := range next {
		seen[d.ID] = true
		old, ok := prevByID[d.ID]
		if !ok {
			changes = append(changes, Change{Kind: ChangeAdded, Doc: d})
		} else if !reflect.DeepEqual(old.Fields, d.Fields) {
			changes = append(changes, Change{Kind: ChangeModified, Doc: d})
		}
	}
	for _, d := range prev {
		if !seen[d.ID] {
			changes = append(changes, Change{Kind: ChangeRemoved, Doc: d})
		}
	}
	return changes
}
