package addon

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/armoraddons/internal/model"
)

// ErrNilItem is returned by store operations called without an item.
var ErrNilItem = errors.New("item is nil")

//go:generate mockgen -destination=mocks/metadata_store.go -package=mocks -source=store.go ItemMetadataStore

// ItemMetadataStore is generic key/value persistence scoped to one item.
// Save writes all values atomically; an empty value deletes the key.
type ItemMetadataStore interface {
	Load(ctx context.Context, item *model.Item) (map[string]string, error)
	Save(ctx context.Context, item *model.Item, values map[string]string) error
}

// Store reads and writes add-on State on top of an ItemMetadataStore.
//
// Update serializes read-modify-write per item id, so two concurrent applies
// to the same item never read the same slot counter.
type Store struct {
	catalog *Catalog
	meta    ItemMetadataStore
	locks   itemLocks
}

// NewStore creates a state store.
func NewStore(catalog *Catalog, meta ItemMetadataStore) *Store {
	return &Store{
		catalog: catalog,
		meta:    meta,
		locks:   itemLocks{m: make(map[int64]*itemLock)},
	}
}

// Catalog returns the catalog used for decoding.
func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// Read loads the current state of item.
func (s *Store) Read(ctx context.Context, item *model.Item) (State, error) {
	if item == nil {
		return State{}, ErrNilItem
	}
	meta, err := s.meta.Load(ctx, item)
	if err != nil {
		return State{}, fmt.Errorf("loading metadata of item %d: %w", item.ID(), err)
	}
	return DecodeState(s.catalog, meta), nil
}

// Update runs fn on the current state inside the per-item critical section.
// The state is saved only when fn returns true. Returns the resulting state.
func (s *Store) Update(ctx context.Context, item *model.Item, fn func(st *State) bool) (State, error) {
	if item == nil {
		return State{}, ErrNilItem
	}

	unlock := s.locks.lock(item.ID())
	defer unlock()

	st, err := s.Read(ctx, item)
	if err != nil {
		return State{}, err
	}

	next := st.Clone()
	if !fn(&next) {
		return st, nil
	}

	if err := s.meta.Save(ctx, item, EncodeState(next)); err != nil {
		return st, fmt.Errorf("saving metadata of item %d: %w", item.ID(), err)
	}
	return next, nil
}

// itemLocks hands out one mutex per item id and drops it when unused.
type itemLocks struct {
	mu sync.Mutex
	m  map[int64]*itemLock
}

type itemLock struct {
	mu   sync.Mutex
	refs int
}

func (l *itemLocks) lock(id int64) (unlock func()) {
	l.mu.Lock()
	il, ok := l.m[id]
	if !ok {
		il = &itemLock{}
		l.m[id] = il
	}
	il.refs++
	l.mu.Unlock()

	il.mu.Lock()
	return func() {
		il.mu.Unlock()

		l.mu.Lock()
		il.refs--
		if il.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// AttachedStore keeps metadata directly on the item instance.
// Nothing survives a restart; used by the memory backend and tests.
type AttachedStore struct{}

// Load returns a copy of the item's attached metadata.
func (AttachedStore) Load(_ context.Context, item *model.Item) (map[string]string, error) {
	return item.Metadata(), nil
}

// Save merges values into the item's attached metadata.
func (AttachedStore) Save(_ context.Context, item *model.Item, values map[string]string) error {
	item.ApplyMetadata(values)
	return nil
}

// WriteThroughStore caches metadata on the item and persists every save to backend.
// The first Load of an item hydrates it from backend.
type WriteThroughStore struct {
	backend ItemMetadataStore
}

// NewWriteThroughStore wraps a persistent backend.
func NewWriteThroughStore(backend ItemMetadataStore) *WriteThroughStore {
	return &WriteThroughStore{backend: backend}
}

// Load returns attached metadata, hydrating from backend on first access.
// Concurrent first loads race on the backend read, but only one snapshot is
// ever merged, and never over values a Save already put on the item.
func (w *WriteThroughStore) Load(ctx context.Context, item *model.Item) (map[string]string, error) {
	if item.MetadataLoaded() {
		return item.Metadata(), nil
	}

	values, err := w.backend.Load(ctx, item)
	if err != nil {
		return nil, err
	}
	item.HydrateMetadata(values)
	return item.Metadata(), nil
}

// Save persists values and then mirrors them on the item.
func (w *WriteThroughStore) Save(ctx context.Context, item *model.Item, values map[string]string) error {
	if err := w.backend.Save(ctx, item, values); err != nil {
		return err
	}
	item.ApplyMetadata(values)
	return nil
}
