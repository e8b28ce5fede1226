package state

import (
	"context"
	"sync"
)

type SaveStatus string

const (
	StatusSaved  SaveStatus = "saved"
	StatusSaving SaveStatus = "saving"
	StatusError  SaveStatus = "error"
)

// Saver persists a whole collection.
type Saver interface {
	Save(ctx context.Context, table string, data any) error
}

// Collection holds one in-memory list. Mutations mark it dirty and wake a
// single save worker, so at most one save per collection is in flight and the
// latest state is always the one written last.
type Collection[T any] struct {
	table string
	saver Saver
	onSave func(table string, status SaveStatus, err error)

	mu      sync.Mutex
	items   []T
	dirty   bool
	saving  bool
	subs    map[int]func([]T)
	nextSub int
	wake    chan struct{}
	blocked error
}

func newCollection[T any](table string, saver Saver, onSave func(string, SaveStatus, error)) *Collection[T] {
	c := &Collection[T]{
		table:  table,
		saver:  saver,
		onSave: onSave,
		items:  []T{},
		subs:   make(map[int]func([]T)),
		wake:   make(chan struct{}, 1),
	}
	return c
}

func (c *Collection[T]) Table() string {
	return c.table
}

// Get returns a copy of the current items.
func (c *Collection[T]) Get() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Set(items []T) {
	c.Update(func([]T) []T { return items })
}

// Update replaces the items with fn(current) and schedules a save.
func (c *Collection[T]) Update(fn func(current []T) []T) {
	c.mu.Lock()
	next := fn(append([]T(nil), c.items...))
	if next == nil {
		next = []T{}
	}
	c.items = next
	c.dirty = true
	subs := c.subscribers()
	snapshot := append([]T(nil), next...)
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	c.signal()
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (c *Collection[T]) Subscribe(fn func([]T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// block stops the collection from ever being written back. Local changes
// still apply in memory; every save attempt reports err instead.
func (c *Collection[T]) block(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocked = err
}

// Blocked returns the reason saves are refused, or nil.
func (c *Collection[T]) Blocked() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked
}

// replace sets loaded items without scheduling a save.
func (c *Collection[T]) replace(items []T) {
	c.mu.Lock()
	if items == nil {
		items = []T{}
	}
	c.items = items
	subs := c.subscribers()
	snapshot := append([]T(nil), items...)
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (c *Collection[T]) subscribers() []func([]T) {
	subs := make([]func([]T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (c *Collection[T]) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// run is the save worker. It exits when ctx is done.
func (c *Collection[T]) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}
		c.drain(ctx)
	}
}

func (c *Collection[T]) drain(ctx context.Context) {
	for {
		c.mu.Lock()
		if !c.dirty || ctx.Err() != nil {
			c.saving = false
			c.mu.Unlock()
			return
		}
		if c.blocked != nil {
			blocked := c.blocked
			c.dirty = false
			c.saving = false
			c.mu.Unlock()
			c.onSave(c.table, StatusError, blocked)
			return
		}
		snapshot := append([]T(nil), c.items...)
		c.dirty = false
		c.saving = true
		c.mu.Unlock()

		c.onSave(c.table, StatusSaving, nil)
		err := c.saver.Save(ctx, c.table, snapshot)
		if err != nil {
			c.onSave(c.table, StatusError, err)
		} else {
			c.onSave(c.table, StatusSaved, nil)
		}
	}
}

// pending reports whether a change is waiting for or undergoing a save.
func (c *Collection[T]) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty || c.saving
}
