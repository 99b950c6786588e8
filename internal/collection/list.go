// Package collection provides an observable ordered collection.
//
// A List holds item references in order and raises exactly one Change per
// successful mutation. Handlers run synchronously after the mutation has been
// applied, in subscription order. A List is not safe for concurrent use; it is
// meant to be driven from a single goroutine such as a UI update loop.
package collection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange is returned when an index does not address the list.
	ErrIndexOutOfRange = errors.New("collection: index out of range")
	// ErrItemNotFound is returned by Remove when the item is not present.
	ErrItemNotFound = errors.New("collection: item not found")
	// ErrNilList is returned by mutators called on a nil *List.
	ErrNilList = errors.New("collection: nil list")
)

// Handler receives change notifications. A non-nil error is returned to the
// caller that performed the mutation.
type Handler[T comparable] func(Change[T]) error

// Subscription identifies a registered handler.
type Subscription struct {
	id uuid.UUID
}

// Valid reports whether s was returned by Subscribe.
func (s Subscription) Valid() bool { return s.id != uuid.Nil }

func (s Subscription) String() string { return s.id.String() }

type subscriber[T comparable] struct {
	id      uuid.UUID
	handler Handler[T]
}

// List is an observable ordered collection of comparable items.
type List[T comparable] struct {
	items   []T
	subs    []subscriber[T]
	version uint64
}

// New returns a list holding items in order.
func New[T comparable](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at index i.
func (l *List[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= l.Len() {
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, l.Len())
	}
	return l.items[i], nil
}

// Items returns a copy of the current contents. The result is never nil.
func (l *List[T]) Items() []T {
	if l == nil {
		return []T{}
	}
	return append(make([]T, 0, len(l.items)), l.items...)
}

// IndexOf returns the index of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) int {
	if l == nil {
		return -1
	}
	return slices.Index(l.items, item)
}

// Contains reports whether item is present.
func (l *List[T]) Contains(item T) bool { return l.IndexOf(item) >= 0 }

// Version is incremented once per successful mutation.
func (l *List[T]) Version() uint64 {
	if l == nil {
		return 0
	}
	return l.version
}

// Add appends item.
func (l *List[T]) Add(item T) error {
	return l.Insert(l.Len(), item)
}

// Insert places item at index i, shifting later items right. i may equal Len.
func (l *List[T]) Insert(i int, item T) error {
	if l == nil {
		return fmt.Errorf("insert: %w", ErrNilList)
	}
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("insert: %w: %d (len %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	l.items = slices.Insert(l.items, i, item)
	return l.notify(Change[T]{Kind: Insert, Index: i, OldIndex: -1, Item: item})
}

// RemoveAt removes the item at index i.
func (l *List[T]) RemoveAt(i int) error {
	if l == nil {
		return fmt.Errorf("remove: %w", ErrNilList)
	}
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("remove: %w: %d (len %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	item := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	return l.notify(Change[T]{Kind: Remove, Index: i, OldIndex: -1, Item: item})
}

// Remove removes the first occurrence of item.
func (l *List[T]) Remove(item T) error {
	if l == nil {
		return fmt.Errorf("remove: %w", ErrNilList)
	}
	i := l.IndexOf(item)
	if i < 0 {
		return fmt.Errorf("remove: %w", ErrItemNotFound)
	}
	return l.RemoveAt(i)
}

// Replace overwrites the item at index i.
func (l *List[T]) Replace(i int, item T) error {
	if l == nil {
		return fmt.Errorf("replace: %w", ErrNilList)
	}
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("replace: %w: %d (len %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	old := l.items[i]
	l.items[i] = item
	return l.notify(Change[T]{Kind: Replace, Index: i, OldIndex: -1, Item: item, OldItem: old})
}

// Move relocates the item at index from so that it ends up at index to.
// Both indices address the list before the move.
func (l *List[T]) Move(from, to int) error {
	if l == nil {
		return fmt.Errorf("move: %w", ErrNilList)
	}
	n := len(l.items)
	if from < 0 || from >= n {
		return fmt.Errorf("move: %w: from %d (len %d)", ErrIndexOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("move: %w: to %d (len %d)", ErrIndexOutOfRange, to, n)
	}
	item := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, item)
	return l.notify(Change[T]{Kind: Move, Index: to, OldIndex: from, Item: item})
}

// Reset replaces the whole content with items.
func (l *List[T]) Reset(items []T) error {
	if l == nil {
		return fmt.Errorf("reset: %w", ErrNilList)
	}
	l.items = slices.Clone(items)
	return l.notify(Change[T]{Kind: Reset, Index: -1, OldIndex: -1, Items: slices.Clone(items)})
}

// Clear removes every item. It is reported as a Reset with no items.
func (l *List[T]) Clear() error {
	return l.Reset(nil)
}

// Subscribe registers h and returns a handle for Unsubscribe. On a nil list
// the returned subscription is not Valid.
func (l *List[T]) Subscribe(h Handler[T]) Subscription {
	if l == nil {
		return Subscription{}
	}
	id := uuid.New()
	l.subs = append(l.subs, subscriber[T]{id: id, handler: h})
	return Subscription{id: id}
}

// Unsubscribe removes the handler registered under sub. It reports whether
// the subscription was active.
func (l *List[T]) Unsubscribe(sub Subscription) bool {
	if l == nil || !sub.Valid() {
		return false
	}
	for i := range l.subs {
		if l.subs[i].id == sub.id {
			l.subs = slices.Delete(l.subs, i, i+1)
			return true
		}
	}
	return false
}

// Subscribers returns the number of registered handlers.
func (l *List[T]) Subscribers() int {
	if l == nil {
		return 0
	}
	return len(l.subs)
}

func (l *List[T]) notify(c Change[T]) error {
	l.version++
	// handlers may subscribe or unsubscribe while being notified
	subs := slices.Clone(l.subs)
	var errs []error
	for _, s := range subs {
		if err := s.handler(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
