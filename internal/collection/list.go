package collection

import (
	"errors"
	"fmt"
	"slices"
)

// ErrIndexOutOfRange is returned by List mutations given an invalid position
var ErrIndexOutOfRange = errors.New("index out of range")

type subscription[T any] struct {
	id       uint64
	observer Observer[T]
}

// List is an observable slice. Observers are notified synchronously, in
// subscription order, after the slice has been mutated.
type List[T any] struct {
	items     []T
	observers []subscription[T]
	nextID    uint64
}

// NewList creates a list holding a copy of items
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) At(i int) T { return l.items[i] }

// Items returns a copy of the current contents
func (l *List[T]) Items() []T { return slices.Clone(l.items) }

// Subscribe registers an observer and returns its unsubscribe function
func (l *List[T]) Subscribe(o Observer[T]) func() {
	l.nextID++
	id := l.nextID
	l.observers = append(l.observers, subscription[T]{id: id, observer: o})

	return func() {
		l.observers = slices.DeleteFunc(l.observers, func(s subscription[T]) bool {
			return s.id == id
		})
	}
}

// Append adds items at the end
func (l *List[T]) Append(items ...T) error {
	return l.Insert(len(l.items), items...)
}

// Insert adds items before position i
func (l *List[T]) Insert(i int, items ...T) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("insert at %d: %w", i, ErrIndexOutOfRange)
	}
	if len(items) == 0 {
		return nil
	}
	l.items = slices.Insert(l.items, i, items...)
	return l.notify(Change[T]{Op: OpInsert, Start: i, Count: len(items), NewItems: slices.Clone(items)})
}

// RemoveAt removes the element at position i
func (l *List[T]) RemoveAt(i int) error {
	return l.RemoveRange(i, 1)
}

// RemoveRange removes count elements starting at position i
func (l *List[T]) RemoveRange(i, count int) error {
	if i < 0 || count < 0 || i+count > len(l.items) {
		return fmt.Errorf("remove %d at %d: %w", count, i, ErrIndexOutOfRange)
	}
	if count == 0 {
		return nil
	}
	old := slices.Clone(l.items[i : i+count])
	l.items = slices.Delete(l.items, i, i+count)
	return l.notify(Change[T]{Op: OpRemove, Start: i, Count: count, OldItems: old})
}

// Set replaces the element at position i
func (l *List[T]) Set(i int, item T) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("set at %d: %w", i, ErrIndexOutOfRange)
	}
	old := l.items[i]
	l.items[i] = item
	return l.notify(Change[T]{Op: OpReplace, Start: i, Count: 1, OldItems: []T{old}, NewItems: []T{item}})
}

// Move relocates the element at from so that it ends up at position to
func (l *List[T]) Move(from, to int) error {
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		return fmt.Errorf("move %d to %d: %w", from, to, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}
	item := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, item)
	return l.notify(Change[T]{Op: OpMove, Start: from, Count: 1, To: to, OldItems: []T{item}, NewItems: []T{item}})
}

// Reset replaces the whole contents
func (l *List[T]) Reset(items []T) error {
	l.items = slices.Clone(items)
	return l.notify(Change[T]{Op: OpReset})
}

// Clear removes every element, reported as a reset
func (l *List[T]) Clear() error {
	return l.Reset(nil)
}

// notify delivers a change to every observer registered when the change
// happened. All observers run; their errors are joined.
func (l *List[T]) notify(change Change[T]) error {
	observers := slices.Clone(l.observers)

	var errs []error
	for _, s := range observers {
		if err := s.observer.CollectionChanged(change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
