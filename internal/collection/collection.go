package collection

import "fmt"

// ChangeOp is the kind of structural change a source reports
type ChangeOp int

const (
	OpInsert ChangeOp = iota
	OpRemove
	OpReplace
	OpMove
	OpReset
)

func (op ChangeOp) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpMove:
		return "move"
	case OpReset:
		return "reset"
	default:
		return fmt.Sprintf("ChangeOp(%d)", int(op))
	}
}

// Change describes a single structural change. Start and Count are in the
// index space before the change, except for Insert where Start is the
// position of the first new element. To is the Move destination.
type Change[T any] struct {
	Op       ChangeOp
	Start    int
	Count    int
	To       int
	OldItems []T
	NewItems []T
}

// Observer receives structural change notifications from a source
type Observer[T any] interface {
	CollectionChanged(change Change[T]) error
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc[T any] func(change Change[T]) error

func (f ObserverFunc[T]) CollectionChanged(change Change[T]) error {
	return f(change)
}

// Source is an ordered, observable sequence owned outside the selection
// model. Len and At reflect the state after the change being reported.
type Source[T any] interface {
	Len() int
	At(i int) T
	// Subscribe registers an observer and returns its unsubscribe function
	Subscribe(o Observer[T]) func()
}

// IndexOf returns the position of the first element equal to item, or -1
func IndexOf[T comparable](s Source[T], item T) int {
	if s == nil {
		return -1
	}
	for i, n := 0, s.Len(); i < n; i++ {
		if s.At(i) == item {
			return i
		}
	}
	return -1
}
