package selection

type intentKind int

const (
	intentNone intentKind = iota
	intentIndex
	intentItem
)

// pendingIntent records what was last selected while no source was bound.
// Only the latest write survives, which is what decides between an index
// and an item when a source arrives.
type pendingIntent[T any] struct {
	kind  intentKind
	index int
	item  T
}

func indexIntent[T any](i int) pendingIntent[T] {
	return pendingIntent[T]{kind: intentIndex, index: i}
}

func itemIntent[T any](item T) pendingIntent[T] {
	return pendingIntent[T]{kind: intentItem, item: item}
}
