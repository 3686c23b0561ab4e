// Package selection tracks which elements of an observed, externally owned
// sequence are selected, keeps that state valid while the sequence mutates
// and publishes batched change notifications.
//
// A Model is single-goroutine. Every method runs synchronously, handlers
// are invoked on the calling goroutine, and handlers may call back into
// the model.
package selection

import (
	"log/slog"

	"github.com/samber/lo"

	"selkit/internal/collection"
	"selkit/internal/eventbus"
	"selkit/internal/log"
)

// Model is the selection engine for a source of T
type Model[T comparable] struct {
	source      collection.Source[T]
	unsubscribe func()

	set          *RangeSet
	singleSelect bool
	anchor       int
	pending      pendingIntent[T]

	// Notification coordinator state
	batchDepth int
	snap       *snapshot[T]

	// Reentrancy guard. changing is non-zero while a collection change is
	// being processed or the host brackets a source swap.
	changing        int
	inLostSelection bool
	lostPending     bool

	bus    eventbus.EventBus
	logger *slog.Logger

	indexesView *View[int]
	itemsView   *View[T]
}

type options struct {
	singleSelect bool
	logger       *slog.Logger
}

// Option configures a Model
type Option func(*options)

// WithSingleSelect sets the initial selection mode. Models start in
// single-select mode.
func WithSingleSelect(single bool) Option {
	return func(o *options) {
		o.singleSelect = single
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an unbound model
func New[T comparable](opts ...Option) *Model[T] {
	o := options{singleSelect: true, logger: log.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model[T]{
		set:          NewRangeSet(),
		singleSelect: o.singleSelect,
		anchor:       -1,
		logger:       o.logger.With("component", "selection"),
	}
	m.bus = eventbus.New(eventbus.WithLogger(m.logger))
	m.indexesView = newView(m.SelectedIndexes)
	m.itemsView = newView(m.SelectedItems)
	return m
}

// Source returns the bound source, or nil
func (m *Model[T]) Source() collection.Source[T] { return m.source }

// SingleSelect reports whether at most one position may be selected
func (m *Model[T]) SingleSelect() bool { return m.singleSelect }

// AnchorIndex returns the last positively selected position, or -1
func (m *Model[T]) AnchorIndex() int { return m.anchor }

// SelectedIndex returns the lowest selected position, or -1
func (m *Model[T]) SelectedIndex() int {
	if i, ok := m.set.Min(); ok {
		return i
	}
	return -1
}

// SelectedIndexes returns the selected positions in ascending order
func (m *Model[T]) SelectedIndexes() []int { return m.set.Indexes() }

// SelectedItem returns the element at SelectedIndex. While unbound it
// returns the item last requested through SetSelectedItem.
func (m *Model[T]) SelectedItem() T {
	if m.source == nil && m.pending.kind == intentItem {
		return m.pending.item
	}
	return m.itemAt(m.SelectedIndex())
}

// SelectedItems returns the elements aligned with SelectedIndexes. Positions
// that cannot be resolved yield the zero value.
func (m *Model[T]) SelectedItems() []T {
	if m.source == nil && m.pending.kind == intentItem {
		return []T{m.pending.item}
	}
	return lo.Map(m.set.Indexes(), func(i int, _ int) T { return m.itemAt(i) })
}

// SelectedIndexesView returns a live view of SelectedIndexes
func (m *Model[T]) SelectedIndexesView() *View[int] { return m.indexesView }

// SelectedItemsView returns a live view of SelectedItems
func (m *Model[T]) SelectedItemsView() *View[T] { return m.itemsView }

// IsSelected reports whether position i is selected
func (m *Model[T]) IsSelected(i int) bool { return m.set.Contains(i) }

func (m *Model[T]) itemAt(i int) (item T) {
	if m.source != nil && i >= 0 && i < m.source.Len() {
		return m.source.At(i)
	}
	return item
}

// inRange reports whether i may be selected. Any non-negative position is
// accepted while unbound.
func (m *Model[T]) inRange(i int) bool {
	return i >= 0 && (m.source == nil || i < m.source.Len())
}

// Select adds position i to the selection and makes it the anchor. In
// single-select mode any other position is deselected. Out of range
// positions are ignored.
func (m *Model[T]) Select(i int) {
	if !m.inRange(i) {
		return
	}
	m.beginBatch()
	defer m.endBatch()
	m.selectIndex(i)
}

func (m *Model[T]) selectIndex(i int) {
	if m.singleSelect {
		m.set.Clear()
	}
	m.set.Add(i)
	m.anchor = i
	if m.source == nil {
		m.pending = indexIntent[T](i)
	}
}

// Deselect removes position i from the selection. The anchor is kept.
func (m *Model[T]) Deselect(i int) {
	if !m.set.Contains(i) {
		return
	}
	m.beginBatch()
	defer m.endBatch()
	m.set.Remove(i)
}

// SelectRange selects every position in [begin, end), clamped to the
// source. It fails with ErrInvalidOperation in single-select mode.
func (m *Model[T]) SelectRange(begin, end int) error {
	if m.singleSelect {
		return wrapInvalid("select range [%d, %d) in single-select mode", begin, end)
	}
	begin = max(begin, 0)
	if m.source != nil {
		end = min(end, m.source.Len())
	}
	if begin >= end {
		return nil
	}

	m.beginBatch()
	defer m.endBatch()
	m.set.AddRange(begin, end)
	if m.source == nil {
		m.pending = indexIntent[T](begin)
	}
	return nil
}

// DeselectRange deselects every selected position in [begin, end)
func (m *Model[T]) DeselectRange(begin, end int) {
	m.beginBatch()
	defer m.endBatch()
	m.set.RemoveRange(begin, end)
}

// SelectAll selects every element of the source. It fails with
// ErrInvalidOperation in single-select mode and does nothing while unbound.
func (m *Model[T]) SelectAll() error {
	if m.singleSelect {
		return wrapInvalid("select all in single-select mode")
	}
	if m.source == nil {
		return nil
	}
	return m.SelectRange(0, m.source.Len())
}

// Clear deselects everything. The anchor is kept.
func (m *Model[T]) Clear() {
	m.beginBatch()
	defer m.endBatch()
	m.set.Clear()
	m.pending = pendingIntent[T]{}
}

// SetSelectedIndex replaces the selection with position i. Negative or out
// of range positions leave the selection empty.
func (m *Model[T]) SetSelectedIndex(i int) {
	m.beginBatch()
	defer m.endBatch()
	m.set.Clear()
	m.pending = pendingIntent[T]{}
	if m.inRange(i) {
		m.selectIndex(i)
	}
}

// SetSelectedItem replaces the selection with the first position holding
// item. While unbound the item is remembered and resolved on bind.
func (m *Model[T]) SetSelectedItem(item T) {
	m.beginBatch()
	defer m.endBatch()
	m.set.Clear()
	if m.source == nil {
		m.pending = itemIntent(item)
		return
	}
	m.pending = pendingIntent[T]{}
	if i := collection.IndexOf(m.source, item); i >= 0 {
		m.selectIndex(i)
	}
}

// SetSingleSelect switches the selection mode. Entering single-select mode
// keeps only the lowest selected position; the others are dropped without a
// selection-changed notification.
func (m *Model[T]) SetSingleSelect(single bool) {
	if single == m.singleSelect {
		return
	}
	m.beginBatch()
	defer m.endBatch()
	m.singleSelect = single
	if single && m.set.Len() > 1 {
		keep, _ := m.set.Min()
		dropped := m.set.Truncate(keep + 1)
		m.snap.forget(dropped)
		m.logger.Debug("collapsed to single selection", "kept", keep, "dropped", len(dropped))
	}
}

// SetAnchorIndex moves the anchor without changing the selection
func (m *Model[T]) SetAnchorIndex(i int) {
	if !m.inRange(i) {
		return
	}
	m.beginBatch()
	defer m.endBatch()
	m.anchor = i
}

// ClearAnchor removes the anchor
func (m *Model[T]) ClearAnchor() {
	m.beginBatch()
	defer m.endBatch()
	m.anchor = -1
}
