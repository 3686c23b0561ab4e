package selection

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"selkit/internal/collection"
	"selkit/internal/domain"
	"selkit/internal/eventbus"
)

type entry[T any] struct {
	index int
	item  T
}

// snapshot is the committed state at the start of the outermost batch.
// entries follow later collection changes so they stay comparable with the
// live set; entries whose element was destroyed move to removed.
type snapshot[T comparable] struct {
	entries []entry[T]
	removed []entry[T]

	indexes       []int
	items         []T
	selectedIndex int
	selectedItem  T
	anchor        int
	singleSelect  bool
	source        collection.Source[T]
}

// shift moves entries in [start, limit) by delta
func (s *snapshot[T]) shift(start, limit, delta int) {
	if s == nil {
		return
	}
	for i := range s.entries {
		if e := &s.entries[i]; e.index >= start && e.index < limit {
			e.index += delta
		}
	}
}

// destroy moves entries in [start, start+count) to removed
func (s *snapshot[T]) destroy(start, count int) {
	if s == nil {
		return
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.index >= start && e.index < start+count {
			s.removed = append(s.removed, e)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
}

// forget drops entries without reporting them
func (s *snapshot[T]) forget(indexes []int) {
	if s == nil || len(indexes) == 0 {
		return
	}
	s.entries = slices.DeleteFunc(s.entries, func(e entry[T]) bool {
		_, found := slices.BinarySearch(indexes, e.index)
		return found
	})
}

// reset drops every entry; nothing about the old selection can be reported
func (s *snapshot[T]) reset() {
	if s == nil {
		return
	}
	s.entries = nil
	s.removed = nil
}

// BeginBatch opens a batch. Notifications are held until the outermost
// EndBatch and then published as one diff against the state at BeginBatch.
func (m *Model[T]) BeginBatch() {
	m.beginBatch()
}

// EndBatch closes a batch opened with BeginBatch
func (m *Model[T]) EndBatch() error {
	if m.batchDepth == 0 {
		return wrapInvalid("end batch without begin")
	}
	m.endBatch()
	return nil
}

// Batch runs fn inside a batch. The batch is closed even if fn fails or
// panics.
func (m *Model[T]) Batch(fn func() error) (err error) {
	m.BeginBatch()
	defer func() {
		if endErr := m.EndBatch(); err == nil {
			err = endErr
		}
	}()
	return fn()
}

func (m *Model[T]) beginBatch() {
	m.beginBatchWith(m.itemAt)
}

// beginBatchWith opens a batch whose snapshot resolves items with resolve
func (m *Model[T]) beginBatchWith(resolve func(int) T) {
	if m.batchDepth == 0 {
		m.snap = m.capture(resolve)
	}
	m.batchDepth++
}

func (m *Model[T]) endBatch() {
	m.batchDepth--
	if m.batchDepth > 0 {
		return
	}
	s := m.snap
	m.snap = nil
	m.publish(s)
}

func (m *Model[T]) capture(resolve func(int) T) *snapshot[T] {
	indexes := m.set.Indexes()
	entries := lo.Map(indexes, func(i int, _ int) entry[T] {
		return entry[T]{index: i, item: resolve(i)}
	})

	s := &snapshot[T]{
		entries:       entries,
		indexes:       indexes,
		items:         lo.Map(entries, func(e entry[T], _ int) T { return e.item }),
		selectedIndex: m.SelectedIndex(),
		anchor:        m.anchor,
		singleSelect:  m.singleSelect,
		source:        m.source,
	}
	if m.source == nil && m.pending.kind == intentItem {
		s.items = []T{m.pending.item}
		s.selectedItem = m.pending.item
	} else if len(entries) > 0 {
		s.selectedItem = entries[0].item
	}
	return s
}

// diff computes the selection change between s and the live state
func (m *Model[T]) diff(s *snapshot[T]) domain.SelectionChangedEvent[T] {
	before := lo.Map(s.entries, func(e entry[T], _ int) int { return e.index })
	gone, added := lo.Difference(before, m.set.Indexes())

	deselected := slices.Clone(s.removed)
	if len(gone) > 0 {
		goneSet := make(map[int]struct{}, len(gone))
		for _, i := range gone {
			goneSet[i] = struct{}{}
		}
		for _, e := range s.entries {
			if _, ok := goneSet[e.index]; ok {
				deselected = append(deselected, e)
			}
		}
	}
	slices.SortStableFunc(deselected, func(a, b entry[T]) int { return cmp.Compare(a.index, b.index) })
	slices.Sort(added)

	return domain.SelectionChangedEvent[T]{
		DeselectedIndexes: lo.Map(deselected, func(e entry[T], _ int) int { return e.index }),
		DeselectedItems:   lo.Map(deselected, func(e entry[T], _ int) T { return e.item }),
		SelectedIndexes:   added,
		SelectedItems:     lo.Map(added, func(i int, _ int) T { return m.itemAt(i) }),
	}
}

// publish flushes the changes since s. Every value is read before the first
// handler runs so reentrant calls cannot skew what is reported.
func (m *Model[T]) publish(s *snapshot[T]) {
	if s == nil {
		return
	}

	ev := m.diff(s)
	indexes := m.SelectedIndexes()
	items := m.SelectedItems()
	selectedIndex := m.SelectedIndex()
	selectedItem := m.SelectedItem()

	indexChanged := s.selectedIndex != selectedIndex
	indexesChanged := !slices.Equal(s.indexes, indexes)
	var props []domain.Property
	if indexChanged {
		props = append(props, domain.PropSelectedIndex)
	}
	if indexesChanged {
		props = append(props, domain.PropSelectedIndexes)
	}
	if indexChanged || s.selectedItem != selectedItem {
		props = append(props, domain.PropSelectedItem)
	}
	if indexesChanged || !slices.Equal(s.items, items) {
		props = append(props, domain.PropSelectedItems)
	}
	if s.anchor != m.anchor {
		props = append(props, domain.PropAnchorIndex)
	}
	if s.singleSelect != m.singleSelect {
		props = append(props, domain.PropSingleSelect)
	}
	if s.source != m.source {
		props = append(props, domain.PropSource)
	}

	if !ev.Empty() {
		m.logger.Debug("selection changed",
			"deselected", ev.DeselectedIndexes, "selected", ev.SelectedIndexes)
		m.bus.Publish(ev)
	}
	for _, p := range props {
		m.bus.Publish(domain.PropertyChangedEvent{Property: p})
		switch p {
		case domain.PropSelectedIndexes:
			m.indexesView.replaced()
		case domain.PropSelectedItems:
			m.itemsView.replaced()
		}
	}
}

// Bus returns the bus every notification of this model is published on
func (m *Model[T]) Bus() eventbus.EventBus { return m.bus }

// OnSelectionChanged subscribes to selection diffs
func (m *Model[T]) OnSelectionChanged(fn func(domain.SelectionChangedEvent[T])) func() {
	return m.bus.Subscribe(domain.EventSelectionChanged, func(e eventbus.Event) {
		if ev, ok := e.(domain.SelectionChangedEvent[T]); ok {
			fn(ev)
		}
	})
}

// OnPropertyChanged subscribes to derived property changes
func (m *Model[T]) OnPropertyChanged(fn func(domain.Property)) func() {
	return m.bus.Subscribe(domain.EventPropertyChanged, func(e eventbus.Event) {
		if ev, ok := e.(domain.PropertyChangedEvent); ok {
			fn(ev.Property)
		}
	})
}

// OnIndexesChanged subscribes to position shifts caused by the source
func (m *Model[T]) OnIndexesChanged(fn func(domain.IndexesChangedEvent)) func() {
	return m.bus.Subscribe(domain.EventIndexesChanged, func(e eventbus.Event) {
		if ev, ok := e.(domain.IndexesChangedEvent); ok {
			fn(ev)
		}
	})
}

// OnSourceReset subscribes to source resets
func (m *Model[T]) OnSourceReset(fn func()) func() {
	return m.bus.Subscribe(domain.EventSourceReset, func(eventbus.Event) { fn() })
}

// OnLostSelection subscribes to the lost-selection hook. The handler runs
// before the change that emptied the selection is published; anything it
// selects is reported as part of that change.
func (m *Model[T]) OnLostSelection(fn func()) func() {
	return m.bus.Subscribe(domain.EventLostSelection, func(eventbus.Event) { fn() })
}
