package selection

import (
	"fmt"
	"math"

	"selkit/internal/collection"
	"selkit/internal/domain"
)

// SetSource binds the model to src, or unbinds it when src is nil.
//
// Rebinding is never batched: changes already made in an open batch are
// published first, the rebind publishes its own diff, and the open batch
// carries on from the new state.
func (m *Model[T]) SetSource(src collection.Source[T]) {
	if m.source == src {
		return
	}

	depth := m.batchDepth
	m.batchDepth = 0
	if depth > 0 {
		s := m.snap
		m.snap = nil
		m.publish(s)
	}

	m.beginBatch()
	m.rebind(src)
	m.endBatch()

	m.batchDepth += depth
	if m.batchDepth > 0 && m.snap == nil {
		m.snap = m.capture(m.itemAt)
	}
}

func (m *Model[T]) rebind(src collection.Source[T]) {
	old := m.source
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}

	// A selection made against one collection means nothing in another.
	// Detaching keeps it so an equivalent source can be bound later.
	if old != nil && src != nil {
		m.set.Clear()
		m.anchor = -1
	}

	m.source = src
	if src == nil {
		m.logger.Debug("source detached", "retained", m.set.Len())
		return
	}

	m.unsubscribe = src.Subscribe(m)
	m.resolve()
	m.logger.Debug("source bound", "len", src.Len(), "selected", m.set.Len())

	if m.changing > 0 && !m.inLostSelection && m.set.Len() == 0 {
		m.lostPending = true
	}
}

// resolve validates positions selected while unbound and applies the
// pending intent. An item intent wins over positions because it was
// written last; an index intent leaves the positions as they are.
func (m *Model[T]) resolve() {
	n := m.source.Len()
	if dropped := m.set.Truncate(n); len(dropped) > 0 {
		m.logger.Debug("dropped out of range selection", "indexes", dropped, "len", n)
	}
	if m.anchor >= n {
		m.anchor = -1
	}

	p := m.pending
	m.pending = pendingIntent[T]{}
	if p.kind == intentItem {
		if i := collection.IndexOf(m.source, p.item); i >= 0 {
			m.selectIndex(i)
		}
	}
}

// BeginSourceChange raises the reentrancy guard around a host driven
// collection swap. If the selection is lost while the guard is up, the
// lost-selection hook runs once the matching EndSourceChange drops it.
func (m *Model[T]) BeginSourceChange() {
	m.changing++
}

// EndSourceChange drops the guard raised by BeginSourceChange
func (m *Model[T]) EndSourceChange() {
	if m.changing == 0 {
		return
	}
	m.exitChange()
}

func (m *Model[T]) exitChange() {
	m.changing--
	if m.changing > 0 || !m.lostPending {
		return
	}
	m.lostPending = false
	if m.set.Len() == 0 {
		m.beginBatch()
		defer m.endBatch()
		m.raiseLostSelection()
	}
}

func (m *Model[T]) raiseLostSelection() {
	m.logger.Debug("selection lost")
	m.inLostSelection = true
	defer func() { m.inLostSelection = false }()
	m.bus.Publish(domain.LostSelectionEvent{})
}

// CollectionChanged implements collection.Observer. It re-expresses the
// selection in the changed source's index space and publishes the result.
func (m *Model[T]) CollectionChanged(c collection.Change[T]) error {
	if m.source == nil {
		return nil
	}
	if err := m.validate(c); err != nil {
		m.logger.Debug("rejected collection change", "op", c.Op, "err", err)
		return err
	}

	m.beginBatchWith(func(i int) T { return m.itemBefore(c, i) })
	defer m.endBatch()
	m.changing++
	defer m.exitChange()

	// Shifts are published once the whole change is applied. A handler
	// that rebinds ends the change for the old source.
	src := m.source
	hadSelection := m.set.Len() > 0
	var shifts []domain.IndexesChangedEvent
	switch c.Op {
	case collection.OpInsert:
		shifts = m.shiftForInsert(c.Start, c.Count)
	case collection.OpRemove:
		shifts = m.shiftForRemove(c.Start, c.Count)
	case collection.OpReplace:
		m.set.RemoveRange(c.Start, c.Start+c.Count)
		m.snap.destroy(c.Start, c.Count)
		if m.anchor >= c.Start && m.anchor < c.Start+c.Count {
			m.anchor = -1
		}
	case collection.OpMove:
		// Moved elements are deselected rather than followed
		shifts = m.shiftForRemove(c.Start, c.Count)
		shifts = append(shifts, m.shiftForInsert(c.To, c.Count)...)
	case collection.OpReset:
		m.set.Clear()
		m.anchor = -1
		m.snap.reset()
		m.bus.Publish(domain.SourceResetEvent{})
	}
	for _, e := range shifts {
		if m.source != src {
			break
		}
		m.bus.Publish(e)
	}

	// Lost selection is raised by exitChange once the guard drops
	if hadSelection && m.set.Len() == 0 {
		m.lostPending = true
	}
	return nil
}

func (m *Model[T]) shiftForInsert(start, count int) []domain.IndexesChangedEvent {
	oldLen := m.source.Len() - count

	// Positions at or past the old end were selected by a handler that saw
	// the grown source before we did. They are already in the new space.
	late := m.set.Truncate(max(start, oldLen))
	moved, _ := m.set.Shift(start, count)
	for _, i := range late {
		m.set.Add(i)
	}
	m.snap.shift(start, oldLen, count)
	if m.anchor >= start && m.anchor < oldLen {
		m.anchor += count
	}

	if !moved {
		return nil
	}
	return []domain.IndexesChangedEvent{{StartIndex: start, Delta: count}}
}

func (m *Model[T]) shiftForRemove(start, count int) []domain.IndexesChangedEvent {
	end := start + count
	moved, _ := m.set.Shift(start, -count)
	m.snap.destroy(start, count)
	m.snap.shift(end, math.MaxInt, -count)
	switch {
	case m.anchor >= end:
		m.anchor -= count
	case m.anchor >= start:
		m.anchor = -1
	}

	if !moved {
		return nil
	}
	return []domain.IndexesChangedEvent{{StartIndex: start, Delta: -count}}
}

// validate checks c against the source length after the change
func (m *Model[T]) validate(c collection.Change[T]) error {
	n := m.source.Len()
	ok := c.Start >= 0 && c.Count >= 0
	switch c.Op {
	case collection.OpInsert, collection.OpReplace:
		ok = ok && c.Start+c.Count <= n
	case collection.OpRemove:
		ok = ok && c.Start <= n
	case collection.OpMove:
		ok = ok && c.To >= 0 && c.Start+c.Count <= n && c.To+c.Count <= n
	case collection.OpReset:
		ok = true
	default:
		ok = false
	}
	if !ok {
		return fmt.Errorf("%s start=%d count=%d to=%d len=%d: %w",
			c.Op, c.Start, c.Count, c.To, n, ErrInconsistentChange)
	}
	return nil
}

// itemBefore returns the element that was at position i before c was
// applied to the source
func (m *Model[T]) itemBefore(c collection.Change[T], i int) (item T) {
	at := func(j int) T { return m.itemAt(j) }
	old := func(k int) T {
		if k >= 0 && k < len(c.OldItems) {
			return c.OldItems[k]
		}
		return item
	}

	switch c.Op {
	case collection.OpInsert:
		if i < c.Start {
			return at(i)
		}
		return at(i + c.Count)
	case collection.OpRemove:
		switch {
		case i < c.Start:
			return at(i)
		case i < c.Start+c.Count:
			return old(i - c.Start)
		default:
			return at(i - c.Count)
		}
	case collection.OpReplace:
		if i >= c.Start && i < c.Start+c.Count {
			return old(i - c.Start)
		}
		return at(i)
	case collection.OpMove:
		if i >= c.Start && i < c.Start+c.Count {
			return at(c.To + i - c.Start)
		}
		j := i
		if i >= c.Start+c.Count {
			j -= c.Count
		}
		if j >= c.To {
			j += c.Count
		}
		return at(j)
	}
	return item
}
