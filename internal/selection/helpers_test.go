package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"selkit/internal/collection"
	"selkit/internal/domain"
)

// recorder captures every notification a model publishes
type recorder struct {
	changes []domain.SelectionChangedEvent[string]
	props   []domain.Property
	shifts  []domain.IndexesChangedEvent
	resets  int
	lost    int
}

func record(m *Model[string]) *recorder {
	r := &recorder{}
	m.OnSelectionChanged(func(e domain.SelectionChangedEvent[string]) { r.changes = append(r.changes, e) })
	m.OnPropertyChanged(func(p domain.Property) { r.props = append(r.props, p) })
	m.OnIndexesChanged(func(e domain.IndexesChangedEvent) { r.shifts = append(r.shifts, e) })
	m.OnSourceReset(func() { r.resets++ })
	m.OnLostSelection(func() { r.lost++ })
	return r
}

func (r *recorder) count(p domain.Property) int {
	n := 0
	for _, got := range r.props {
		if got == p {
			n++
		}
	}
	return n
}

func (r *recorder) total() int {
	return len(r.changes) + len(r.props) + len(r.shifts) + r.resets + r.lost
}

// newTarget creates a single-select model, bound to foo/bar/baz when
// withData is set
func newTarget(withData bool) (*Model[string], *collection.List[string]) {
	m := New[string]()
	if !withData {
		return m, nil
	}
	data := collection.NewList("foo", "bar", "baz")
	m.SetSource(data)
	return m, data
}

func newMultiTarget(items ...string) (*Model[string], *collection.List[string]) {
	m := New[string](WithSingleSelect(false))
	data := collection.NewList(items...)
	m.SetSource(data)
	return m, data
}

func requireChange(t *testing.T, got domain.SelectionChangedEvent[string],
	deselected []int, deselectedItems []string, selected []int, selectedItems []string) {
	t.Helper()
	if len(deselected) == 0 {
		require.Empty(t, got.DeselectedIndexes)
	} else {
		require.Equal(t, deselected, got.DeselectedIndexes)
	}
	if len(deselectedItems) == 0 {
		require.Empty(t, got.DeselectedItems)
	} else {
		require.Equal(t, deselectedItems, got.DeselectedItems)
	}
	if len(selected) == 0 {
		require.Empty(t, got.SelectedIndexes)
	} else {
		require.Equal(t, selected, got.SelectedIndexes)
	}
	if len(selectedItems) == 0 {
		require.Empty(t, got.SelectedItems)
	} else {
		require.Equal(t, selectedItems, got.SelectedItems)
	}
}

func requireEmptySelection(t *testing.T, m *Model[string]) {
	t.Helper()
	require.Equal(t, -1, m.SelectedIndex())
	require.Empty(t, m.SelectedIndexes())
	require.Equal(t, "", m.SelectedItem())
	require.Empty(t, m.SelectedItems())
}

func requireSelected(t *testing.T, m *Model[string], index int, item string) {
	t.Helper()
	require.Equal(t, index, m.SelectedIndex())
	require.Equal(t, []int{index}, m.SelectedIndexes())
	require.Equal(t, item, m.SelectedItem())
	require.Equal(t, []string{item}, m.SelectedItems())
}
