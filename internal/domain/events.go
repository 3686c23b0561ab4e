package domain

// EventType represents the type of selection event
type EventType string

// Event types
const (
	EventSelectionChanged EventType = "SelectionChanged"
	EventPropertyChanged  EventType = "PropertyChanged"
	EventIndexesChanged   EventType = "IndexesChanged"
	EventSourceReset      EventType = "SourceReset"
	EventLostSelection    EventType = "LostSelection"
)

// Event is the interface for all selection events
type Event interface {
	Type() EventType
}

// Property names a derived value of a selection model
type Property string

// Properties reported through PropertyChangedEvent
const (
	PropSelectedIndex   Property = "SelectedIndex"
	PropSelectedItem    Property = "SelectedItem"
	PropSelectedIndexes Property = "SelectedIndexes"
	PropSelectedItems   Property = "SelectedItems"
	PropAnchorIndex     Property = "AnchorIndex"
	PropSingleSelect    Property = "SingleSelect"
	PropSource          Property = "Source"
)

// SelectionChangedEvent is emitted when the set of selected elements changes.
// Index and item slices are aligned and in ascending index order.
type SelectionChangedEvent[T any] struct {
	DeselectedIndexes []int
	DeselectedItems   []T
	SelectedIndexes   []int
	SelectedItems     []T
}

func (e SelectionChangedEvent[T]) Type() EventType { return EventSelectionChanged }

// Empty reports whether the event carries no change at all
func (e SelectionChangedEvent[T]) Empty() bool {
	return len(e.DeselectedIndexes) == 0 && len(e.DeselectedItems) == 0 &&
		len(e.SelectedIndexes) == 0 && len(e.SelectedItems) == 0
}

// PropertyChangedEvent is emitted when a derived value changes
type PropertyChangedEvent struct {
	Property Property
}

func (e PropertyChangedEvent) Type() EventType { return EventPropertyChanged }

// IndexesChangedEvent is emitted when selected positions move without the
// selected elements changing
type IndexesChangedEvent struct {
	StartIndex int
	Delta      int
}

func (e IndexesChangedEvent) Type() EventType { return EventIndexesChanged }

// SourceResetEvent is emitted when the source reports a bulk reset
type SourceResetEvent struct{}

func (e SourceResetEvent) Type() EventType { return EventSourceReset }

// LostSelectionEvent is emitted when a source change invalidated the whole
// selection. Handlers may select again before the change is published.
type LostSelectionEvent struct{}

func (e LostSelectionEvent) Type() EventType { return EventLostSelection }
