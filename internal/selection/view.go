package selection

import "slices"

type viewHandler struct {
	id uint64
	fn func()
}

// View is a read-only live sequence derived from a Model. It has no
// per-element notifications: observers are told the contents were replaced
// and must read them again.
type View[E any] struct {
	read     func() []E
	handlers []viewHandler
	nextID   uint64
}

func newView[E any](read func() []E) *View[E] {
	return &View[E]{read: read}
}

func (v *View[E]) Len() int { return len(v.read()) }

func (v *View[E]) At(i int) E { return v.read()[i] }

// All returns a copy of the current contents
func (v *View[E]) All() []E { return v.read() }

// OnReplaced registers fn to run whenever the contents change and returns
// its unsubscribe function
func (v *View[E]) OnReplaced(fn func()) func() {
	v.nextID++
	id := v.nextID
	v.handlers = append(v.handlers, viewHandler{id: id, fn: fn})
	return func() {
		v.handlers = slices.DeleteFunc(v.handlers, func(h viewHandler) bool { return h.id == id })
	}
}

func (v *View[E]) replaced() {
	for _, h := range slices.Clone(v.handlers) {
		h.fn()
	}
}
