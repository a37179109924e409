package session

import "sort"

// MarkedSet is the process-lifetime set of note ids selected for batch
// operations. It is never persisted. The controller and any Browse
// sub-session hold the same *MarkedSet; the parent re-reads it when the
// sub-session returns.
type MarkedSet struct {
	ids map[int64]struct{}
}

// NewMarkedSet returns an empty set.
func NewMarkedSet() *MarkedSet {
	return &MarkedSet{ids: make(map[int64]struct{})}
}

func (m *MarkedSet) Has(id int64) bool {
	_, ok := m.ids[id]
	return ok
}

// Toggle flips membership of id and reports whether it is now marked.
func (m *MarkedSet) Toggle(id int64) bool {
	if m.Has(id) {
		delete(m.ids, id)
		return false
	}
	m.ids[id] = struct{}{}
	return true
}

func (m *MarkedSet) Add(ids ...int64) {
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
}

func (m *MarkedSet) Remove(id int64) {
	delete(m.ids, id)
}

func (m *MarkedSet) Clear() {
	clear(m.ids)
}

func (m *MarkedSet) Len() int {
	return len(m.ids)
}

// IDs returns the marked ids in ascending order.
func (m *MarkedSet) IDs() []int64 {
	out := make([]int64, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
