package containers

import (
	"sort"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

// Key addresses one cell of a sparse container: component name, segment index
// and time step. Sparse containers are used when not every combination is
// populated, e.g. piecewise-linear segment counts differing per device.
type Key struct {
	Name    string
	Segment int
	Time    int
}

// Sparse maps explicit (name, segment, time) tuples to values. Reads of absent
// keys always fail; the caller is expected to know exactly which cells exist.
type Sparse[T any] struct {
	cells map[Key]T
}

// NewSparse allocates an empty sparse container.
func NewSparse[T any]() *Sparse[T] {
	return &Sparse[T]{cells: make(map[Key]T)}
}

// Get returns the value at key, failing with a key-not-found error if absent.
func (s *Sparse[T]) Get(key Key) (T, error) {
	const op = "Sparse.Get"

	v, ok := s.cells[key]
	if !ok {
		var zero T
		return zero, errors.Newf(errors.KindKeyNotFound, "no value at (%s, %d, %d)", key.Name, key.Segment, key.Time).WithOperation(op)
	}
	return v, nil
}

// Set stores the value at key, overwriting any previous value.
func (s *Sparse[T]) Set(key Key, value T) {
	s.cells[key] = value
}

// Has reports whether key is populated.
func (s *Sparse[T]) Has(key Key) bool {
	_, ok := s.cells[key]
	return ok
}

// Len returns the populated cell count.
func (s *Sparse[T]) Len() int { return len(s.cells) }

// Segments returns the values for (name, time) ordered by segment index.
func (s *Sparse[T]) Segments(name string, t int) []T {
	type entry struct {
		segment int
		value   T
	}
	var entries []entry
	for k, v := range s.cells {
		if k.Name == name && k.Time == t {
			entries = append(entries, entry{k.Segment, v})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].segment < entries[j].segment })

	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

// Keys returns all populated keys in deterministic order.
func (s *Sparse[T]) Keys() []Key {
	out := make([]Key, 0, len(s.cells))
	for k := range s.cells {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
