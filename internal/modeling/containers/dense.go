// Package containers implements the axis-labeled value containers backing the
// optimization container registries. A container is created with fixed axes and
// only its cell values mutate afterwards.
package containers

import (
	"github.com/copyleftdev/VOLTA/internal/errors"
)

// Dense is a dense grid over (component name, time step). Every combination of
// the two axes is addressable; cells hold the zero value of T until set.
type Dense[T any] struct {
	names   []string
	times   []int
	nameIdx map[string]int
	timeIdx map[int]int
	cells   []T
	filled  []bool
}

// NewDense allocates a dense container over the given axis labels. It fails
// with a duplicate-axis-label error when either axis repeats a label, and with
// a config error when an axis is empty.
func NewDense[T any](names []string, times []int) (*Dense[T], error) {
	const op = "containers.NewDense"

	if len(names) == 0 || len(times) == 0 {
		return nil, errors.New(errors.KindConfig, "container axes must not be empty").WithOperation(op)
	}

	nameIdx := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := nameIdx[name]; ok {
			return nil, errors.Newf(errors.KindDuplicateAxisLabel, "duplicate name %q on component axis", name).WithOperation(op)
		}
		nameIdx[name] = i
	}

	timeIdx := make(map[int]int, len(times))
	for i, t := range times {
		if _, ok := timeIdx[t]; ok {
			return nil, errors.Newf(errors.KindDuplicateAxisLabel, "duplicate step %d on time axis", t).WithOperation(op)
		}
		timeIdx[t] = i
	}

	return &Dense[T]{
		names:   append([]string(nil), names...),
		times:   append([]int(nil), times...),
		nameIdx: nameIdx,
		timeIdx: timeIdx,
		cells:   make([]T, len(names)*len(times)),
		filled:  make([]bool, len(names)*len(times)),
	}, nil
}

// Names returns the component name axis in order.
func (d *Dense[T]) Names() []string { return d.names }

// Times returns the time axis in order.
func (d *Dense[T]) Times() []int { return d.times }

// Len returns the total cell count.
func (d *Dense[T]) Len() int { return len(d.cells) }

func (d *Dense[T]) index(name string, t int) (int, *errors.Error) {
	i, ok := d.nameIdx[name]
	if !ok {
		return 0, errors.Newf(errors.KindKeyNotFound, "name %q is not on the component axis", name)
	}
	j, ok := d.timeIdx[t]
	if !ok {
		return 0, errors.Newf(errors.KindKeyNotFound, "step %d is not on the time axis", t)
	}
	return i*len(d.times) + j, nil
}

// Get returns the cell at (name, t). Unknown axis labels fail with a
// key-not-found error; a cell that was never set returns the zero sentinel.
func (d *Dense[T]) Get(name string, t int) (T, error) {
	const op = "Dense.Get"

	idx, err := d.index(name, t)
	if err != nil {
		var zero T
		return zero, err.WithOperation(op)
	}
	return d.cells[idx], nil
}

// Set overwrites the cell at (name, t). The axes never resize.
func (d *Dense[T]) Set(name string, t int, value T) error {
	const op = "Dense.Set"

	idx, err := d.index(name, t)
	if err != nil {
		return err.WithOperation(op)
	}
	d.cells[idx] = value
	d.filled[idx] = true
	return nil
}

// Has reports whether the cell at (name, t) has been populated. Labels off the
// axes report false.
func (d *Dense[T]) Has(name string, t int) bool {
	idx, err := d.index(name, t)
	if err != nil {
		return false
	}
	return d.filled[idx]
}

// Fill populates every cell in axis order from the callback, stopping at the
// first error.
func (d *Dense[T]) Fill(fn func(name string, t int) (T, error)) error {
	const op = "Dense.Fill"

	for i, name := range d.names {
		for j, t := range d.times {
			v, err := fn(name, t)
			if err != nil {
				return errors.Wrapf(err, errors.KindUnknown, "filling cell (%s, %d)", name, t).WithOperation(op)
			}
			idx := i*len(d.times) + j
			d.cells[idx] = v
			d.filled[idx] = true
		}
	}
	return nil
}
