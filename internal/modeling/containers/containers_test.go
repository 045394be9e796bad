package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

func TestNewDenseValidation(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		times []int
		kind  errors.Kind
	}{
		{
			name:  "duplicate component name",
			names: []string{"gen1", "gen2", "gen1"},
			times: []int{1, 2},
			kind:  errors.KindDuplicateAxisLabel,
		},
		{
			name:  "duplicate time step",
			names: []string{"gen1"},
			times: []int{1, 2, 2},
			kind:  errors.KindDuplicateAxisLabel,
		},
		{
			name:  "empty name axis",
			names: nil,
			times: []int{1},
			kind:  errors.KindConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDense[float64](tt.names, tt.times)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind), "got kind %v", errors.KindOf(err))
		})
	}
}

func TestDenseGetSetHas(t *testing.T) {
	d, err := NewDense[float64]([]string{"gen1", "gen2"}, []int{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 6, d.Len())
	assert.False(t, d.Has("gen1", 2))

	// Unset cells read back the zero sentinel without failing.
	v, err := d.Get("gen1", 2)
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, d.Set("gen1", 2, 42.5))
	assert.True(t, d.Has("gen1", 2))
	v, err = d.Get("gen1", 2)
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	// Overwrite is allowed; the axes never change.
	require.NoError(t, d.Set("gen1", 2, 7.0))
	v, _ = d.Get("gen1", 2)
	assert.Equal(t, 7.0, v)

	// Off-axis labels fail, tagged with the failing accessor.
	_, err = d.Get("gen3", 1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindKeyNotFound))
	assert.Contains(t, err.Error(), "operation=Dense.Get")

	err = d.Set("gen1", 9, 1.0)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindKeyNotFound))
	assert.Contains(t, err.Error(), "operation=Dense.Set")

	assert.False(t, d.Has("gen3", 1))
}

func TestDenseFill(t *testing.T) {
	d, err := NewDense[int]([]string{"a", "b"}, []int{1, 2})
	require.NoError(t, err)

	calls := 0
	err = d.Fill(func(name string, t int) (int, error) {
		calls++
		return t * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)

	v, err := d.Get("b", 2)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.True(t, d.Has("a", 1))
}

func TestSparse(t *testing.T) {
	s := NewSparse[string]()

	_, err := s.Get(Key{Name: "gen1", Segment: 0, Time: 1})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindKeyNotFound))

	s.Set(Key{Name: "gen1", Segment: 1, Time: 1}, "b")
	s.Set(Key{Name: "gen1", Segment: 0, Time: 1}, "a")
	s.Set(Key{Name: "gen1", Segment: 2, Time: 1}, "c")
	s.Set(Key{Name: "gen1", Segment: 0, Time: 2}, "other-step")
	s.Set(Key{Name: "gen2", Segment: 0, Time: 1}, "other-device")

	assert.Equal(t, 5, s.Len())
	assert.True(t, s.Has(Key{Name: "gen1", Segment: 2, Time: 1}))

	// Segments come back ordered by segment index, scoped to (name, time).
	assert.Equal(t, []string{"a", "b", "c"}, s.Segments("gen1", 1))
	assert.Equal(t, []string{"other-step"}, s.Segments("gen1", 2))
	assert.Empty(t, s.Segments("gen3", 1))

	keys := s.Keys()
	require.Len(t, keys, 5)
	assert.Equal(t, Key{Name: "gen1", Segment: 0, Time: 1}, keys[0])
}
