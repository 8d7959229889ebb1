package window_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tci/internal/binding"
	"tci/internal/wave"
	"tci/internal/window"
)

func sequential(times ...float64) binding.Result {
	r := binding.Result{Times: times}
	for i := range times {
		r.LocalIndices = append(r.LocalIndices, i)
		r.ExperimentIndices = append(r.ExperimentIndices, 10+i)
		r.Filenames = append(r.Filenames, "f")
	}
	return r
}

func TestSelectInclusiveBounds(t *testing.T) {
	results := map[wave.Type]binding.Result{wave.P: sequential(1.0, 2.0, 3.0, 4.0)}

	sel := window.Select(results, window.Interval{Min: 2.0, Max: 3.0}, wave.NewSet(wave.P))

	require.Contains(t, sel, wave.P)
	assert.Equal(t, []int{1, 2}, sel[wave.P].Positions)
	assert.Equal(t, []int{1, 2}, sel[wave.P].LocalIndices)
	assert.Equal(t, []int{11, 12}, sel[wave.P].ExperimentIndices)
}

func TestSelectEmptyIntervals(t *testing.T) {
	results := map[wave.Type]binding.Result{
		wave.P:  sequential(1.0, 2.0, 3.0, 4.0),
		wave.Sx: sequential(5.0),
	}
	for name, iv := range map[string]window.Interval{
		"inverted": {Min: 5.0, Max: 1.0},
		"nan min":  {Min: math.NaN(), Max: 4},
		"nan max":  {Min: 0, Max: math.NaN()},
	} {
		t.Run(name, func(t *testing.T) {
			sel := window.Select(results, iv, wave.AllSet())
			require.Len(t, sel, 3)
			for w, s := range sel {
				assert.Zerof(t, s.Len(), "wave %s should be empty", w)
				assert.NotNil(t, s.Positions)
			}
		})
	}
}

func TestSelectHonoursActiveSet(t *testing.T) {
	results := map[wave.Type]binding.Result{
		wave.P:  sequential(1.0),
		wave.Sy: sequential(1.0, 1.5),
	}
	sel := window.Select(results, window.Interval{Min: 0, Max: 10}, wave.NewSet(wave.Sy))

	assert.NotContains(t, sel, wave.P)
	assert.Equal(t, 2, sel[wave.Sy].Len())
}

func TestSelectIsIdempotent(t *testing.T) {
	results := map[wave.Type]binding.Result{wave.Sx: sequential(0.5, 1.5, 2.5)}
	iv := window.Interval{Min: 1, Max: 3}

	first := window.Select(results, iv, wave.AllSet())
	second := window.Select(results, iv, wave.AllSet())

	assert.Equal(t, first, second)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, results[wave.Sx].Times, "select must not modify the results")
}

func TestBounds(t *testing.T) {
	_, ok := window.Bounds(nil)
	assert.False(t, ok)

	iv, ok := window.Bounds(map[wave.Type]binding.Result{
		wave.P:  sequential(3, 4),
		wave.Sy: sequential(-1, 2),
	})
	require.True(t, ok)
	assert.Equal(t, window.Interval{Min: -1, Max: 4}, iv)
	assert.True(t, iv.Contains(4))
	assert.False(t, iv.Empty())
}
