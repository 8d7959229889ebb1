package arrival_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/experiment"
	"tci/internal/wave"
)

func TestInterpolateLinearMidpointAndNoExtrapolation(t *testing.T) {
	points := []arrival.Point{{X: 10.0, Y: 0.0}, {X: 20.0, Y: 100.0}}

	got, err := arrival.Interpolate(points, []float64{50.0, 150.0, 0, 100, -1, math.NaN()})
	require.NoError(t, err)

	assert.InDelta(t, 15.0, got[0], 1e-12)
	assert.True(t, arrival.IsUndefined(got[1]), "y above the drawn range must be undefined")
	assert.Equal(t, 10.0, got[2])
	assert.Equal(t, 20.0, got[3])
	assert.True(t, arrival.IsUndefined(got[4]))
	assert.True(t, arrival.IsUndefined(got[5]))
}

func TestInterpolateSortsControlPointsByY(t *testing.T) {
	points := []arrival.Point{{X: 30, Y: 2}, {X: 10, Y: 0}, {X: 14, Y: 1}}

	got, err := arrival.Interpolate(points, []float64{0.5, 1.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{12, 22}, got, 1e-12)
}

func TestInterpolateErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []arrival.Point
		want   error
	}{
		{"none", nil, arrival.ErrTooFewPoints},
		{"single", []arrival.Point{{X: 1, Y: 1}}, arrival.ErrTooFewPoints},
		{"duplicate y", []arrival.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}, arrival.ErrDegenerate},
		{"nan x", []arrival.Point{{X: math.NaN(), Y: 1}, {X: 2, Y: 2}}, arrival.ErrDegenerate},
		{"infinite y", []arrival.Point{{X: 1, Y: math.Inf(1)}, {X: 2, Y: 2}}, arrival.ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := arrival.Interpolate(tt.points, []float64{1})
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, arrival.ErrInterpolation)
		})
	}
}

func TestPickerCommitIsAllOrNothing(t *testing.T) {
	var p arrival.Picker
	p.Seed(wave.P, 12, 0, 3)
	p.Seed(wave.Sx, 20, 0, 3)
	p.Add(wave.Sx, arrival.Point{X: 25, Y: 3})

	_, err := p.Commit(map[wave.Type][]float64{
		wave.P:  {0, 1, 2, 3},
		wave.Sx: {0, 1, 2, 3},
	})
	require.ErrorIs(t, err, arrival.ErrDegenerate)
	assert.Len(t, p.Points(wave.Sx), 3, "failed commit must keep the shape")
	assert.Equal(t, []wave.Type{wave.P, wave.Sx}, p.Waves())

	p.Seed(wave.Sx, 20, 0, 3)
	sets, err := p.Commit(map[wave.Type][]float64{
		wave.P:  {0, 1, 2, 3},
		wave.Sx: {0, 1, 2, 3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, arrival.Set{12, 12, 12, 12}, sets[wave.P])
	assert.Len(t, sets[wave.Sx], 5)
	assert.Equal(t, 4, sets[wave.Sx].Defined())
	assert.False(t, p.Active(), "successful commit clears the picker")
}

func TestPickerCommitRequiresYValues(t *testing.T) {
	var p arrival.Picker
	p.Seed(wave.Sy, 1, 0, 1)
	_, err := p.Commit(map[wave.Type][]float64{wave.P: {0}})
	require.Error(t, err)
	assert.True(t, p.Active())
}

func TestPickerCancelAndRestore(t *testing.T) {
	var p arrival.Picker
	_, err := p.Commit(nil)
	require.ErrorIs(t, err, arrival.ErrTooFewPoints)

	p.Add(wave.P, arrival.Point{X: 1, Y: 1})
	saved := p.Shapes()
	p.Cancel()
	assert.False(t, p.Active())

	p.Restore(saved)
	assert.Equal(t, []arrival.Point{{X: 1, Y: 1}}, p.Points(wave.P))
}

func TestPickerReplaceCopiesPoints(t *testing.T) {
	var p arrival.Picker
	pts := []arrival.Point{{X: 2, Y: 0}, {X: 3, Y: 5}}
	p.Replace(wave.Sy, pts)
	pts[0].X = 99

	assert.Equal(t, []arrival.Point{{X: 2, Y: 0}, {X: 3, Y: 5}}, p.Points(wave.Sy))
	sets, err := p.Commit(map[wave.Type][]float64{wave.Sy: {0, 5, 10}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sets[wave.Sy][0], 1e-12)
	assert.InDelta(t, 3.0, sets[wave.Sy][1], 1e-12)
	assert.True(t, arrival.IsUndefined(sets[wave.Sy][2]))
}

func TestYValues(t *testing.T) {
	result := binding.Result{
		Times:             []float64{1, 2},
		LocalIndices:      []int{0, 1},
		ExperimentIndices: []int{2, 0},
		Filenames:         []string{"a", "b"},
	}
	ys, err := arrival.YValues(arrival.AxisTrack, result, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, ys)

	rec, err := experiment.New(
		[]string{"x", "y", "z"},
		map[string]experiment.Column{"Time": {1, 2, 3}, "Sigma1": {100, 200, 300}},
		[]string{"Time", "Sigma1"},
		"Time",
	)
	require.NoError(t, err)
	ys, err = arrival.YValues("Sigma1", result, rec)
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 100}, ys)

	_, err = arrival.YValues("Sigma1", result, nil)
	assert.Error(t, err)
	_, err = arrival.YValues("Missing", result, rec)
	assert.ErrorIs(t, err, experiment.ErrUnknownParam)
}

func TestSetJSONKeepsUndefined(t *testing.T) {
	data, err := json.Marshal(arrival.Set{1.5, arrival.Undefined})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "null"))

	var back arrival.Set
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.Equal(t, 1.5, back[0])
	assert.True(t, arrival.IsUndefined(back[1]))
}
