package yolo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-yolo/internal/box"
)

func TestNumDetections(t *testing.T) {
	l, _ := newTestLayer(t, DefaultConfig(1, 2, 2, 3, 3, 1))
	v := l.View()
	out := l.Output()

	out[v.Offset(0, 0, 4, 0, 0)] = 0.9
	out[v.Offset(0, 1, 4, 1, 1)] = 0.6
	out[v.Offset(0, 2, 4, 0, 1)] = 0.4
	// Not objectness.
	out[v.Offset(0, 2, 5, 1, 0)] = 0.99

	assert.Equal(t, 2, l.NumDetections(0.5))
	assert.Equal(t, 3, l.NumDetections(0.3))
	assert.Equal(t, 0, l.NumDetections(0.9))
}

// twoCellLayer returns a 2x1 grid whose cells both predict a 10x10 box
// with high objectness and class score.
func twoCellLayer(t *testing.T, classes int) *Layer {
	t.Helper()
	cfg := DefaultConfig(1, 2, 1, 1, 1, classes)
	cfg.Anchors = []float32{10, 10}
	l, _ := newTestLayer(t, cfg)
	v := l.View()

	input := make([]float32, l.Outputs())
	for col := 0; col < 2; col++ {
		input[v.Offset(0, 0, 4, 0, col)] = 3
		input[v.Offset(0, 0, 5, 0, col)] = 3
	}
	require.NoError(t, l.Forward(State{Input: input, NetW: 100, NetH: 100}))
	return l
}

func TestDetections_Threshold(t *testing.T) {
	l := twoCellLayer(t, 1)
	want := []box.Box{
		{X: 0.25, Y: 0.5, W: 0.1, H: 0.1},
		{X: 0.75, Y: 0.5, W: 0.1, H: 0.1},
	}

	n := l.NumDetections(0.3)
	require.Equal(t, 2, n)

	dets := box.NewDetections(n, 1)
	require.Equal(t, 2, l.Detections(100, 100, 100, 100, 0.3, nil, true, dets))

	obj := sigmoid(3)
	for i, d := range dets {
		assert.InDelta(t, 1, d.BBox.IoU(want[i]), 1e-5)
		assert.InDelta(t, obj, d.Objectness, 1e-6)
		assert.InDelta(t, obj*obj, d.Prob[0], 1e-6)
	}

	assert.Equal(t, 0, l.NumDetections(1.1))
	assert.Equal(t, 0, l.Detections(100, 100, 100, 100, 1.1, nil, true, box.NewDetections(2, 1)))
}

func TestDetections_ClassMapAndZeroing(t *testing.T) {
	l := twoCellLayer(t, 2)
	v := l.View()
	out := l.Output()
	// Class 1 scores low enough that objectness*score falls under thresh.
	out[v.Offset(0, 0, 6, 0, 0)] = 0.05
	out[v.Offset(0, 0, 6, 0, 1)] = 0.05

	dets := box.NewDetections(2, 4)
	require.Equal(t, 2, l.Detections(100, 100, 100, 100, 0.3, []int{3, 1}, true, dets))

	obj := sigmoid(3)
	for _, d := range dets {
		assert.InDelta(t, obj*obj, d.Prob[3], 1e-6)
		assert.Zero(t, d.Prob[1])
		assert.Zero(t, d.Prob[0])
		class, _ := d.Best()
		assert.Equal(t, 3, class)
	}
}

func TestDetections_PixelCoordinates(t *testing.T) {
	l := twoCellLayer(t, 1)
	dets := box.NewDetections(2, 1)
	require.Equal(t, 2, l.Detections(200, 100, 100, 100, 0.3, nil, false, dets))

	// 200x100 letterboxed into 100x100 is 100x50 with 25 rows of padding
	// above and below.
	assert.InDelta(t, 50, dets[0].BBox.X, 1e-3)
	assert.InDelta(t, 150, dets[1].BBox.X, 1e-3)
	assert.InDelta(t, 50, dets[0].BBox.Y, 1e-3)
	assert.InDelta(t, 20, dets[0].BBox.W, 1e-3)
	assert.InDelta(t, 20, dets[0].BBox.H, 1e-3)
}

func TestCorrectBoxes(t *testing.T) {
	tests := []struct {
		name       string
		imgW, imgH int
		relative   bool
		in, want   box.Box
	}{
		{
			name: "wide image relative",
			imgW: 200, imgH: 100, relative: true,
			in:   box.Box{X: 0.5, Y: 0.3, W: 0.2, H: 0.2},
			want: box.Box{X: 0.5, Y: 0.1, W: 0.2, H: 0.4},
		},
		{
			name: "wide image pixels",
			imgW: 200, imgH: 100,
			in:   box.Box{X: 0.5, Y: 0.5, W: 0.2, H: 0.2},
			want: box.Box{X: 100, Y: 50, W: 40, H: 40},
		},
		{
			name: "tall image relative",
			imgW: 100, imgH: 200, relative: true,
			in:   box.Box{X: 0.7, Y: 0.5, W: 0.2, H: 0.2},
			want: box.Box{X: 0.9, Y: 0.5, W: 0.4, H: 0.2},
		},
		{
			name: "same aspect is identity",
			imgW: 100, imgH: 100, relative: true,
			in:   box.Box{X: 0.1, Y: 0.2, W: 0.3, H: 0.4},
			want: box.Box{X: 0.1, Y: 0.2, W: 0.3, H: 0.4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dets := []box.Detection{{BBox: tt.in}}
			correctBoxes(dets, tt.imgW, tt.imgH, 100, 100, tt.relative)

			got := dets[0].BBox
			assert.InDelta(t, tt.want.X, got.X, 1e-5)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-5)
			assert.InDelta(t, tt.want.W, got.W, 1e-5)
			assert.InDelta(t, tt.want.H, got.H, 1e-5)
		})
	}
}

func TestAverageFlipped(t *testing.T) {
	l, _ := newTestLayer(t, DefaultConfig(2, 4, 1, 1, 1, 1))
	v := l.View()
	out := l.Output()

	// Item 0 is zero; item 1 holds 10*entry + col + 1.
	for z := 0; z < v.Entries; z++ {
		for col := 0; col < 4; col++ {
			out[v.Offset(1, 0, z, 0, col)] = float32(10*z + col + 1)
		}
	}

	l.averageFlipped()

	for z := 0; z < v.Entries; z++ {
		for col := 0; col < 4; col++ {
			mirrored := float32(10*z + (3 - col) + 1)
			if z == 0 {
				mirrored = -mirrored
			}
			assert.Equal(t, mirrored/2, out[v.Offset(0, 0, z, 0, col)], "entry %d col %d", z, col)
		}
	}
	// Columns 0 and 3 swapped places in the flipped copy.
	assert.Equal(t, float32(-4), out[v.Offset(1, 0, 0, 0, 0)])
	assert.Equal(t, float32(-1), out[v.Offset(1, 0, 0, 0, 3)])
}

func TestDetections_FlipAveragedBatch(t *testing.T) {
	cfg := DefaultConfig(2, 2, 1, 1, 1, 1)
	cfg.Anchors = []float32{10, 10}
	l, _ := newTestLayer(t, cfg)
	v := l.View()
	out := l.Output()

	// Objectness only in column 1 of the first item and column 0 of the
	// flipped copy, so both land on column 1 after averaging.
	out[v.Offset(0, 0, 4, 0, 1)] = 0.8
	out[v.Offset(1, 0, 4, 0, 0)] = 0.6
	out[v.Offset(0, 0, 5, 0, 1)] = 1
	out[v.Offset(1, 0, 5, 0, 0)] = 1

	dets := box.NewDetections(2, 1)
	require.Equal(t, 1, l.Detections(100, 100, 100, 100, 0.5, nil, true, dets))
	assert.InDelta(t, 0.7, dets[0].Objectness, 1e-6)
	assert.InDelta(t, 0.5, dets[0].BBox.X, 1e-6)
}

func TestDetections_FlippedBatchCountMatches(t *testing.T) {
	l, _ := newTestLayer(t, DefaultConfig(2, 1, 1, 1, 1, 1))
	logit := func(p float32) float32 { return math32.Log(p / (1 - p)) }

	input := make([]float32, 2*l.Outputs())
	v := l.View()
	input[v.Offset(0, 0, 4, 0, 0)] = logit(0.45)
	input[v.Offset(1, 0, 4, 0, 0)] = logit(0.9)

	for pass := 0; pass < 2; pass++ {
		require.NoError(t, l.Forward(State{Input: input, NetW: 32, NetH: 32}))

		// Only the averaged objectness (0.675) clears the threshold.
		n := l.NumDetections(0.5)
		require.Equal(t, 1, n, "pass %d", pass)
		dets := box.NewDetections(n, 1)
		require.Equal(t, n, l.Detections(32, 32, 32, 32, 0.5, nil, true, dets))
		assert.InDelta(t, 0.675, dets[0].Objectness, 1e-5)

		// A repeated decode reads the same averaged buffer.
		require.Equal(t, n, l.Detections(32, 32, 32, 32, 0.5, nil, true, dets))
		assert.InDelta(t, 0.675, dets[0].Objectness, 1e-5)
		assert.Equal(t, n, l.NumDetections(0.5))
	}
}
