package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-yolo/internal/parallel"
	"github.com/born-ml/born-yolo/internal/tensor"
)

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

func TestCPUBackend_Metadata(t *testing.T) {
	b := New()
	assert.Equal(t, "CPU", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())
}

func TestLogistic_OnlyTouchesSpans(t *testing.T) {
	data := []float32{-2, -1, 0, 1, 2, 3, 4, 5}
	orig := append([]float32(nil), data...)

	err := New().Logistic(data, []tensor.Span{{Offset: 1, Len: 2}, {Offset: 5, Len: 3}})
	require.NoError(t, err)

	for i, v := range data {
		inSpan := (i >= 1 && i < 3) || i >= 5
		if inSpan {
			assert.InDelta(t, sigmoid(orig[i]), v, 1e-6, "index %d", i)
		} else {
			assert.Equal(t, orig[i], v, "index %d must be untouched", i)
		}
	}
}

func TestLogistic_ParallelMatchesSequential(t *testing.T) {
	n := 64
	seq := make([]float32, n*8)
	for i := range seq {
		seq[i] = float32(i%17) - 8
	}
	par := append([]float32(nil), seq...)

	spans := make([]tensor.Span, 0, 8)
	for i := 0; i < 8; i++ {
		spans = append(spans, tensor.Span{Offset: i * n, Len: n / 2})
	}

	require.NoError(t, New().Logistic(seq, spans))
	require.NoError(t, NewParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}).Logistic(par, spans))
	assert.Equal(t, seq, par)
}

func TestLogistic_RejectsOutOfRange(t *testing.T) {
	err := New().Logistic(make([]float32, 4), []tensor.Span{{Offset: 2, Len: 3}})
	assert.Error(t, err)
}

func TestAxpy(t *testing.T) {
	x := []float32{1, 2, 3}
	y := []float32{10, 20, 30}

	require.NoError(t, New().Axpy(1, x, y))
	assert.Equal(t, []float32{11, 22, 33}, y)

	require.NoError(t, New().Axpy(-2, x, y))
	assert.Equal(t, []float32{9, 18, 27}, y)

	assert.Error(t, New().Axpy(1, x, y[:2]))
}

func TestDot(t *testing.T) {
	x := []float32{1, -2, 3}
	assert.InDelta(t, 14, New().Dot(x, x), 1e-6)
	assert.Zero(t, New().Dot(nil, nil))
	assert.Panics(t, func() { New().Dot(x, x[:1]) })
}
