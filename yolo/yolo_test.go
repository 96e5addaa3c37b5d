package yolo_test

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-yolo/backend/cpu"
	"github.com/born-ml/born-yolo/box"
	"github.com/born-ml/born-yolo/yolo"
)

func TestPublicAPI(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := yolo.DefaultConfig(1, 2, 2, 1, 1, 2)
	cfg.Anchors = []float32{20, 20}
	cfg.Logger = logger

	layer, err := yolo.New(cfg, cpu.NewParallel(2))
	require.NoError(t, err)

	v := layer.View()
	input := make([]float32, layer.Outputs())
	input[v.Offset(0, 0, 4, 1, 0)] = 4
	input[v.Offset(0, 0, 6, 1, 0)] = 4
	require.NoError(t, layer.Forward(yolo.State{Input: input, NetW: 100, NetH: 100}))

	dets := box.NewDetections(layer.NumDetections(0.6), 2)
	require.Len(t, dets, 1)
	n := layer.Detections(100, 100, 100, 100, 0.6, nil, true, dets)
	n = box.NMSSort(dets[:n], 2, 0.45)
	require.Equal(t, 1, n)

	class, _ := dets[0].Best()
	assert.Equal(t, 1, class)
	assert.InDelta(t, 0.25, dets[0].BBox.X, 1e-6)
	assert.InDelta(t, 0.75, dets[0].BBox.Y, 1e-6)
	assert.InDelta(t, 0.2, dets[0].BBox.W, 1e-6)
}

func TestPublicAPI_InvalidConfig(t *testing.T) {
	_, err := yolo.New(yolo.DefaultConfig(0, 1, 1, 1, 1, 1), cpu.New())
	assert.ErrorIs(t, err, yolo.ErrInvalidConfig)
}
