package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-yolo/internal/yolo"
)

const yolov3Large = `
[net]
width = 416
height = 416
batch = 2

[yolo]
mask = [6, 7, 8]
anchors = [10,13, 16,30, 33,23, 30,61, 62,45, 59,119, 116,90, 156,198, 373,326]
classes = 80
num = 9
ignore_thresh = 0.7
truth_thresh = 1
grid_width = 13
grid_height = 13
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(yolov3Large))
	require.NoError(t, err)

	assert.Equal(t, 416, f.Net.Width)
	assert.Equal(t, 2, f.Net.Batch)
	assert.Equal(t, []int{6, 7, 8}, f.Yolo.Mask)
	require.Len(t, f.Yolo.Anchors, 18)
	assert.Equal(t, float32(373), f.Yolo.Anchors[16])
	assert.InDelta(t, 0.7, f.Yolo.IgnoreThresh, 1e-6)
	assert.Equal(t, yolo.DefaultMaxBoxes, f.Yolo.MaxBoxes)

	cfg := f.LayerConfig()
	assert.Equal(t, 2, cfg.Batch)
	assert.Equal(t, 13, cfg.Width)
	assert.Equal(t, 3, cfg.N)
	assert.Equal(t, 9, cfg.Total)
	assert.Equal(t, 80, cfg.Classes)
	assert.Equal(t, []int{6, 7, 8}, cfg.Mask)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte(`
[net]
width = 320
height = 256

[yolo]
anchors = [10, 14, 23, 27, 37, 58]
classes = 3
`))
	require.NoError(t, err)

	assert.Equal(t, 1, f.Net.Batch)
	assert.Equal(t, 3, f.Yolo.Num)
	assert.Equal(t, yolo.DefaultIgnoreThresh, f.Yolo.IgnoreThresh)
	assert.Equal(t, yolo.DefaultTruthThresh, f.Yolo.TruthThresh)
	assert.Equal(t, 10, f.Yolo.GridWidth)
	assert.Equal(t, 8, f.Yolo.GridHeight)

	cfg := f.LayerConfig()
	assert.Equal(t, 3, cfg.N)
	assert.Nil(t, cfg.Mask)
	assert.Equal(t, 3*8, cfg.Channels())
}

func TestParse_ExplicitZeroThreshold(t *testing.T) {
	f, err := Parse([]byte(`
[net]
width = 64
height = 64

[yolo]
num = 1
classes = 1
ignore_thresh = 0.0
`))
	require.NoError(t, err)
	assert.Zero(t, f.Yolo.IgnoreThresh)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing net size", "[yolo]\nnum = 3\n"},
		{"odd anchors", "[net]\nwidth = 64\nheight = 64\n[yolo]\nclasses = 1\nanchors = [1, 2, 3]\n"},
		{"no anchors", "[net]\nwidth = 64\nheight = 64\n[yolo]\nclasses = 2\n"},
		{"num mismatch", "[net]\nwidth = 64\nheight = 64\n[yolo]\nclasses = 1\nnum = 3\nanchors = [1, 2]\n"},
		{"mask out of range", "[net]\nwidth = 64\nheight = 64\n[yolo]\nclasses = 1\nnum = 2\nmask = [2]\n"},
		{"zero classes", "[net]\nwidth = 64\nheight = 64\n[yolo]\nnum = 1\nclasses = 0\n"},
		{"unknown key", "[net]\nwidth = 64\nheight = 64\n[yolo]\nnum = 1\njitter = 0.3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("[net\nwidth = 1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "head.toml")
	require.NoError(t, os.WriteFile(path, []byte(yolov3Large), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, f.Yolo.Classes)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
