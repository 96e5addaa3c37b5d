package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView_RejectsBadShapes(t *testing.T) {
	_, err := NewView(Shape{2, 3, 6, 4})
	require.Error(t, err)

	_, err = NewView(Shape{2, 0, 6, 4, 4})
	require.Error(t, err)
}

// classes=1, n=3, w=h=2: every (anchor, entry, cell) maps to a distinct
// offset and offsets grow in [anchor][entry][row][col] order.
func TestView_IndexLayout(t *testing.T) {
	const (
		classes = 1
		n       = 3
		w, h    = 2, 2
	)
	entries := classes + 5
	outputs := w * h * n * entries

	v, err := NewView(Shape{2, n, entries, h, w})
	require.NoError(t, err)
	assert.Equal(t, outputs, v.PerBatch())
	assert.Equal(t, 4, v.Spatial())

	for b := 0; b < 2; b++ {
		seen := make(map[int]bool)
		prev := -1
		for a := 0; a < n; a++ {
			for e := 0; e < entries; e++ {
				for row := 0; row < h; row++ {
					for col := 0; col < w; col++ {
						idx := v.Index(b, a*w*h+row*w+col, e)
						want := b*outputs + a*w*h*entries + e*w*h + row*w + col
						assert.Equal(t, want, idx)
						assert.Equal(t, idx, v.Offset(b, a, e, row, col))
						assert.False(t, seen[idx], "collision at anchor=%d entry=%d row=%d col=%d", a, e, row, col)
						seen[idx] = true
						assert.Greater(t, idx, prev)
						prev = idx
					}
				}
			}
		}
		assert.Len(t, seen, outputs)
	}
}

func TestView_EntryStride(t *testing.T) {
	v, err := NewView(Shape{1, 2, 7, 3, 5})
	require.NoError(t, err)

	base := v.Index(0, 1*15+2*5+4, 0)
	for e := 1; e < 7; e++ {
		assert.Equal(t, base+e*15, v.Index(0, 1*15+2*5+4, e))
	}
}
