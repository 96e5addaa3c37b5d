//go:build !windows

package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NotAvailable(t *testing.T) {
	backend, err := New()
	require.ErrorIs(t, err, ErrNotAvailable)
	assert.Nil(t, backend)
	assert.False(t, IsAvailable())
}
