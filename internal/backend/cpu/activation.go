package cpu

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/born-yolo/internal/parallel"
	"github.com/born-ml/born-yolo/internal/tensor"
)

// Logistic applies the sigmoid in place to every span of data.
// Spans must not overlap when the backend runs in parallel.
func (cpu *CPUBackend) Logistic(data []float32, spans []tensor.Span) error {
	for _, s := range spans {
		if s.Offset < 0 || s.Len < 0 || s.Offset+s.Len > len(data) {
			return fmt.Errorf("logistic: span [%d, %d) out of range for buffer of %d", s.Offset, s.Offset+s.Len, len(data))
		}
	}

	parallel.For(len(spans), func(i int) {
		s := spans[i]
		logistic(data[s.Offset : s.Offset+s.Len])
	}, cpu.parallel)
	return nil
}

func logistic(x []float32) {
	for i, v := range x {
		x[i] = 1 / (1 + math32.Exp(-v))
	}
}
