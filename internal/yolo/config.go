package yolo

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Default values applied by DefaultConfig.
const (
	DefaultIgnoreThresh float32 = 0.5
	DefaultTruthThresh  float32 = 1
	DefaultMaxBoxes             = 90
	defaultPrior        float32 = 0.5
)

// Config describes one detection layer instance.
//
// Anchors holds Total (width, height) pairs in network-input pixels; Mask
// selects the N of them this instance predicts with. Instances running at
// different resolutions share the same Anchors and differ in Mask.
type Config struct {
	Batch   int
	Width   int // grid width
	Height  int // grid height
	N       int // anchors owned by this instance
	Total   int // anchors defined globally
	Classes int

	// Mask has length N, entries in [0, Total). Nil selects [0, N).
	Mask []int
	// Anchors has length 2*Total. Nil fills every prior with 0.5.
	Anchors []float32

	IgnoreThresh float32
	// TruthThresh promotes a prediction to a positive from its own IoU.
	// IoU never exceeds 1, so the default of 1 disables that path.
	TruthThresh float32
	MaxBoxes    int

	// ClassMap, when set, remaps ground-truth class ids before they are
	// used as targets.
	ClassMap []int

	// OnlyForward skips loss construction even when training.
	OnlyForward bool

	// Logger receives construction and per-pass training statistics.
	// Nil uses the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a Config with identity mask, placeholder priors and
// the default thresholds.
func DefaultConfig(batch, w, h, n, total, classes int) Config {
	return Config{
		Batch:        batch,
		Width:        w,
		Height:       h,
		N:            n,
		Total:        total,
		Classes:      classes,
		IgnoreThresh: DefaultIgnoreThresh,
		TruthThresh:  DefaultTruthThresh,
		MaxBoxes:     DefaultMaxBoxes,
	}
}

// Entries returns the number of channels predicted per anchor: four box
// offsets, objectness and one score per class.
func (c Config) Entries() int {
	return c.Classes + 5
}

// Channels returns the number of input channels the layer consumes per
// grid cell.
func (c Config) Channels() int {
	return c.N * c.Entries()
}

// Outputs returns the number of values per batch item.
func (c Config) Outputs() int {
	return c.Width * c.Height * c.Channels()
}

// Truths returns the number of ground-truth values per batch item.
func (c Config) Truths() int {
	return c.MaxBoxes * 5
}

// withDefaults fills nil mask and priors and copies every slice so the
// layer owns its configuration.
func (c Config) withDefaults() Config {
	if c.Mask == nil {
		c.Mask = make([]int, c.N)
		for i := range c.Mask {
			c.Mask[i] = i
		}
	} else {
		c.Mask = append([]int(nil), c.Mask...)
	}

	if c.Anchors == nil {
		c.Anchors = make([]float32, 2*c.Total)
		for i := range c.Anchors {
			c.Anchors[i] = defaultPrior
		}
	} else {
		c.Anchors = append([]float32(nil), c.Anchors...)
	}

	if c.ClassMap != nil {
		c.ClassMap = append([]int(nil), c.ClassMap...)
	}
	if c.MaxBoxes == 0 {
		c.MaxBoxes = DefaultMaxBoxes
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Validate checks the structural invariants of the configuration.
// Ground-truth values are not checked here or anywhere else.
func (c Config) Validate() error {
	switch {
	case c.Batch <= 0:
		return fmt.Errorf("%w: batch %d", ErrInvalidConfig, c.Batch)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.N <= 0 || c.Total < c.N:
		return fmt.Errorf("%w: n=%d total=%d", ErrInvalidConfig, c.N, c.Total)
	case c.Classes <= 0:
		return fmt.Errorf("%w: classes %d", ErrInvalidConfig, c.Classes)
	case c.MaxBoxes < 0:
		return fmt.Errorf("%w: max boxes %d", ErrInvalidConfig, c.MaxBoxes)
	case c.Mask != nil && len(c.Mask) != c.N:
		return fmt.Errorf("%w: mask has %d entries, want %d", ErrInvalidConfig, len(c.Mask), c.N)
	case c.Anchors != nil && len(c.Anchors) != 2*c.Total:
		return fmt.Errorf("%w: %d anchor values, want %d", ErrInvalidConfig, len(c.Anchors), 2*c.Total)
	}
	for i, m := range c.Mask {
		if m < 0 || m >= c.Total {
			return fmt.Errorf("%w: mask[%d]=%d outside [0, %d)", ErrInvalidConfig, i, m, c.Total)
		}
	}
	return nil
}
