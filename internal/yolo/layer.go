// Package yolo implements the detection head of a single-stage object
// detector: it turns a convolutional feature map into box, objectness and
// class predictions, builds the training gradient against ground truth and
// decodes thresholded detections.
//
// Buffer layout per batch item is [anchor][entry][row][col], where the
// entries of an anchor are x, y, w, h, objectness and one score per class.
package yolo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/born-yolo/internal/tensor"
)

// Layer is one detection head instance. It owns its output and gradient
// buffers and is not safe for concurrent use.
type Layer struct {
	cfg     Config
	backend tensor.Backend
	log     logrus.FieldLogger

	output *tensor.RawTensor
	delta  *tensor.RawTensor
	view   tensor.View
	spans  []tensor.Span

	// flipped is set once the second batch item has been averaged into
	// the first; Forward and Resize clear it.
	flipped bool

	cost  float32
	stats Stats
}

// New creates a detection layer that runs its kernels on backend.
func New(cfg Config, backend tensor.Backend) (*Layer, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	l := &Layer{
		cfg:     cfg,
		backend: backend,
		log:     cfg.Logger,
	}
	if err := l.allocate(); err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"n":       cfg.N,
		"c":       cfg.Channels(),
		"grid":    fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"mask":    cfg.Mask,
		"backend": backend.Name(),
	}).Debug("yolo layer created")

	return l, nil
}

// allocate (re)creates the output and gradient buffers for the current
// geometry.
func (l *Layer) allocate() error {
	shape := l.shape()

	view, err := tensor.NewView(shape)
	if err != nil {
		return fmt.Errorf("yolo: %w", err)
	}

	if l.output == nil {
		if l.output, err = tensor.NewRaw(shape, l.backend.Device()); err != nil {
			return fmt.Errorf("yolo: output: %w", err)
		}
		if l.delta, err = tensor.NewRaw(shape, l.backend.Device()); err != nil {
			return fmt.Errorf("yolo: delta: %w", err)
		}
	} else {
		if err := l.output.Realloc(shape); err != nil {
			return fmt.Errorf("yolo: output: %w", err)
		}
		if err := l.delta.Realloc(shape); err != nil {
			return fmt.Errorf("yolo: delta: %w", err)
		}
	}

	l.view = view
	l.flipped = false
	l.spans = l.activationSpans()
	return nil
}

func (l *Layer) shape() tensor.Shape {
	return tensor.Shape{l.cfg.Batch, l.cfg.N, l.cfg.Entries(), l.cfg.Height, l.cfg.Width}
}

// activationSpans lists the ranges squashed by the logistic: the x, y
// planes and the objectness plus class planes of every anchor. The w, h
// planes stay in log space.
func (l *Layer) activationSpans() []tensor.Span {
	wh := l.cfg.Width * l.cfg.Height
	spans := make([]tensor.Span, 0, 2*l.cfg.Batch*l.cfg.N)
	for b := 0; b < l.cfg.Batch; b++ {
		for n := 0; n < l.cfg.N; n++ {
			spans = append(spans,
				tensor.Span{Offset: l.entryIndex(b, n*wh, 0), Len: 2 * wh},
				tensor.Span{Offset: l.entryIndex(b, n*wh, 4), Len: (1 + l.cfg.Classes) * wh},
			)
		}
	}
	return spans
}

// Resize changes the grid size, reallocating the buffers. Everything else
// in the configuration is kept. Buffer contents are undefined afterwards.
func (l *Layer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, w, h)
	}
	l.cfg.Width = w
	l.cfg.Height = h
	return l.allocate()
}

// entryIndex returns the offset of entry for the flattened location
// anchor*w*h + row*w + col of batch item b.
func (l *Layer) entryIndex(b, location, entry int) int {
	return l.view.Index(b, location, entry)
}

// Config returns the layer configuration with defaults applied.
func (l *Layer) Config() Config {
	return l.cfg
}

// Backend returns the backend the layer runs on.
func (l *Layer) Backend() tensor.Backend {
	return l.backend
}

// View returns the layout of the output and gradient buffers.
func (l *Layer) View() tensor.View {
	return l.view
}

// Outputs returns the number of values per batch item.
func (l *Layer) Outputs() int {
	return l.cfg.Outputs()
}

// Output returns the activated predictions of the last forward pass.
func (l *Layer) Output() []float32 {
	return l.output.Data()
}

// Delta returns the gradient of the last training forward pass.
func (l *Layer) Delta() []float32 {
	return l.delta.Data()
}

// Cost returns the loss of the last training forward pass: the squared L2
// norm of the gradient buffer.
func (l *Layer) Cost() float32 {
	return l.cost
}

// Stats returns the matching statistics of the last training forward pass.
func (l *Layer) Stats() Stats {
	return l.stats
}
