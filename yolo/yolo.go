// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package yolo

import (
	"github.com/born-ml/born-yolo/internal/yolo"
	"github.com/born-ml/born-yolo/tensor"
)

// Layer is a YOLO detection head.
type Layer = yolo.Layer

// Config describes one detection head instance.
type Config = yolo.Config

// State is the per-pass input of Forward.
type State = yolo.State

// Stats summarizes a training pass.
type Stats = yolo.Stats

// Default thresholds and truth capacity.
const (
	DefaultIgnoreThresh = yolo.DefaultIgnoreThresh
	DefaultTruthThresh  = yolo.DefaultTruthThresh
	DefaultMaxBoxes     = yolo.DefaultMaxBoxes
)

// Errors returned by the layer.
var (
	ErrInvalidConfig = yolo.ErrInvalidConfig
	ErrInputSize     = yolo.ErrInputSize
	ErrTruthSize     = yolo.ErrTruthSize
)

// DefaultConfig returns a Config with identity mask, placeholder priors and
// the default thresholds.
func DefaultConfig(batch, w, h, n, total, classes int) Config {
	return yolo.DefaultConfig(batch, w, h, n, total, classes)
}

// New creates a detection head running on backend.
func New(cfg Config, backend tensor.Backend) (*Layer, error) {
	return yolo.New(cfg, backend)
}
