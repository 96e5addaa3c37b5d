package yolo

import "errors"

// Sentinel errors returned by the detection layer.
var (
	ErrInvalidConfig = errors.New("yolo: invalid config")
	ErrInputSize     = errors.New("yolo: input size mismatch")
	ErrTruthSize     = errors.New("yolo: truth buffer too small")
)
