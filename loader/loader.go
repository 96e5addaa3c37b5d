// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads and writes float32 activation dumps in SafeTensors
// format.
//
// Example usage:
//
//	import "github.com/born-ml/born-yolo/loader"
//
//	tensors, err := loader.ReadTensors("batch.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	input := tensors["input"].Data()
package loader

import (
	"github.com/born-ml/born-yolo/internal/loader"
	"github.com/born-ml/born-yolo/tensor"
)

// Errors returned while reading dumps.
var (
	ErrChecksumMismatch = loader.ErrChecksumMismatch
	ErrUnsupportedDType = loader.ErrUnsupportedDType
	ErrOutOfBounds      = loader.ErrOutOfBounds
	ErrNotFound         = loader.ErrNotFound
)

// ReadTensors loads every tensor of the dump at path.
func ReadTensors(path string) (map[string]*tensor.RawTensor, error) {
	return loader.ReadTensors(path)
}

// WriteTensors writes tensors and metadata to path.
func WriteTensors(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	return loader.WriteTensors(path, tensors, metadata)
}
