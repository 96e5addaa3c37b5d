// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the buffer types and the compute backend contract
// shared by the detection head and its backends.
//
// A detection head stores its activations and gradients as flat float32
// buffers laid out [batch][anchor][entry][row][col]. View computes offsets
// into that layout; Backend runs the few dense kernels the head needs.
//
//	import (
//	    "github.com/born-ml/born-yolo/backend/cpu"
//	    "github.com/born-ml/born-yolo/tensor"
//	)
//
//	var backend tensor.Backend = cpu.New()
package tensor
