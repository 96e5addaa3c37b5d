// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the detection head.
//
// # Overview
//
// The logistic kernel uses float32 math from chewxy/math32 and can fan out
// over buffer spans on a worker pool. Axpy and Dot go through gonum's
// float32 BLAS.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born-yolo/backend/cpu"
//	    "github.com/born-ml/born-yolo/yolo"
//	)
//
//	func main() {
//	    layer, err := yolo.New(yolo.DefaultConfig(1, 13, 13, 3, 9, 80), cpu.New())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = layer
//	}
package cpu
