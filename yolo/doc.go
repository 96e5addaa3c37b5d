// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package yolo provides the YOLO detection head.
//
// # Overview
//
// A Layer turns the raw output of the last convolution at one scale into
// class-scored bounding boxes. It owns a subset of a global anchor set (its
// mask), squashes the box center, objectness and class entries, and either
// decodes detections for inference or builds the training gradient against
// ground-truth boxes.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born-yolo/backend/cpu"
//	    "github.com/born-ml/born-yolo/box"
//	    "github.com/born-ml/born-yolo/yolo"
//	)
//
//	func main() {
//	    cfg := yolo.DefaultConfig(1, 13, 13, 3, 9, 80)
//	    cfg.Mask = []int{6, 7, 8}
//	    cfg.Anchors = []float32{10, 13, 16, 30, 33, 23, 30, 61, 62, 45, 59, 119, 116, 90, 156, 198, 373, 326}
//
//	    layer, err := yolo.New(cfg, cpu.New())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    if err := layer.Forward(yolo.State{Input: activation, NetW: 416, NetH: 416}); err != nil {
//	        log.Fatal(err)
//	    }
//	    dets := box.NewDetections(layer.NumDetections(0.5), 80)
//	    n := layer.Detections(640, 480, 416, 416, 0.5, nil, true, dets)
//	    dets = dets[:box.NMSSort(dets[:n], 80, 0.45)]
//	}
//
// # Training
//
// With State.Train set, Forward also fills the gradient buffer and the
// loss. Backward adds that gradient into the upstream layer's buffer.
package yolo
