// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package box provides bounding boxes, detections and non-maximum
// suppression for detection heads.
package box

import "github.com/born-ml/born-yolo/internal/box"

// Box is a bounding box given by its center and size.
type Box = box.Box

// Detection is one decoded prediction.
type Detection = box.Detection

// FromSlice reads a box from four consecutive values x, y, w, h.
func FromSlice(f []float32) Box {
	return box.FromSlice(f)
}

// NewDetections allocates n detections with room for classes
// probabilities each.
func NewDetections(n, classes int) []Detection {
	return box.NewDetections(n, classes)
}

// NMSSort applies per-class non-maximum suppression in place and returns
// how many detections remain at the head of dets.
func NMSSort(dets []Detection, classes int, thresh float32) int {
	return box.NMSSort(dets, classes, thresh)
}

// SortByObjectness orders detections by descending objectness.
func SortByObjectness(dets []Detection) {
	box.SortByObjectness(dets)
}
