package yolo

import "github.com/born-ml/born-yolo/internal/box"

// NumDetections returns how many (cell, anchor) pairs of the first batch
// item have objectness above thresh. It bounds the number of detections
// Detections can produce with the same thresh.
func (l *Layer) NumDetections(thresh float32) int {
	l.mergeFlipped()

	output := l.output.Data()
	wh := l.cfg.Width * l.cfg.Height

	count := 0
	for i := 0; i < wh; i++ {
		for n := 0; n < l.cfg.N; n++ {
			if output[l.entryIndex(0, n*wh+i, 4)] > thresh {
				count++
			}
		}
	}
	return count
}

// Detections decodes every prediction of the first batch item with
// objectness above thresh into dets and returns how many were written.
//
// Boxes are decoded against the netW x netH network input and then mapped
// back to the imgW x imgH image that was letterboxed into it: normalized to
// the image when relative is set, in image pixels otherwise. Class
// probabilities are objectness*score, zeroed at or below thresh. When
// classMap is non-nil the probability of class j is stored at
// classMap[j]. dets must hold at least NumDetections(thresh) entries, each
// with a Prob vector covering every (mapped) class id.
//
// With a batch of two, the second item is taken to be the horizontally
// flipped image and is averaged into the first before decoding; this
// overwrites the first item of the output buffer once per forward pass.
func (l *Layer) Detections(imgW, imgH, netW, netH int, thresh float32, classMap []int, relative bool, dets []box.Detection) int {
	l.mergeFlipped()

	output := l.output.Data()
	g := l.grid(netW, netH)
	wh := g.stride

	count := 0
	for i := 0; i < wh; i++ {
		row := i / g.w
		col := i % g.w
		for n := 0; n < l.cfg.N; n++ {
			objectness := output[l.entryIndex(0, n*wh+i, 4)]
			if objectness <= thresh {
				continue
			}

			d := &dets[count]
			d.BBox = decodeBox(output, l.cfg.Anchors, l.cfg.Mask[n], l.entryIndex(0, n*wh+i, 0), col, row, g)
			d.Objectness = objectness
			for j := 0; j < l.cfg.Classes; j++ {
				prob := objectness * output[l.entryIndex(0, n*wh+i, 5+j)]
				if prob <= thresh {
					prob = 0
				}
				k := j
				if classMap != nil {
					k = classMap[j]
				}
				d.Prob[k] = prob
			}
			count++
		}
	}

	correctBoxes(dets[:count], imgW, imgH, netW, netH, relative)
	return count
}

// correctBoxes maps boxes from the network input frame back to the
// original image. The image was scaled to fit inside netW x netH keeping
// its aspect ratio and centered, so the padding is removed and the scale
// undone first.
func correctBoxes(dets []box.Detection, w, h, netW, netH int, relative bool) {
	var newW, newH int
	if float32(netW)/float32(w) < float32(netH)/float32(h) {
		newW = netW
		newH = (h * netW) / w
	} else {
		newH = netH
		newW = (w * netH) / h
	}

	nw, nh := float32(netW), float32(netH)
	for i := range dets {
		b := dets[i].BBox
		b.X = (b.X - float32(netW-newW)/2/nw) / (float32(newW) / nw)
		b.Y = (b.Y - float32(netH-newH)/2/nh) / (float32(newH) / nh)
		b.W *= nw / float32(newW)
		b.H *= nh / float32(newH)
		if !relative {
			b.X *= float32(w)
			b.W *= float32(w)
			b.Y *= float32(h)
			b.H *= float32(h)
		}
		dets[i].BBox = b
	}
}

// mergeFlipped averages a flipped batch of two into its first item, at
// most once between forward passes.
func (l *Layer) mergeFlipped() {
	if l.cfg.Batch != 2 || l.flipped {
		return
	}
	l.averageFlipped()
	l.flipped = true
}

// averageFlipped mirrors the second batch item left to right and averages
// it into the first. Mirroring swaps columns c and w-1-c of every plane and
// negates the x entry at both swapped positions.
func (l *Layer) averageFlipped() {
	output := l.output.Data()
	v := l.view
	outputs := v.PerBatch()

	for j := 0; j < v.Height; j++ {
		for i := 0; i < v.Width/2; i++ {
			for n := 0; n < v.Anchors; n++ {
				for z := 0; z < v.Entries; z++ {
					i1 := v.Offset(1, n, z, j, i)
					i2 := v.Offset(1, n, z, j, v.Width-i-1)
					output[i1], output[i2] = output[i2], output[i1]
					if z == 0 {
						output[i1] = -output[i1]
						output[i2] = -output[i2]
					}
				}
			}
		}
	}

	flip := output[outputs : 2*outputs]
	for i := 0; i < outputs; i++ {
		output[i] = (output[i] + flip[i]) / 2
	}
}
