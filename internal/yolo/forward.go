package yolo

import (
	"fmt"

	"github.com/born-ml/born-yolo/internal/box"
)

// State is what the surrounding network hands the layer for one pass.
type State struct {
	// Input is the upstream activation, Batch*Outputs values.
	Input []float32
	// Truth holds MaxBoxes (x, y, w, h, class) records per batch item;
	// a record with x == 0 ends the list for its image. Only read when
	// training.
	Truth []float32
	// NetW, NetH are the network input resolution the priors refer to.
	NetW, NetH int
	Train      bool
	// Index is the position of the layer in its network; it only labels
	// log entries.
	Index int
}

// Forward copies the input into the output buffer, squashes the x, y,
// objectness and class planes, and when training builds the gradient and
// loss against state.Truth.
func (l *Layer) Forward(state State) error {
	total := l.cfg.Batch * l.Outputs()
	if len(state.Input) != total {
		return fmt.Errorf("%w: got %d values, want %d", ErrInputSize, len(state.Input), total)
	}

	output := l.output.Data()
	copy(output, state.Input)
	l.flipped = false
	if err := l.backend.Logistic(output, l.spans); err != nil {
		return fmt.Errorf("yolo: activation on %s: %w", l.backend.Name(), err)
	}

	l.delta.Zero()
	if !state.Train || l.cfg.OnlyForward {
		return nil
	}

	if want := l.cfg.Batch * l.cfg.Truths(); len(state.Truth) < want {
		return fmt.Errorf("%w: got %d values, want %d", ErrTruthSize, len(state.Truth), want)
	}

	var acc statsAccumulator
	g := l.grid(state.NetW, state.NetH)
	for b := 0; b < l.cfg.Batch; b++ {
		l.assignBackground(b, state.Truth, g, &acc)
		l.assignTruths(b, state.Truth, g, &acc)
	}

	delta := l.delta.Data()
	l.cost = l.backend.Dot(delta, delta)
	l.stats = acc.stats(l.cfg.Width * l.cfg.Height * l.cfg.N * l.cfg.Batch)
	l.logStats(state.Index)
	return nil
}

// truthAt returns the t-th ground-truth box of batch item b and whether it
// is present.
func (l *Layer) truthAt(truth []float32, b, t int) (box.Box, bool) {
	off := b*l.cfg.Truths() + t*5
	tb := box.FromSlice(truth[off : off+4])
	return tb, tb.X != 0
}

func (l *Layer) truthClass(truth []float32, b, t int) int {
	class := int(truth[b*l.cfg.Truths()+t*5+4])
	if l.cfg.ClassMap != nil {
		class = l.cfg.ClassMap[class]
	}
	return class
}

// assignBackground visits every cell and anchor of batch item b and pushes
// its objectness towards zero unless the prediction already overlaps some
// truth by more than IgnoreThresh. Above TruthThresh the prediction is
// trained as a full positive for the truth it overlaps most.
func (l *Layer) assignBackground(b int, truth []float32, g grid, acc *statsAccumulator) {
	output := l.output.Data()
	delta := l.delta.Data()
	wh := g.w * g.h

	for j := 0; j < g.h; j++ {
		for i := 0; i < g.w; i++ {
			for n := 0; n < l.cfg.N; n++ {
				loc := n*wh + j*g.w + i
				boxIndex := l.entryIndex(b, loc, 0)
				pred := decodeBox(output, l.cfg.Anchors, l.cfg.Mask[n], boxIndex, i, j, g)

				var bestIoU float32
				bestT := 0
				for t := 0; t < l.cfg.MaxBoxes; t++ {
					tb, ok := l.truthAt(truth, b, t)
					if !ok {
						break
					}
					if iou := pred.IoU(tb); iou > bestIoU {
						bestIoU = iou
						bestT = t
					}
				}

				objIndex := l.entryIndex(b, loc, 4)
				acc.avgAnyObj += output[objIndex]
				delta[objIndex] = 0 - output[objIndex]
				if bestIoU > l.cfg.IgnoreThresh {
					delta[objIndex] = 0
				}
				// Unreachable while TruthThresh >= 1.
				if bestIoU > l.cfg.TruthThresh {
					delta[objIndex] = 1 - output[objIndex]

					class := l.truthClass(truth, b, bestT)
					classIndex := l.entryIndex(b, loc, 5)
					classGradient(output, delta, classIndex, class, l.cfg.Classes, wh, nil)

					tb, _ := l.truthAt(truth, b, bestT)
					encodeBoxGradient(tb, output, l.cfg.Anchors, l.cfg.Mask[n], boxIndex, i, j, g, delta, boxScale(tb))
				}
			}
		}
	}
}

// assignTruths makes every ground-truth box of batch item b a positive for
// the cell containing its center and its best matching prior, provided this
// layer owns that prior. It overwrites whatever assignBackground wrote
// there.
func (l *Layer) assignTruths(b int, truth []float32, g grid, acc *statsAccumulator) {
	output := l.output.Data()
	delta := l.delta.Data()
	wh := g.w * g.h

	for t := 0; t < l.cfg.MaxBoxes; t++ {
		tb, ok := l.truthAt(truth, b, t)
		if !ok {
			break
		}

		// A center on the far edge belongs to the last cell.
		i := min(int(tb.X*float32(g.w)), g.w-1)
		j := min(int(tb.Y*float32(g.h)), g.h-1)

		bestN := l.bestPrior(tb, g)
		maskN := l.maskIndex(bestN)
		if maskN < 0 {
			continue
		}

		loc := maskN*wh + j*g.w + i
		boxIndex := l.entryIndex(b, loc, 0)
		iou := encodeBoxGradient(tb, output, l.cfg.Anchors, bestN, boxIndex, i, j, g, delta, boxScale(tb))

		objIndex := l.entryIndex(b, loc, 4)
		acc.avgObj += output[objIndex]
		delta[objIndex] = 1 - output[objIndex]

		class := l.truthClass(truth, b, t)
		classIndex := l.entryIndex(b, loc, 5)
		classGradient(output, delta, classIndex, class, l.cfg.Classes, wh, &acc.avgCat)

		acc.count++
		acc.classCount++
		if iou > .5 {
			acc.recall++
		}
		if iou > .75 {
			acc.recall75++
		}
		acc.avgIoU += iou
	}
}

// bestPrior returns the index into all Total priors whose shape overlaps
// the truth's shape most, both boxes centered on the origin.
func (l *Layer) bestPrior(truth box.Box, g grid) int {
	shape := box.Box{W: truth.W, H: truth.H}

	var bestIoU float32
	bestN := 0
	for n := 0; n < l.cfg.Total; n++ {
		prior := box.Box{
			W: l.cfg.Anchors[2*n] / float32(g.netW),
			H: l.cfg.Anchors[2*n+1] / float32(g.netH),
		}
		if iou := prior.IoU(shape); iou > bestIoU {
			bestIoU = iou
			bestN = n
		}
	}
	return bestN
}

// maskIndex returns the local anchor slot of global prior n, or -1 when
// this layer does not own it.
func (l *Layer) maskIndex(n int) int {
	for i, m := range l.cfg.Mask {
		if m == n {
			return i
		}
	}
	return -1
}
