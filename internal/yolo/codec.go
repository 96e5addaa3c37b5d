package yolo

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/born-yolo/internal/box"
)

// grid is the geometry shared by the box codec: the layer's grid size, the
// network input resolution the priors are expressed in, and the distance
// between consecutive entry planes.
type grid struct {
	w, h       int
	netW, netH int
	stride     int
}

func (l *Layer) grid(netW, netH int) grid {
	return grid{
		w:      l.cfg.Width,
		h:      l.cfg.Height,
		netW:   netW,
		netH:   netH,
		stride: l.cfg.Width * l.cfg.Height,
	}
}

// decodeBox turns the four box entries at index into a box normalized to
// the network input. x and y must already be squashed; w and h are log-scale
// multipliers of prior anchor.
func decodeBox(x, anchors []float32, anchor, index, col, row int, g grid) box.Box {
	return box.Box{
		X: (float32(col) + x[index+0*g.stride]) / float32(g.w),
		Y: (float32(row) + x[index+1*g.stride]) / float32(g.h),
		W: math32.Exp(x[index+2*g.stride]) * anchors[2*anchor] / float32(g.netW),
		H: math32.Exp(x[index+3*g.stride]) * anchors[2*anchor+1] / float32(g.netH),
	}
}

// encodeBoxGradient writes scale*(target-prediction) for the four box
// entries at index, where target is truth expressed in the network encoding
// for cell (col, row) and prior anchor. Returns the IoU of the current
// prediction with truth.
func encodeBoxGradient(truth box.Box, x, anchors []float32, anchor, index, col, row int, g grid, delta []float32, scale float32) float32 {
	pred := decodeBox(x, anchors, anchor, index, col, row, g)
	iou := pred.IoU(truth)

	tx := truth.X*float32(g.w) - float32(col)
	ty := truth.Y*float32(g.h) - float32(row)
	tw := math32.Log(truth.W * float32(g.netW) / anchors[2*anchor])
	th := math32.Log(truth.H * float32(g.netH) / anchors[2*anchor+1])

	delta[index+0*g.stride] = scale * (tx - x[index+0*g.stride])
	delta[index+1*g.stride] = scale * (ty - x[index+1*g.stride])
	delta[index+2*g.stride] = scale * (tw - x[index+2*g.stride])
	delta[index+3*g.stride] = scale * (th - x[index+3*g.stride])
	return iou
}

// boxScale weights the box gradient up for small objects.
func boxScale(truth box.Box) float32 {
	return 2 - truth.W*truth.H
}

// classGradient writes the classification target for class at the class
// planes starting at index. A location that already carries a class target
// from an earlier truth only gets class switched on; otherwise every class
// plane receives its one-hot target. avgCat, when non-nil, accumulates the
// predicted score of class.
func classGradient(output, delta []float32, index, class, classes, stride int, avgCat *float32) {
	if delta[index] != 0 {
		delta[index+stride*class] = 1 - output[index+stride*class]
		if avgCat != nil {
			*avgCat += output[index+stride*class]
		}
		return
	}
	for n := 0; n < classes; n++ {
		var target float32
		if n == class {
			target = 1
		}
		delta[index+stride*n] = target - output[index+stride*n]
		if n == class && avgCat != nil {
			*avgCat += output[index+stride*n]
		}
	}
}
