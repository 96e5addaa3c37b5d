package box

import "sort"

// Detection is one decoded prediction of a detection head.
type Detection struct {
	BBox       Box
	Objectness float32
	// Prob holds objectness*class score per class, zero below the
	// decode threshold.
	Prob []float32
}

// NewDetections allocates n detections with a probability vector of length
// classes each.
func NewDetections(n, classes int) []Detection {
	dets := make([]Detection, n)
	for i := range dets {
		dets[i].Prob = make([]float32, classes)
	}
	return dets
}

// Best returns the class with the highest probability and that probability.
// Returns -1 when every probability is zero.
func (d Detection) Best() (class int, prob float32) {
	class = -1
	for j, p := range d.Prob {
		if p > prob {
			class, prob = j, p
		}
	}
	return class, prob
}

// NMSSort applies per-class non-maximum suppression in place.
//
// Detections with zero objectness are moved to the tail and ignored. For
// each class the remaining detections are ordered by that class's
// probability and every lower-ranked detection overlapping a kept one by
// more than thresh loses its probability for that class. Returns the number
// of detections with nonzero objectness, which occupy the head of dets.
func NMSSort(dets []Detection, classes int, thresh float32) int {
	total := len(dets) - 1
	for i := 0; i <= total; i++ {
		if dets[i].Objectness == 0 {
			dets[i], dets[total] = dets[total], dets[i]
			total--
			i--
		}
	}
	total++

	live := dets[:total]
	for k := 0; k < classes; k++ {
		sort.SliceStable(live, func(i, j int) bool {
			return live[i].Prob[k] > live[j].Prob[k]
		})
		for i := range live {
			if live[i].Prob[k] == 0 {
				continue
			}
			a := live[i].BBox
			for j := i + 1; j < len(live); j++ {
				if a.IoU(live[j].BBox) > thresh {
					live[j].Prob[k] = 0
				}
			}
		}
	}
	return total
}

// SortByObjectness orders detections by descending objectness.
func SortByObjectness(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Objectness > dets[j].Objectness
	})
}
