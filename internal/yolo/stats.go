package yolo

import "github.com/sirupsen/logrus"

// Stats summarizes how well the predictions of one training pass matched
// the ground truth assigned to this layer.
type Stats struct {
	AvgIoU   float32 `json:"avg_iou"`  // mean IoU of assigned predictions with their truth
	AvgCat   float32 `json:"class"`    // mean predicted score of the true class
	AvgObj   float32 `json:"obj"`      // mean objectness at assigned locations
	AvgNoObj float32 `json:"no_obj"`   // mean objectness over every location
	Recall50 float32 `json:"recall50"` // share of assigned predictions with IoU > .5
	Recall75 float32 `json:"recall75"` // share of assigned predictions with IoU > .75
	Count    int     `json:"count"`    // truths assigned to this layer
}

type statsAccumulator struct {
	avgIoU     float32
	recall     float32
	recall75   float32
	avgCat     float32
	avgObj     float32
	avgAnyObj  float32
	count      int
	classCount int
}

// stats averages the accumulated sums. Averages over zero matches are 0.
func (a *statsAccumulator) stats(locations int) Stats {
	s := Stats{Count: a.count}
	if a.count > 0 {
		n := float32(a.count)
		s.AvgIoU = a.avgIoU / n
		s.AvgObj = a.avgObj / n
		s.Recall50 = a.recall / n
		s.Recall75 = a.recall75 / n
	}
	if a.classCount > 0 {
		s.AvgCat = a.avgCat / float32(a.classCount)
	}
	if locations > 0 {
		s.AvgNoObj = a.avgAnyObj / float32(locations)
	}
	return s
}

func (l *Layer) logStats(region int) {
	l.log.WithFields(logrus.Fields{
		"region":   region,
		"avg_iou":  l.stats.AvgIoU,
		"class":    l.stats.AvgCat,
		"obj":      l.stats.AvgObj,
		"no_obj":   l.stats.AvgNoObj,
		"recall50": l.stats.Recall50,
		"recall75": l.stats.Recall75,
		"count":    l.stats.Count,
		"cost":     l.cost,
	}).Info("yolo region")
}
