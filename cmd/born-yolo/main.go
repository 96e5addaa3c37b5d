// Package main provides the born-yolo CLI: it runs a detection head over
// activation dumps and prints detections or training statistics.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/born-yolo/internal/backend/cpu"
	"github.com/born-ml/born-yolo/internal/backend/webgpu"
	"github.com/born-ml/born-yolo/internal/box"
	"github.com/born-ml/born-yolo/internal/config"
	"github.com/born-ml/born-yolo/internal/loader"
	"github.com/born-ml/born-yolo/internal/parallel"
	"github.com/born-ml/born-yolo/internal/tensor"
	"github.com/born-ml/born-yolo/internal/yolo"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "born-yolo:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "born-yolo %s\n", version)
		return nil
	case "detect":
		return runDetect(args[1:], stdout, stderr)
	case "loss":
		return runLoss(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "born-yolo - YOLO detection head for Born")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  detect     Decode detections from an activation dump")
	fmt.Fprintln(w, "  loss       Run one training pass against a truth dump")
}

// common holds the flags every layer command takes.
type common struct {
	config  string
	input   string
	gpu     bool
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "detection head TOML file")
	fs.StringVar(&c.input, "input", "", "SafeTensors dump holding the \"input\" activation")
	fs.BoolVar(&c.gpu, "gpu", false, "run kernels on WebGPU, falling back to CPU")
	fs.BoolVar(&c.verbose, "verbose", false, "debug logging")
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newBackend picks WebGPU when asked for and available, the parallel CPU
// backend otherwise. The returned func releases device resources.
func newBackend(gpu bool, log logrus.FieldLogger) (tensor.Backend, func()) {
	if gpu {
		b, err := webgpu.New()
		if err == nil {
			log.WithField("backend", b.Name()).Debug("using GPU backend")
			return b, b.Release
		}
		log.WithError(err).Warn("WebGPU unavailable, using CPU")
	}
	return cpu.NewParallel(parallel.DefaultConfig()), func() {}
}

// setup loads the configuration and the input activation and builds the
// layer.
func (c *common) setup(log *logrus.Logger) (*yolo.Layer, []float32, *config.File, func(), error) {
	if c.config == "" || c.input == "" {
		return nil, nil, nil, nil, errors.New("-config and -input are required")
	}

	file, err := config.Load(c.config)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tensors, err := loader.ReadTensors(c.input)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	input, ok := tensors["input"]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("%s: %w: input", c.input, loader.ErrNotFound)
	}

	backend, release := newBackend(c.gpu, log)
	cfg := file.LayerConfig()
	cfg.Logger = log
	layer, err := yolo.New(cfg, backend)
	if err != nil {
		release()
		return nil, nil, nil, nil, err
	}
	return layer, input.Data(), file, release, nil
}

// jsonDetection is one line of detect output.
type jsonDetection struct {
	Class      int     `json:"class"`
	Prob       float32 `json:"prob"`
	Objectness float32 `json:"objectness"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Width      float32 `json:"width"`
	Height     float32 `json:"height"`
}

func runDetect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	image := fs.String("image", "", "original image size WxH (default: network size)")
	thresh := fs.Float64("thresh", 0.5, "objectness threshold")
	nms := fs.Float64("nms", 0.45, "NMS IoU threshold, 0 disables")
	relative := fs.Bool("relative", false, "report boxes relative to the image")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	log := newLogger(stderr, c.verbose)
	layer, input, file, release, err := c.setup(log)
	if err != nil {
		return err
	}
	defer release()

	imgW, imgH := file.Net.Width, file.Net.Height
	if *image != "" {
		if _, err := fmt.Sscanf(*image, "%dx%d", &imgW, &imgH); err != nil || imgW <= 0 || imgH <= 0 {
			return fmt.Errorf("-image %q: want WxH", *image)
		}
	}

	if err := layer.Forward(yolo.State{Input: input, NetW: file.Net.Width, NetH: file.Net.Height}); err != nil {
		return err
	}

	th := float32(*thresh)
	classes := layer.Config().Classes
	dets := box.NewDetections(layer.NumDetections(th), classes)
	n := layer.Detections(imgW, imgH, file.Net.Width, file.Net.Height, th, nil, *relative, dets)
	dets = dets[:n]
	if *nms > 0 {
		dets = dets[:box.NMSSort(dets, classes, float32(*nms))]
	}
	box.SortByObjectness(dets)

	out := make([]jsonDetection, 0, len(dets))
	for _, d := range dets {
		class, prob := d.Best()
		if class < 0 {
			continue
		}
		out = append(out, jsonDetection{
			Class:      class,
			Prob:       prob,
			Objectness: d.Objectness,
			X:          d.BBox.X,
			Y:          d.BBox.Y,
			Width:      d.BBox.W,
			Height:     d.BBox.H,
		})
	}
	log.WithField("detections", len(out)).Debug("decoded")

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// jsonLoss is the loss command output.
type jsonLoss struct {
	Cost  float32    `json:"cost"`
	Stats yolo.Stats `json:"stats"`
}

func runLoss(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("loss", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	truthPath := fs.String("truth", "", "SafeTensors dump holding \"truth\" (default: -input)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *truthPath == "" {
		*truthPath = c.input
	}

	log := newLogger(stderr, c.verbose)
	layer, input, file, release, err := c.setup(log)
	if err != nil {
		return err
	}
	defer release()

	tensors, err := loader.ReadTensors(*truthPath)
	if err != nil {
		return err
	}
	truth, ok := tensors["truth"]
	if !ok {
		return fmt.Errorf("%s: %w: truth", *truthPath, loader.ErrNotFound)
	}

	state := yolo.State{
		Input: input,
		Truth: truth.Data(),
		NetW:  file.Net.Width,
		NetH:  file.Net.Height,
		Train: true,
	}
	if err := layer.Forward(state); err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonLoss{Cost: layer.Cost(), Stats: layer.Stats()})
}
