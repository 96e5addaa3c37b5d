// Package config reads detection head descriptions from TOML files.
//
// A file has a [net] table with the network input geometry and a [yolo]
// table with the head itself:
//
//	[net]
//	width = 416
//	height = 416
//
//	[yolo]
//	mask = [6, 7, 8]
//	anchors = [10,13, 16,30, 33,23, 30,61, 62,45, 59,119, 116,90, 156,198, 373,326]
//	classes = 80
//	grid_width = 13
//	grid_height = 13
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/born-ml/born-yolo/internal/yolo"
)

// ErrInvalid is returned for files that decode but do not describe a
// usable detection head.
var ErrInvalid = errors.New("config: invalid")

// Net is the [net] table.
type Net struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Batch  int `toml:"batch"`
}

// Head is the [yolo] table.
type Head struct {
	Mask         []int     `toml:"mask"`
	Anchors      []float32 `toml:"anchors"`
	Classes      int       `toml:"classes"`
	Num          int       `toml:"num"`
	IgnoreThresh float32   `toml:"ignore_thresh"`
	TruthThresh  float32   `toml:"truth_thresh"`
	MaxBoxes     int       `toml:"max_boxes"`
	Map          []int     `toml:"map"`
	GridWidth    int       `toml:"grid_width"`
	GridHeight   int       `toml:"grid_height"`
	OnlyForward  bool      `toml:"onlyforward"`
}

// File is a decoded configuration file with defaults applied.
type File struct {
	Net  Net  `toml:"net"`
	Yolo Head `toml:"yolo"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a TOML document, fills in defaults and validates it.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	if !md.IsDefined("yolo", "ignore_thresh") {
		f.Yolo.IgnoreThresh = yolo.DefaultIgnoreThresh
	}
	if !md.IsDefined("yolo", "truth_thresh") {
		f.Yolo.TruthThresh = yolo.DefaultTruthThresh
	}
	f.applyDefaults()

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// applyDefaults fills the values darknet-style configs usually leave out.
func (f *File) applyDefaults() {
	if f.Net.Batch == 0 {
		f.Net.Batch = 1
	}
	if f.Yolo.Num == 0 {
		f.Yolo.Num = len(f.Yolo.Anchors) / 2
	}
	if f.Yolo.MaxBoxes == 0 {
		f.Yolo.MaxBoxes = yolo.DefaultMaxBoxes
	}
	// A head without an explicit grid sits at stride 32.
	if f.Yolo.GridWidth == 0 {
		f.Yolo.GridWidth = f.Net.Width / 32
	}
	if f.Yolo.GridHeight == 0 {
		f.Yolo.GridHeight = f.Net.Height / 32
	}
}

func (f *File) validate() error {
	y := f.Yolo
	switch {
	case f.Net.Width <= 0 || f.Net.Height <= 0:
		return fmt.Errorf("%w: net size %dx%d", ErrInvalid, f.Net.Width, f.Net.Height)
	case len(y.Anchors)%2 != 0:
		return fmt.Errorf("%w: odd number of anchor values (%d)", ErrInvalid, len(y.Anchors))
	case y.Num <= 0:
		return fmt.Errorf("%w: no anchors", ErrInvalid)
	case len(y.Anchors) != 0 && len(y.Anchors) != 2*y.Num:
		return fmt.Errorf("%w: num=%d but %d anchor values", ErrInvalid, y.Num, len(y.Anchors))
	case y.Classes <= 0:
		return fmt.Errorf("%w: classes %d", ErrInvalid, y.Classes)
	}
	for i, m := range y.Mask {
		if m < 0 || m >= y.Num {
			return fmt.Errorf("%w: mask[%d]=%d outside [0, %d)", ErrInvalid, i, m, y.Num)
		}
	}
	return nil
}

// LayerConfig builds the layer configuration the file describes. The
// logger is left unset.
func (f *File) LayerConfig() yolo.Config {
	y := f.Yolo
	n := len(y.Mask)
	if n == 0 {
		n = y.Num
	}

	cfg := yolo.DefaultConfig(f.Net.Batch, y.GridWidth, y.GridHeight, n, y.Num, y.Classes)
	if len(y.Mask) > 0 {
		cfg.Mask = y.Mask
	}
	if len(y.Anchors) > 0 {
		cfg.Anchors = y.Anchors
	}
	cfg.IgnoreThresh = y.IgnoreThresh
	cfg.TruthThresh = y.TruthThresh
	cfg.MaxBoxes = y.MaxBoxes
	cfg.ClassMap = y.Map
	cfg.OnlyForward = y.OnlyForward
	return cfg
}
