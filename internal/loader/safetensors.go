package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/born-yolo/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// SafeTensorsDType represents a SafeTensors data type.
type SafeTensorsDType string

// SafeTensorsF32 is the only dtype dumps use.
const SafeTensorsF32 SafeTensorsDType = "F32"

const maxHeaderSize = 100 * 1024 * 1024

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits the flat header object into metadata and tensors.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// MarshalJSON writes the flat header object.
func (h SafeTensorsHeader) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		flat["__metadata__"] = h.Metadata
	}
	for name, info := range h.Tensors {
		flat[name] = info
	}
	return json.Marshal(flat)
}

// SafeTensorsReader reads a SafeTensors dump. The data section is read
// into memory on open and its checksum verified when the header has one.
type SafeTensorsReader struct {
	header SafeTensorsHeader
	data   []byte
}

// NewSafeTensorsReader opens and reads the dump at path.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: dump paths come from the command line.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ReadSafeTensors(file)
}

// ReadSafeTensors reads a whole dump from r.
func ReadSafeTensors(r io.Reader) (*SafeTensorsReader, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := validateChecksum(data, header.Metadata[checksumKey]); err != nil {
		return nil, err
	}

	return &SafeTensorsReader{header: header, data: data}, nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the tensor names in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return &info, nil
}

// LoadTensor decodes the named tensor.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if info.DType != SafeTensorsF32 {
		return nil, fmt.Errorf("%w: tensor %s is %s", ErrUnsupportedDType, name, info.DType)
	}

	shape := tensor.Shape(info.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	if start < 0 || end < start || end > int64(len(r.data)) {
		return nil, fmt.Errorf("%w: tensor %s at [%d, %d), data has %d bytes",
			ErrOutOfBounds, name, start, end, len(r.data))
	}
	if want := int64(shape.NumElements()) * 4; end-start != want {
		return nil, fmt.Errorf("tensor %s: %d bytes for shape %v, want %d", name, end-start, shape, want)
	}

	raw, err := tensor.NewRaw(shape, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	values := raw.Data()
	buf := r.data[start:end]
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return raw, nil
}

// ReadTensors loads every tensor of the dump at path.
func ReadTensors(path string) (map[string]*tensor.RawTensor, error) {
	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tensors := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		t, err := r.LoadTensor(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tensors[name] = t
	}
	return tensors, nil
}

// WriteTensors writes tensors to path in alphabetical order, together with
// metadata and a checksum of the data section.
func WriteTensors(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	//nolint:gosec // G304: dump paths come from the command line.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteSafeTensors(file, tensors, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteSafeTensors encodes tensors to w.
func WriteSafeTensors(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := SafeTensorsHeader{
		Metadata: make(map[string]string, len(metadata)+1),
		Tensors:  make(map[string]SafeTensorInfo, len(tensors)),
	}
	for k, v := range metadata {
		header.Metadata[k] = v
	}

	var data []byte
	for _, name := range names {
		raw := tensors[name]
		start := int64(len(data))
		for _, v := range raw.Data() {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
		}
		header.Tensors[name] = SafeTensorInfo{
			DType:       SafeTensorsF32,
			Shape:       raw.Shape().Clone(),
			DataOffsets: [2]int64{start, int64(len(data))},
		}
	}
	header.Metadata[checksumKey] = computeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}
