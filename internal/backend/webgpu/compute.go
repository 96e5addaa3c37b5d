//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/born-yolo/internal/tensor"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer initialized with data.
func (b *Backend) createBuffer(data []float32, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data) * 4) //nolint:gosec // G115: length is non-negative

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*float32)(mappedPtr), len(data))
	copy(mapped, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer rounded up to 16 bytes.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mapped := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mapped, data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies a storage buffer back into dst through a staging buffer.
func (b *Backend) readBuffer(src *wgpu.Buffer, dst []float32) error {
	size := uint64(len(dst) * 4) //nolint:gosec // G115: length is non-negative

	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(dst, unsafe.Slice((*float32)(mappedPtr), len(dst)))
	staging.Unmap()

	return nil
}

func workgroups(n int) uint32 {
	//nolint:gosec // G115: workgroup count is non-negative
	return uint32((n + workgroupSize - 1) / workgroupSize)
}

// Logistic applies the sigmoid in place to every span of data.
// The buffer is uploaded once, every span is dispatched from the same
// command encoder, and the result is read back into data.
func (b *Backend) Logistic(data []float32, spans []tensor.Span) error {
	for _, s := range spans {
		if s.Offset < 0 || s.Len < 0 || s.Offset+s.Len > len(data) {
			return fmt.Errorf("webgpu: logistic span [%d, %d) out of range for buffer of %d", s.Offset, s.Offset+s.Len, len(data))
		}
	}
	if len(data) == 0 || len(spans) == 0 {
		return nil
	}

	pipeline := b.getOrCreatePipeline("span_sigmoid", b.compileShader("span_sigmoid", spanSigmoidShader))
	layout := pipeline.GetBindGroupLayout(0)

	dataSize := uint64(len(data) * 4) //nolint:gosec // G115: length is non-negative
	dataBuffer := b.createBuffer(data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer dataBuffer.Release()

	paramBuffers := make([]*wgpu.Buffer, 0, len(spans))
	bindGroups := make([]*wgpu.BindGroup, 0, len(spans))
	encoder := b.device.CreateCommandEncoder(nil)
	for _, s := range spans {
		if s.Len == 0 {
			continue
		}
		params := make([]byte, 16)
		binary.LittleEndian.PutUint32(params[0:4], uint32(s.Offset)) //nolint:gosec // G115: checked above
		binary.LittleEndian.PutUint32(params[4:8], uint32(s.Len))    //nolint:gosec // G115: checked above
		paramBuffer := b.createUniformBuffer(params)
		paramBuffers = append(paramBuffers, paramBuffer)

		bindGroup := b.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
			wgpu.BufferBindingEntry(0, dataBuffer, 0, dataSize),
			wgpu.BufferBindingEntry(1, paramBuffer, 0, 16),
		})
		bindGroups = append(bindGroups, bindGroup)

		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.DispatchWorkgroups(workgroups(s.Len), 1, 1)
		pass.End()
	}
	b.queue.Submit(encoder.Finish(nil))

	// Submitted work keeps its own references.
	for _, g := range bindGroups {
		g.Release()
	}
	for _, p := range paramBuffers {
		p.Release()
	}

	return b.readBuffer(dataBuffer, data)
}

// Axpy computes y += alpha*x on the GPU and writes the result back into y.
func (b *Backend) Axpy(alpha float32, x, y []float32) error {
	if len(x) != len(y) {
		return fmt.Errorf("webgpu: axpy length mismatch %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil
	}

	pipeline := b.getOrCreatePipeline("axpy", b.compileShader("axpy", axpyShader))

	size := uint64(len(x) * 4) //nolint:gosec // G115: length is non-negative
	xBuffer := b.createBuffer(x, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer xBuffer.Release()
	yBuffer := b.createBuffer(y, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer yBuffer.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(len(x))) //nolint:gosec // G115: length is non-negative
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(alpha))
	paramBuffer := b.createUniformBuffer(params)
	defer paramBuffer.Release()

	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, xBuffer, 0, size),
		wgpu.BufferBindingEntry(1, yBuffer, 0, size),
		wgpu.BufferBindingEntry(2, paramBuffer, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workgroups(len(x)), 1, 1)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))

	return b.readBuffer(yBuffer, y)
}

// Dot returns the inner product of x and y. The reduction runs on the host.
func (b *Backend) Dot(x, y []float32) float32 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("webgpu: dot length mismatch %d vs %d", len(x), len(y)))
	}
	if len(x) == 0 {
		return 0
	}
	return blas32.Dot(blas32.Vector{N: len(x), Inc: 1, Data: x}, blas32.Vector{N: len(y), Inc: 1, Data: y})
}
