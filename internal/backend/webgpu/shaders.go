//go:build windows

package webgpu

// workgroupSize is the number of threads per workgroup in every shader below.
const workgroupSize = 256

// spanSigmoidShader applies sigmoid in place to data[offset : offset+size].
const spanSigmoidShader = `
@group(0) @binding(0) var<storage, read_write> data: array<f32>;

struct Params {
    offset: u32,
    size: u32,
}
@group(0) @binding(1) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i < params.size) {
        let idx = params.offset + i;
        data[idx] = 1.0 / (1.0 + exp(-data[idx]));
    }
}
`

// axpyShader accumulates y = y + alpha * x.
const axpyShader = `
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> y: array<f32>;

struct Params {
    size: u32,
    alpha: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        y[idx] = y[idx] + params.alpha * x[idx];
    }
}
`
