// Package loader reads and writes activation dumps in SafeTensors format.
//
// Dumps carry the float32 buffers a detection head consumes: the upstream
// activation ("input") and, for training, the packed ground truth
// ("truth"). Only F32 tensors are supported.
//
// Example:
//
//	tensors, err := loader.ReadTensors("batch.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	input := tensors["input"].Data()
package loader
