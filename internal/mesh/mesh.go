// Package mesh decodes the generated height-map and building JSON into flat
// vertex buffers ready for upload.
package mesh

import (
	"encoding/json"
	"fmt"
)

// Vertex layout of the uploaded buffers.
const (
	PositionStride   = 4 // x, y, z, w
	NormalStride     = 3 // x, y, z
	BuildingVertices = 36
)

// Buffers holds the flattened mesh data for one view. It is not modified
// after Load returns.
type Buffers struct {
	Positions       []float32 // terrain, stride 4
	Normals         []float32 // terrain, stride 3, one per position
	Buildings       []float32 // BuildingCount*36 vertices, stride 4
	BuildingNormals []float32 // BuildingCount*36 normals, stride 3
	BuildingCount   int
}

// VertexCount returns the number of terrain vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / PositionStride
}

// BuildingVertexCount returns the number of building vertices across all instances.
func (b *Buffers) BuildingVertexCount() int {
	return b.BuildingCount * BuildingVertices
}

// Flatten copies exactly stride components of every vector into one slice.
// Short vectors are zero padded and long ones truncated.
func Flatten(vecs [][]float32, stride int) []float32 {
	out := make([]float32, len(vecs)*stride)
	for i, v := range vecs {
		copy(out[i*stride:(i+1)*stride], v)
	}
	return out
}

// FlattenInstances flattens per-instance vertex lists, forcing each instance
// to exactly perInstance vectors so instance i starts at vertex i*perInstance.
func FlattenInstances(instances [][][]float32, perInstance, stride int) []float32 {
	out := make([]float32, 0, len(instances)*perInstance*stride)
	for _, inst := range instances {
		if len(inst) > perInstance {
			inst = inst[:perInstance]
		}
		out = append(out, Flatten(inst, stride)...)
		out = append(out, make([]float32, (perInstance-len(inst))*stride)...)
	}
	return out
}

// fit resizes a flat buffer to n floats, zero padding at the end.
func fit(buf []float32, n int) []float32 {
	if len(buf) >= n {
		return buf[:n]
	}
	return append(buf, make([]float32, n-len(buf))...)
}

// field decodes the first of keys present in a JSON object into v.
func field(data []byte, v any, keys ...string) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, k := range keys {
		if raw, ok := doc[k]; ok {
			return json.Unmarshal(raw, v)
		}
	}
	return fmt.Errorf("missing field %q", keys[0])
}

// DecodeVectors reads {key: [[x, y, z, ...], ...]}.
func DecodeVectors(data []byte, stride int, keys ...string) ([]float32, error) {
	var vecs [][]float32
	if err := field(data, &vecs, keys...); err != nil {
		return nil, err
	}
	return Flatten(vecs, stride), nil
}

// DecodeInstances reads {key: [[[x, y, z, ...] x 36], ...]} and returns the
// flat buffer and the number of instances.
func DecodeInstances(data []byte, stride int, keys ...string) ([]float32, int, error) {
	var instances [][][]float32
	if err := field(data, &instances, keys...); err != nil {
		return nil, 0, err
	}
	return FlattenInstances(instances, BuildingVertices, stride), len(instances), nil
}
