package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/cornell/pkg/geometry"
	"github.com/taigrr/cornell/pkg/math3d"
)

// ErrExternalBuffer is returned for glTF buffers stored outside the file.
var ErrExternalBuffer = errors.New("external buffers not supported")

// LoadGLB loads a glTF or binary glTF (.glb) file as a scene with one object
// per mesh.
func LoadGLB(path string) (*geometry.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	scene, err := FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// FromDocument converts every mesh of a decoded glTF document into an
// object, fitting the whole model into [-1, 1]³. Meshes without triangles
// are skipped; a document with none is an empty scene.
func FromDocument(doc *gltf.Document, name string) (*geometry.Scene, error) {
	materials := readMaterials(doc)

	var meshes []*Mesh
	for i, m := range doc.Meshes {
		meshName := m.Name
		if meshName == "" {
			meshName = fmt.Sprintf("%s#%d", name, i)
		}
		mesh := NewMesh(meshName)
		mesh.Materials = materials
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", meshName, err)
		}
		if mesh.TriangleCount() > 0 {
			meshes = append(meshes, mesh)
		}
	}

	FitMeshes(meshes)

	objects := make([]geometry.Object, 0, len(meshes))
	for _, m := range meshes {
		obj, err := m.ToObject()
		if errors.Is(err, geometry.ErrEmptyObject) {
			continue
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return geometry.NewScene(objects...)
}

// readMaterials extracts base colors; materials without a PBR block use
// DefaultColor.
func readMaterials(doc *gltf.Document) []Material {
	out := make([]Material, len(doc.Materials))
	for i, m := range doc.Materials {
		c := DefaultColor
		out[i] = Material{Name: m.Name, BaseColor: [4]float64{c.X, c.Y, c.Z, 1}}
		if m.PBRMetallicRoughness != nil && m.PBRMetallicRoughness.BaseColorFactor != nil {
			out[i].BaseColor = *m.PBRMetallicRoughness.BaseColorFactor
		}
	}
	return out
}

// processMesh extracts geometry from a GLTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		// Base vertex index for this primitive
		baseVertex := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// glTF front faces wind counter-clockwise; the tracer derives its
		// normal from the opposite winding, so swap the last two vertices.
		for i := 0; i+2 < len(indices); i += 3 {
			face := [3]int{indices[i], indices[i+2], indices[i+1]}
			for _, v := range face {
				if v < 0 || v >= len(positions) {
					return fmt.Errorf("index %d out of range (%d vertices)", v, len(positions))
				}
			}
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{baseVertex + face[0], baseVertex + face[1], baseVertex + face[2]},
				Material: material,
			})
		}
	}

	mesh.CalculateBounds()
	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" && buffer.Data == nil {
		return nil, fmt.Errorf("buffer %q: %w", buffer.URI, ErrExternalBuffer)
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if accessor.ComponentType != gltf.ComponentFloat {
			break
		}
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if err := checkRange(len(bufData), start, stride, count, 12); err != nil {
			return nil, err
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		var size int
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		default:
			return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
		}
		if stride == 0 {
			stride = size
		}
		if err := checkRange(len(bufData), start, stride, count, size); err != nil {
			return nil, err
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		default:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// checkRange verifies that count elements of elemSize bytes fit in the buffer.
func checkRange(bufLen, start, stride, count, elemSize int) error {
	if count == 0 {
		return nil
	}
	if end := start + (count-1)*stride + elemSize; start < 0 || end > bufLen {
		return fmt.Errorf("accessor reads bytes [%d, %d) of a %d byte buffer", start, end, bufLen)
	}
	return nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
