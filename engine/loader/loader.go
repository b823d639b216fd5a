// Package loader imports static meshes from glTF 2.0 files (.gltf and .glb) into the registry's
// vertex format. Only positions, the first texture coordinate set, indices and the base color
// image are read.
package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
)

var (
	// ErrNoMesh is returned when the document has no mesh at the requested index.
	ErrNoMesh = errors.New("no mesh in document")

	// ErrUnsupportedPrimitive is returned for primitives that are not indexed or plain triangle lists.
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")

	// ErrMissingPositions is returned when a primitive has no POSITION attribute.
	ErrMissingPositions = errors.New("primitive has no POSITION attribute")
)

// MeshData is a mesh read from a glTF document, ready for registry.RegisterMesh.
type MeshData struct {
	Name     string
	Vertices []registry.Vertex
	Indices  []uint32
	// BaseColorImage holds the encoded base color image of the first textured primitive, or nil.
	BaseColorImage []byte
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshIndex int
	cache     map[string]MeshData
}

// Loader imports meshes and caches them by path.
type Loader interface {
	// Load imports the configured mesh of a .gltf or .glb file. Results are cached by path.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - MeshData: the merged primitives of the mesh
	//   - error: error if parsing or conversion fails
	Load(path string) (MeshData, error)

	// LoadReader imports a mesh from a stream and caches it under name.
	// Relative buffer and image URIs are resolved against the directory of name.
	//
	// Parameters:
	//   - name: the cache key for the loaded mesh
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - MeshData: the merged primitives of the mesh
	//   - error: error if parsing or conversion fails
	LoadReader(name string, r io.Reader, isGLB bool) (MeshData, error)

	// Cached returns a previously loaded mesh.
	Cached(key string) (MeshData, bool)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with an empty cache that reads the first mesh of each document.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{cache: make(map[string]MeshData)}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Cached(key string) (MeshData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.cache[key]
	return m, ok
}

func (l *loader) Load(path string) (MeshData, error) {
	if m, ok := l.Cached(path); ok {
		return m, nil
	}

	p, err := parseFile(path)
	if err != nil {
		return MeshData{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return l.store(path, p)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (MeshData, error) {
	if m, ok := l.Cached(name); ok {
		return m, nil
	}

	p, err := parseReader(r, isGLB, filepath.Dir(name))
	if err != nil {
		return MeshData{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return l.store(name, p)
}

func (l *loader) store(key string, p *gltfParser) (MeshData, error) {
	m, err := extractMesh(p, l.meshIndex)
	if err != nil {
		return MeshData{}, fmt.Errorf("%s: %w", key, err)
	}

	l.mu.Lock()
	l.cache[key] = m
	l.mu.Unlock()

	common.Logger().Debug("mesh loaded", "source", key, "name", m.Name,
		"vertices", len(m.Vertices), "indices", len(m.Indices), "textured", m.BaseColorImage != nil)
	return m, nil
}

// extractMesh merges every primitive of the mesh at meshIndex into one indexed triangle list.
func extractMesh(p *gltfParser, meshIndex int) (MeshData, error) {
	doc := p.document
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return MeshData{}, fmt.Errorf("%w: index %d of %d", ErrNoMesh, meshIndex, len(doc.Meshes))
	}
	mesh := doc.Meshes[meshIndex]
	out := MeshData{Name: mesh.Name}

	for i, prim := range mesh.Primitives {
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			return MeshData{}, fmt.Errorf("primitive %d mode %d: %w", i, *prim.Mode, ErrUnsupportedPrimitive)
		}

		posIndex, ok := prim.Attributes[gltfAttributePosition]
		if !ok {
			return MeshData{}, fmt.Errorf("primitive %d: %w", i, ErrMissingPositions)
		}
		positions, err := p.readFloats(posIndex, gltfAccessorTypeVec3)
		if err != nil {
			return MeshData{}, fmt.Errorf("primitive %d positions: %w", i, err)
		}
		count := len(positions) / 3

		var uvs []float32
		if uvIndex, ok := prim.Attributes[gltfAttributeTexCoord0]; ok {
			if uvs, err = p.readFloats(uvIndex, gltfAccessorTypeVec2); err != nil {
				return MeshData{}, fmt.Errorf("primitive %d texcoords: %w", i, err)
			}
			if len(uvs)/2 != count {
				return MeshData{}, fmt.Errorf("primitive %d: %d texcoords for %d positions: %w", i, len(uvs)/2, count, ErrUnsupportedPrimitive)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = p.readIndices(*prim.Indices); err != nil {
				return MeshData{}, fmt.Errorf("primitive %d indices: %w", i, err)
			}
		} else {
			indices = make([]uint32, count)
			for j := range indices {
				indices[j] = uint32(j)
			}
		}

		for _, idx := range indices {
			if int64(idx) >= int64(count) {
				return MeshData{}, fmt.Errorf("primitive %d: index %d with %d vertices: %w", i, idx, count, registry.ErrInvalidIndex)
			}
		}

		base := uint32(len(out.Vertices))
		for j := 0; j < count; j++ {
			v := registry.Vertex{Position: [3]float32{positions[j*3], positions[j*3+1], positions[j*3+2]}}
			if uvs != nil {
				v.TexCoords = [2]float32{uvs[j*2], uvs[j*2+1]}
			}
			out.Vertices = append(out.Vertices, v)
		}
		for _, idx := range indices {
			out.Indices = append(out.Indices, base+idx)
		}

		if out.BaseColorImage == nil && prim.Material != nil {
			img, err := p.baseColorImage(*prim.Material)
			if err != nil {
				common.Logger().Warn("base color image unavailable", "mesh", mesh.Name, "material", *prim.Material, "error", err)
			}
			out.BaseColorImage = img
		}
	}

	if len(out.Vertices) == 0 {
		return MeshData{}, fmt.Errorf("mesh %d: %w", meshIndex, ErrNoMesh)
	}
	return out, nil
}

// baseColorImage returns the encoded base color image of a material, or nil if it has none.
func (p *gltfParser) baseColorImage(materialIndex int) ([]byte, error) {
	doc := p.document
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}
	pbr := doc.Materials[materialIndex].PbrMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil, nil
	}

	texIndex := pbr.BaseColorTexture.Index
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIndex)
	}
	src := doc.Textures[texIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return nil, errors.New("texture has no image source")
	}

	img := doc.Images[*src]
	switch {
	case img.BufferView != nil:
		data, err := p.bufferViewData(*img.BufferView)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	case img.URI != "":
		return p.loadURI(img.URI)
	default:
		return nil, errors.New("image has neither uri nor bufferView")
	}
}
