// Package frame provides the per-frame collector a scene uses to register resources and submit draw
// requests. Nothing here touches the GPU directly; draws are only recorded.
package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/loader"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
)

// ErrFrameClosed is returned when a closed frame is used.
var ErrFrameClosed = errors.New("frame closed")

// Model is a mesh imported from a glTF file, with its base color texture when the file has one.
type Model struct {
	Mesh       registry.MeshHandle
	Texture    registry.TextureHandle
	HasTexture bool
}

// frame is the unexported implementation of Frame.
type frame struct {
	reg      registry.Registry
	loader   loader.Loader
	requests []batch.DrawRequest
	closed   bool
}

// Frame collects draw requests for one frame. A Frame is valid from New until Close and is used
// from the frame loop only.
type Frame interface {
	// AddMesh registers a mesh in the underlying registry.
	//
	// Parameters:
	//   - vertices: the vertex list
	//   - indices: triangle list indices into vertices
	//
	// Returns:
	//   - registry.MeshHandle: the new mesh handle
	//   - error: registry validation or upload error, or ErrFrameClosed
	AddMesh(vertices []registry.Vertex, indices []uint32) (registry.MeshHandle, error)

	// AddTexture loads and registers an image file. A failure is logged and reported as false.
	//
	// Parameters:
	//   - path: image file path
	//
	// Returns:
	//   - registry.TextureHandle: the new texture handle
	//   - bool: false if the texture could not be loaded
	AddTexture(path string) (registry.TextureHandle, bool)

	// AddTextureBytes decodes and registers encoded image bytes. A failure is logged and reported as false.
	//
	// Parameters:
	//   - data: encoded image bytes
	//
	// Returns:
	//   - registry.TextureHandle: the new texture handle
	//   - bool: false if the texture could not be decoded
	AddTextureBytes(data []byte) (registry.TextureHandle, bool)

	// AddModel imports a .gltf or .glb mesh and registers it. A base color image that fails to decode
	// is logged and leaves HasTexture false.
	//
	// Parameters:
	//   - path: model file path
	//
	// Returns:
	//   - Model: the registered mesh and optional texture
	//   - error: a loader or registry error, or ErrFrameClosed
	AddModel(path string) (Model, error)

	// Draw records a draw request. Requests naming a handle the registry never issued are rejected.
	//
	// Parameters:
	//   - req: the draw request
	//
	// Returns:
	//   - error: registry.ErrInvalidHandle or ErrFrameClosed
	Draw(req batch.DrawRequest) error

	// Requests returns the requests recorded so far, in submission order.
	Requests() []batch.DrawRequest

	// Len returns the number of recorded requests.
	Len() int

	// Close ends the frame and returns its requests. Every later call on the frame fails or is a no-op.
	//
	// Returns:
	//   - []batch.DrawRequest: the recorded requests
	Close() []batch.DrawRequest
}

var _ Frame = &frame{}

// New starts a frame backed by reg.
//
// Parameters:
//   - reg: the resource registry handles are checked against
//   - options: a variadic list of options to configure the frame
//
// Returns:
//   - Frame: the new frame
func New(reg registry.Registry, options ...FrameBuilderOption) Frame {
	f := &frame{reg: reg}
	for _, opt := range options {
		opt(f)
	}
	if f.loader == nil {
		f.loader = loader.NewLoader()
	}
	return f
}

func (f *frame) AddMesh(vertices []registry.Vertex, indices []uint32) (registry.MeshHandle, error) {
	if f.closed {
		return -1, ErrFrameClosed
	}
	return f.reg.RegisterMesh(vertices, indices)
}

func (f *frame) AddTexture(path string) (registry.TextureHandle, bool) {
	if f.closed {
		return -1, false
	}
	h, err := f.reg.LoadTextureFile(path)
	if err != nil {
		common.Logger().Warn("texture load failed", "path", path, "err", err)
		return -1, false
	}
	return h, true
}

func (f *frame) AddTextureBytes(data []byte) (registry.TextureHandle, bool) {
	if f.closed {
		return -1, false
	}
	h, err := f.reg.LoadTexture(data)
	if err != nil {
		common.Logger().Warn("texture decode failed", "bytes", len(data), "err", err)
		return -1, false
	}
	return h, true
}

func (f *frame) AddModel(path string) (Model, error) {
	if f.closed {
		return Model{Mesh: -1, Texture: -1}, ErrFrameClosed
	}
	data, err := f.loader.Load(path)
	if err != nil {
		return Model{Mesh: -1, Texture: -1}, err
	}
	mesh, err := f.reg.RegisterMesh(data.Vertices, data.Indices)
	if err != nil {
		return Model{Mesh: -1, Texture: -1}, fmt.Errorf("model %s: %w", path, err)
	}

	m := Model{Mesh: mesh, Texture: -1}
	if data.BaseColorImage != nil {
		m.Texture, m.HasTexture = f.AddTextureBytes(data.BaseColorImage)
	}
	return m, nil
}

func (f *frame) Draw(req batch.DrawRequest) error {
	if f.closed {
		return ErrFrameClosed
	}
	if !f.reg.ValidMesh(req.Mesh) {
		return fmt.Errorf("mesh %d: %w", req.Mesh, registry.ErrInvalidHandle)
	}
	if !f.reg.ValidTexture(req.Texture) {
		return fmt.Errorf("texture %d: %w", req.Texture, registry.ErrInvalidHandle)
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *frame) Requests() []batch.DrawRequest {
	return f.requests
}

func (f *frame) Len() int {
	return len(f.requests)
}

func (f *frame) Close() []batch.DrawRequest {
	f.closed = true
	return f.requests
}
