package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
)

var (
	// ErrEmptyVertices is returned when a mesh is registered without vertices.
	ErrEmptyVertices = errors.New("mesh has no vertices")
	// ErrEmptyIndices is returned when a mesh is registered without indices.
	ErrEmptyIndices = errors.New("mesh has no indices")
	// ErrInvalidIndex is returned when a mesh index refers past the end of its vertex list.
	ErrInvalidIndex = errors.New("mesh index out of range")
	// ErrDecodeFailed is returned when texture bytes cannot be turned into RGBA8 pixels.
	ErrDecodeFailed = errors.New("texture decode failed")
	// ErrInvalidHandle is returned when a handle was not issued by this registry.
	ErrInvalidHandle = errors.New("invalid resource handle")
	// ErrReleased is returned when registering into a released registry.
	ErrReleased = errors.New("registry released")
)

// MeshHandle is the index of a registered mesh. Only the Registry issues valid handles.
type MeshHandle int

// TextureHandle is the index of a registered texture. Only the Registry issues valid handles.
type TextureHandle int

// Mesh is a registered, GPU-resident mesh. Immutable after registration.
type Mesh struct {
	Handle      MeshHandle
	VertexCount uint32
	IndexCount  uint32
	// Provider holds the vertex and index buffers.
	Provider bind_group_provider.BindGroupProvider
}

// Texture is a registered, GPU-resident texture. Immutable after registration.
type Texture struct {
	Handle TextureHandle
	Width  uint32
	Height uint32
	// Provider holds the texture, view, sampler and bind group.
	Provider bind_group_provider.BindGroupProvider
}

// Uploader creates GPU objects for registry resources. The renderer backend implements it.
type Uploader interface {
	// UploadMesh creates and fills vertex and index buffers.
	//
	// Parameters:
	//   - label: debug label
	//   - vertexData: packed Vertex bytes
	//   - indexData: packed uint32 indices
	//   - indexCount: number of indices in indexData
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: provider holding the buffers
	//   - error: error if GPU allocation fails
	UploadMesh(label string, vertexData, indexData []byte, indexCount uint32) (bind_group_provider.BindGroupProvider, error)

	// UploadTexture creates a texture, view, sampler and bind group and uploads the pixels.
	//
	// Parameters:
	//   - label: debug label
	//   - staging: RGBA8 pixels and extent
	//   - sampler: sampler configuration
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: provider holding the texture objects
	//   - error: error if GPU allocation fails
	UploadTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error)
}

// registry is the unexported implementation of Registry.
type registry struct {
	mu       *sync.Mutex
	uploader Uploader
	sampler  common.SamplerStagingData

	meshes   []Mesh
	textures []Texture
	released bool
}

// Registry owns every GPU-resident mesh and texture and hands out integer handles to them.
// Resources live until Release; there is no per-resource removal so handles never dangle while the registry lives.
type Registry interface {
	// RegisterMesh validates and uploads a mesh.
	// Every index must be less than len(vertices); validation happens before any GPU work.
	//
	// Parameters:
	//   - vertices: the vertex list
	//   - indices: triangle list indices into vertices
	//
	// Returns:
	//   - MeshHandle: handle of the new mesh
	//   - error: ErrEmptyVertices, ErrEmptyIndices, ErrInvalidIndex or an upload error
	RegisterMesh(vertices []Vertex, indices []uint32) (MeshHandle, error)

	// RegisterTexture uploads already-decoded RGBA8 pixels.
	//
	// Parameters:
	//   - pixels: RGBA8 pixel data, width*height*4 bytes
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - TextureHandle: handle of the new texture
	//   - error: ErrDecodeFailed when the pixels do not match the extent, or an upload error
	RegisterTexture(pixels []byte, width, height uint32) (TextureHandle, error)

	// LoadTexture decodes encoded image bytes and registers the result.
	//
	// Parameters:
	//   - data: encoded image bytes (PNG, JPEG, GIF, BMP, TIFF, WebP)
	//
	// Returns:
	//   - TextureHandle: handle of the new texture
	//   - error: wraps ErrDecodeFailed when decoding fails
	LoadTexture(data []byte) (TextureHandle, error)

	// LoadTextureFile reads, decodes and registers an image file.
	//
	// Parameters:
	//   - path: image file path
	//
	// Returns:
	//   - TextureHandle: handle of the new texture
	//   - error: wraps ErrDecodeFailed when the file cannot be read or decoded
	LoadTextureFile(path string) (TextureHandle, error)

	// Mesh looks up a mesh. Out-of-range handles return false.
	Mesh(h MeshHandle) (Mesh, bool)

	// Texture looks up a texture. Out-of-range handles return false.
	Texture(h TextureHandle) (Texture, bool)

	// ValidMesh reports whether h was issued by this registry.
	ValidMesh(h MeshHandle) bool

	// ValidTexture reports whether h was issued by this registry.
	ValidTexture(h TextureHandle) bool

	// MeshCount returns the number of registered meshes.
	MeshCount() int

	// TextureCount returns the number of registered textures.
	TextureCount() int

	// Release releases every GPU object owned by the registry. Further registrations fail with ErrReleased.
	Release()
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry that uploads through the given Uploader.
//
// Parameters:
//   - uploader: creates GPU objects for registered resources
//   - options: a variadic list of options to configure the registry
//
// Returns:
//   - Registry: the new registry
func NewRegistry(uploader Uploader, options ...RegistryBuilderOption) Registry {
	r := &registry{
		mu:       &sync.Mutex{},
		uploader: uploader,
		sampler:  common.DefaultSampler(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) RegisterMesh(vertices []Vertex, indices []uint32) (MeshHandle, error) {
	if len(vertices) == 0 {
		return -1, ErrEmptyVertices
	}
	if len(indices) == 0 {
		return -1, ErrEmptyIndices
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return -1, fmt.Errorf("index %d at position %d with %d vertices: %w", idx, i, len(vertices), ErrInvalidIndex)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return -1, ErrReleased
	}

	handle := MeshHandle(len(r.meshes))
	label := fmt.Sprintf("mesh_%d", handle)
	provider, err := r.uploader.UploadMesh(label, common.SliceToBytes(vertices), common.SliceToBytes(indices), uint32(len(indices)))
	if err != nil {
		return -1, fmt.Errorf("failed to upload %s: %w", label, err)
	}

	r.meshes = append(r.meshes, Mesh{
		Handle:      handle,
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(indices)),
		Provider:    provider,
	})
	common.Logger().Debug("mesh registered", "handle", handle, "vertices", len(vertices), "indices", len(indices))
	return handle, nil
}

func (r *registry) RegisterTexture(pixels []byte, width, height uint32) (TextureHandle, error) {
	staging := common.TextureStagingData{Pixels: pixels, Width: width, Height: height}
	if err := staging.Validate(); err != nil {
		return -1, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return -1, ErrReleased
	}

	handle := TextureHandle(len(r.textures))
	label := fmt.Sprintf("texture_%d", handle)
	provider, err := r.uploader.UploadTexture(label, staging, r.sampler)
	if err != nil {
		return -1, fmt.Errorf("failed to upload %s: %w", label, err)
	}

	r.textures = append(r.textures, Texture{
		Handle:   handle,
		Width:    width,
		Height:   height,
		Provider: provider,
	})
	common.Logger().Debug("texture registered", "handle", handle, "width", width, "height", height)
	return handle, nil
}

func (r *registry) LoadTexture(data []byte) (TextureHandle, error) {
	staging, err := common.DecodeImage(data)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return r.RegisterTexture(staging.Pixels, staging.Width, staging.Height)
}

func (r *registry) LoadTextureFile(path string) (TextureHandle, error) {
	staging, err := common.LoadImageFile(path)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return r.RegisterTexture(staging.Pixels, staging.Width, staging.Height)
}

func (r *registry) Mesh(h MeshHandle) (Mesh, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h < 0 || int(h) >= len(r.meshes) {
		return Mesh{}, false
	}
	return r.meshes[h], true
}

func (r *registry) Texture(h TextureHandle) (Texture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h < 0 || int(h) >= len(r.textures) {
		return Texture{}, false
	}
	return r.textures[h], true
}

func (r *registry) ValidMesh(h MeshHandle) bool {
	_, ok := r.Mesh(h)
	return ok
}

func (r *registry) ValidTexture(h TextureHandle) bool {
	_, ok := r.Texture(h)
	return ok
}

func (r *registry) MeshCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meshes)
}

func (r *registry) TextureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.textures)
}

func (r *registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	for _, m := range r.meshes {
		if m.Provider != nil {
			m.Provider.Release()
		}
	}
	for _, t := range r.textures {
		if t.Provider != nil {
			t.Provider.Release()
		}
	}
	r.meshes = nil
	r.textures = nil
}
