package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMeshIndex selects which mesh of a document Load reads. Defaults to 0.
//
// Parameters:
//   - index: the mesh index within the glTF document
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh index option to a loader
func WithMeshIndex(index int) LoaderBuilderOption {
	return func(l *loader) {
		l.meshIndex = index
	}
}

// WithMesh is an option builder that pre-populates the cache with a mesh.
//
// Parameters:
//   - key: the cache key for the mesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(key string, m MeshData) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = m
	}
}
