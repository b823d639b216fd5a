package registry

import "github.com/Carmen-Shannon/oxy-front/common"

// RegistryBuilderOption is a functional option used to configure a Registry during construction.
type RegistryBuilderOption func(*registry)

// WithSampler overrides the sampler used for registered textures.
// Zero fields fall back to the default clamp-to-edge, linear-mag, nearest-min sampler.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - RegistryBuilderOption: a function that sets the texture sampler
func WithSampler(s common.SamplerStagingData) RegistryBuilderOption {
	return func(r *registry) {
		d := common.DefaultSampler()
		r.sampler = common.SamplerStagingData{
			AddressModeU:  common.Coalesce(s.AddressModeU, d.AddressModeU),
			AddressModeV:  common.Coalesce(s.AddressModeV, d.AddressModeV),
			AddressModeW:  common.Coalesce(s.AddressModeW, d.AddressModeW),
			MagFilter:     common.Coalesce(s.MagFilter, d.MagFilter),
			MinFilter:     common.Coalesce(s.MinFilter, d.MinFilter),
			MipmapFilter:  common.Coalesce(s.MipmapFilter, d.MipmapFilter),
			LodMinClamp:   s.LodMinClamp,
			LodMaxClamp:   common.Coalesce(s.LodMaxClamp, d.LodMaxClamp),
			Compare:       s.Compare,
			MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
		}
	}
}

// WithCapacity preallocates room for the expected number of meshes and textures.
//
// Parameters:
//   - meshes: expected mesh count
//   - textures: expected texture count
//
// Returns:
//   - RegistryBuilderOption: a function that preallocates the arenas
func WithCapacity(meshes, textures int) RegistryBuilderOption {
	return func(r *registry) {
		r.meshes = make([]Mesh, 0, meshes)
		r.textures = make([]Texture, 0, textures)
	}
}
