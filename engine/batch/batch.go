// Package batch groups per-frame draw requests by (texture, mesh) so each group can be drawn with a
// single instanced call.
package batch

import (
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawRequest asks for one instance of a mesh, textured with a texture, placed by a model transform.
type DrawRequest struct {
	Mesh      registry.MeshHandle
	Texture   registry.TextureHandle
	Transform mgl32.Mat4
}

// Key identifies a draw group.
type Key struct {
	Texture registry.TextureHandle
	Mesh    registry.MeshHandle
}

// Group is every transform submitted for one Key during a frame, in submission order.
type Group struct {
	Key
	Transforms []mgl32.Mat4
}

// InstanceCount returns the number of instances the group draws.
func (g Group) InstanceCount() uint32 {
	return uint32(len(g.Transforms))
}

// Build groups requests by (texture, mesh) in a single pass.
// Transforms inside a group keep their submission order. Groups are emitted in order of first appearance.
// An empty request list yields no groups.
//
// Parameters:
//   - requests: the frame's draw requests
//
// Returns:
//   - []Group: one group per distinct key
func Build(requests []DrawRequest) []Group {
	if len(requests) == 0 {
		return nil
	}
	index := make(map[Key]int)
	return build(requests, index)
}

func build(requests []DrawRequest, index map[Key]int) []Group {
	var groups []Group
	for _, req := range requests {
		k := Key{Texture: req.Texture, Mesh: req.Mesh}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Transforms = append(groups[i].Transforms, req.Transform)
	}
	return groups
}
