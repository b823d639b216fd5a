package batch

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, 0, 0)
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]DrawRequest{}))
}

func TestBuildMergesIdenticalKeys(t *testing.T) {
	groups := Build([]DrawRequest{
		{Mesh: 0, Texture: 0, Transform: at(1)},
		{Mesh: 0, Texture: 0, Transform: at(2)},
	})

	require.Len(t, groups, 1)
	assert.Equal(t, Key{Texture: 0, Mesh: 0}, groups[0].Key)
	assert.Equal(t, []mgl32.Mat4{at(1), at(2)}, groups[0].Transforms)
	assert.Equal(t, uint32(2), groups[0].InstanceCount())
}

func TestBuildSingleRequestIsStillAGroup(t *testing.T) {
	groups := Build([]DrawRequest{{Mesh: 3, Texture: 1, Transform: at(1)}})
	require.Len(t, groups, 1)
	assert.Equal(t, uint32(1), groups[0].InstanceCount())
}

func TestBuildSeparatesBySameMeshDifferentTexture(t *testing.T) {
	groups := Build([]DrawRequest{
		{Mesh: 0, Texture: 0, Transform: at(1)},
		{Mesh: 0, Texture: 1, Transform: at(2)},
		{Mesh: 1, Texture: 0, Transform: at(3)},
		{Mesh: 0, Texture: 0, Transform: at(4)},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, Key{Texture: 0, Mesh: 0}, groups[0].Key)
	assert.Equal(t, []mgl32.Mat4{at(1), at(4)}, groups[0].Transforms)
	assert.Equal(t, Key{Texture: 1, Mesh: 0}, groups[1].Key)
	assert.Equal(t, Key{Texture: 0, Mesh: 1}, groups[2].Key)
}

// Randomized check of group count, per-group stability and that no request is lost.
func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rng.Intn(200)
		requests := make([]DrawRequest, n)
		distinct := make(map[Key]struct{})
		for i := range requests {
			requests[i] = DrawRequest{
				Mesh:      registry.MeshHandle(rng.Intn(4)),
				Texture:   registry.TextureHandle(rng.Intn(3)),
				Transform: at(float32(i)),
			}
			distinct[Key{Texture: requests[i].Texture, Mesh: requests[i].Mesh}] = struct{}{}
		}

		groups := Build(requests)
		assert.Len(t, groups, len(distinct))

		total := 0
		for _, g := range groups {
			total += len(g.Transforms)
			var expected []mgl32.Mat4
			for _, r := range requests {
				if r.Mesh == g.Mesh && r.Texture == g.Texture {
					expected = append(expected, r.Transform)
				}
			}
			assert.Equal(t, expected, g.Transforms)
		}
		assert.Equal(t, n, total)
	}
}

func TestBatcherReusesIndexAcrossFrames(t *testing.T) {
	b := NewBatcher()

	first := b.Build([]DrawRequest{
		{Mesh: 0, Texture: 0, Transform: at(1)},
		{Mesh: 1, Texture: 0, Transform: at(2)},
		{Mesh: 1, Texture: 0, Transform: at(3)},
	})
	require.Len(t, first, 2)
	assert.Equal(t, Stats{Requests: 3, Groups: 2, Largest: 2}, b.Stats())

	second := b.Build([]DrawRequest{{Mesh: 1, Texture: 0, Transform: at(9)}})
	require.Len(t, second, 1)
	assert.Equal(t, []mgl32.Mat4{at(9)}, second[0].Transforms)
	assert.Equal(t, Stats{Requests: 1, Groups: 1, Largest: 1}, b.Stats())

	assert.Empty(t, b.Build(nil))
	assert.Equal(t, Stats{}, b.Stats())
}
