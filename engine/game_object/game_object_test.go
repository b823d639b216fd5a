package game_object

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	g := NewGameObject(1, 2)
	assert.True(t, g.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, g.Scale())
	assert.Equal(t, mgl32.Ident4(), g.Transform())
}

func TestTransformIsTranslateRotateScale(t *testing.T) {
	g := NewGameObject(0, 0,
		WithPosition(1, 2, 3),
		WithRotation(0, mgl32.DegToRad(90), 0),
		WithScale(2, 2, 2),
	)

	// +X scaled by 2, yawed 90 degrees onto -Z, then moved to (1,2,3).
	p := g.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 1, p.Z(), 1e-5)
}

func TestUpdateAppliesRotationSpeed(t *testing.T) {
	g := NewGameObject(0, 0, WithRotationSpeed(0, 1, 0.5))
	g.Update(2)
	assert.InDelta(t, 2, g.Rotation().Y(), 1e-6)
	assert.InDelta(t, 1, g.Rotation().Z(), 1e-6)
	assert.Zero(t, g.Rotation().X())
}

func TestDrawRequest(t *testing.T) {
	g := NewGameObject(4, 7, WithID(9), WithPosition(5, 0, 0))
	assert.Equal(t, uint64(9), g.ID())

	req, ok := g.DrawRequest()
	assert.True(t, ok)
	assert.EqualValues(t, 4, req.Mesh)
	assert.EqualValues(t, 7, req.Texture)
	assert.Equal(t, mgl32.Translate3D(5, 0, 0), req.Transform)

	g.SetTexture(8)
	req, _ = g.DrawRequest()
	assert.EqualValues(t, 8, req.Texture)

	g.SetEnabled(false)
	_, ok = g.DrawRequest()
	assert.False(t, ok)
}

func TestDisabledAtConstruction(t *testing.T) {
	g := NewGameObject(0, 0, WithEnabled(false))
	_, ok := g.DrawRequest()
	assert.False(t, ok)
}
