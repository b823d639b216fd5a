package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      uint64
	enabled atomic.Bool

	mu            *sync.Mutex
	mesh          registry.MeshHandle
	texture       registry.TextureHandle
	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3
}

// GameObject is a drawable entity: a mesh and texture placed by position, rotation and scale.
// Objects are flat; there is no parent/child relationship.
type GameObject interface {
	// ID returns the object's identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is submitted for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is submitted for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Mesh returns the mesh handle drawn by the object.
	Mesh() registry.MeshHandle

	// Texture returns the texture handle drawn by the object.
	Texture() registry.TextureHandle

	// SetTexture swaps the texture handle.
	SetTexture(t registry.TextureHandle)

	// Position returns the world position.
	Position() mgl32.Vec3

	// SetPosition sets the world position.
	SetPosition(x, y, z float32)

	// Rotation returns the Euler angles in radians, applied yaw (Y), then pitch (X), then roll (Z).
	Rotation() mgl32.Vec3

	// SetRotation sets the Euler angles in radians.
	SetRotation(rx, ry, rz float32)

	// RotationSpeed returns the angular velocity in radians per second for each axis.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the angular velocity in radians per second.
	SetRotationSpeed(rx, ry, rz float32)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	SetScale(sx, sy, sz float32)

	// Update advances the rotation by the rotation speed over dt seconds.
	//
	// Parameters:
	//   - dt: seconds since the previous update
	Update(dt float32)

	// Transform returns the model matrix translate * rotate * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	Transform() mgl32.Mat4

	// DrawRequest builds the object's draw request.
	//
	// Returns:
	//   - batch.DrawRequest: the request for the current transform
	//   - bool: false if the object is disabled
	DrawRequest() (batch.DrawRequest, bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject configured with the given options.
// Scale defaults to one on every axis.
//
// Parameters:
//   - mesh: the mesh handle to draw
//   - texture: the texture handle to draw with
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(mesh registry.MeshHandle, texture registry.TextureHandle, options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:      &sync.Mutex{},
		mesh:    mesh,
		texture: texture,
		scale:   mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Mesh() registry.MeshHandle {
	return g.mesh
}

func (g *gameObject) Texture() registry.TextureHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.texture
}

func (g *gameObject) SetTexture(t registry.TextureHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.texture = t
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = mgl32.Vec3{x, y, z}
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = mgl32.Vec3{rx, ry, rz}
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = mgl32.Vec3{sx, sy, sz}
}

func (g *gameObject) Update(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
}

func (g *gameObject) Transform() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transform()
}

// transform must be called with g.mu held.
func (g *gameObject) transform() mgl32.Mat4 {
	t := mgl32.Translate3D(g.position[0], g.position[1], g.position[2])
	r := mgl32.HomogRotate3DY(g.rotation[1]).
		Mul4(mgl32.HomogRotate3DX(g.rotation[0])).
		Mul4(mgl32.HomogRotate3DZ(g.rotation[2]))
	s := mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2])
	return t.Mul4(r).Mul4(s)
}

func (g *gameObject) DrawRequest() (batch.DrawRequest, bool) {
	if !g.enabled.Load() {
		return batch.DrawRequest{}, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return batch.DrawRequest{Mesh: g.mesh, Texture: g.texture, Transform: g.transform()}, true
}
