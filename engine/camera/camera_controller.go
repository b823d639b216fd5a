package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl orbits a target using spherical coordinates and keyboard input.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32 // horizontal angle around Y, 0 on +Z
	elevation float32 // vertical angle from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// orbitSpeed is in radians per second, zoomSpeed in units per second
	orbitSpeed float32
	zoomSpeed  float32

	held map[uint32]bool
}

// CameraController owns the eye position of an orbiting camera. Arrow keys orbit, Q and E zoom.
type CameraController interface {
	// Position returns the eye position derived from the spherical coordinates.
	Position() mgl32.Vec3

	// Target returns the orbit pivot.
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the position.
	SetTarget(t mgl32.Vec3)

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the distance from the target, clamped to the radius bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle in radians.
	Elevation() float32

	// SetElevation sets the vertical angle, clamped to the elevation bounds.
	SetElevation(elevation float32)

	// Zoom moves toward the target by delta, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: positive to move closer
	Zoom(delta float32)

	// KeyDown records a held key.
	KeyDown(key uint32)

	// KeyUp releases a held key.
	KeyUp(key uint32)

	// Step applies the held keys for dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Step(dt float32)
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller 20 units from the origin, 30 degrees above the horizon.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		radius:       20,
		elevation:    math32.Pi / 6,
		minRadius:    1,
		maxRadius:    90,
		minElevation: -math32.Pi/2 + 0.05,
		maxElevation: math32.Pi/2 - 0.05,
		orbitSpeed:   1.5,
		zoomSpeed:    10,
		held:         make(map[uint32]bool),
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// updatePosition recomputes the eye from spherical coordinates. Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)
	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(cc.radius-delta, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) KeyDown(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.held[key] = true
}

func (cc *cameraControllerImpl) KeyUp(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, key)
}

func (cc *cameraControllerImpl) Step(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if len(cc.held) == 0 || dt <= 0 {
		return
	}

	orbit := cc.orbitSpeed * dt
	if cc.held[common.KeyLeft] {
		cc.azimuth -= orbit
	}
	if cc.held[common.KeyRight] {
		cc.azimuth += orbit
	}
	if cc.held[common.KeyUp] {
		cc.elevation += orbit
	}
	if cc.held[common.KeyDown] {
		cc.elevation -= orbit
	}
	if cc.held[common.KeyQ] {
		cc.radius -= cc.zoomSpeed * dt
	}
	if cc.held[common.KeyE] {
		cc.radius += cc.zoomSpeed * dt
	}
	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}
