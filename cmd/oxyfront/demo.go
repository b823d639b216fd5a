package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/config"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
	"github.com/Carmen-Shannon/oxy-front/engine/game_object"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
)

var errNoTextures = errors.New("no demo texture could be loaded")

var (
	colorA = color.RGBA{R: 230, G: 90, B: 40, A: 255}
	colorB = color.RGBA{R: 250, G: 220, B: 120, A: 255}
	colorC = color.RGBA{R: 40, G: 110, B: 200, A: 255}
	colorD = color.RGBA{R: 200, G: 230, B: 250, A: 255}
)

// demoScene draws a grid of textured tiles, alternating between textures in a checker pattern.
// Space swaps the two textures; R pauses the camera orbit.
type demoScene struct {
	cfg config.SceneConfig

	mesh     registry.MeshHandle
	textures []registry.TextureHandle
	tiles    []game_object.GameObject

	swapped bool
	paused  bool
	angle   float32
	radius  float32
}

func newDemoScene(cfg config.SceneConfig) *demoScene {
	extent := float32(max(cfg.Columns, cfg.Rows)) * cfg.Spacing
	return &demoScene{
		cfg:    cfg,
		radius: math32.Max(extent, 5),
		angle:  math32.Pi / 2,
	}
}

func (s *demoScene) String() string {
	return fmt.Sprintf("demo(%dx%d)", s.cfg.Columns, s.cfg.Rows)
}

func (s *demoScene) Init(f frame.Frame) error {
	if err := s.initMesh(f); err != nil {
		return err
	}

	for _, path := range s.cfg.Textures {
		if h, ok := f.AddTexture(path); ok {
			s.textures = append(s.textures, h)
		}
	}
	if len(s.textures) == 0 {
		for _, c := range [][2]color.RGBA{{colorA, colorB}, {colorC, colorD}} {
			data, err := checkerboard(64, 8, c[0], c[1])
			if err != nil {
				return err
			}
			if h, ok := f.AddTextureBytes(data); ok {
				s.textures = append(s.textures, h)
			}
		}
	}
	if len(s.textures) == 0 {
		return errNoTextures
	}
	s.initTiles()
	return nil
}

// initTiles places one game object per grid cell, centered on the origin in the XZ plane.
func (s *demoScene) initTiles() {
	offsetX := float32(s.cfg.Columns-1) * s.cfg.Spacing / 2
	offsetZ := float32(s.cfg.Rows-1) * s.cfg.Spacing / 2
	size := s.cfg.Spacing * 0.9

	s.tiles = make([]game_object.GameObject, 0, s.cfg.Columns*s.cfg.Rows)
	for row := 0; row < s.cfg.Rows; row++ {
		for col := 0; col < s.cfg.Columns; col++ {
			s.tiles = append(s.tiles, game_object.NewGameObject(s.mesh, s.textureFor(row+col),
				game_object.WithID(uint64(len(s.tiles))),
				game_object.WithPosition(float32(col)*s.cfg.Spacing-offsetX, 0, float32(row)*s.cfg.Spacing-offsetZ),
				game_object.WithRotation(-math32.Pi/2, 0, 0),
				game_object.WithRotationSpeed(0, s.cfg.Spin, 0),
				game_object.WithScale(size, size, 1),
			))
		}
	}
}

// initMesh registers the configured model, falling back to the quad when it cannot be loaded.
// A model's own base color texture becomes the first texture.
func (s *demoScene) initMesh(f frame.Frame) error {
	if s.cfg.Model != "" {
		m, err := f.AddModel(s.cfg.Model)
		if err == nil {
			s.mesh = m.Mesh
			if m.HasTexture {
				s.textures = append(s.textures, m.Texture)
			}
			return nil
		}
		common.Logger().Warn("model load failed, drawing quads", "path", s.cfg.Model, "error", err)
	}

	vertices, indices := registry.Quad()
	mesh, err := f.AddMesh(vertices, indices)
	if err != nil {
		return fmt.Errorf("failed to add quad: %w", err)
	}
	s.mesh = mesh
	return nil
}

// Render advances and submits every tile.
func (s *demoScene) Render(f frame.Frame, dt float32) {
	for _, tile := range s.tiles {
		tile.Update(dt)
		req, ok := tile.DrawRequest()
		if !ok {
			continue
		}
		if err := f.Draw(req); err != nil {
			common.Logger().Warn("draw rejected", "tile", tile.ID(), "error", err)
		}
	}
}

func (s *demoScene) textureFor(cell int) registry.TextureHandle {
	i := cell % len(s.textures)
	if s.swapped {
		i = (i + 1) % len(s.textures)
	}
	return s.textures[i]
}

func (s *demoScene) retexture() {
	cols := max(s.cfg.Columns, 1)
	for i, tile := range s.tiles {
		tile.SetTexture(s.textureFor(i/cols + i%cols))
	}
}

func (s *demoScene) KeyDown(key uint32) {}

// KeyUp acts on release so a held key toggles once.
func (s *demoScene) KeyUp(key uint32) {
	switch key {
	case common.KeySpace:
		s.swapped = !s.swapped
		s.retexture()
	case common.KeyR:
		s.paused = !s.paused
	}
}

// UpdateCamera orbits the camera around the grid at the configured angular speed.
func (s *demoScene) UpdateCamera(cam camera.Camera, dt float32) {
	if !s.paused {
		s.angle = math32.Mod(s.angle+s.cfg.OrbitSpeed*dt, 2*math32.Pi)
	}
	cam.Orbit(s.angle, s.radius)
	p := cam.Position()
	cam.SetPosition(mgl32.Vec3{p.X(), s.radius / 2, p.Z()})
}

// checkerboard encodes a size x size two-color checkerboard as BMP.
func checkerboard(size, cells int, a, b color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode checkerboard: %w", err)
	}
	return buf.Bytes(), nil
}
