// Package transform owns the per-frame transform data on the GPU: the camera view-projection uniform,
// updated in place every frame, and one freshly allocated instance buffer per draw group.
package transform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrReleased is returned by Upload after Release.
var ErrReleased = errors.New("transform manager released")

// Allocator creates and writes GPU buffers for the manager. The renderer backend implements it.
type Allocator interface {
	// CreateCameraUniform creates the camera uniform buffer and its bind group, initialised with data.
	//
	// Parameters:
	//   - label: debug label
	//   - data: initial buffer contents
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: provider holding buffer binding 0 and the bind group
	//   - error: error if GPU allocation fails
	CreateCameraUniform(label string, data []byte) (bind_group_provider.BindGroupProvider, error)

	// CreateInstanceBuffer creates a vertex buffer holding count packed instances.
	//
	// Parameters:
	//   - label: debug label
	//   - data: packed instance bytes
	//   - count: number of instances in data
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: provider holding the instance buffer
	//   - error: error if GPU allocation fails
	CreateInstanceBuffer(label string, data []byte, count uint32) (bind_group_provider.BindGroupProvider, error)

	// WriteBuffers queues writes into existing buffers.
	//
	// Parameters:
	//   - writes: the buffer writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

// manager is the unexported implementation of Manager.
type manager struct {
	mu    *sync.Mutex
	alloc Allocator

	camera  bind_group_provider.BindGroupProvider
	uniform GPUCameraUniform

	// instances are the previous frame's instance buffers, released on the next Upload.
	instances []bind_group_provider.BindGroupProvider

	pool              worker.DynamicWorkerPool
	workers           int
	parallelThreshold int
	frame             uint64
	released          bool
}

// Manager owns the camera uniform and the per-frame instance buffers.
// Instance buffers are never reused across frames: each Upload allocates new ones and releases the
// previous frame's set, which the GPU no longer reads once that frame's submission has been issued.
type Manager interface {
	// UpdateCamera queues an in-place write of the view-projection matrix into the camera uniform.
	// The write is visible to every draw recorded after it in the same submission.
	//
	// Parameters:
	//   - viewProj: the combined view-projection matrix
	UpdateCamera(viewProj mgl32.Mat4)

	// CameraProvider returns the provider holding the camera uniform and its bind group.
	CameraProvider() bind_group_provider.BindGroupProvider

	// Upload releases the previous frame's instance buffers and creates one filled instance buffer per group.
	// Entry i of the result serves groups[i].
	//
	// Parameters:
	//   - groups: the frame's draw groups
	//
	// Returns:
	//   - []bind_group_provider.BindGroupProvider: one instance buffer per group
	//   - error: error if an allocation fails; buffers created before the failure are released
	Upload(groups []batch.Group) ([]bind_group_provider.BindGroupProvider, error)

	// PackInstances encodes each group's transforms into instance buffer bytes without touching the GPU.
	//
	// Parameters:
	//   - groups: the frame's draw groups
	//
	// Returns:
	//   - [][]byte: packed bytes per group, InstanceStride bytes per transform
	PackInstances(groups []batch.Group) [][]byte

	// LiveInstanceBuffers returns how many instance buffers from the last Upload are still held.
	LiveInstanceBuffers() int

	// Release releases the camera uniform, outstanding instance buffers and the packing pool.
	Release()
}

var _ Manager = &manager{}

// NewManager creates the camera uniform through alloc and returns a Manager.
//
// Parameters:
//   - alloc: creates and writes GPU buffers
//   - options: a variadic list of options to configure the manager
//
// Returns:
//   - Manager: the new manager
//   - error: error if the camera uniform cannot be created
func NewManager(alloc Allocator, options ...ManagerBuilderOption) (Manager, error) {
	m := &manager{
		mu:                &sync.Mutex{},
		alloc:             alloc,
		uniform:           GPUCameraUniform{ViewProj: mgl32.Ident4()},
		workers:           runtime.NumCPU(),
		parallelThreshold: 64,
	}
	for _, opt := range options {
		opt(m)
	}

	camera, err := alloc.CreateCameraUniform("camera_uniform", m.uniform.Marshal())
	if err != nil {
		return nil, fmt.Errorf("failed to create camera uniform: %w", err)
	}
	m.camera = camera

	// Workers persist across frames; a WaitGroup gives the per-frame barrier.
	m.pool = worker.NewDynamicWorkerPool(m.workers, 256, time.Second)
	return m, nil
}

func (m *manager) UpdateCamera(viewProj mgl32.Mat4) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.uniform.ViewProj = viewProj
	m.alloc.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.camera,
		Binding:  0,
		Offset:   0,
		Data:     m.uniform.Marshal(),
	}})
}

func (m *manager) CameraProvider() bind_group_provider.BindGroupProvider {
	return m.camera
}

func (m *manager) PackInstances(groups []batch.Group) [][]byte {
	packed := make([][]byte, len(groups))
	if len(groups) < m.parallelThreshold || m.workers < 2 {
		for i, g := range groups {
			packed[i] = common.PackMat4s(g.Transforms)
		}
		return packed
	}

	var wg sync.WaitGroup
	for id, r := range common.ChunkRanges(len(groups), m.workers) {
		wg.Add(1)
		start, end := r[0], r[1]
		m.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					packed[i] = common.PackMat4s(groups[i].Transforms)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return packed
}

func (m *manager) Upload(groups []batch.Group) ([]bind_group_provider.BindGroupProvider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, ErrReleased
	}

	m.releaseInstances()
	m.frame++
	if len(groups) == 0 {
		return nil, nil
	}

	packed := m.PackInstances(groups)

	// Empty groups keep a nil slot so the result stays index-aligned with groups.
	out := make([]bind_group_provider.BindGroupProvider, len(groups))
	for i, g := range groups {
		if g.InstanceCount() == 0 {
			continue
		}
		label := fmt.Sprintf("instances_f%d_t%d_m%d", m.frame, g.Texture, g.Mesh)
		p, err := m.alloc.CreateInstanceBuffer(label, packed[i], g.InstanceCount())
		if err != nil {
			for _, created := range out {
				if created != nil {
					created.Release()
				}
			}
			return nil, fmt.Errorf("failed to create instance buffer %s: %w", label, err)
		}
		out[i] = p
	}
	m.instances = out

	common.Logger().Debug("instance buffers uploaded", "frame", m.frame, "groups", len(groups))
	return out, nil
}

func (m *manager) LiveInstanceBuffers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := 0
	for _, p := range m.instances {
		if p != nil {
			live++
		}
	}
	return live
}

func (m *manager) releaseInstances() {
	for _, p := range m.instances {
		if p != nil {
			p.Release()
		}
	}
	m.instances = nil
}

func (m *manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.released = true

	m.releaseInstances()
	if m.camera != nil {
		m.camera.Release()
	}
	if m.pool != nil {
		m.pool.Stop()
	}
}
