package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-front/common"
)

// Sample is one reporting interval's worth of frame statistics.
type Sample struct {
	Elapsed time.Duration
	FPS     float64
	// DrawCallsPerSecond and GroupsPerSecond average the counters passed to Tick.
	DrawCallsPerSecond float64
	GroupsPerSecond    float64
	InstancesPerSecond float64
	Skipped            int
	HeapMB             float64
	AllocRateMB        float64
	GCCount            uint32
}

// Profiler tracks frame rate, draw-call throughput and memory statistics.
// Outputs a Sample to the shared logger at a configurable interval.
type Profiler struct {
	frameCount     int
	drawCalls      int
	groups         int
	instances      int
	skipped        int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	now            func() time.Time
	last           Sample
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets the reporting interval. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// Tick should be called once per frame with that frame's counters.
// Logs a Sample when the update interval has elapsed.
//
// Parameters:
//   - drawCalls: draws recorded this frame
//   - groups: groups submitted this frame
//   - instances: instances drawn this frame
//   - skipped: groups skipped this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(drawCalls, groups, instances, skipped int) bool {
	p.frameCount++
	p.drawCalls += drawCalls
	p.groups += groups
	p.instances += instances
	p.skipped += skipped

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	secs := elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	p.last = Sample{
		Elapsed:            elapsed,
		FPS:                float64(p.frameCount) / secs,
		DrawCallsPerSecond: float64(p.drawCalls) / secs,
		GroupsPerSecond:    float64(p.groups) / secs,
		InstancesPerSecond: float64(p.instances) / secs,
		Skipped:            p.skipped,
		HeapMB:             float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:        float64(allocDelta) / 1024 / 1024 / secs,
		GCCount:            p.memStats.NumGC,
	}

	common.Logger().Info("profiler",
		"fps", p.last.FPS,
		"draws_per_sec", p.last.DrawCallsPerSecond,
		"groups_per_sec", p.last.GroupsPerSecond,
		"instances_per_sec", p.last.InstancesPerSecond,
		"skipped", p.last.Skipped,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb", p.last.AllocRateMB,
		"gc", p.last.GCCount,
	)

	p.frameCount, p.drawCalls, p.groups, p.instances, p.skipped = 0, 0, 0, 0, 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged Sample.
func (p *Profiler) Last() Sample {
	return p.last
}
