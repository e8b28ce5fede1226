// Package status keeps process-local connectivity and latency history in
// fixed-size ring buffers. History starts empty on every process start.
package status

import (
	"runtime"
	"sync"
	"time"

	"github.com/nurpe/contract-archive/internal/model"
)

// Recorder owns the ring buffers. The slot for an instant is
// (unix millis / interval) mod segments, so two writes in the same interval
// overwrite the same slot.
type Recorder struct {
	mu       sync.RWMutex
	segments int
	interval time.Duration
	now      func() time.Time

	connectivity []bool
	operations   []bool
	tables       map[model.Table][]bool
	api          []bool
	dbLatency    []int64
	apiLatency   []int64
}

func NewRecorder(segments int, interval time.Duration) *Recorder {
	return newRecorderWithClock(segments, interval, time.Now)
}

func newRecorderWithClock(segments int, interval time.Duration, now func() time.Time) *Recorder {
	if segments <= 0 {
		segments = 1
	}
	if interval < time.Millisecond {
		interval = time.Second
	}
	tables := make(map[model.Table][]bool, len(model.Tables))
	for _, table := range model.Tables {
		tables[table] = make([]bool, segments)
	}
	return &Recorder{
		segments:     segments,
		interval:     interval,
		now:          now,
		connectivity: make([]bool, segments),
		operations:   make([]bool, segments),
		tables:       tables,
		api:          make([]bool, segments),
		dbLatency:    make([]int64, segments),
		apiLatency:   make([]int64, segments),
	}
}

// Index returns the slot for t.
func (r *Recorder) Index(t time.Time) int {
	return int((t.UnixMilli() / r.interval.Milliseconds()) % int64(r.segments))
}

// Now exposes the recorder clock so callers stamp with the same time source.
func (r *Recorder) Now() time.Time {
	return r.now()
}

func (r *Recorder) Window() time.Duration {
	return time.Duration(r.segments) * r.interval
}

// Probe is the outcome of one sampler tick.
type Probe struct {
	Connected bool
	Latency   time.Duration
	Tables    map[model.Table]bool
}

// RecordProbe stores a sampler result in the slot of at. Operations is true
// only when the store is reachable and every table answered.
func (r *Recorder) RecordProbe(at time.Time, p Probe) {
	idx := r.Index(at)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.connectivity[idx] = p.Connected
	if p.Connected {
		r.dbLatency[idx] = p.Latency.Milliseconds()
	}

	allOK := p.Connected
	for _, table := range model.Tables {
		ok := p.Connected && p.Tables[table]
		r.tables[table][idx] = ok
		if !ok {
			allOK = false
		}
	}
	r.operations[idx] = allOK
}

// RecordRequest marks the API operational in the slot where the request
// started.
func (r *Recorder) RecordRequest(started time.Time, latency time.Duration) {
	idx := r.Index(started)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.api[idx] = true
	r.apiLatency[idx] = latency.Milliseconds()
}

func (r *Recorder) Snapshot() model.StatusMetrics {
	end := r.now().UnixMilli()

	r.mu.RLock()
	tables := make(map[string][]bool, len(r.tables))
	for table, values := range r.tables {
		tables[table.String()] = append([]bool(nil), values...)
	}
	metrics := model.StatusMetrics{
		Segments:     r.segments,
		IntervalMs:   r.interval.Milliseconds(),
		PeriodMs:     r.Window().Milliseconds(),
		Period:       model.Period{Start: end - r.Window().Milliseconds(), End: end},
		Connectivity: append([]bool(nil), r.connectivity...),
		Operations:   append([]bool(nil), r.operations...),
		Tables:       tables,
		API:          append([]bool(nil), r.api...),
		DBLatency:    append([]int64(nil), r.dbLatency...),
		APILatency:   append([]int64(nil), r.apiLatency...),
	}
	r.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.Memory = model.MemoryStats{
		Sys:       mem.Sys,
		HeapAlloc: mem.HeapAlloc,
		HeapSys:   mem.HeapSys,
	}
	return metrics
}
