package model

type Period struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type MemoryStats struct {
	Sys       uint64 `json:"sys"`
	HeapAlloc uint64 `json:"heapAlloc"`
	HeapSys   uint64 `json:"heapSys"`
}

// StatusMetrics is a snapshot of the sampler ring buffers. Period bounds are
// unix milliseconds.
type StatusMetrics struct {
	Segments     int               `json:"segments"`
	IntervalMs   int64             `json:"intervalMs"`
	PeriodMs     int64             `json:"periodMs"`
	Period       Period            `json:"period"`
	Connectivity []bool            `json:"connectivity"`
	Operations   []bool            `json:"operations"`
	Tables       map[string][]bool `json:"tables"`
	API          []bool            `json:"api"`
	DBLatency    []int64           `json:"dbLatency"`
	APILatency   []int64           `json:"apiLatency"`
	Memory       MemoryStats       `json:"memory"`
}

type DBMetrics struct {
	Connected bool   `json:"connected"`
	SizeBytes int64  `json:"sizeBytes"`
	MaxBytes  int64  `json:"maxBytes"`
	Error     string `json:"error,omitempty"`
}
