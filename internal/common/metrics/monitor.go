// internal/common/metrics/monitor.go
package metrics

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of samples kept per operation.
const DefaultHistorySize = 100

// PerformanceMonitor keeps a bounded history of durations per operation name
// and reports rolling averages. It is safe for concurrent use.
type PerformanceMonitor struct {
	mu       sync.Mutex
	size     int
	history  map[string]*sampleRing
	observer func(op string, d time.Duration)
}

// NewPerformanceMonitor creates a monitor keeping size samples per operation
// (DefaultHistorySize when size <= 0). Every sample is also observed on the
// OperationDuration histogram.
func NewPerformanceMonitor(size int) *PerformanceMonitor {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &PerformanceMonitor{
		size:    size,
		history: make(map[string]*sampleRing),
		observer: func(op string, d time.Duration) {
			OperationDuration.WithLabelValues(op).Observe(d.Seconds())
		},
	}
}

// Record appends a sample, evicting the oldest one once the history is full.
func (m *PerformanceMonitor) Record(op string, d time.Duration) {
	m.mu.Lock()
	ring, ok := m.history[op]
	if !ok {
		ring = newSampleRing(m.size)
		m.history[op] = ring
	}
	ring.push(d)
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(op, d)
	}
}

// Track returns a func that records the time elapsed since Track was called.
//
//	defer monitor.Track("job_risk")()
func (m *PerformanceMonitor) Track(op string) func() {
	start := time.Now()
	return func() { m.Record(op, time.Since(start)) }
}

// Average returns the arithmetic mean of the current history, 0 if empty.
func (m *PerformanceMonitor) Average(op string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	ring, ok := m.history[op]
	if !ok {
		return 0
	}
	return ring.mean()
}

// Count returns the number of samples currently held for op.
func (m *PerformanceMonitor) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ring, ok := m.history[op]; ok {
		return ring.n
	}
	return 0
}

// AveragesMillis returns the rolling average of every known operation in milliseconds.
func (m *PerformanceMonitor) AveragesMillis() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.history))
	for op, ring := range m.history {
		out[op] = float64(ring.mean()) / float64(time.Millisecond)
	}
	return out
}

// Reset drops every recorded sample.
func (m *PerformanceMonitor) Reset() {
	m.mu.Lock()
	m.history = make(map[string]*sampleRing)
	m.mu.Unlock()
}

// sampleRing is a fixed-capacity ring buffer that overwrites its oldest sample.
type sampleRing struct {
	buf  []time.Duration
	next int
	n    int
}

func newSampleRing(size int) *sampleRing {
	return &sampleRing{buf: make([]time.Duration, size)}
}

func (r *sampleRing) push(d time.Duration) {
	r.buf[r.next] = d
	r.next = (r.next + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

func (r *sampleRing) mean() time.Duration {
	if r.n == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < r.n; i++ {
		total += r.buf[i]
	}
	return total / time.Duration(r.n)
}
