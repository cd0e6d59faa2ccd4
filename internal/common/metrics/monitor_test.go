package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceMonitor_AverageEmpty(t *testing.T) {
	m := NewPerformanceMonitor(0)

	assert.Equal(t, time.Duration(0), m.Average("job_risk"))
	assert.Equal(t, 0, m.Count("job_risk"))
	assert.Empty(t, m.AveragesMillis())
}

func TestPerformanceMonitor_RollingAverage(t *testing.T) {
	m := NewPerformanceMonitor(10)

	m.Record("income_comparison", 10*time.Millisecond)
	m.Record("income_comparison", 20*time.Millisecond)
	m.Record("income_comparison", 60*time.Millisecond)

	assert.Equal(t, 30*time.Millisecond, m.Average("income_comparison"))
	assert.Equal(t, 3, m.Count("income_comparison"))
	assert.InDelta(t, 30.0, m.AveragesMillis()["income_comparison"], 1e-9)
}

func TestPerformanceMonitor_EvictsOldest(t *testing.T) {
	m := NewPerformanceMonitor(3)

	for i := 1; i <= 4; i++ {
		m.Record("job_risk", time.Duration(i)*time.Millisecond)
	}

	// 1ms has been evicted; (2+3+4)/3
	assert.Equal(t, 3, m.Count("job_risk"))
	assert.Equal(t, 3*time.Millisecond, m.Average("job_risk"))
}

func TestPerformanceMonitor_DefaultBound(t *testing.T) {
	m := NewPerformanceMonitor(0)

	for i := 0; i < 250; i++ {
		m.Record("relationship_impact", time.Millisecond)
	}

	assert.Equal(t, DefaultHistorySize, m.Count("relationship_impact"))
}

func TestPerformanceMonitor_OperationsAreIndependent(t *testing.T) {
	m := NewPerformanceMonitor(5)

	m.Record("a", 4*time.Millisecond)
	m.Record("b", 8*time.Millisecond)

	stats := m.AveragesMillis()
	assert.Len(t, stats, 2)
	assert.InDelta(t, 4.0, stats["a"], 1e-9)
	assert.InDelta(t, 8.0, stats["b"], 1e-9)
}

func TestPerformanceMonitor_Track(t *testing.T) {
	m := NewPerformanceMonitor(5)

	stop := m.Track("composite")
	time.Sleep(2 * time.Millisecond)
	stop()

	assert.Equal(t, 1, m.Count("composite"))
	assert.GreaterOrEqual(t, m.Average("composite"), 2*time.Millisecond)
}

func TestPerformanceMonitor_Reset(t *testing.T) {
	m := NewPerformanceMonitor(5)
	m.Record("a", time.Millisecond)

	m.Reset()

	assert.Equal(t, 0, m.Count("a"))
}

func TestPerformanceMonitor_ConcurrentRecord(t *testing.T) {
	m := NewPerformanceMonitor(100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				m.Record("shared", 5*time.Millisecond)
				_ = m.AveragesMillis()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, m.Count("shared"))
	assert.Equal(t, 5*time.Millisecond, m.Average("shared"))
}
