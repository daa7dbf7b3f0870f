package performance

import (
	"sync"
	"time"
)

// maxSamples bounds the per-metric sample ring
const maxSamples = 100

// Monitor records durations of named operations such as render passes
type Monitor struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// Metric aggregates durations for one operation
type Metric struct {
	Name      string
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	LastTime  time.Duration
	Samples   []time.Duration
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{metrics: make(map[string]*Metric)}
}

// StartTimer starts timing an operation; call the returned func when done
func (m *Monitor) StartTimer(name string) func() {
	start := time.Now()
	return func() {
		m.Record(name, time.Since(start))
	}
}

// Record adds a duration sample to the named metric
func (m *Monitor) Record(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metric, ok := m.metrics[name]
	if !ok {
		metric = &Metric{Name: name, MinTime: d, MaxTime: d}
		m.metrics[name] = metric
	}

	metric.Count++
	metric.TotalTime += d
	metric.LastTime = d
	metric.MinTime = min(metric.MinTime, d)
	metric.MaxTime = max(metric.MaxTime, d)

	if len(metric.Samples) >= maxSamples {
		metric.Samples = metric.Samples[1:]
	}
	metric.Samples = append(metric.Samples, d)
}

// Metric returns a copy of the named metric, or nil
func (m *Monitor) Metric(name string) *Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metric, ok := m.metrics[name]
	if !ok {
		return nil
	}
	cp := *metric
	cp.Samples = append([]time.Duration(nil), metric.Samples...)
	return &cp
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = make(map[string]*Metric)
}

// AverageTime returns the mean duration over all samples recorded
func (m *Metric) AverageTime() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// RecentAverageTime returns the mean of the last n samples
func (m *Metric) RecentAverageTime(n int) time.Duration {
	if len(m.Samples) == 0 || n <= 0 {
		return 0
	}
	start := max(len(m.Samples)-n, 0)

	var total time.Duration
	for _, s := range m.Samples[start:] {
		total += s
	}
	return total / time.Duration(len(m.Samples)-start)
}
