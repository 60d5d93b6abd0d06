package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ServiceMetrics tracks request and timing metrics for a single service.
type ServiceMetrics struct {
	serviceName           string
	totalRequests         int64
	successfulRequests    int64
	failedRequests        int64
	totalProcessingTime   time.Duration
	averageProcessingTime time.Duration
	lastUpdated           time.Time
	mutex                 sync.RWMutex
}

// MetricsSnapshot is an immutable copy of a service's counters, safe to
// serialize.
type MetricsSnapshot struct {
	ServiceName           string        `json:"service_name"`
	TotalRequests         int64         `json:"total_requests"`
	SuccessfulRequests    int64         `json:"successful_requests"`
	FailedRequests        int64         `json:"failed_requests"`
	SuccessRate           float64       `json:"success_rate"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	LastUpdated           time.Time     `json:"last_updated"`
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		serviceName: serviceName,
		lastUpdated: time.Now(),
	}
}

// RecordRequest records a request with its success status and processing time
func (m *ServiceMetrics) RecordRequest(success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.totalRequests++
	m.totalProcessingTime += processingTime
	m.averageProcessingTime = time.Duration(int64(m.totalProcessingTime) / m.totalRequests)

	if success {
		m.successfulRequests++
	} else {
		m.failedRequests++
	}

	m.lastUpdated = time.Now()
}

// GetSuccessRate returns the success rate as a percentage
func (m *ServiceMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.totalRequests == 0 {
		return 0
	}
	return float64(m.successfulRequests) / float64(m.totalRequests) * 100
}

// Snapshot returns a copy of the current counters.
func (m *ServiceMetrics) Snapshot() MetricsSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var successRate float64
	if m.totalRequests > 0 {
		successRate = float64(m.successfulRequests) / float64(m.totalRequests) * 100
	}

	return MetricsSnapshot{
		ServiceName:           m.serviceName,
		TotalRequests:         m.totalRequests,
		SuccessfulRequests:    m.successfulRequests,
		FailedRequests:        m.failedRequests,
		SuccessRate:           successRate,
		AverageProcessingTime: m.averageProcessingTime,
		LastUpdated:           m.lastUpdated,
	}
}

// LogSummary emits a structured log line with the current counters.
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.Snapshot()
	logrus.WithFields(logrus.Fields{
		"service_name":        snapshot.ServiceName,
		"total_requests":      snapshot.TotalRequests,
		"successful_requests": snapshot.SuccessfulRequests,
		"failed_requests":     snapshot.FailedRequests,
		"success_rate":        snapshot.SuccessRate,
		"avg_processing_time": snapshot.AverageProcessingTime,
	}).Info("Service metrics summary")
}

// MetricsRegistry collects the metrics trackers of every service so the
// metrics endpoint and the reporting job see one list.
type MetricsRegistry struct {
	mutex    sync.RWMutex
	services []*ServiceMetrics
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{}
}

// Register adds a service's tracker to the registry.
func (r *MetricsRegistry) Register(m *ServiceMetrics) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.services = append(r.services, m)
}

// Snapshots returns a snapshot of every registered service.
func (r *MetricsRegistry) Snapshots() []MetricsSnapshot {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	snapshots := make([]MetricsSnapshot, 0, len(r.services))
	for _, m := range r.services {
		snapshots = append(snapshots, m.Snapshot())
	}
	return snapshots
}

// LogSummaries logs one summary line per registered service.
func (r *MetricsRegistry) LogSummaries() {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, m := range r.services {
		m.LogSummary()
	}
}
