package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/cv-analyzer/internal/models"
)

const debuggerVersion = "1.0.0"

// DebuggerService is the process-wide metrics and error log. It is
// constructed once in main and shared by every handler and service;
// appends and reads are mutex-guarded.
type DebuggerService interface {
	LogPerformanceMetric(name string, value float64)
	LogError(err error, context string)
	GetErrorSummary() []models.ErrorEntry
	GetPerformanceMetrics() []models.MetricEntry
	AverageMetrics() map[string]float64
	ExportDebugData() ([]byte, error)
}

type debuggerService struct {
	mu      sync.Mutex
	errors  []models.ErrorEntry
	metrics []models.MetricEntry
}

func NewDebuggerService() DebuggerService {
	return &debuggerService{}
}

// LogPerformanceMetric implements DebuggerService.
func (d *debuggerService) LogPerformanceMetric(name string, value float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metrics = append(d.metrics, models.MetricEntry{
		Metric:    name,
		Value:     value,
		Timestamp: time.Now(),
	})
}

// LogError implements DebuggerService.
func (d *debuggerService) LogError(err error, context string) {
	if err == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.errors = append(d.errors, models.ErrorEntry{
		Timestamp: time.Now(),
		Type:      fmt.Sprintf("%T", err),
		Message:   err.Error(),
		Context:   context,
	})
}

// GetErrorSummary implements DebuggerService.
func (d *debuggerService) GetErrorSummary() []models.ErrorEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	summary := make([]models.ErrorEntry, len(d.errors))
	copy(summary, d.errors)
	return summary
}

// GetPerformanceMetrics implements DebuggerService.
func (d *debuggerService) GetPerformanceMetrics() []models.MetricEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	metrics := make([]models.MetricEntry, len(d.metrics))
	copy(metrics, d.metrics)
	return metrics
}

// AverageMetrics implements DebuggerService. Returns the mean value per
// metric name.
func (d *debuggerService) AverageMetrics() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range d.metrics {
		sums[m.Metric] += m.Value
		counts[m.Metric]++
	}

	averages := make(map[string]float64, len(sums))
	for name, sum := range sums {
		averages[name] = sum / float64(counts[name])
	}
	return averages
}

// ExportDebugData implements DebuggerService.
func (d *debuggerService) ExportDebugData() ([]byte, error) {
	export := models.DebugExport{
		Errors:             d.GetErrorSummary(),
		PerformanceMetrics: d.GetPerformanceMetrics(),
		Timestamp:          time.Now().Format(time.RFC3339),
		Version:            debuggerVersion,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal debug data: %w", err)
	}

	return data, nil
}
