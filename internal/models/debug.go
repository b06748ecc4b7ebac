package models

import "time"

// ErrorEntry is one logged fault with its context tag.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Context   string    `json:"context"`
}

// MetricEntry is one recorded performance measurement.
type MetricEntry struct {
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// DebugExport is the downloadable dump of the debugger state.
type DebugExport struct {
	Errors             []ErrorEntry  `json:"errors"`
	PerformanceMetrics []MetricEntry `json:"performance_metrics"`
	Timestamp          string        `json:"timestamp"`
	Version            string        `json:"version"`
}
