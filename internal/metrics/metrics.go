// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login attempt outcomes.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Export formats.
const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Client management metrics
	IncClientCreated()
	IncClientUpdated()
	IncClientDeleted()

	// Invoice management metrics
	IncInvoiceCreated()
	IncInvoiceUpdated()
	IncInvoiceDeleted()

	// Auth metrics
	IncUserRegistered()
	IncLoginAttempt(result string) // result: "success", "failure", "rate_limited"

	// Export and reporting metrics
	IncExport(format string) // format: "csv" or "pdf"
	ObserveDashboardDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
