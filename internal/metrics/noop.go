package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncClientCreated() {}
func (n *NoopRecorder) IncClientUpdated() {}
func (n *NoopRecorder) IncClientDeleted() {}
func (n *NoopRecorder) IncInvoiceCreated() {}
func (n *NoopRecorder) IncInvoiceUpdated() {}
func (n *NoopRecorder) IncInvoiceDeleted() {}
func (n *NoopRecorder) IncUserRegistered() {}
func (n *NoopRecorder) IncLoginAttempt(result string) {}
func (n *NoopRecorder) IncExport(format string) {}
func (n *NoopRecorder) ObserveDashboardDuration(duration time.Duration) {}
