package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ClientsCreated           uint64
	ClientsUpdated           uint64
	ClientsDeleted           uint64
	InvoicesCreated          uint64
	InvoicesUpdated          uint64
	InvoicesDeleted          uint64
	UsersRegistered          uint64
	LoginSuccesses           uint64
	LoginFailures            uint64
	LoginRateLimited         uint64
	ExportsCSV               uint64
	ExportsPDF               uint64
	DashboardDurationCount   uint64
	DashboardDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is used directly by tests.
type InMemoryRecorder struct {
	clientsCreated           atomic.Uint64
	clientsUpdated           atomic.Uint64
	clientsDeleted           atomic.Uint64
	invoicesCreated          atomic.Uint64
	invoicesUpdated          atomic.Uint64
	invoicesDeleted          atomic.Uint64
	usersRegistered          atomic.Uint64
	loginSuccesses           atomic.Uint64
	loginFailures            atomic.Uint64
	loginRateLimited         atomic.Uint64
	exportsCSV               atomic.Uint64
	exportsPDF               atomic.Uint64
	dashboardDurationCount   atomic.Uint64
	dashboardDurationTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ClientsCreated:           m.clientsCreated.Load(),
		ClientsUpdated:           m.clientsUpdated.Load(),
		ClientsDeleted:           m.clientsDeleted.Load(),
		InvoicesCreated:          m.invoicesCreated.Load(),
		InvoicesUpdated:          m.invoicesUpdated.Load(),
		InvoicesDeleted:          m.invoicesDeleted.Load(),
		UsersRegistered:          m.usersRegistered.Load(),
		LoginSuccesses:           m.loginSuccesses.Load(),
		LoginFailures:            m.loginFailures.Load(),
		LoginRateLimited:         m.loginRateLimited.Load(),
		ExportsCSV:               m.exportsCSV.Load(),
		ExportsPDF:               m.exportsPDF.Load(),
		DashboardDurationCount:   m.dashboardDurationCount.Load(),
		DashboardDurationTotalNs: m.dashboardDurationTotalNs.Load(),
	}
}

func (m *InMemoryRecorder) IncClientCreated() { m.clientsCreated.Add(1) }
func (m *InMemoryRecorder) IncClientUpdated() { m.clientsUpdated.Add(1) }
func (m *InMemoryRecorder) IncClientDeleted() { m.clientsDeleted.Add(1) }
func (m *InMemoryRecorder) IncInvoiceCreated() { m.invoicesCreated.Add(1) }
func (m *InMemoryRecorder) IncInvoiceUpdated() { m.invoicesUpdated.Add(1) }
func (m *InMemoryRecorder) IncInvoiceDeleted() { m.invoicesDeleted.Add(1) }
func (m *InMemoryRecorder) IncUserRegistered() { m.usersRegistered.Add(1) }

// IncLoginAttempt counts a login by outcome. Unknown outcomes are ignored.
func (m *InMemoryRecorder) IncLoginAttempt(result string) {
	switch result {
	case LoginSuccess:
		m.loginSuccesses.Add(1)
	case LoginFailure:
		m.loginFailures.Add(1)
	case LoginRateLimited:
		m.loginRateLimited.Add(1)
	}
}

// IncExport counts a completed export by format.
func (m *InMemoryRecorder) IncExport(format string) {
	switch format {
	case ExportCSV:
		m.exportsCSV.Add(1)
	case ExportPDF:
		m.exportsPDF.Add(1)
	}
}

// ObserveDashboardDuration records how long a dashboard summary took.
func (m *InMemoryRecorder) ObserveDashboardDuration(duration time.Duration) {
	m.dashboardDurationCount.Add(1)
	m.dashboardDurationTotalNs.Add(duration.Nanoseconds())
}
