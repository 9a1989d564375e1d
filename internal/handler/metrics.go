package handler

import (
	"fmt"
	"net/http"

	"github.com/facturafacil/facturafacil/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "facturafacil_clients_created_total %d\n", snap.ClientsCreated)
	writeMetric(w, "facturafacil_clients_updated_total %d\n", snap.ClientsUpdated)
	writeMetric(w, "facturafacil_clients_deleted_total %d\n", snap.ClientsDeleted)

	writeMetric(w, "facturafacil_invoices_created_total %d\n", snap.InvoicesCreated)
	writeMetric(w, "facturafacil_invoices_updated_total %d\n", snap.InvoicesUpdated)
	writeMetric(w, "facturafacil_invoices_deleted_total %d\n", snap.InvoicesDeleted)

	writeMetric(w, "facturafacil_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "facturafacil_login_attempts_total{result=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "facturafacil_login_attempts_total{result=\"failure\"} %d\n", snap.LoginFailures)
	writeMetric(w, "facturafacil_login_attempts_total{result=\"rate_limited\"} %d\n", snap.LoginRateLimited)

	writeMetric(w, "facturafacil_exports_total{format=\"csv\"} %d\n", snap.ExportsCSV)
	writeMetric(w, "facturafacil_exports_total{format=\"pdf\"} %d\n", snap.ExportsPDF)

	writeMetric(w, "facturafacil_dashboard_duration_seconds_count %d\n", snap.DashboardDurationCount)
	writeMetric(w, "facturafacil_dashboard_duration_seconds_sum %.6f\n", float64(snap.DashboardDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
