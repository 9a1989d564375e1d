// Package export renders invoices as CSV listings and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/facturafacil/facturafacil/internal/billing"
	"github.com/facturafacil/facturafacil/internal/model"
)

const csvDateLayout = "02/01/2006"

var csvHeader = []string{"Number", "Client", "Date", "Status", "Total"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// WriteInvoicesCSV writes one row per invoice after a header row.
// Dates are dd/mm/yyyy, statuses use their display label and totals have
// two decimals.
func WriteInvoicesCSV(w io.Writer, invoices []model.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, inv := range invoices {
		clientName := ""
		if inv.Client != nil {
			clientName = inv.Client.Name
		}
		record := []string{
			inv.InvoiceNumber,
			clientName,
			inv.Date.UTC().Format(csvDateLayout),
			inv.Status.Info().Label,
			billing.FormatAmount(inv.Total),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", inv.InvoiceNumber, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// CSVFilename returns the download name for an export made on day.
func CSVFilename(day time.Time) string {
	return "invoices_" + day.Format("2006-01-02") + ".csv"
}

// PDFFilename returns the download name for an invoice document.
func PDFFilename(invoiceNumber string) string {
	return "Invoice-" + unsafeFilenameChars.ReplaceAllString(invoiceNumber, "_") + ".pdf"
}
