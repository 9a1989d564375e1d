package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/facturafacil/facturafacil/internal/billing"
	"github.com/facturafacil/facturafacil/internal/model"
)

const (
	pageMargin      = 15.0
	pageWidth       = 210.0
	contentW        = pageWidth - 2*pageMargin
	pageBreakMargin = 20.0
	headerBandH     = 36.0
	rowH            = 8.0
	itemLineH       = 6.0
	fontFamily      = "Helvetica"
	pdfDateFmt      = "02/01/2006"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{37, 99, 235}
	colorText    = rgb{31, 41, 55}
	colorMuted   = rgb{107, 114, 128}
	colorRowAlt  = rgb{243, 244, 246}
	colorWhite   = rgb{255, 255, 255}

	statusColors = map[model.InvoiceStatus]rgb{
		model.InvoiceStatusPaid:      {34, 197, 94},
		model.InvoiceStatusPending:   {234, 179, 8},
		model.InvoiceStatusOverdue:   {239, 68, 68},
		model.InvoiceStatusCancelled: {156, 163, 175},
	}
)

// item table columns: description, qty, price, total
var columnWidths = [4]float64{contentW - 3*30, 30, 30, 30}

// PDFRenderer draws a single invoice as an A4 document.
type PDFRenderer struct {
	currency string
	compress bool
}

// NewPDFRenderer returns a renderer that prefixes amounts with currency.
func NewPDFRenderer(currency string) *PDFRenderer {
	if currency == "" {
		currency = billing.DefaultCurrencySymbol
	}
	return &PDFRenderer{currency: currency, compress: true}
}

// Render returns the PDF bytes for inv. The invoice must carry its client
// and items.
func (r *PDFRenderer) Render(inv *model.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("render invoice pdf: nil invoice")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "", 8)
		setText(pdf, colorMuted)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.drawHeader(pdf, tr, inv)
	r.drawParties(pdf, tr, inv)
	r.drawItems(pdf, tr, inv.Items)
	r.drawTotals(pdf, tr, inv)
	r.drawNotes(pdf, tr, inv.Notes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	setFill(pdf, colorPrimary)
	pdf.Rect(0, 0, pageWidth, headerBandH, "F")

	setText(pdf, colorWhite)
	pdf.SetFont(fontFamily, "B", 24)
	pdf.SetXY(pageMargin, 10)
	pdf.CellFormat(contentW/2, 12, "INVOICE", "", 0, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 14)
	pdf.CellFormat(contentW/2, 12, tr("#"+inv.InvoiceNumber), "", 1, "R", false, 0, "")

	pdf.SetY(headerBandH + 8)
}

func (r *PDFRenderer) drawParties(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	top := pdf.GetY()
	half := contentW / 2

	setText(pdf, colorMuted)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(half, 5, "BILL TO", "", 1, "L", false, 0, "")

	setText(pdf, colorText)
	if c := inv.Client; c != nil {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(half, 6, tr(c.Name), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		for _, line := range []string{c.Company, c.Email, c.Phone, c.Address} {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pdf.MultiCell(half, 5, tr(line), "", "L", false)
		}
	}
	bottom := pdf.GetY()

	right := pageMargin + half
	pdf.SetXY(right, top)
	r.labelValue(pdf, half, "Date", inv.Date.UTC().Format(pdfDateFmt))
	if inv.DueDate != nil {
		pdf.SetX(right)
		r.labelValue(pdf, half, "Due date", inv.DueDate.UTC().Format(pdfDateFmt))
	}

	pdf.SetX(right)
	pdf.SetFont(fontFamily, "", 10)
	setText(pdf, colorMuted)
	pdf.CellFormat(half-40, 6, "Status", "", 0, "R", false, 0, "")
	color, ok := statusColors[inv.Status]
	if !ok {
		color = colorMuted
	}
	setFill(pdf, color)
	setText(pdf, colorWhite)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(40, 6, strings.ToUpper(inv.Status.Info().Label), "", 1, "C", true, 0, "")

	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetXY(pageMargin, bottom+10)
}

func (r *PDFRenderer) labelValue(pdf *gofpdf.Fpdf, width float64, label, value string) {
	pdf.SetFont(fontFamily, "", 10)
	setText(pdf, colorMuted)
	pdf.CellFormat(width-40, 6, label, "", 0, "R", false, 0, "")
	setText(pdf, colorText)
	pdf.CellFormat(40, 6, value, "", 1, "R", false, 0, "")
}

func (r *PDFRenderer) drawItems(pdf *gofpdf.Fpdf, tr func(string) string, items []model.InvoiceItem) {
	headers := [4]string{"Description", "Qty", "Price", "Total"}

	setFill(pdf, colorPrimary)
	setText(pdf, colorWhite)
	pdf.SetFont(fontFamily, "B", 10)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(columnWidths[i], rowH, h, "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	setText(pdf, colorText)
	setFill(pdf, colorRowAlt)
	_, pageH := pdf.GetPageSize()
	for i, item := range items {
		lines := wrapText(pdf, tr(item.Description), columnWidths[0])
		h := max(float64(len(lines))*itemLineH, rowH)
		if pdf.GetY()+h > pageH-pageBreakMargin {
			pdf.AddPage()
		}

		x, y := pdf.GetX(), pdf.GetY()
		if i%2 == 1 {
			pdf.Rect(x, y, contentW, h, "F")
		}
		for j, line := range lines {
			pdf.SetXY(x, y+float64(j)*itemLineH)
			pdf.CellFormat(columnWidths[0], itemLineH, line, "", 0, "L", false, 0, "")
		}
		pdf.SetXY(x+columnWidths[0], y)
		pdf.CellFormat(columnWidths[1], itemLineH, formatQuantity(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], itemLineH, tr(r.money(item.UnitPrice)), "", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], itemLineH, tr(r.money(item.Total)), "", 0, "R", false, 0, "")
		pdf.SetXY(x, y+h)
	}
	pdf.Ln(4)
}

// wrapText splits text into lines that fit a cell of width w in the
// current font.
func wrapText(pdf *gofpdf.Fpdf, text string, w float64) []string {
	var lines []string
	for _, line := range pdf.SplitLines([]byte(text), w) {
		lines = append(lines, string(line))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func (r *PDFRenderer) drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	labelW := columnWidths[0] + columnWidths[1] + columnWidths[2]
	valueW := columnWidths[3]

	rows := []struct {
		label string
		value float64
	}{
		{"Subtotal", inv.Subtotal},
		{fmt.Sprintf("Tax (%s%%)", formatQuantity(inv.TaxRate)), inv.TaxAmount},
	}

	pdf.SetFont(fontFamily, "", 10)
	setText(pdf, colorText)
	for _, row := range rows {
		pdf.CellFormat(labelW, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, 6, tr(r.money(row.value)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont(fontFamily, "B", 12)
	setText(pdf, colorPrimary)
	pdf.CellFormat(labelW, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 8, tr(r.money(inv.Total)), "T", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func (r *PDFRenderer) drawNotes(pdf *gofpdf.Fpdf, tr func(string) string, notes string) {
	if strings.TrimSpace(notes) == "" {
		return
	}
	setText(pdf, colorMuted)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(0, 5, "NOTES", "", 1, "L", false, 0, "")
	setText(pdf, colorText)
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(contentW, 5, tr(notes), "", "L", false)
}

func (r *PDFRenderer) money(v float64) string {
	return billing.FormatCurrency(r.currency, v)
}

// formatQuantity drops trailing zeros: 2 -> "2", 1.5 -> "1.5".
func formatQuantity(v float64) string {
	s := billing.FormatAmount(v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
