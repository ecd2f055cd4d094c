package invoice

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/tcm-pricing/internal/pricing"
)

const cjkFamily = "cjk"

// PDFRenderer lays out an invoice as a single A4 page. The built-in PDF fonts
// cover Latin-1 only, so Chinese names need FontPath pointing at a UTF-8 TTF
// such as Noto Sans SC. Without one, non-Latin names print as the medicine id.
type PDFRenderer struct {
	FontPath string
}

// Render writes the PDF for inv to w.
func (p PDFRenderer) Render(w io.Writer, inv pricing.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	if p.FontPath != "" {
		pdf.AddUTF8Font(cjkFamily, "", p.FontPath)
		family = cjkFamily
	}
	text := p.encoder(pdf)
	pdf.SetTitle("Invoice "+inv.ID, true)
	pdf.AddPage()

	pdf.SetFont(family, "", 16)
	pdf.CellFormat(0, 10, text("Invoice "+inv.ID), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, text("Date: "+inv.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, text("Pharmacy: "+label(inv.PharmacyName, "-", p.FontPath != "")), "", 1, "L", false, 0, "")
	if inv.PrescriptionID != "" {
		pdf.CellFormat(0, 6, text("Prescription: "+inv.PrescriptionID), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{60, 25, 25, 25, 25, 30}
	headers := []string{"Medicine", "Qty (g)", "Retail/g", "Cost/g", "Wholesale/g", "Subtotal"}
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, line := range inv.Items {
		cells := []string{
			text(label(line.Name, line.ID, p.FontPath != "")),
			trimFloat(line.Quantity),
			pricing.Money(line.RetailPricePerGram),
			pricing.Money(line.CostPricePerGram),
			pricing.Money(line.WholesalePricePerGram),
			pricing.Money(line.SubtotalCost),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(2)
	total := widths[0] + widths[1] + widths[2] + widths[3] + widths[4]
	pdf.CellFormat(total, 7, "Prescription fee", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 7, pricing.Money(inv.PrescriptionFee), "", 1, "R", false, 0, "")
	pdf.SetFont(family, "", 12)
	pdf.CellFormat(total, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 8, pricing.Money(inv.TotalCost), "T", 1, "R", false, 0, "")

	if len(inv.Skipped) > 0 {
		pdf.Ln(4)
		pdf.SetFont(family, "", 9)
		pdf.MultiCell(0, 5, text(fmt.Sprintf("Not priced (unknown medicine): %v", inv.Skipped)), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.ID, err)
	}
	return pdf.Output(w)
}

func (p PDFRenderer) encoder(pdf *gofpdf.Fpdf) func(string) string {
	if p.FontPath != "" {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}

// label returns name when the active font can draw it, otherwise fallback.
func label(name, fallback string, unicode bool) string {
	if name == "" {
		return fallback
	}
	if unicode || isLatin1(name) {
		return name
	}
	return fallback
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF || r == utf8.RuneError {
			return false
		}
	}
	return true
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
