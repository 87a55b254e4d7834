package infra

// pdf.go — close-of-till Z-report generation using go-pdf/fpdf.
// Thermal receipt format: register header, session window, per-method
// breakdown, type totals, expected vs counted cash and the variance line.
// The output file is saved to storagePath/zreport_{sessionID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"mesapos/internal/model"
	"mesapos/internal/service"

	"github.com/go-pdf/fpdf"
)

// GenerateSessionReportPDF renders the Z-report for a closed session.
// Returns the absolute path to the generated file.
func GenerateSessionReportPDF(session *model.CashRegisterSession, registerName string,
	summary *service.SessionSummary, storagePath string) (string, error) {

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("zreport_%s.pdf", session.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 140mm — thermal receipt paper, longer than a sale ticket to fit
	// the breakdown tables.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "MesaPOS", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Cash Session Z-Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Session window ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Register: "+registerName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Opened: "+session.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if session.ClosedAt != nil {
		pdf.CellFormat(contentW, 4, "Closed: "+session.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Movements: %d", summary.MovementCount), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Per-method breakdown ──────────────────────────────────────────────────
	col1 := contentW * 0.40
	col2 := contentW * 0.30
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Method", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "In", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 5, "Out", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, row := range summary.ByMethod {
		if row.Income.IsZero() && row.Expense.IsZero() {
			continue
		}
		pdf.CellFormat(col1, 5, string(row.Method), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "$"+row.Income.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+row.Expense.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)

	// ── Type totals ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, t := range model.AllMovementTypes {
		total := summary.TotalsByType[t]
		if total.IsZero() {
			continue
		}
		pdf.CellFormat(col1+col2, 4, string(t)+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Reconciliation ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 5, "Opening float:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+summary.OpeningAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "EXPECTED CASH:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+summary.ExpectedCash.StringFixed(2), "", 1, "R", false, 0, "")

	if summary.CountedCash != nil && summary.Variance != nil {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(col1+col2, 5, "Counted cash:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+summary.CountedCash.StringFixed(2), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1+col2, 5, "Variance:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+summary.Variance.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if session.ClosingNotes != nil && *session.ClosingNotes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, "Notes: "+*session.ClosingNotes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
