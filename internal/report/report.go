package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/cjeanneret/TrapGo/internal/catalog"
)

// WritePDF renders a one-day capture report to outPath.
func WritePDF(outPath string, day time.Time, caps []catalog.Capture) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("TrapGo capture report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Capture report for %s", day.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if len(caps) == 0 {
		pdf.Cell(0, 8, "No captures recorded on this day.")
		return pdf.OutputFileAndClose(outPath)
	}

	var total int64
	for _, c := range caps {
		total += c.SizeBytes
	}
	pdf.Cell(0, 8, fmt.Sprintf("%d captures, %s total", len(caps), formatSize(total)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 7, "Time", "1", 0, "L", false, 0, "")
	pdf.CellFormat(100, 7, "File", "1", 0, "L", false, 0, "")
	pdf.CellFormat(28, 7, "Mode", "1", 0, "L", false, 0, "")
	pdf.CellFormat(22, 7, "Size", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range caps {
		pdf.CellFormat(30, 6, c.TakenAt.Local().Format("15:04:05"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, filepath.Base(c.Path), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, c.Mode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, formatSize(c.SizeBytes), "1", 1, "R", false, 0, "")
	}

	return pdf.OutputFileAndClose(outPath)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
