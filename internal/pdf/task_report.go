package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"uptask/internal/models"
)

// Generator renders a task report; kept as an interface so handlers can be
// tested with a stub.
type Generator interface {
	TaskReport(user *models.User, tasks []models.Task) ([]byte, error)
}

type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) TaskReport(user *models.User, tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Uptask task report", false)
	pdf.SetAuthor("Uptask", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Task report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	sub := fmt.Sprintf("%s - %s", user.Email, time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	var completed, pending, highPriority int
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusPending:
			pending++
		}
		if t.Priority == models.PriorityHigh {
			highPriority++
		}
	}

	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", len(tasks)))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", completed))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", pending))
	g.kvLine(pdf, "High priority", fmt.Sprintf("%d", highPriority))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Title", "B", 0, "L", false, 0, "")
	pdf.CellFormat(28, 7, "Status", "B", 0, "L", false, 0, "")
	pdf.CellFormat(24, 7, "Priority", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Due", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		pdf.CellFormat(80, 6, truncate(t.Title, 48), "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, string(t.Status), "", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, string(t.Priority), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, due, "", 1, "L", false, 0, "")
	}
	if len(tasks) == 0 {
		pdf.CellFormat(0, 6, "No tasks yet.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetXY()
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.Line(left, y, pageWidth-right, y)
	pdf.SetXY(x, y+1)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
