package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/propline/crm-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders a printable one-page summary for a single lead.
func (g *Generator) Generate(lead model.Lead) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Lead summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s %s", lead.FirstName, lead.LastName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created %s", formatDate(lead.CreatedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.section(pdf, "Contact")
	g.field(pdf, "Phone", lead.Phone)
	g.field(pdf, "Email", safeString(lead.Email))
	g.field(pdf, "Source", lead.Source)
	pdf.Ln(2)

	g.section(pdf, "Funnel")
	g.field(pdf, "Status", string(lead.Status))
	g.field(pdf, "Stage", string(lead.Stage))
	g.field(pdf, "Score", scoreLabel(lead.Score))
	g.field(pdf, "Next follow-up", formatDatePtr(lead.NextFollowup))
	g.field(pdf, "Last contacted", formatDatePtr(lead.LastContacted))
	pdf.Ln(2)

	g.section(pdf, "Preferences")
	g.field(pdf, "Budget", budgetLabel(lead.BudgetMin, lead.BudgetMax))
	g.field(pdf, "Unit types", strings.Join(lead.PreferredUnitTypes, ", "))
	g.field(pdf, "Location", safeString(lead.PreferredLocation))
	pdf.Ln(2)

	if lead.Requirements != nil && *lead.Requirements != "" {
		g.section(pdf, "Requirements")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, *lead.Requirements, "", "L", false)
		pdf.Ln(2)
	}
	if lead.Notes != nil && *lead.Notes != "" {
		g.section(pdf, "Notes")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, *lead.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *Generator) field(pdf *gofpdf.Fpdf, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(45, 5, label, "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 5, value, "", "L", false)
}

func safeString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func scoreLabel(score *int) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%d / 100", *score)
}

func budgetLabel(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%.0f - %.0f", *min, *max)
	case min != nil:
		return fmt.Sprintf("from %.0f", *min)
	case max != nil:
		return fmt.Sprintf("up to %.0f", *max)
	default:
		return ""
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
