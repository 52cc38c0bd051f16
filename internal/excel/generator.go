package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/propline/crm-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

var leadHeaders = []string{
	"First name",
	"Last name",
	"Email",
	"Phone",
	"Source",
	"Status",
	"Stage",
	"Budget min",
	"Budget max",
	"Preferred unit types",
	"Preferred location",
	"Score",
	"Created at",
}

// Generate renders the filtered lead list as a single-sheet workbook.
func (g *Generator) Generate(orgName string, leads []model.Lead, generatedAt time.Time) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Leads"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Organization")
	set("B1", orgName)
	set("A2", "Generated at")
	set("B2", generatedAt.Format(time.RFC3339))
	set("A3", "Total leads")
	set("B3", len(leads))

	headerRow := 5
	for i, header := range leadHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		set(cell, header)
	}

	for i, lead := range leads {
		row := headerRow + 1 + i
		values := []interface{}{
			lead.FirstName,
			lead.LastName,
			stringValue(lead.Email),
			lead.Phone,
			lead.Source,
			string(lead.Status),
			string(lead.Stage),
			floatValue(lead.BudgetMin),
			floatValue(lead.BudgetMax),
			strings.Join(lead.PreferredUnitTypes, ", "),
			stringValue(lead.PreferredLocation),
			intValue(lead.Score),
			lead.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			set(cell, value)
		}
	}

	if err := file.SetColWidth(sheet, "A", "M", 18); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatValue(value *float64) interface{} {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *value)
}

func intValue(value *int) interface{} {
	if value == nil {
		return ""
	}
	return *value
}
