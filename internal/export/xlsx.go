// Package export writes language reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the language breakdown
const SheetName = "Languages"

var header = []interface{}{"Language", "Bytes", "Lines", "Share (%)"}

// WriteReport writes the ranked languages of report as an XLSX workbook,
// followed by a total row.
func WriteReport(w io.Writer, report *models.LanguageReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	shares := report.Results.Ranked()
	lines := 0
	for i, share := range shares {
		row := []interface{}{share.Language, share.Bytes, share.Lines, share.Percent}
		if err := f.SetSheetRow(SheetName, cell(1, i+2), &row); err != nil {
			return err
		}
		lines += share.Lines
	}

	totalRow := len(shares) + 2
	total := []interface{}{"Total", report.Results.Total, lines}
	if err := f.SetSheetRow(SheetName, cell(1, totalRow), &total); err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, cell(1, totalRow), cell(3, totalRow), bold); err != nil {
		return err
	}
	if len(shares) > 0 {
		if err := f.SetCellStyle(SheetName, "D2", cell(4, len(shares)+1), percent); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 24); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("%s languages (%s)", report.Login, report.Mode),
		Creator: "langscope",
	}); err != nil {
		return err
	}

	return f.Write(w)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
