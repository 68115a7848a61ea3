// Package export renders results into downloadable documents: class result
// sheets as Excel workbooks and report cards as PDF.
package export

import (
	"fmt"
	"io"

	"github.com/stemsi/markbook/internal/model"
	"github.com/xuri/excelize/v2"
)

// ResultsSheet is the worksheet holding the class results.
const ResultsSheet = "Sheet1"

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExamResultsWorkbook writes one row per student with the obtained marks of
// every class subject followed by the totals. Subjects a student has no mark
// for are left blank.
func ExamResultsWorkbook(w io.Writer, res *model.ExamResults) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"Roll No", "Name"}
	for _, s := range res.Subjects {
		header = append(header, fmt.Sprintf("%s (%d)", s.Name, s.MaxMarks))
	}
	header = append(header, "Total", "Max", "Percentage", "Grade", "Result")

	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	for i, row := range res.Rows {
		obtained := make(map[int]int, len(row.SubjectResults))
		for _, sr := range row.SubjectResults {
			obtained[sr.SubjectID] = sr.ObtainedMarks
		}

		values := []interface{}{row.RollNumber, row.StudentName}
		for _, s := range res.Subjects {
			if v, ok := obtained[s.ID]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		values = append(values,
			row.TotalObtained,
			row.TotalMaximum,
			row.OverallPercentage,
			string(row.OverallGrade),
			ResultLabel(row.IsPromoted),
		)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ResultsSheet, "B", "B", 28); err != nil {
		return err
	}

	return f.Write(w)
}

// ResultLabel is the printed promotion outcome.
func ResultLabel(promoted bool) string {
	if promoted {
		return "Promoted"
	}
	return "Not Promoted"
}
