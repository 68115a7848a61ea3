package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/signintech/gopdf"
	"github.com/stemsi/markbook/internal/model"
)

const PDFContentType = "application/pdf"

const (
	fontFamily   = "body"
	marginLeft   = 50.0
	marginTop    = 50.0
	pageBottom   = 790.0
	lineHeight   = 18.0
	tableRowStep = 20.0
	tableRight   = 545.0
)

// Report card table columns: subject, max, pass, obtained, percentage, status.
var tableColumns = []struct {
	title string
	x     float64
}{
	{"Subject", marginLeft},
	{"Max", 270},
	{"Pass", 320},
	{"Obtained", 370},
	{"%", 440},
	{"Status", 490},
}

// PDFRenderer draws report cards. The TrueType font is read on first use.
type PDFRenderer struct {
	fontPath string

	once sync.Once
	font []byte
	err  error
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) loadFont() ([]byte, error) {
	r.once.Do(func() {
		r.font, r.err = os.ReadFile(r.fontPath)
		if r.err != nil {
			r.err = fmt.Errorf("load report font: %w", r.err)
		}
	})
	return r.font, r.err
}

// ReportCard writes a one-page A4 report card for card.
func (r *PDFRenderer) ReportCard(w io.Writer, card *model.ReportCard) error {
	font, err := r.loadFont()
	if err != nil {
		return err
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()
	if err := pdf.AddTTFFontData(fontFamily, font); err != nil {
		return fmt.Errorf("register report font: %w", err)
	}

	p := &page{pdf: pdf, y: marginTop}
	rep := card.MarkSheet.Report

	p.text(18, marginLeft, "Report Card")
	p.y += 10
	p.text(11, marginLeft, "Student: "+card.Student.Name)
	p.text(11, marginLeft, fmt.Sprintf("Roll No: %s    Class: %s-%s", card.Student.RollNumber, card.Class.Name, card.Class.Section))
	exam := "Exam: " + card.Exam.Name
	if card.Exam.ExamDate != nil {
		exam += "    Date: " + card.Exam.ExamDate.Format("02 Jan 2006")
	}
	p.text(11, marginLeft, exam)
	p.y += 10

	p.rule()
	p.row(11, columnTitles()...)
	p.rule()
	for _, sr := range rep.SubjectResults {
		status := "Pass"
		if !sr.IsPassed {
			status = "Fail"
		}
		p.row(10,
			sr.SubjectName,
			strconv.Itoa(sr.MaxMarks),
			strconv.Itoa(sr.PassingMarks),
			strconv.Itoa(sr.ObtainedMarks),
			strconv.Itoa(sr.Percentage),
			status,
		)
	}
	p.rule()
	p.row(11, "Total", strconv.Itoa(rep.TotalMaximum), "", strconv.Itoa(rep.TotalObtained), strconv.Itoa(rep.OverallPercentage), "")
	p.rule()
	p.y += 10

	p.text(12, marginLeft, fmt.Sprintf("Overall: %d%%    Grade: %s", rep.OverallPercentage, rep.OverallGrade))
	p.text(12, marginLeft, fmt.Sprintf("Result: %s    Subjects failed: %d", ResultLabel(rep.IsPromoted), rep.FailedSubjectCount))
	if card.MarkSheet.Remark != "" {
		p.text(11, marginLeft, "Remark: "+card.MarkSheet.Remark)
	}
	if card.MarkSheet.SubmittedByName != "" {
		p.y += 10
		p.text(9, marginLeft, "Entered by "+card.MarkSheet.SubmittedByName)
	}
	if p.err != nil {
		return p.err
	}

	return pdf.Write(w)
}

func columnTitles() []string {
	titles := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		titles[i] = c.title
	}
	return titles
}

// page tracks the cursor and keeps the first drawing error.
type page struct {
	pdf *gopdf.GoPdf
	y   float64
	err error
}

func (p *page) ensureRoom(h float64) {
	if p.y+h > pageBottom {
		p.pdf.AddPage()
		p.y = marginTop
	}
}

func (p *page) text(size int, x float64, s string) {
	p.ensureRoom(lineHeight)
	p.cell(size, x, s)
	p.y += lineHeight
}

func (p *page) row(size int, cells ...string) {
	p.ensureRoom(tableRowStep)
	for i, s := range cells {
		if i < len(tableColumns) && s != "" {
			p.cell(size, tableColumns[i].x, s)
		}
	}
	p.y += tableRowStep
}

func (p *page) rule() {
	p.pdf.Line(marginLeft, p.y-4, tableRight, p.y-4)
}

func (p *page) cell(size int, x float64, s string) {
	if p.err != nil {
		return
	}
	if err := p.pdf.SetFont(fontFamily, "", size); err != nil {
		p.err = err
		return
	}
	p.pdf.SetXY(x, p.y)
	if err := p.pdf.Cell(nil, s); err != nil {
		p.err = err
	}
}
