package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/markbook/internal/export"
	"github.com/stemsi/markbook/internal/response"
	"github.com/stemsi/markbook/internal/service"
)

// ReportHandler serves report cards. Ownership is enforced by
// middleware.RequireOwnStudent on the route.
type ReportHandler struct {
	reportService *service.ReportService
	pdf           *export.PDFRenderer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, pdf *export.PDFRenderer) *ReportHandler {
	return &ReportHandler{reportService: reportService, pdf: pdf}
}

// GetReportCard godoc
// GET /api/v1/reports/students/:student_id/exams/:exam_id
func (h *ReportHandler) GetReportCard(c *gin.Context) {
	studentID, ok := intParam(c, "student_id")
	if !ok {
		return
	}
	examID, ok := uuidParam(c, "exam_id")
	if !ok {
		return
	}

	card, err := h.reportService.GetReportCard(c.Request.Context(), studentID, examID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report_card": card})
}

// ListResults godoc
// GET /api/v1/reports/students/:student_id
func (h *ReportHandler) ListResults(c *gin.Context) {
	studentID, ok := intParam(c, "student_id")
	if !ok {
		return
	}

	results, err := h.reportService.ListResults(c.Request.Context(), studentID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetReportCardPDF godoc
// GET /api/v1/reports/students/:student_id/exams/:exam_id/pdf
func (h *ReportHandler) GetReportCardPDF(c *gin.Context) {
	studentID, ok := intParam(c, "student_id")
	if !ok {
		return
	}
	examID, ok := uuidParam(c, "exam_id")
	if !ok {
		return
	}

	card, err := h.reportService.GetReportCard(c.Request.Context(), studentID, examID)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("report-card-%s-%s.pdf", card.Student.RollNumber, examID)
	attachment(c, filename, export.PDFContentType, func(w io.Writer) error {
		return h.pdf.ReportCard(w, card)
	})
}

// GetExamResults godoc
// GET /api/v1/reports/exams/:exam_id/results
func (h *ReportHandler) GetExamResults(c *gin.Context) {
	examID, ok := uuidParam(c, "exam_id")
	if !ok {
		return
	}

	results, err := h.reportService.ExamResults(c.Request.Context(), examID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ExportExamResults godoc
// GET /api/v1/reports/exams/:exam_id/results/export
func (h *ReportHandler) ExportExamResults(c *gin.Context) {
	examID, ok := uuidParam(c, "exam_id")
	if !ok {
		return
	}

	results, err := h.reportService.ExamResults(c.Request.Context(), examID)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("results-%s-%s.xlsx", results.Class.Name, results.Class.Section)
	attachment(c, filename, export.XLSXContentType, func(w io.Writer) error {
		return export.ExamResultsWorkbook(w, results)
	})
}

// attachment buffers the whole document before writing. On a render error
// only the JSON error envelope is sent and the error is recorded on c.
func attachment(c *gin.Context, filename, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		internalError(c, fmt.Errorf("render %s: %w", filename, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
