package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/markbook/internal/middleware"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/response"
	"github.com/stemsi/markbook/internal/service"
	"github.com/stemsi/markbook/internal/validator"
)

// MarksHandler handles mark entry.
type MarksHandler struct {
	markService *service.MarkSheetService
}

// NewMarksHandler creates a new MarksHandler.
func NewMarksHandler(markService *service.MarkSheetService) *MarksHandler {
	return &MarksHandler{markService: markService}
}

// PreviewReport godoc
// POST /api/v1/marks/preview
// Computes a report from complete subject marks without storing anything.
func (h *MarksHandler) PreviewReport(c *gin.Context) {
	var req model.PreviewMarksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	report, err := h.markService.Preview(&req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// SubmitMarks godoc
// POST /api/v1/marks
// Stores a student's marks for an exam, replacing any earlier entry.
func (h *MarksHandler) SubmitMarks(c *gin.Context) {
	var req model.SubmitMarksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sheet, err := h.markService.Submit(c.Request.Context(), middleware.GetClaims(c).Actor(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"mark_sheet": sheet})
}

// GetMarkSheet godoc
// GET /api/v1/marks?exam_id=&student_id=
// Returns the previously entered marks, used to pre-fill the entry form.
func (h *MarksHandler) GetMarkSheet(c *gin.Context) {
	var q model.MarkSheetQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	examID, err := uuid.Parse(q.ExamID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sheet, err := h.markService.Get(c.Request.Context(), examID, q.StudentID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mark_sheet": sheet})
}

// GetQueue godoc
// GET /api/v1/marks/queue?class_id=
// Lists per exam how many students still await marks.
func (h *MarksHandler) GetQueue(c *gin.Context) {
	classID, ok := optionalClassID(c)
	if !ok {
		return
	}

	progress, err := h.markService.Queue(c.Request.Context(), classID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": progress})
}
