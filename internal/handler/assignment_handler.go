package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/middleware"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/response"
)

type AssignmentHandler struct {
	assignments service.AssignmentService
	submissions service.SubmissionService
}

func NewAssignmentHandler(assignments service.AssignmentService, submissions service.SubmissionService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, submissions: submissions}
}

func (h *AssignmentHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignments, err := h.assignments.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, assignments)
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, assignment)
}

// Create accepts a multipart form: assignment fields plus optional
// "attachments" files.
func (h *AssignmentHandler) Create(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindingError(c, err)
		return
	}

	form, _ := c.MultipartForm()

	assignment, err := h.assignments.Create(c.Request.Context(), middleware.CurrentActor(c), courseID, req, formFiles(form, "attachments"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	assignment, err := h.assignments.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, assignment)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignments.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "assignment deleted")
}

// Submit handles both the first submission and resubmissions; the
// status code distinguishes them.
func (h *AssignmentHandler) Submit(c *gin.Context) {
	assignmentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		bindingError(c, err)
		return
	}

	form, _ := c.MultipartForm()

	submission, created, err := h.submissions.Submit(c.Request.Context(), middleware.CurrentActor(c), assignmentID, req, formFiles(form, "files"))
	if err != nil {
		response.Error(c, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	response.OK(c, code, submission)
}

func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	assignmentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	submissions, err := h.submissions.ListByAssignment(c.Request.Context(), middleware.CurrentActor(c), assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, submissions)
}

func (h *AssignmentHandler) Grade(c *gin.Context) {
	submissionID, ok := parseUUIDParam(c, "submissionId")
	if !ok {
		return
	}

	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	submission, err := h.submissions.Grade(c.Request.Context(), middleware.CurrentActor(c), submissionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, submission)
}
