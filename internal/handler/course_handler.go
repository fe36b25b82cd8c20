package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/middleware"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/response"
)

type CourseHandler struct {
	courses  service.CourseService
	lectures service.LectureService
}

func NewCourseHandler(courses service.CourseService, lectures service.LectureService) *CourseHandler {
	return &CourseHandler{courses: courses, lectures: lectures}
}

func (h *CourseHandler) List(c *gin.Context) {
	var filter dto.CourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindingError(c, err)
		return
	}
	filter.Normalize()

	courses, total, err := h.courses.List(c.Request.Context(), middleware.CurrentActor(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, courses, response.NewMeta(filter.Page, filter.Limit, total))
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "course deleted")
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courses.Enroll(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "enrolled")
}

func (h *CourseHandler) TogglePublish(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courses.TogglePublish(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, course)
}

// AddLecture accepts a multipart form with lecture fields plus an
// optional "video" file.
func (h *CourseHandler) AddLecture(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateLectureRequest
	if err := c.ShouldBind(&req); err != nil {
		bindingError(c, err)
		return
	}

	video, err := c.FormFile("video")
	if err != nil {
		video = nil
	}

	lecture, err := h.lectures.Add(c.Request.Context(), middleware.CurrentActor(c), courseID, req, video)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, lecture)
}

func (h *CourseHandler) UpdateLecture(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	lectureID, ok := parseUUIDParam(c, "lectureId")
	if !ok {
		return
	}

	var req dto.UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	lecture, err := h.lectures.Update(c.Request.Context(), middleware.CurrentActor(c), courseID, lectureID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, lecture)
}

func (h *CourseHandler) DeleteLecture(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	lectureID, ok := parseUUIDParam(c, "lectureId")
	if !ok {
		return
	}

	if err := h.lectures.Delete(c.Request.Context(), middleware.CurrentActor(c), courseID, lectureID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "lecture deleted")
}
