package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/response"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/repos"
	"github.com/wissamraji-ui/mathtutor-backend/internal/types"
)

type CourseHandler struct {
	log     *logger.Logger
	courses repos.CourseRepo
}

func NewCourseHandler(log *logger.Logger, courses repos.CourseRepo) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		courses: courses,
	}
}

type createCourseRequest struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), nil, &types.Course{
		Slug:  req.Slug,
		Title: req.Title,
	})
	if err != nil {
		h.log.Error("Course create failed", "error", err, "slug", req.Slug)
		response.RespondError(c, http.StatusInternalServerError, "course_create_failed", err)
		return
	}
	response.RespondCreated(c, course)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("Course list failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "course_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}
