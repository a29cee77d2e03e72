package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/response"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/services"
	"github.com/wissamraji-ui/mathtutor-backend/internal/tutor"
)

type PracticeHandler struct {
	log          *logger.Logger
	tutorService services.TutorService
}

func NewPracticeHandler(log *logger.Logger, tutorService services.TutorService) *PracticeHandler {
	return &PracticeHandler{
		log:          log.With("handler", "PracticeHandler"),
		tutorService: tutorService,
	}
}

type practiceRequest struct {
	CourseID   string `json:"course_id" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

func (h *PracticeHandler) Generate(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req practiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	difficulty, err := tutor.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_difficulty", err)
		return
	}

	result, err := h.tutorService.GeneratePractice(c.Request.Context(), services.PracticeInput{
		CourseID:   courseID,
		Topic:      req.Topic,
		Difficulty: difficulty,
	})
	if err != nil {
		h.log.Error("Practice generation failed", "error", err, "user_id", rd.UserID.String(), "course_id", courseID.String())
		response.RespondError(c, http.StatusBadGateway, "practice_failed", err)
		return
	}
	response.RespondOK(c, result)
}
