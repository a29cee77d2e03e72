package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/response"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/services"
	"github.com/wissamraji-ui/mathtutor-backend/internal/tutor"
)

type ChatHandler struct {
	log          *logger.Logger
	tutorService services.TutorService
}

func NewChatHandler(log *logger.Logger, tutorService services.TutorService) *ChatHandler {
	return &ChatHandler{
		log:          log.With("handler", "ChatHandler"),
		tutorService: tutorService,
	}
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	CourseID           string           `json:"course_id" binding:"required"`
	Message            string           `json:"message" binding:"required"`
	Mode               string           `json:"mode" binding:"required"`
	Rigor              string           `json:"rigor" binding:"required"`
	RequestedHintLevel int              `json:"requested_hint_level"`
	Attempt            string           `json:"attempt"`
	History            []historyMessage `json:"history"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	mode, err := tutor.ParseMode(req.Mode)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_mode", err)
		return
	}
	rigor, err := tutor.ParseRigor(req.Rigor)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_rigor", err)
		return
	}
	history, err := toChatMessages(req.History)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_history", err)
		return
	}

	result, err := h.tutorService.Answer(c.Request.Context(), services.AnswerInput{
		UserID:             rd.UserID,
		CourseID:           courseID,
		Message:            req.Message,
		Mode:               mode,
		Rigor:              rigor,
		RequestedHintLevel: req.RequestedHintLevel,
		Attempt:            req.Attempt,
		History:            history,
	})
	if err != nil {
		h.log.Error("Chat failed", "error", err, "user_id", rd.UserID.String(), "course_id", courseID.String())
		response.RespondError(c, http.StatusBadGateway, "chat_failed", err)
		return
	}
	response.RespondOK(c, result)
}

func toChatMessages(history []historyMessage) ([]openai.ChatMessage, error) {
	out := make([]openai.ChatMessage, 0, len(history))
	for i, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, fmt.Errorf("history[%d]: role must be user or assistant, got %q", i, m.Role)
		}
		if m.Content == "" {
			return nil, fmt.Errorf("history[%d]: content is required", i)
		}
		out = append(out, openai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out, nil
}
