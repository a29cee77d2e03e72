package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/response"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/services"
)

type RetrieveHandler struct {
	log       *logger.Logger
	retrieval services.RetrievalService
}

func NewRetrieveHandler(log *logger.Logger, retrieval services.RetrievalService) *RetrieveHandler {
	return &RetrieveHandler{
		log:       log.With("handler", "RetrieveHandler"),
		retrieval: retrieval,
	}
}

type retrieveRequest struct {
	CourseID string `json:"course_id" binding:"required"`
	Query    string `json:"query" binding:"required"`
	Limit    int    `json:"limit"`
}

type retrievedPassage struct {
	ChunkID       uuid.UUID `json:"chunk_id"`
	Content       string    `json:"content"`
	DocumentTitle string    `json:"document_title,omitempty"`
	Section       string    `json:"section,omitempty"`
	Page          *int      `json:"page,omitempty"`
	Similarity    *float64  `json:"similarity,omitempty"`
}

// Retrieve exposes the retrieval stage directly, mainly for course authors
// checking what the tutor would see for a given question.
func (h *RetrieveHandler) Retrieve(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	passages := h.retrieval.Retrieve(c.Request.Context(), courseID, req.Query, req.Limit)
	out := make([]retrievedPassage, 0, len(passages))
	for _, p := range passages {
		out = append(out, retrievedPassage{
			ChunkID:       p.ID,
			Content:       p.Content,
			DocumentTitle: p.DocumentTitle,
			Section:       p.SectionLabel,
			Page:          p.PageNumber,
			Similarity:    p.Similarity,
		})
	}
	response.RespondOK(c, gin.H{"passages": out})
}
