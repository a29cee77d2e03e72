package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/response"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/services"
)

// Uploads are plain text or markdown course notes; 16 MiB is generous.
const maxUploadBytes = 16 << 20

type DocumentHandler struct {
	log           *logger.Logger
	ingestService services.IngestService
}

func NewDocumentHandler(log *logger.Logger, ingestService services.IngestService) *DocumentHandler {
	return &DocumentHandler{
		log:           log.With("handler", "DocumentHandler"),
		ingestService: ingestService,
	}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	courseID, err := uuid.Parse(c.PostForm("course_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", maxUploadBytes))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	if len(data) > maxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", maxUploadBytes))
		return
	}

	result, err := h.ingestService.IngestDocument(c.Request.Context(), services.IngestInput{
		CourseID:   courseID,
		Title:      c.PostForm("title"),
		Filename:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		Data:       data,
		UploadedBy: rd.UserID,
	})
	if err != nil {
		h.log.Error("Document ingest failed", "error", err, "course_id", courseID.String(), "user_id", rd.UserID.String())
		response.RespondError(c, http.StatusUnprocessableEntity, "ingest_failed", err)
		return
	}
	response.RespondCreated(c, result)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	if err := h.ingestService.DeleteDocument(c.Request.Context(), documentID); err != nil {
		h.log.Error("Document delete failed", "error", err, "document_id", documentID.String())
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": documentID})
}
