package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wissamraji-ui/mathtutor-backend/internal/ingestion"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/qdrant"
	"github.com/wissamraji-ui/mathtutor-backend/internal/repos"
	"github.com/wissamraji-ui/mathtutor-backend/internal/types"
)

type IngestInput struct {
	CourseID   uuid.UUID
	Title      string
	Filename   string
	MimeType   string
	Data       []byte
	UploadedBy uuid.UUID
}

type IngestResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	ChunkCount int       `json:"chunk_count"`
}

// IngestService turns an uploaded course document into persisted, embedded,
// searchable chunks. Ingestion is an offline admin operation and fails loudly
// on any collaborator error, unlike query-time retrieval.
type IngestService interface {
	IngestDocument(ctx context.Context, in IngestInput) (*IngestResult, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

type ingestService struct {
	db        *gorm.DB
	log       *logger.Logger
	ai        openai.Client
	vec       qdrant.VectorStore
	courses   repos.CourseRepo
	documents repos.DocumentRepo
	chunks    repos.DocumentChunkRepo
}

func NewIngestService(
	db *gorm.DB,
	log *logger.Logger,
	ai openai.Client,
	vec qdrant.VectorStore,
	courses repos.CourseRepo,
	documents repos.DocumentRepo,
	chunks repos.DocumentChunkRepo,
) IngestService {
	return &ingestService{
		db:        db,
		log:       log.With("service", "IngestService"),
		ai:        ai,
		vec:       vec,
		courses:   courses,
		documents: documents,
		chunks:    chunks,
	}
}

func (s *ingestService) IngestDocument(ctx context.Context, in IngestInput) (*IngestResult, error) {
	if in.CourseID == uuid.Nil {
		return nil, fmt.Errorf("ingest: course id is required")
	}
	if in.Title == "" {
		in.Title = in.Filename
	}
	if _, err := s.courses.GetByID(ctx, nil, in.CourseID); err != nil {
		return nil, fmt.Errorf("ingest: course %s: %w", in.CourseID, err)
	}

	text, kind, err := ingestion.ExtractText(in.Filename, in.MimeType, in.Data)
	if err != nil {
		return nil, fmt.Errorf("ingest: extract %q: %w", in.Filename, err)
	}

	parts := ingestion.ChunkText(text, ingestion.ChunkOptions{SourceKind: kind})
	if len(parts) == 0 {
		return nil, fmt.Errorf("ingest: %q produced no chunks", in.Filename)
	}

	doc, err := s.documents.Create(ctx, nil, &types.Document{
		CourseID:   in.CourseID,
		Title:      in.Title,
		SourceKind: string(kind),
		UploadedBy: in.UploadedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: create document: %w", err)
	}

	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Content
	}
	vectors, err := s.ai.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ingest: embed %d chunks: %w", len(parts), err)
	}
	if len(vectors) != len(parts) {
		return nil, fmt.Errorf("ingest: embedding count mismatch: chunks=%d vectors=%d", len(parts), len(vectors))
	}

	rows := make([]*types.DocumentChunk, len(parts))
	points := make([]qdrant.Point, len(parts))
	for i, p := range parts {
		// IDs are assigned client side so the vector point and the row share one.
		id := uuid.New()
		embedding, err := json.Marshal(vectors[i])
		if err != nil {
			return nil, fmt.Errorf("ingest: encode embedding: %w", err)
		}
		rows[i] = &types.DocumentChunk{
			ID:         id,
			DocumentID: doc.ID,
			CourseID:   in.CourseID,
			Index:      p.Index,
			Text:       p.Content,
			SourceKind: string(p.SourceKind),
			Embedding:  datatypes.JSON(embedding),
		}
		points[i] = qdrant.Point{
			ChunkID:    id,
			DocumentID: doc.ID,
			CourseID:   in.CourseID,
			Vector:     vectors[i],
		}
	}

	if _, err := s.chunks.Create(ctx, nil, rows); err != nil {
		return nil, fmt.Errorf("ingest: persist chunks: %w", err)
	}
	if err := s.vec.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("ingest: index chunks: %w", err)
	}
	if err := s.documents.SetChunkCount(ctx, nil, doc.ID, len(rows)); err != nil {
		return nil, fmt.Errorf("ingest: finalize document: %w", err)
	}

	s.log.Info("Document ingested",
		"document_id", doc.ID.String(),
		"course_id", in.CourseID.String(),
		"chunks", len(rows),
	)
	return &IngestResult{DocumentID: doc.ID, ChunkCount: len(rows)}, nil
}

func (s *ingestService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return fmt.Errorf("delete: document id is required")
	}
	if err := s.vec.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete: unindex document %s: %w", documentID, err)
	}
	if err := s.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&types.DocumentChunk{}).Error; err != nil {
		return fmt.Errorf("delete: chunks for %s: %w", documentID, err)
	}
	if err := s.db.WithContext(ctx).Delete(&types.Document{}, "id = ?", documentID).Error; err != nil {
		return fmt.Errorf("delete: document %s: %w", documentID, err)
	}
	return nil
}
