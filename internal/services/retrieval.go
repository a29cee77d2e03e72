package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/qdrant"
	"github.com/wissamraji-ui/mathtutor-backend/internal/repos"
	"github.com/wissamraji-ui/mathtutor-backend/internal/tutor"
)

const DefaultRetrieveLimit = 6

// RetrievalService returns the most relevant stored passages for a query,
// always scoped to one course. Retrieval is advisory: any collaborator
// failure degrades to an empty result instead of failing the request.
type RetrievalService interface {
	Retrieve(ctx context.Context, courseID uuid.UUID, query string, limit int) []tutor.RetrievedPassage
}

type retrievalService struct {
	db        *gorm.DB
	log       *logger.Logger
	ai        openai.Client
	vec       qdrant.VectorStore
	chunks    repos.DocumentChunkRepo
	documents repos.DocumentRepo
}

func NewRetrievalService(
	db *gorm.DB,
	log *logger.Logger,
	ai openai.Client,
	vec qdrant.VectorStore,
	chunks repos.DocumentChunkRepo,
	documents repos.DocumentRepo,
) RetrievalService {
	return &retrievalService{
		db:        db,
		log:       log.With("service", "RetrievalService"),
		ai:        ai,
		vec:       vec,
		chunks:    chunks,
		documents: documents,
	}
}

// chunkMetadata is the optional retrieval metadata stored per chunk.
type chunkMetadata struct {
	Section string `json:"section,omitempty"`
	Page    *int   `json:"page,omitempty"`
}

func (s *retrievalService) Retrieve(ctx context.Context, courseID uuid.UUID, query string, limit int) []tutor.RetrievedPassage {
	if courseID == uuid.Nil || query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}

	vectors, err := s.ai.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		s.log.Warn("Query embedding failed, proceeding ungrounded", "course_id", courseID.String(), "error", err)
		return nil
	}

	matches, err := s.vec.Query(ctx, vectors[0], courseID, limit)
	if err != nil {
		s.log.Warn("Vector store query failed, proceeding ungrounded", "course_id", courseID.String(), "error", err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ChunkID)
	}
	rows, err := s.chunks.GetByIDs(ctx, nil, ids)
	if err != nil {
		s.log.Warn("Chunk hydration failed, proceeding ungrounded", "course_id", courseID.String(), "error", err)
		return nil
	}

	byID := make(map[uuid.UUID]*struct {
		text       string
		documentID uuid.UUID
		meta       chunkMetadata
	}, len(rows))
	docIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		// Defense in depth: the store filter already scopes to the course,
		// but a stale vector must never leak another course's notes.
		if row.CourseID != courseID {
			continue
		}
		entry := &struct {
			text       string
			documentID uuid.UUID
			meta       chunkMetadata
		}{text: row.Text, documentID: row.DocumentID}
		if len(row.Metadata) > 0 {
			_ = json.Unmarshal(row.Metadata, &entry.meta)
		}
		byID[row.ID] = entry
		docIDs = append(docIDs, row.DocumentID)
	}

	titles := map[uuid.UUID]string{}
	if docs, err := s.documents.GetByIDs(ctx, nil, docIDs); err == nil {
		for _, d := range docs {
			titles[d.ID] = d.Title
		}
	}

	out := make([]tutor.RetrievedPassage, 0, len(matches))
	for _, m := range matches {
		entry, ok := byID[m.ChunkID]
		if !ok {
			continue
		}
		score := m.Score
		out = append(out, tutor.RetrievedPassage{
			ID:            m.ChunkID,
			Content:       entry.text,
			DocumentTitle: titles[entry.documentID],
			SectionLabel:  entry.meta.Section,
			PageNumber:    entry.meta.Page,
			Similarity:    &score,
		})
	}
	return out
}
