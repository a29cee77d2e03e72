package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/qdrant"
	"github.com/wissamraji-ui/mathtutor-backend/internal/types"
)

type fakeAI struct {
	embedErr   error
	embeddings [][]float32
	embedCalls int
}

func (f *fakeAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embeddings != nil {
		return f.embeddings, nil
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (f *fakeAI) GenerateChat(ctx context.Context, messages []openai.ChatMessage, temperature float64) (string, error) {
	return "", fmt.Errorf("not used")
}

type fakeVectorStore struct {
	queryErr      error
	matches       []qdrant.Match
	queriedCourse uuid.UUID
	queriedLimit  int
}

func (f *fakeVectorStore) Upsert(ctx context.Context, points []qdrant.Point) error { return nil }

func (f *fakeVectorStore) Query(ctx context.Context, vector []float32, courseID uuid.UUID, limit int) ([]qdrant.Match, error) {
	f.queriedCourse = courseID
	f.queriedLimit = limit
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeVectorStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return nil
}

type fakeChunkRepo struct {
	rows []*types.DocumentChunk
}

func (f *fakeChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.DocumentChunk) ([]*types.DocumentChunk, error) {
	return chunks, nil
}

func (f *fakeChunkRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DocumentChunk, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*types.DocumentChunk
	for _, row := range f.rows {
		if want[row.ID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeChunkRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentChunk, error) {
	return nil, nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*types.Document
}

func (f *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
	return doc, nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) SetChunkCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, count int) error {
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestRetrieveHydratesMatchesInRankOrder(t *testing.T) {
	courseID := uuid.New()
	docID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	page := 12

	ai := &fakeAI{}
	vec := &fakeVectorStore{matches: []qdrant.Match{
		{ChunkID: first, Score: 0.92},
		{ChunkID: second, Score: 0.81},
	}}
	chunks := &fakeChunkRepo{rows: []*types.DocumentChunk{
		{ID: second, DocumentID: docID, CourseID: courseID, Text: "second passage"},
		{ID: first, DocumentID: docID, CourseID: courseID, Text: "first passage",
			Metadata: datatypes.JSON([]byte(fmt.Sprintf(`{"section":"3.2 Compactness","page":%d}`, page)))},
	}}
	docs := &fakeDocumentRepo{docs: map[uuid.UUID]*types.Document{
		docID: {ID: docID, CourseID: courseID, Title: "Real Analysis Notes"},
	}}

	svc := NewRetrievalService(nil, newTestLogger(t), ai, vec, chunks, docs)
	got := svc.Retrieve(context.Background(), courseID, "compact sets", 6)

	if len(got) != 2 {
		t.Fatalf("passages: want=2 got=%d", len(got))
	}
	if got[0].ID != first || got[1].ID != second {
		t.Fatalf("rank order lost: %v then %v", got[0].ID, got[1].ID)
	}
	if got[0].Content != "first passage" {
		t.Fatalf("content: got=%q", got[0].Content)
	}
	if got[0].DocumentTitle != "Real Analysis Notes" {
		t.Fatalf("title: got=%q", got[0].DocumentTitle)
	}
	if got[0].SectionLabel != "3.2 Compactness" {
		t.Fatalf("section: got=%q", got[0].SectionLabel)
	}
	if got[0].PageNumber == nil || *got[0].PageNumber != page {
		t.Fatalf("page: got=%v", got[0].PageNumber)
	}
	if got[0].Similarity == nil || *got[0].Similarity != 0.92 {
		t.Fatalf("similarity: got=%v", got[0].Similarity)
	}
	if vec.queriedCourse != courseID {
		t.Fatalf("query not scoped to course: %v", vec.queriedCourse)
	}
}

func TestRetrieveDegradesToEmptyOnEmbedFailure(t *testing.T) {
	ai := &fakeAI{embedErr: fmt.Errorf("upstream 500")}
	vec := &fakeVectorStore{}
	svc := NewRetrievalService(nil, newTestLogger(t), ai, vec, &fakeChunkRepo{}, &fakeDocumentRepo{})

	got := svc.Retrieve(context.Background(), uuid.New(), "anything", 6)
	if len(got) != 0 {
		t.Fatalf("want empty passages on embed failure, got %d", len(got))
	}
}

func TestRetrieveDegradesToEmptyOnStoreFailure(t *testing.T) {
	vec := &fakeVectorStore{queryErr: fmt.Errorf("connection refused")}
	svc := NewRetrievalService(nil, newTestLogger(t), &fakeAI{}, vec, &fakeChunkRepo{}, &fakeDocumentRepo{})

	got := svc.Retrieve(context.Background(), uuid.New(), "anything", 6)
	if len(got) != 0 {
		t.Fatalf("want empty passages on store failure, got %d", len(got))
	}
}

func TestRetrieveDropsRowsFromOtherCourses(t *testing.T) {
	courseID := uuid.New()
	foreign := uuid.New()
	id := uuid.New()

	vec := &fakeVectorStore{matches: []qdrant.Match{{ChunkID: id, Score: 0.9}}}
	chunks := &fakeChunkRepo{rows: []*types.DocumentChunk{
		{ID: id, DocumentID: uuid.New(), CourseID: foreign, Text: "leaked"},
	}}
	svc := NewRetrievalService(nil, newTestLogger(t), &fakeAI{}, vec, chunks, &fakeDocumentRepo{})

	got := svc.Retrieve(context.Background(), courseID, "query", 6)
	if len(got) != 0 {
		t.Fatalf("cross course row must be dropped, got %+v", got)
	}
}

func TestRetrieveDefaultsLimit(t *testing.T) {
	vec := &fakeVectorStore{}
	svc := NewRetrievalService(nil, newTestLogger(t), &fakeAI{}, vec, &fakeChunkRepo{}, &fakeDocumentRepo{})

	svc.Retrieve(context.Background(), uuid.New(), "query", 0)
	if vec.queriedLimit != DefaultRetrieveLimit {
		t.Fatalf("limit: want=%d got=%d", DefaultRetrieveLimit, vec.queriedLimit)
	}
}
