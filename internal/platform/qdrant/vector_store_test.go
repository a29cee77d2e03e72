package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
)

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestVectorStore(t *testing.T, rt roundTripFunc) *vectorStore {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := Config{URL: "http://qdrant.test", Collection: "course_chunks", VectorDim: 3}
	return &vectorStore{
		log:     log,
		cfg:     cfg,
		baseURL: cfg.URL,
		http:    &http.Client{Transport: rt},
	}
}

func okResponse(t *testing.T, payload any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestVectorStoreQueryScopesToCourse(t *testing.T) {
	courseID := uuid.New()
	chunkID := uuid.New()

	var captured map[string]any
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("method: want=%s got=%s", http.MethodPost, r.Method)
		}
		if r.URL.Path != "/collections/course_chunks/points/search" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return okResponse(t, map[string]any{
			"result": []map[string]any{
				{"id": chunkID.String(), "score": 0.91, "payload": map[string]any{"chunk_id": chunkID.String(), "course_id": courseID.String()}},
			},
		}), nil
	})

	matches, err := s.Query(context.Background(), []float32{1, 2, 3}, courseID, 6)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].ChunkID != chunkID {
		t.Fatalf("matches: %+v", matches)
	}
	if matches[0].Score != 0.91 {
		t.Fatalf("score: want=0.91 got=%v", matches[0].Score)
	}

	filter, ok := captured["filter"].(map[string]any)
	if !ok {
		t.Fatalf("filter missing: %v", captured)
	}
	must, ok := filter["must"].([]any)
	if !ok || len(must) != 1 {
		t.Fatalf("must clause: %v", filter)
	}
	clause := must[0].(map[string]any)
	if clause["key"] != "course_id" {
		t.Fatalf("filter key: want=course_id got=%v", clause["key"])
	}
	match := clause["match"].(map[string]any)
	if match["value"] != courseID.String() {
		t.Fatalf("filter value: want=%s got=%v", courseID, match["value"])
	}
	if captured["limit"] != float64(6) {
		t.Fatalf("limit: want=6 got=%v", captured["limit"])
	}
}

func TestVectorStoreQueryEmptyResultIsNotAnError(t *testing.T) {
	calls := 0
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return okResponse(t, map[string]any{"result": []map[string]any{}}), nil
	})
	matches, err := s.Query(context.Background(), []float32{1, 2, 3}, uuid.New(), 4)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("want empty matches, got %+v", matches)
	}
	if calls != 1 {
		t.Fatalf("empty result must not be retried: calls=%d", calls)
	}
}

func TestVectorStoreQueryRetriesTransportErrors(t *testing.T) {
	chunkID := uuid.New()
	calls := 0
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, &timeoutError{}
		}
		return okResponse(t, map[string]any{
			"result": []map[string]any{
				{"id": chunkID.String(), "score": 0.5, "payload": map[string]any{"chunk_id": chunkID.String()}},
			},
		}), nil
	})

	matches, err := s.Query(context.Background(), []float32{1, 2, 3}, uuid.New(), 4)
	if err != nil {
		t.Fatalf("Query after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls: want=3 got=%d", calls)
	}
	if len(matches) != 1 {
		t.Fatalf("matches: %+v", matches)
	}
}

func TestVectorStoreQueryDoesNotRetryHTTPErrors(t *testing.T) {
	calls := 0
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"status":{"error":"bad vector"}}`))),
		}, nil
	})
	if _, err := s.Query(context.Background(), []float32{1, 2, 3}, uuid.New(), 4); err == nil {
		t.Fatalf("expected an error")
	}
	if calls != 1 {
		t.Fatalf("http errors must not be retried: calls=%d", calls)
	}
}

func TestVectorStoreUpsertValidatesDimensions(t *testing.T) {
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	err := s.Upsert(context.Background(), []Point{
		{ChunkID: uuid.New(), DocumentID: uuid.New(), CourseID: uuid.New(), Vector: []float32{1, 2}},
	})
	if err == nil {
		t.Fatalf("dimension mismatch should fail")
	}
}

func TestVectorStoreUpsertRequestShape(t *testing.T) {
	chunkID := uuid.New()
	docID := uuid.New()
	courseID := uuid.New()

	var captured map[string]any
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPut {
			t.Fatalf("method: want=%s got=%s", http.MethodPut, r.Method)
		}
		if r.URL.Path != "/collections/course_chunks/points" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if r.URL.RawQuery != "wait=true" {
			t.Fatalf("query: got=%q", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return okResponse(t, map[string]any{"result": map[string]any{"status": "acknowledged"}}), nil
	})

	err := s.Upsert(context.Background(), []Point{
		{ChunkID: chunkID, DocumentID: docID, CourseID: courseID, Vector: []float32{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	points, ok := captured["points"].([]any)
	if !ok || len(points) != 1 {
		t.Fatalf("points: %v", captured["points"])
	}
	first := points[0].(map[string]any)
	payload := first["payload"].(map[string]any)
	if payload["course_id"] != courseID.String() || payload["chunk_id"] != chunkID.String() || payload["document_id"] != docID.String() {
		t.Fatalf("payload: %v", payload)
	}
}

// timeoutError satisfies net.Error so the store treats it as a transport failure.
type timeoutError struct{}

func (*timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }
