package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
)

const (
	payloadCourseIDKey   = "course_id"
	payloadChunkIDKey    = "chunk_id"
	payloadDocumentIDKey = "document_id"

	maxErrorBodyBytes = 1024

	// Transport-level retries for the similarity query. A confirmed empty
	// result is a valid outcome and is never retried.
	queryRetries = 2
)

// Point is one stored chunk vector plus its scoping payload.
type Point struct {
	ChunkID    uuid.UUID
	DocumentID uuid.UUID
	CourseID   uuid.UUID
	Vector     []float32
}

// Match is a ranked hit from a similarity query. Higher score is better.
type Match struct {
	ChunkID uuid.UUID
	Score   float64
}

// VectorStore is the similarity-search collaborator. Queries are always
// hard-filtered to a single course.
type VectorStore interface {
	Upsert(ctx context.Context, points []Point) error
	Query(ctx context.Context, vector []float32, courseID uuid.UUID, limit int) ([]Match, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

type vectorStore struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

func NewVectorStore(log *logger.Logger, cfg Config) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	s := &vectorStore{
		log:     log.With("service", "QdrantVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	log.Info("Qdrant vector store selected",
		"url", s.baseURL,
		"collection", cfg.Collection,
		"vector_dim", cfg.VectorDim,
	)
	return s, nil
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
}

type searchResultItem struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

func (s *vectorStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	body := map[string]any{"points": make([]map[string]any, 0, len(points))}
	rows := body["points"].([]map[string]any)
	for _, p := range points {
		if p.ChunkID == uuid.Nil {
			return fmt.Errorf("upsert: chunk id is required")
		}
		if s.cfg.VectorDim > 0 && len(p.Vector) != s.cfg.VectorDim {
			return fmt.Errorf("upsert: vector %s dimension mismatch: expected=%d got=%d",
				p.ChunkID, s.cfg.VectorDim, len(p.Vector))
		}
		rows = append(rows, map[string]any{
			"id":     p.ChunkID.String(),
			"vector": p.Vector,
			"payload": map[string]any{
				payloadCourseIDKey:   p.CourseID.String(),
				payloadChunkIDKey:    p.ChunkID.String(),
				payloadDocumentIDKey: p.DocumentID.String(),
			},
		})
	}
	body["points"] = rows

	path := fmt.Sprintf("/collections/%s/points?wait=true", s.cfg.Collection)
	return s.do(ctx, http.MethodPut, path, body, nil)
}

func (s *vectorStore) Query(ctx context.Context, vector []float32, courseID uuid.UUID, limit int) ([]Match, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query: empty vector")
	}
	if courseID == uuid.Nil {
		return nil, fmt.Errorf("query: course id is required")
	}
	if limit <= 0 {
		limit = 6
	}

	body := map[string]any{
		"vector": vector,
		"limit":  limit,
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": payloadCourseIDKey, "match": map[string]any{"value": courseID.String()}},
			},
		},
		"with_payload": true,
	}
	path := fmt.Sprintf("/collections/%s/points/search", s.cfg.Collection)

	var lastErr error
	for attempt := 0; attempt <= queryRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var env envelope
		err := s.do(ctx, http.MethodPost, path, body, &env)
		if err == nil {
			return decodeMatches(env.Result)
		}
		lastErr = err
		if !isTransportErr(err) {
			return nil, err
		}
		if attempt < queryRetries {
			s.log.Warn("Qdrant query retrying", "attempt", attempt+1, "error", err.Error())
		}
	}
	return nil, lastErr
}

func (s *vectorStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return nil
	}
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": payloadDocumentIDKey, "match": map[string]any{"value": documentID.String()}},
			},
		},
	}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", s.cfg.Collection)
	return s.do(ctx, http.MethodPost, path, body, nil)
}

func decodeMatches(raw json.RawMessage) ([]Match, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []searchResultItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("qdrant search decode: %w", err)
	}
	out := make([]Match, 0, len(items))
	for _, item := range items {
		id := chunkIDFrom(item)
		if id == uuid.Nil {
			continue
		}
		out = append(out, Match{ChunkID: id, Score: item.Score})
	}
	return out, nil
}

func chunkIDFrom(item searchResultItem) uuid.UUID {
	if v, ok := item.Payload[payloadChunkIDKey].(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			return id
		}
	}
	var s string
	if err := json.Unmarshal(item.ID, &s); err == nil {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func (s *vectorStore) do(ctx context.Context, method, path string, body any, out *envelope) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("api-key", s.cfg.APIKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("qdrant %s %s: http %d: %s", method, path, resp.StatusCode, string(snippet))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("qdrant response decode: %w", err)
	}
	return nil
}

func isTransportErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
