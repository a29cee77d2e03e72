package qdrant

import (
	"fmt"
	"strings"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/envutil"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	VectorDim  int
}

func ConfigFromEnv() Config {
	return Config{
		URL:        envutil.String("QDRANT_URL", "http://localhost:6333"),
		APIKey:     envutil.String("QDRANT_API_KEY", ""),
		Collection: envutil.String("QDRANT_COLLECTION", "course_chunks"),
		VectorDim:  envutil.Int("QDRANT_VECTOR_DIM", 1536),
	}
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return fmt.Errorf("qdrant url is required")
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return fmt.Errorf("qdrant collection is required")
	}
	if cfg.VectorDim <= 0 {
		return fmt.Errorf("qdrant vector dim must be positive, got %d", cfg.VectorDim)
	}
	return nil
}
