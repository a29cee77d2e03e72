package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocumentChunk is one ingested passage of a document. A document owns an
// ordered sequence of chunks; the order is the ingestion order and matters
// for overlap reconstruction, not for retrieval.
type DocumentChunk struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Index      int            `gorm:"column:index;not null" json:"index"`
	Text       string         `gorm:"column:text;not null" json:"text"`
	SourceKind string         `gorm:"column:source_kind" json:"source_kind"`
	Embedding  datatypes.JSON `gorm:"type:jsonb;column:embedding" json:"embedding,omitempty"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DocumentChunk) TableName() string { return "document_chunk" }
