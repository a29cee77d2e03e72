package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Course     *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	SourceKind string         `gorm:"column:source_kind;not null" json:"source_kind"`
	UploadedBy uuid.UUID      `gorm:"type:uuid;column:uploaded_by" json:"uploaded_by"`
	ChunkCount int            `gorm:"column:chunk_count;not null;default:0" json:"chunk_count"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }
