package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Track is a career track the role explorer searches over. Embedding is a
// Gemini embedding of the summary, queried with pgvector KNN.
type Track struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string          `gorm:"type:varchar(100);uniqueIndex" json:"title"`
	Summary   string          `gorm:"type:text" json:"summary"`
	Skills    string          `gorm:"type:text" json:"skills"`
	Embedding pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (t *Track) TableName() string {
	return "tracks"
}
