package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookChunk is a single chunk of a book's text together with its embedding.
// ChunkIndex can have gaps: chunks whose embedding failed are never stored.
type BookChunk struct {
	Id            uuid.UUID
	ChunkID       string
	BookTitle     string
	ChunkIndex    int
	Text          string
	TokenEstimate int
	Embedding     []float64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
