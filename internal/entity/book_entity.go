package entity

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id         uuid.UUID
	Title      string
	SourceKey  string
	ChunkCount int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
