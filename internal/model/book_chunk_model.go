package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type BookChunk struct {
	Id            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChunkID       string           `gorm:"type:varchar(300);not null;index"`
	BookTitle     string           `gorm:"type:varchar(255);not null;index"`
	ChunkIndex    int              `gorm:"default:0"`
	Text          string           `gorm:"type:text;not null"`
	TokenEstimate int              `gorm:"default:0"`
	Embedding     *pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt     time.Time        `gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime"`
}

func (BookChunk) TableName() string {
	return "book_chunks"
}
