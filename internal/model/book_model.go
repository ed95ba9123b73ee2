package model

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	SourceKey  string    `gorm:"type:varchar(512)"`
	ChunkCount int       `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}
