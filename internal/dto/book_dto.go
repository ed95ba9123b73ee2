package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestBookRequest struct {
	Title string `json:"title" validate:"required"`
	Text  string `json:"text" validate:"required"`
}

type IngestBookResponse struct {
	Title           string `json:"title"`
	ChunksRequested int    `json:"chunks_requested"`
	ChunksStored    int    `json:"chunks_stored"`
	Warning         string `json:"warning,omitempty"`
}

type UploadBookRequest struct {
	Filename      string `json:"filename" validate:"required"`
	ContentBase64 string `json:"content_base64" validate:"required"`
}

type UploadBookResponse struct {
	Title     string `json:"title"`
	SourceKey string `json:"source_key"`
}

type BookItem struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListBooksResponse struct {
	Books []BookItem `json:"books"`
}
