package specification

import "gorm.io/gorm"

type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}

type ByBookTitle struct {
	BookTitle string
}

func (s ByBookTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("book_title = ?", s.BookTitle)
}

type ByChunkIDs struct {
	ChunkIDs []string
}

func (s ByChunkIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chunk_id IN ?", s.ChunkIDs)
}

// Embedded keeps only chunks whose embedding succeeded.
type Embedded struct{}

func (s Embedded) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
