package dto

type AskRequest struct {
	Question  string `json:"question" validate:"required"`
	BookTitle string `json:"book_title" validate:"required"`
	Context   string `json:"context" validate:"omitempty,oneof=general historical"`
}

type SourceChunk struct {
	ChunkID  string  `json:"chunk_id"`
	Semantic float64 `json:"semantic_score"`
	Lexical  float64 `json:"lexical_score"`
	Combined float64 `json:"combined_score"`
}

type AskResponse struct {
	Answer        string        `json:"answer"`
	BookTitle     string        `json:"book_title"`
	ChunksUsed    []SourceChunk `json:"chunks_used"`
	ReplacedTerms []string      `json:"replaced_terms"`
}
