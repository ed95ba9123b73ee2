package embedding

import "context"

// Dimension is the contract dimension shared with the similarity index.
// A provider returning any other width is misconfigured, which is a
// permanent error, never something to retry or pad around.
const Dimension = 1536

// Provider generates a text embedding. Implementations classify their
// failures as transient or permanent via apperror kinds so the retry
// wrapper can decide what to do.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
