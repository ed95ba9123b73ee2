package chunker

import "strings"

// Split breaks text into chunks of at most maxChars characters, packing
// whole whitespace-delimited words greedily. A word is never cut in half,
// so a single word longer than maxChars becomes its own oversized chunk.
// Splitting is deterministic: the same text and size always produce the
// same boundaries, which chunk id assignment relies on.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		return nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentSize := 0

	for _, word := range words {
		wordSize := len(word) + 1 // +1 for the joining space
		if currentSize+wordSize > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			currentSize = wordSize
		} else {
			current = append(current, word)
			currentSize += wordSize
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// EstimateTokens approximates the token count of a chunk. Four characters
// per token is the usual rule of thumb for English prose.
func EstimateTokens(text string) int {
	return len(text) / 4
}
