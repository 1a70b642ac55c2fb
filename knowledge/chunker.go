package knowledge

import "strings"

const (
	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 200

	// DefaultChunkOverlap is the word overlap between adjacent chunks.
	DefaultChunkOverlap = 30
)

// SplitWords splits text into overlapping word windows. The last window may
// be shorter than size. Empty or whitespace-only text yields no chunks.
func SplitWords(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
