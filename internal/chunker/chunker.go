package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anupamsr/skydoc/internal/domain"
)

var whitespace = regexp.MustCompile(`\s+`)

// Chunker splits raw document text into overlapping, sentence-boundary-aware
// segments of roughly chunkSize characters.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a Chunker. Non-positive size and overlap fall back to the
// defaults (1000/200); overlap >= chunkSize is rejected because the window
// advance would never reach new text.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 200
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidArgument, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk normalizes whitespace and walks the text in windows of chunkSize
// runes. A window that is not the final one is shrunk back to the last period
// in its second half, keeping chunks sentence-aligned. Consecutive windows
// share overlap runes of context. Empty input yields no chunks; text shorter
// than chunkSize yields exactly one.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	// Window positions count runes, not bytes, so a boundary can never land
	// inside a multi-byte character.
	runes := []rune(text)

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Prefer a sentence boundary in the second half of the window.
			if dot := lastIndexRune(runes[start:end], '.'); dot >= 0 && dot > c.chunkSize/2 {
				end = start + dot + 1
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			break
		}
		start = next
	}

	return chunks
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }
