package ingestion

import (
	"regexp"
	"strings"
)

const (
	DefaultMaxChars     = 4200
	DefaultOverlapChars = 400
)

// Chunk is one bounded passage of an ingested document, ordered by Index
// within its source. Immutable once stored.
type Chunk struct {
	Index      int
	Content    string
	SourceKind string
}

// ChunkOptions tunes the splitter. Zero values fall back to the defaults.
type ChunkOptions struct {
	MaxChars     int
	OverlapChars int
	SourceKind   string
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ChunkText splits raw document text into bounded, overlapping passages.
//
// Paragraphs (blank-line separated) are accumulated greedily until the next
// one would overflow maxChars; the buffer is then emitted and the new buffer
// is seeded with the trailing overlapChars of the emitted text so adjacent
// chunks share context. A single paragraph longer than maxChars becomes its
// own oversized chunk; text is never split inside a paragraph. Blank input
// yields no chunks. Never fails.
func ChunkText(raw string, opts ChunkOptions) []Chunk {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	overlapChars := opts.OverlapChars
	if overlapChars < 0 {
		overlapChars = DefaultOverlapChars
	}

	normalized := normalizeText(raw)
	if normalized == "" {
		return nil
	}

	chunks := make([]Chunk, 0, len(normalized)/maxChars+1)
	current := ""

	push := func() {
		content := strings.TrimSpace(current)
		if content == "" {
			return
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Content: content, SourceKind: opts.SourceKind})
	}

	for _, p := range strings.Split(normalized, "\n\n") {
		paragraph := strings.TrimSpace(p)
		if paragraph == "" {
			continue
		}

		if len(current)+len("\n\n")+len(paragraph) <= maxChars {
			if current == "" {
				current = paragraph
			} else {
				current = current + "\n\n" + paragraph
			}
			continue
		}

		push()

		// Seed the next buffer with trailing context from the chunk just
		// emitted. The seed may be empty when the prior buffer was short.
		overlap := current
		if len(overlap) > overlapChars {
			overlap = overlap[len(overlap)-overlapChars:]
		}
		if overlap != "" {
			current = overlap + "\n\n" + paragraph
		} else {
			current = paragraph
		}
	}

	push()
	return chunks
}
