package tutor

import "strings"

// EnforceHintLadder truncates generated text to the sections the effective
// hint level permits. This is the sole backstop against a generator ignoring
// the ladder instruction, so it runs on every response regardless of upstream
// trust. Matching is syntactic: first literal occurrence of any heading past
// the permitted one, case-sensitive.
func EnforceHintLadder(text string, effectiveHintLevel int) string {
	disallowed := ladderHeadings[highestHeadingIndex(effectiveHintLevel)+1:]

	cut := -1
	for _, h := range disallowed {
		if idx := strings.Index(text, h); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:cut])
}

// CitationsFor projects every passage supplied to the prompt assembler into a
// citation record. Membership in the retrieval set is what counts; whether
// the final answer textually referenced a passage is not inspected.
func CitationsFor(retrieved []RetrievedPassage) []CitationRecord {
	out := make([]CitationRecord, 0, len(retrieved))
	for _, p := range retrieved {
		out = append(out, CitationRecord{
			ChunkID:       p.ID,
			DocumentTitle: p.DocumentTitle,
			Section:       p.SectionLabel,
			Page:          p.PageNumber,
			Similarity:    p.Similarity,
		})
	}
	return out
}

// ExtractProblem returns the generated practice problem starting at its
// "## Problem" heading, or the whole trimmed text when the heading is absent.
func ExtractProblem(markdown string) string {
	text := strings.TrimSpace(markdown)
	if text == "" {
		return ""
	}
	if idx := strings.Index(text, "## Problem"); idx >= 0 {
		return strings.TrimSpace(text[idx:])
	}
	return text
}
