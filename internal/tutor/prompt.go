package tutor

import (
	"fmt"
	"strings"
)

const noNotesPlaceholder = "(no relevant notes retrieved)"

// PromptInput carries everything the system prompt needs. All enum fields
// must be validated by the caller; assembly itself never fails.
type PromptInput struct {
	CourseID  string
	Mode      Mode
	Rigor     Rigor
	HintLevel int
	Notice    string
	Retrieved []RetrievedPassage
}

func rigorDirective(r Rigor) string {
	switch r {
	case RigorIntro:
		return "Use gentle explanations and simple proof structure."
	case RigorHonors:
		return "Be concise, theorem/lemma oriented, and careful about quantifiers."
	case RigorGraduate:
		return "Assume graduate-level maturity; use precise definitions and proof techniques."
	default:
		return "Be rigorous, but keep steps short and instructive."
	}
}

func modeDirective(m Mode) string {
	switch m {
	case ModeProofTrainer:
		return strings.Join([]string{
			"Proof Trainer rules:",
			"- Focus on proof structure, missing justifications, and the next useful lemma/step.",
			"- If the user provides an attempt, reference it and suggest targeted repairs.",
			"- Do NOT rewrite a full polished proof unless the hint ladder allows it.",
		}, "\n")
	case ModeExam:
		return strings.Join([]string{
			"Exam Practice rules:",
			"- If asked to generate a practice problem, produce a fresh problem statement aligned to the course topic/difficulty.",
			"- If asked to solve a problem, stick to the hint ladder and avoid solution dumping.",
		}, "\n")
	default:
		return strings.Join([]string{
			"Tutor Mode rules:",
			"- Use Socratic prompts: ask 1-2 short questions that help the student choose the next step.",
			"- Prefer gentle hints and checkpoints over long exposition.",
		}, "\n")
	}
}

// ladderDirective restates exactly which headings the current rung permits.
func ladderDirective(level int) string {
	permitted := ladderHeadings[:highestHeadingIndex(level)+1]
	return "Output only: " + strings.Join(permitted, ", ") + "."
}

func retrievedContext(retrieved []RetrievedPassage) string {
	if len(retrieved) == 0 {
		return noNotesPlaceholder
	}
	blocks := make([]string, 0, len(retrieved))
	for i, p := range retrieved {
		title := ""
		if p.DocumentTitle != "" {
			title = " (" + p.DocumentTitle + ")"
		}
		blocks = append(blocks, fmt.Sprintf("[#%d]%s\n%s", i+1, title, p.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// AssembleSystemPrompt renders the full instruction block sent to the
// generator: mission, rigor directive, mode directive, integrity + hint-ladder
// rules, then the retrieved passages in retrieval order. The closing format
// directive pins the exact heading vocabulary the output enforcer parses.
func AssembleSystemPrompt(in PromptInput) string {
	level := ClampHintLevel(in.HintLevel)

	lines := []string{
		"You are a proof-oriented mathematics tutor. Your mission is to help the student learn, not to help them cheat.",
		"",
		"Course: " + in.CourseID,
		"Mode: " + string(in.Mode),
		fmt.Sprintf("Rigor: %s. %s", in.Rigor, rigorDirective(in.Rigor)),
		modeDirective(in.Mode),
		"",
		"Academic integrity rules:",
		"- Default to hints and questions before giving solutions.",
		"- If the user indicates they are in an active graded/timed assessment, refuse full solutions and offer conceptual help and small hints.",
		"- Never provide answer-dumping; prioritize definitions, theorem statements, and proof structure.",
		"",
		"Hint ladder rules (very important):",
		fmt.Sprintf("- Granted rung: %d/%d. %s", level, MaxHintLevel, ladderDirective(level)),
		"- Do NOT include sections beyond the allowed rung.",
	}

	if in.Notice != "" {
		lines = append(lines, "", "Policy notice to the user: "+in.Notice)
	}

	lines = append(lines,
		"",
		"Retrieved course notes (may be incomplete). Prefer these when relevant:",
		retrievedContext(in.Retrieved),
		"",
		"Output format:",
		fmt.Sprintf("- Use Markdown headings exactly: %s", strings.Join(ladderHeadings[:], ", ")),
		"- Use LaTeX for math when appropriate (e.g., $\\varepsilon$, $\\forall$).",
	)

	return strings.Join(lines, "\n")
}

// ComposeUserMessage joins the question with the optional attempt block and
// the proof-trainer focus line.
func ComposeUserMessage(message, attempt string, mode Mode) string {
	var b strings.Builder
	b.WriteString(message)
	if a := strings.TrimSpace(attempt); a != "" {
		b.WriteString("\n\nMy attempt:\n")
		b.WriteString(a)
	}
	if mode == ModeProofTrainer {
		b.WriteString("\n\nPlease focus on proof structure and the next best step.")
	}
	return b.String()
}

// Difficulty of a generated practice problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// AssemblePracticePrompt renders the generator instructions for a single
// exam-practice problem. No solutions, outlines, or hints are requested; the
// problem statement is the entire product.
func AssemblePracticePrompt(courseID, topic string, difficulty Difficulty, retrieved []RetrievedPassage) string {
	topicLine := "Topic: (any core topic)"
	if t := strings.TrimSpace(topic); t != "" {
		topicLine = "Topic: " + t
	}
	return strings.Join([]string{
		"You generate ONE exam-practice mathematics problem for a proof-oriented course.",
		"The goal is learning. Do not include a worked solution, proof outline, or hints.",
		"Prefer the course notes context (definitions/theorems/notation) when relevant.",
		"",
		"Course: " + courseID,
		"Difficulty: " + string(difficulty),
		topicLine,
		"",
		"Retrieved course notes (use for alignment, may be incomplete):",
		retrievedContext(retrieved),
		"",
		"Output format (strict):",
		"## Problem",
		"(problem statement in 5-15 lines; can be multi-part; use LaTeX)",
		"",
		"## What to submit",
		"(1-3 bullet points; e.g., 'Provide a proof...')",
	}, "\n")
}
