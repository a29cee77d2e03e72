package tutor

import (
	"strings"
	"testing"
)

func TestAssembleSystemPromptSectionsInOrder(t *testing.T) {
	prompt := AssembleSystemPrompt(PromptInput{
		CourseID:  "real-analysis-101",
		Mode:      ModeTutor,
		Rigor:     RigorHonors,
		HintLevel: 2,
		Notice:    "Full solutions are restricted.",
		Retrieved: []RetrievedPassage{
			{ID: newTestID(t, "7f9c24e8-3b3a-4c7e-9c23-333333333333"), Content: "Theorem 2.1: every Cauchy sequence converges.", DocumentTitle: "Lecture 4"},
		},
	})

	markers := []string{
		"proof-oriented mathematics tutor",
		"Rigor: honors.",
		"Tutor Mode rules:",
		"Academic integrity rules:",
		"Granted rung: 2/4.",
		"Policy notice to the user: Full solutions are restricted.",
		"[#1] (Lecture 4)",
		"Use Markdown headings exactly:",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(prompt, m)
		if idx < 0 {
			t.Fatalf("prompt missing %q:\n%s", m, prompt)
		}
		if idx < last {
			t.Fatalf("prompt section %q out of order", m)
		}
		last = idx
	}
}

func TestAssembleSystemPromptLadderDirectivePerLevel(t *testing.T) {
	cases := []struct {
		level    int
		included string
		excluded string
	}{
		{1, "Output only: ## Idea, ## Hint 1.", "## Hint 2."},
		{2, "Output only: ## Idea, ## Hint 1, ## Hint 2.", "## Proof outline."},
		{3, "Output only: ## Idea, ## Hint 1, ## Hint 2, ## Proof outline.", "## Full solution."},
		{4, "Output only: ## Idea, ## Hint 1, ## Hint 2, ## Proof outline, ## Full solution.", ""},
	}
	for _, tc := range cases {
		prompt := AssembleSystemPrompt(PromptInput{CourseID: "c", Mode: ModeTutor, Rigor: RigorIntro, HintLevel: tc.level})
		if !strings.Contains(prompt, tc.included) {
			t.Fatalf("level %d: prompt missing %q", tc.level, tc.included)
		}
		if tc.excluded != "" && strings.Contains(prompt, tc.excluded) {
			t.Fatalf("level %d: prompt should not contain %q", tc.level, tc.excluded)
		}
	}
}

func TestAssembleSystemPromptPlaceholderWithoutRetrieval(t *testing.T) {
	prompt := AssembleSystemPrompt(PromptInput{CourseID: "c", Mode: ModeExam, Rigor: RigorGraduate, HintLevel: 1})
	if !strings.Contains(prompt, noNotesPlaceholder) {
		t.Fatalf("prompt missing retrieval placeholder:\n%s", prompt)
	}
	if strings.Contains(prompt, "Policy notice to the user:") {
		t.Fatalf("empty notice should not render a notice line")
	}
}

func TestComposeUserMessage(t *testing.T) {
	got := ComposeUserMessage("prove X", "  my partial work  ", ModeProofTrainer)
	if !strings.Contains(got, "My attempt:\nmy partial work") {
		t.Fatalf("attempt block missing: %q", got)
	}
	if !strings.Contains(got, "proof structure and the next best step") {
		t.Fatalf("proof-trainer focus line missing: %q", got)
	}

	got = ComposeUserMessage("prove X", "", ModeTutor)
	if got != "prove X" {
		t.Fatalf("plain message should pass through: %q", got)
	}
}

func TestModeTemperature(t *testing.T) {
	if ModeExam.Temperature() != 0.7 {
		t.Fatalf("exam temperature: want=0.7 got=%v", ModeExam.Temperature())
	}
	if ModeTutor.Temperature() != 0.3 || ModeProofTrainer.Temperature() != 0.3 {
		t.Fatalf("teaching modes should use 0.3")
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseMode("exam"); err != nil {
		t.Fatalf("ParseMode(exam): %v", err)
	}
	if _, err := ParseMode("lecture"); err == nil {
		t.Fatalf("ParseMode should reject unknown modes")
	}
	if _, err := ParseRigor("Graduate"); err != nil {
		t.Fatalf("ParseRigor should be case-insensitive: %v", err)
	}
	if _, err := ParsePlanTier("platinum"); err == nil {
		t.Fatalf("ParsePlanTier should reject unknown tiers")
	}
	if _, err := ParseDifficulty("hard"); err != nil {
		t.Fatalf("ParseDifficulty(hard): %v", err)
	}
}

func TestAssemblePracticePrompt(t *testing.T) {
	prompt := AssemblePracticePrompt("abstract-algebra", "group actions", DifficultyHard, nil)
	for _, m := range []string{"ONE exam-practice mathematics problem", "Difficulty: hard", "Topic: group actions", noNotesPlaceholder, "## Problem"} {
		if !strings.Contains(prompt, m) {
			t.Fatalf("practice prompt missing %q:\n%s", m, prompt)
		}
	}
	prompt = AssemblePracticePrompt("abstract-algebra", "  ", DifficultyMedium, nil)
	if !strings.Contains(prompt, "Topic: (any core topic)") {
		t.Fatalf("blank topic should fall back to the placeholder")
	}
}
