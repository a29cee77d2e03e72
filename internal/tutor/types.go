package tutor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlanTier is the subscription tier of the caller. Closed set; adding a tier
// must be reflected in HintCeiling and in every switch over the type.
type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanStandard PlanTier = "standard"
	PlanPremium  PlanTier = "premium"
)

func ParsePlanTier(s string) (PlanTier, error) {
	switch PlanTier(strings.ToLower(strings.TrimSpace(s))) {
	case PlanFree:
		return PlanFree, nil
	case PlanStandard:
		return PlanStandard, nil
	case PlanPremium:
		return PlanPremium, nil
	}
	return "", fmt.Errorf("unknown plan tier %q", s)
}

// HintCeiling is the highest hint-ladder rung the tier may ever reach,
// independent of any content-based cap.
func (p PlanTier) HintCeiling() int {
	switch p {
	case PlanStandard:
		return 3
	case PlanPremium:
		return 4
	default:
		return 2
	}
}

// Mode selects the tutoring posture of the assistant.
type Mode string

const (
	ModeTutor        Mode = "tutor"
	ModeProofTrainer Mode = "proof-trainer"
	ModeExam         Mode = "exam"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTutor:
		return ModeTutor, nil
	case ModeProofTrainer:
		return ModeProofTrainer, nil
	case ModeExam:
		return ModeExam, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Temperature is fixed per mode: exam problem generation favors novelty, the
// teaching modes favor consistency.
func (m Mode) Temperature() float64 {
	if m == ModeExam {
		return 0.7
	}
	return 0.3
}

// Rigor controls prompt tone and formality, not access control.
type Rigor string

const (
	RigorIntro        Rigor = "intro"
	RigorIntermediate Rigor = "intermediate"
	RigorHonors       Rigor = "honors"
	RigorGraduate     Rigor = "graduate"
)

func ParseRigor(s string) (Rigor, error) {
	switch Rigor(strings.ToLower(strings.TrimSpace(s))) {
	case RigorIntro:
		return RigorIntro, nil
	case RigorIntermediate:
		return RigorIntermediate, nil
	case RigorHonors:
		return RigorHonors, nil
	case RigorGraduate:
		return RigorGraduate, nil
	}
	return "", fmt.Errorf("unknown rigor %q", s)
}

// The hint ladder is a closed four-rung disclosure policy. The prompt
// assembler and the output enforcer both depend on this exact vocabulary and
// order, so it is hard-coded rather than configurable.
const (
	HeadingIdea         = "## Idea"
	HeadingHint1        = "## Hint 1"
	HeadingHint2        = "## Hint 2"
	HeadingProofOutline = "## Proof outline"
	HeadingFullSolution = "## Full solution"

	MinHintLevel = 1
	MaxHintLevel = 4
)

var ladderHeadings = [...]string{
	HeadingIdea,
	HeadingHint1,
	HeadingHint2,
	HeadingProofOutline,
	HeadingFullSolution,
}

// ClampHintLevel forces a caller-supplied level into [1,4]. Request fields are
// never trusted as already valid.
func ClampHintLevel(level int) int {
	if level < MinHintLevel {
		return MinHintLevel
	}
	if level > MaxHintLevel {
		return MaxHintLevel
	}
	return level
}

// highestHeadingIndex maps a clamped hint level to the index of the last
// permitted heading in ladderHeadings (level 1 permits up to "## Hint 1").
func highestHeadingIndex(level int) int {
	return ClampHintLevel(level)
}

// RetrievedPassage is a stored chunk enriched with retrieval-time metadata.
// Constructed fresh per request, never persisted.
type RetrievedPassage struct {
	ID            uuid.UUID
	Content       string
	DocumentTitle string
	SectionLabel  string
	PageNumber    *int
	Similarity    *float64
}

// CitationRecord is the projection of a RetrievedPassage returned to the
// caller alongside the answer.
type CitationRecord struct {
	ChunkID       uuid.UUID `json:"chunk_id"`
	DocumentTitle string    `json:"document_title,omitempty"`
	Section       string    `json:"section,omitempty"`
	Page          *int      `json:"page,omitempty"`
	Similarity    *float64  `json:"similarity,omitempty"`
}

type PolicyInput struct {
	RequestedHintLevel int
	Plan               PlanTier
	Attempt            string
	Message            string
}

type PolicyDecision struct {
	EffectiveHintLevel int
	Notice             string
}
