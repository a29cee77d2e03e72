package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/tutor"
)

const (
	// Generation is a paid upstream call with its own deadline, independent
	// of the inbound request context.
	generateTimeout = 90 * time.Second

	maxHistoryMessages = 20
	practiceRetrieveK  = 6
)

type AnswerInput struct {
	UserID             uuid.UUID
	CourseID           uuid.UUID
	Message            string
	Mode               tutor.Mode
	Rigor              tutor.Rigor
	RequestedHintLevel int
	Attempt            string
	History            []openai.ChatMessage
}

type AnswerResult struct {
	Answer             string                 `json:"answer"`
	Citations          []tutor.CitationRecord `json:"citations"`
	Notice             string                 `json:"notice,omitempty"`
	EffectiveHintLevel int                    `json:"effective_hint_level"`
}

type PracticeInput struct {
	CourseID   uuid.UUID
	Topic      string
	Difficulty tutor.Difficulty
}

type PracticeResult struct {
	Problem   string                 `json:"problem"`
	Citations []tutor.CitationRecord `json:"citations"`
}

// TutorService runs the full answer pipeline: plan lookup, policy decision
// and retrieval in parallel, prompt assembly, one generation call, and
// ladder enforcement on the way out.
type TutorService interface {
	Answer(ctx context.Context, in AnswerInput) (*AnswerResult, error)
	GeneratePractice(ctx context.Context, in PracticeInput) (*PracticeResult, error)
}

type tutorService struct {
	log       *logger.Logger
	ai        openai.Client
	plans     PlanService
	retrieval RetrievalService
	topK      int
}

func NewTutorService(log *logger.Logger, ai openai.Client, plans PlanService, retrieval RetrievalService, topK int) TutorService {
	if topK <= 0 {
		topK = DefaultRetrieveLimit
	}
	return &tutorService{
		log:       log.With("service", "TutorService"),
		ai:        ai,
		plans:     plans,
		retrieval: retrieval,
		topK:      topK,
	}
}

func (s *tutorService) Answer(ctx context.Context, in AnswerInput) (*AnswerResult, error) {
	if in.Message == "" {
		return nil, fmt.Errorf("answer: message is required")
	}
	if in.CourseID == uuid.Nil {
		return nil, fmt.Errorf("answer: course id is required")
	}

	plan, err := s.plans.GetPlan(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	// The policy decision and retrieval are independent; retrieval is the
	// slow leg so both run before the prompt is assembled.
	var (
		decision  tutor.PolicyDecision
		retrieved []tutor.RetrievedPassage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		decision = tutor.Decide(tutor.PolicyInput{
			RequestedHintLevel: in.RequestedHintLevel,
			Plan:               plan,
			Attempt:            in.Attempt,
			Message:            in.Message,
		})
		return nil
	})
	g.Go(func() error {
		retrieved = s.retrieval.Retrieve(gctx, in.CourseID, in.Message, s.topK)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	system := tutor.AssembleSystemPrompt(tutor.PromptInput{
		CourseID:  in.CourseID.String(),
		Mode:      in.Mode,
		Rigor:     in.Rigor,
		HintLevel: decision.EffectiveHintLevel,
		Notice:    decision.Notice,
		Retrieved: retrieved,
	})

	history := in.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	messages := make([]openai.ChatMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatMessage{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatMessage{
		Role:    "user",
		Content: tutor.ComposeUserMessage(in.Message, in.Attempt, in.Mode),
	})

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	raw, err := s.ai.GenerateChat(genCtx, messages, in.Mode.Temperature())
	if err != nil {
		return nil, fmt.Errorf("answer: generation: %w", err)
	}

	answer := tutor.EnforceHintLadder(raw, decision.EffectiveHintLevel)
	if answer != raw {
		s.log.Info("Truncated response beyond granted hint level",
			"course_id", in.CourseID.String(),
			"user_id", in.UserID.String(),
			"effective_hint_level", decision.EffectiveHintLevel,
		)
	}

	return &AnswerResult{
		Answer:             answer,
		Citations:          tutor.CitationsFor(retrieved),
		Notice:             decision.Notice,
		EffectiveHintLevel: decision.EffectiveHintLevel,
	}, nil
}

func (s *tutorService) GeneratePractice(ctx context.Context, in PracticeInput) (*PracticeResult, error) {
	if in.CourseID == uuid.Nil {
		return nil, fmt.Errorf("practice: course id is required")
	}
	if in.Topic == "" {
		return nil, fmt.Errorf("practice: topic is required")
	}

	retrieved := s.retrieval.Retrieve(ctx, in.CourseID, in.Topic, practiceRetrieveK)

	prompt := tutor.AssemblePracticePrompt(in.CourseID.String(), in.Topic, in.Difficulty, retrieved)
	messages := []openai.ChatMessage{
		{Role: "system", Content: prompt},
		{Role: "user", Content: fmt.Sprintf("Generate one %s practice problem about %s.", in.Difficulty, in.Topic)},
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	raw, err := s.ai.GenerateChat(genCtx, messages, 0.7)
	if err != nil {
		return nil, fmt.Errorf("practice: generation: %w", err)
	}

	return &PracticeResult{
		Problem:   tutor.ExtractProblem(raw),
		Citations: tutor.CitationsFor(retrieved),
	}, nil
}
