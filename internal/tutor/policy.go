package tutor

import (
	"regexp"
	"strings"
)

// Heuristic signals for a user asking for answers during an active graded
// assessment. Keyword-based; a policy signal, not ground truth.
var (
	assessmentRe = regexp.MustCompile(`(?i)\b(exam|midterm|final|quiz|test|graded|assignment|homework)\b`)
	urgencyRe    = regexp.MustCompile(`(?i)\b(right now|now|currently|during|in progress|proctored|proctor|timed|submitting|submit|submission|due)\b`)
	answerAskRe  = regexp.MustCompile(`(?i)(full solution|final answer|write the proof|solve it for me|do it for me|\banswer\b|\bsolve\b)`)
)

const (
	noticeActiveAssessment = "I can't provide full solutions for an active graded assessment. I can help with concepts and small hints so you can solve it yourself."
	noticeUpgradeRequired  = "Deeper hints and full solutions are limited on your current plan. Upgrade to unlock higher hint levels."
	noticeAttemptRequired  = "To unlock a full solution, paste your attempt (even partial) so I can guide you responsibly."
)

func looksLikeGradedCheatingRequest(message string) bool {
	return assessmentRe.MatchString(message) &&
		(urgencyRe.MatchString(message) || answerAskRe.MatchString(message))
}

// Decide computes the effective hint level for a request. Pure and
// deterministic: no I/O, identical input always yields identical output.
//
// Rules apply as successive caps, so the most restrictive applicable rule
// always wins, and the first notice written is kept so the user sees the most
// specific explanation.
func Decide(in PolicyInput) PolicyDecision {
	requested := ClampHintLevel(in.RequestedHintLevel)

	effective := requested
	notice := ""

	if looksLikeGradedCheatingRequest(in.Message) {
		if effective > 2 {
			effective = 2
		}
		notice = noticeActiveAssessment
	}

	// Plan ceilings also enforce the requested==4 rule for non-premium
	// plans, since their ceilings sit below the full-solution rung.
	if ceiling := in.Plan.HintCeiling(); effective > ceiling {
		effective = ceiling
		if notice == "" {
			notice = noticeUpgradeRequired
		}
	}

	if requested == MaxHintLevel && in.Plan == PlanPremium && isBlank(in.Attempt) {
		if effective > 3 {
			effective = 3
		}
		if notice == "" {
			notice = noticeAttemptRequired
		}
	}

	return PolicyDecision{EffectiveHintLevel: effective, Notice: notice}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
