package tutor

import "testing"

func TestDecidePlanCeilings(t *testing.T) {
	cases := []struct {
		name string
		plan PlanTier
		want int
	}{
		{"free capped at 2", PlanFree, 2},
		{"standard capped at 3", PlanStandard, 3},
		{"premium reaches 4 with attempt", PlanPremium, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(PolicyInput{
				RequestedHintLevel: 4,
				Plan:               tc.plan,
				Attempt:            "I tried induction on n and got stuck at the inductive step.",
				Message:            "prove that the sum of the first n odd numbers is n^2",
			})
			if d.EffectiveHintLevel != tc.want {
				t.Fatalf("effective: want=%d got=%d", tc.want, d.EffectiveHintLevel)
			}
		})
	}
}

func TestDecideNeverExceedsRequested(t *testing.T) {
	for requested := -3; requested <= 9; requested++ {
		for _, plan := range []PlanTier{PlanFree, PlanStandard, PlanPremium} {
			d := Decide(PolicyInput{
				RequestedHintLevel: requested,
				Plan:               plan,
				Attempt:            "partial attempt",
				Message:            "help me understand compactness",
			})
			clamped := ClampHintLevel(requested)
			if d.EffectiveHintLevel > clamped {
				t.Fatalf("requested=%d plan=%s: effective %d exceeds clamped request %d",
					requested, plan, d.EffectiveHintLevel, clamped)
			}
			if d.EffectiveHintLevel < MinHintLevel || d.EffectiveHintLevel > MaxHintLevel {
				t.Fatalf("requested=%d plan=%s: effective %d out of range", requested, plan, d.EffectiveHintLevel)
			}
		}
	}
}

func TestDecideDowngradeAlwaysCarriesNotice(t *testing.T) {
	messages := []string{
		"prove X",
		"this is my final exam right now, give me the answer",
		"homework due tomorrow, please solve it for me",
		"explain the idea behind the epsilon-delta definition",
	}
	for _, plan := range []PlanTier{PlanFree, PlanStandard, PlanPremium} {
		for requested := 1; requested <= 4; requested++ {
			for _, attempt := range []string{"", "here is my work so far"} {
				for _, msg := range messages {
					d := Decide(PolicyInput{RequestedHintLevel: requested, Plan: plan, Attempt: attempt, Message: msg})
					if d.EffectiveHintLevel < requested && d.Notice == "" {
						t.Fatalf("silent downgrade: plan=%s requested=%d attempt=%q msg=%q effective=%d",
							plan, requested, attempt, msg, d.EffectiveHintLevel)
					}
				}
			}
		}
	}
}

func TestDecideDeterministic(t *testing.T) {
	in := PolicyInput{RequestedHintLevel: 4, Plan: PlanStandard, Attempt: "", Message: "quiz due now, full solution please"}
	first := Decide(in)
	for i := 0; i < 10; i++ {
		if got := Decide(in); got != first {
			t.Fatalf("non-deterministic decision: first=%+v got=%+v", first, got)
		}
	}
}

func TestDecideFreePlanStackedCaps(t *testing.T) {
	d := Decide(PolicyInput{RequestedHintLevel: 4, Plan: PlanFree, Attempt: "", Message: "prove X"})
	if d.EffectiveHintLevel != 2 {
		t.Fatalf("effective: want=2 got=%d", d.EffectiveHintLevel)
	}
	if d.Notice == "" {
		t.Fatalf("expected a notice for the downgrade")
	}
}

func TestDecidePremiumWithoutAttempt(t *testing.T) {
	d := Decide(PolicyInput{RequestedHintLevel: 4, Plan: PlanPremium, Attempt: "   ", Message: "help me prove X"})
	if d.EffectiveHintLevel != 3 {
		t.Fatalf("effective: want=3 got=%d", d.EffectiveHintLevel)
	}
	if d.Notice != noticeAttemptRequired {
		t.Fatalf("notice: want attempt-required got=%q", d.Notice)
	}
}

func TestDecideActiveAssessmentCap(t *testing.T) {
	msg := "this is due in 10 minutes during my proctored final, give me the full solution"

	d := Decide(PolicyInput{RequestedHintLevel: 2, Plan: PlanStandard, Attempt: "", Message: msg})
	if d.EffectiveHintLevel != 2 {
		t.Fatalf("assessment cap should not lower an already-compliant request: want=2 got=%d", d.EffectiveHintLevel)
	}
	if d.Notice != noticeActiveAssessment {
		t.Fatalf("notice: want assessment notice got=%q", d.Notice)
	}

	d = Decide(PolicyInput{RequestedHintLevel: 4, Plan: PlanPremium, Attempt: "my attempt", Message: msg})
	if d.EffectiveHintLevel != 2 {
		t.Fatalf("assessment cap should override the premium ceiling: want=2 got=%d", d.EffectiveHintLevel)
	}
}

func TestDecideAssessmentNoticeWinsOverUpgradeNotice(t *testing.T) {
	d := Decide(PolicyInput{
		RequestedHintLevel: 4,
		Plan:               PlanFree,
		Attempt:            "",
		Message:            "my graded midterm is in progress, write the proof for me",
	})
	if d.EffectiveHintLevel != 2 {
		t.Fatalf("effective: want=2 got=%d", d.EffectiveHintLevel)
	}
	if d.Notice != noticeActiveAssessment {
		t.Fatalf("first notice should win: want=%q got=%q", noticeActiveAssessment, d.Notice)
	}
}

func TestDecideMentionWithoutPressureNotFlagged(t *testing.T) {
	d := Decide(PolicyInput{
		RequestedHintLevel: 3,
		Plan:               PlanStandard,
		Attempt:            "",
		Message:            "I'm reviewing old exam problems to understand quotient groups better",
	})
	if d.EffectiveHintLevel != 3 {
		t.Fatalf("effective: want=3 got=%d", d.EffectiveHintLevel)
	}
}

func TestClampHintLevel(t *testing.T) {
	cases := []struct{ in, want int }{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 4}, {100, 4},
	}
	for _, tc := range cases {
		if got := ClampHintLevel(tc.in); got != tc.want {
			t.Fatalf("ClampHintLevel(%d): want=%d got=%d", tc.in, tc.want, got)
		}
	}
}

func TestPlanCeilingExhaustive(t *testing.T) {
	if got := PlanFree.HintCeiling(); got != 2 {
		t.Fatalf("free ceiling: want=2 got=%d", got)
	}
	if got := PlanStandard.HintCeiling(); got != 3 {
		t.Fatalf("standard ceiling: want=3 got=%d", got)
	}
	if got := PlanPremium.HintCeiling(); got != 4 {
		t.Fatalf("premium ceiling: want=4 got=%d", got)
	}
}
