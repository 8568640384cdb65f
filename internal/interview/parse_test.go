package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExperience(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "I have 5 years", want: 5},
		{input: "about three years", want: 3},
		{input: "not sure", want: 0},
		{input: "", want: 0},
		{input: "Ten years, maybe 12", want: 10},
		{input: "5+ years or so, 7 really", want: 7},
		{input: "around 2.5 years then one more", want: 1},
		{input: "99999999999999999999999 or 4", want: 4},
		{input: "  SEVEN  ", want: 7},
		{input: "eleven", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExperience(tt.input))
		})
	}
}

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantCorrect     bool
		wantExplanation string
	}{
		{
			name:            "marker and explanation",
			raw:             "CORRECT: YES\nEVALUATION: good use of indexing",
			wantCorrect:     true,
			wantExplanation: "good use of indexing",
		},
		{
			name:            "no marker",
			raw:             "The candidate rambled.",
			wantCorrect:     false,
			wantExplanation: "The candidate rambled.",
		},
		{
			name:            "lower case verdict",
			raw:             "correct: yes\nEVALUATION: fine",
			wantCorrect:     true,
			wantExplanation: "fine",
		},
		{
			name:            "negative verdict",
			raw:             "CORRECT: NO\nEVALUATION: mixed up slices and arrays",
			wantCorrect:     false,
			wantExplanation: "mixed up slices and arrays",
		},
		{
			name:            "evaluation prefix is case sensitive",
			raw:             "CORRECT: NO\nevaluation: lowercase",
			wantCorrect:     false,
			wantExplanation: "CORRECT: NO\nevaluation: lowercase",
		},
		{
			name:            "empty explanation falls back to full text",
			raw:             "CORRECT: YES\nEVALUATION:   ",
			wantCorrect:     true,
			wantExplanation: "CORRECT: YES\nEVALUATION:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, explanation := ParseEvaluation(tt.raw)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantExplanation, explanation)
		})
	}
}

func TestShouldAskCandidateQuestions(t *testing.T) {
	want := map[int]bool{1: true, 3: true, 6: true, 9: true}

	for n := 1; n <= DefaultMaxQuestions; n++ {
		assert.Equal(t, want[n], ShouldAskCandidateQuestions(n), "question %d", n)
	}
}

func TestShouldContinue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		count       int
		consecutive int
		want        bool
		reason      StopReason
	}{
		{name: "fresh", count: 0, consecutive: 0, want: true},
		{name: "wrong streak before minimum", count: 2, consecutive: 50, want: true},
		{name: "wrong streak at minimum", count: 3, consecutive: 3, want: false, reason: StopConsecutiveWrong},
		{name: "budget exhausted", count: 10, consecutive: 0, want: false, reason: StopMaxQuestions},
		{name: "both rules fire", count: 10, consecutive: 3, want: false, reason: StopConsecutiveWrong},
		{name: "short streak", count: 7, consecutive: 2, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{QuestionCount: tt.count, ConsecutiveWrong: tt.consecutive}
			got, reason := ShouldContinue(s, cfg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestShouldAskFollowup(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{name: "eligible", s: Session{Phase: PhaseFollowup, FollowupCount: 0, MaxFollowupsPerQuestion: 2, QuestionCount: 1}, want: true},
		{name: "wrong phase", s: Session{Phase: PhaseMainQuestion, MaxFollowupsPerQuestion: 2, QuestionCount: 1}, want: false},
		{name: "follow-ups used up", s: Session{Phase: PhaseFollowup, FollowupCount: 2, MaxFollowupsPerQuestion: 2, QuestionCount: 3}, want: false},
		{name: "budget exhausted", s: Session{Phase: PhaseFollowup, MaxFollowupsPerQuestion: 2, QuestionCount: 10}, want: false},
		{name: "follow-ups disabled", s: Session{Phase: PhaseFollowup, MaxFollowupsPerQuestion: 0, QuestionCount: 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldAskFollowup(&tt.s, cfg))
		})
	}
}

func TestFormatPreviousQuestions(t *testing.T) {
	assert.Equal(t, "None yet", FormatPreviousQuestions(nil))
	assert.Equal(t, "Q1: What is a goroutine?\nQ2: What is a channel?",
		FormatPreviousQuestions([]string{"What is a goroutine?", "What is a channel?"}))
}
