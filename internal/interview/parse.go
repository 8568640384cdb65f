package interview

import (
	"strconv"
	"strings"
)

const (
	correctMarker    = "CORRECT: YES"
	evaluationPrefix = "EVALUATION:"
)

var numberWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"seven": 7,
	"eight": 8,
	"nine":  9,
	"ten":   10,
}

// ParseExperience extracts years of experience from free text. The first
// whitespace-separated token that is a plain digit string or an English number
// word from one to ten wins; anything else yields 0.
func ParseExperience(input string) int {
	for _, token := range strings.Fields(strings.ToLower(input)) {
		if isDigits(token) {
			if years, err := strconv.Atoi(token); err == nil {
				return years
			}
			continue
		}
		if years, ok := numberWords[token]; ok {
			return years
		}
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseEvaluation reads the verdict and explanation from a model evaluation.
// A missing verdict counts as incorrect and a missing EVALUATION line makes the
// whole text the explanation.
func ParseEvaluation(raw string) (bool, string) {
	text := strings.TrimSpace(raw)
	correct := strings.Contains(strings.ToUpper(text), correctMarker)

	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, evaluationPrefix) {
			continue
		}
		if explanation := strings.TrimSpace(strings.TrimPrefix(line, evaluationPrefix)); explanation != "" {
			return correct, explanation
		}
		break
	}

	return correct, text
}

// ShouldAskCandidateQuestions gates the candidate-question branch: after the
// first question and after every third.
func ShouldAskCandidateQuestions(questionCount int) bool {
	return questionCount == 1 || questionCount%3 == 0
}

// StopReason explains why the interview ended.
type StopReason string

const (
	StopNone             StopReason = ""
	StopMaxQuestions     StopReason = "max_questions"
	StopConsecutiveWrong StopReason = "consecutive_wrong"
)

// ShouldContinue applies the termination rules. The consecutive-wrong rule
// only fires once MinQuestions have been asked, and it takes precedence as the
// reported reason when both rules hold.
func ShouldContinue(s *Session, cfg Config) (bool, StopReason) {
	maxReached := s.QuestionCount >= cfg.MaxQuestions
	tooManyWrong := s.ConsecutiveWrong >= cfg.MaxConsecutiveWrong && s.QuestionCount >= cfg.MinQuestions

	switch {
	case tooManyWrong:
		return false, StopConsecutiveWrong
	case maxReached:
		return false, StopMaxQuestions
	default:
		return true, StopNone
	}
}

// ShouldAskFollowup decides whether the follow-up branch generates another
// question on the current topic.
func ShouldAskFollowup(s *Session, cfg Config) bool {
	return s.Phase == PhaseFollowup &&
		s.FollowupCount < s.MaxFollowupsPerQuestion &&
		s.QuestionCount < cfg.MaxQuestions
}

// FormatPreviousQuestions renders asked main questions for the question prompt.
func FormatPreviousQuestions(questions []string) string {
	if len(questions) == 0 {
		return "None yet"
	}
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = "Q" + strconv.Itoa(i+1) + ": " + q
	}
	return strings.Join(lines, "\n")
}
