package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyLeavesUnsetFieldsAlone(t *testing.T) {
	s := NewSession("Developer", []string{"Go"}, LevelAdvanced, 2)
	s.CurrentQuestion = "What is a map?"
	s.CorrectCount = 2

	s.Apply(Update{CurrentAnswer: ptr("a hash table")})

	assert.Equal(t, "What is a map?", s.CurrentQuestion)
	assert.Equal(t, "a hash table", s.CurrentAnswer)
	assert.Equal(t, 2, s.CorrectCount)
	assert.Nil(t, s.ExperienceYears)
}

func TestApplyAppendsSlices(t *testing.T) {
	s := NewSession("Developer", []string{"Go"}, LevelAdvanced, 2)

	s.Apply(Update{
		History:    []QuestionAnswer{{Question: "Q1"}},
		Transcript: []string{"Interviewer: Q1"},
	})
	s.Apply(Update{
		History:    []QuestionAnswer{{Question: "Q2"}},
		Transcript: []string{"Candidate: dunno"},
	})

	assert.Len(t, s.History, 2)
	assert.Equal(t, []string{"Interviewer: Q1", "Candidate: dunno"}, s.Transcript)
}

func TestApplyCopiesExperience(t *testing.T) {
	s := NewSession("Developer", []string{"Go"}, LevelAdvanced, 2)
	years := 4

	s.Apply(Update{ExperienceYears: &years})
	years = 9

	assert.Equal(t, 4, s.Experience())
}

func TestApplyResetRunsFirst(t *testing.T) {
	s := NewSession("Developer", []string{"Go"}, LevelAdvanced, 2)
	s.QuestionCount = 5
	s.WrongCount = 5
	s.ConsecutiveWrong = 3
	s.ShouldContinue = false
	s.InterviewComplete = true
	s.WaitingForCandidateQuestion = true
	s.Phase = PhaseCandidateQuestion
	s.CandidateQuestions = []string{"Remote?"}
	s.Transcript = []string{"Interviewer: hi"}

	s.Apply(Update{Reset: true, Transcript: []string{"Interviewer: hello again"}})

	assert.Zero(t, s.QuestionCount)
	assert.Zero(t, s.WrongCount)
	assert.Zero(t, s.ConsecutiveWrong)
	assert.True(t, s.ShouldContinue)
	assert.False(t, s.InterviewComplete)
	assert.False(t, s.WaitingForCandidateQuestion)
	assert.Equal(t, PhaseMainQuestion, s.Phase)
	assert.Empty(t, s.CandidateQuestions)
	assert.Empty(t, s.History)
	assert.Equal(t, "Developer", s.Role)
	assert.Equal(t, LevelAdvanced, s.Level)
	assert.Equal(t, []string{"Interviewer: hi", "Interviewer: hello again"}, s.Transcript)
}
