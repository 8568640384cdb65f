package interview

// Update is the partial result of a stage. Nil pointers leave the field
// untouched, slices are appended and Reset zeroes progress before anything
// else is applied.
type Update struct {
	Reset bool

	ExperienceYears      *int
	TotalQuestionsTarget *int
	QuestionCount        *int

	CurrentQuestion *string
	CurrentAnswer   *string
	FollowupCount   *int

	CorrectCount     *int
	WrongCount       *int
	ConsecutiveWrong *int

	ShouldContinue              *bool
	InterviewComplete           *bool
	WaitingForCandidateQuestion *bool
	Phase                       *Phase

	History            []QuestionAnswer
	Followups          []string
	CandidateQuestions []string
	CandidateAnswers   []string
	Transcript         []string
}

func ptr[T any](v T) *T { return &v }

// Apply merges u into the session.
func (s *Session) Apply(u Update) {
	if u.Reset {
		s.reset()
	}

	set(&s.ExperienceYears, u.ExperienceYears)
	setValue(&s.TotalQuestionsTarget, u.TotalQuestionsTarget)
	setValue(&s.QuestionCount, u.QuestionCount)
	setValue(&s.CurrentQuestion, u.CurrentQuestion)
	setValue(&s.CurrentAnswer, u.CurrentAnswer)
	setValue(&s.FollowupCount, u.FollowupCount)
	setValue(&s.CorrectCount, u.CorrectCount)
	setValue(&s.WrongCount, u.WrongCount)
	setValue(&s.ConsecutiveWrong, u.ConsecutiveWrong)
	setValue(&s.ShouldContinue, u.ShouldContinue)
	setValue(&s.InterviewComplete, u.InterviewComplete)
	setValue(&s.WaitingForCandidateQuestion, u.WaitingForCandidateQuestion)
	setValue(&s.Phase, u.Phase)

	s.History = append(s.History, u.History...)
	s.Followups = append(s.Followups, u.Followups...)
	s.CandidateQuestions = append(s.CandidateQuestions, u.CandidateQuestions...)
	s.CandidateAnswers = append(s.CandidateAnswers, u.CandidateAnswers...)
	s.Transcript = append(s.Transcript, u.Transcript...)
}

// reset returns score, progress and phase to their initial values. Profile
// fields and the transcript survive.
func (s *Session) reset() {
	s.QuestionCount = 0
	s.History = []QuestionAnswer{}
	s.CurrentQuestion = ""
	s.CurrentAnswer = ""
	s.Followups = nil
	s.FollowupCount = 0
	s.CandidateQuestions = nil
	s.CandidateAnswers = nil
	s.CorrectCount = 0
	s.WrongCount = 0
	s.ConsecutiveWrong = 0
	s.ShouldContinue = true
	s.InterviewComplete = false
	s.WaitingForCandidateQuestion = false
	s.Phase = PhaseMainQuestion
}

func set[T any](dst **T, src *T) {
	if src != nil {
		*dst = ptr(*src)
	}
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
