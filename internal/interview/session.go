package interview

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultRole is used when the operator leaves the role blank.
	DefaultRole = "Software Developer"
	// DefaultTech is used when the operator leaves the technology list blank.
	DefaultTech = "Python"
)

// Level is the candidate seniority the interview is pitched at.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists the accepted levels in ascending order.
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// ParseLevel reports whether s names one of the accepted levels.
func ParseLevel(s string) (Level, bool) {
	candidate := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, level := range Levels() {
		if candidate == level {
			return level, true
		}
	}
	return "", false
}

// NormalizeLevel maps anything unrecognised to LevelIntermediate.
func NormalizeLevel(s string) Level {
	if level, ok := ParseLevel(s); ok {
		return level
	}
	return LevelIntermediate
}

// NormalizeRole trims the role and substitutes DefaultRole when blank.
func NormalizeRole(role string) string {
	if role = strings.TrimSpace(role); role == "" {
		return DefaultRole
	}
	return role
}

// ParseTechStack splits a comma-separated technology list, dropping blanks.
// An empty result becomes the single-element default list.
func ParseTechStack(input string) []string {
	return NormalizeTechStack(strings.Split(input, ","))
}

// NormalizeTechStack trims entries, drops blanks and applies the default.
func NormalizeTechStack(items []string) []string {
	stack := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			stack = append(stack, item)
		}
	}
	if len(stack) == 0 {
		return []string{DefaultTech}
	}
	return stack
}

// Phase is the engine's sub-mode within a question cycle.
type Phase string

const (
	PhaseMainQuestion      Phase = "main_question"
	PhaseFollowup          Phase = "followup"
	PhaseCandidateQuestion Phase = "candidate_question"
)

// QuestionAnswer is one evaluated question. It is never modified after the
// evaluation stage creates it.
type QuestionAnswer struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	IsCorrect  bool   `yaml:"is_correct"`
	Evaluation string `yaml:"evaluation"`
	Followup   bool   `yaml:"followup,omitempty"`
}

// Session is the complete mutable state of one interview. Only the engine
// mutates it, through Apply.
type Session struct {
	ID        string    `yaml:"id"`
	StartedAt time.Time `yaml:"started_at"`

	Role      string   `yaml:"role"`
	TechStack []string `yaml:"tech_stack"`
	Level     Level    `yaml:"level"`

	ExperienceYears      *int `yaml:"experience_years"`
	QuestionCount        int  `yaml:"question_count"`
	TotalQuestionsTarget int  `yaml:"total_questions_target"`

	History         []QuestionAnswer `yaml:"qa_history"`
	CurrentQuestion string           `yaml:"current_question,omitempty"`
	CurrentAnswer   string           `yaml:"current_answer,omitempty"`

	Followups               []string `yaml:"followups,omitempty"`
	FollowupCount           int      `yaml:"followup_count_for_current_question"`
	MaxFollowupsPerQuestion int      `yaml:"max_followups_per_question"`

	CandidateQuestions []string `yaml:"candidate_questions,omitempty"`
	CandidateAnswers   []string `yaml:"candidate_answers,omitempty"`

	CorrectCount     int `yaml:"correct_count"`
	WrongCount       int `yaml:"wrong_count"`
	ConsecutiveWrong int `yaml:"consecutive_wrong_count"`

	ShouldContinue              bool  `yaml:"should_continue"`
	InterviewComplete           bool  `yaml:"interview_complete"`
	WaitingForCandidateQuestion bool  `yaml:"waiting_for_candidate_question"`
	Phase                       Phase `yaml:"phase"`

	Report     string   `yaml:"-"`
	Transcript []string `yaml:"transcript"`
}

// NewSession creates a session with every default set explicitly.
func NewSession(role string, techStack []string, level Level, maxFollowups int) *Session {
	if _, ok := ParseLevel(string(level)); !ok {
		level = LevelIntermediate
	}
	if maxFollowups < 0 {
		maxFollowups = 0
	}

	return &Session{
		ID:                      uuid.NewString(),
		StartedAt:               time.Now(),
		Role:                    NormalizeRole(role),
		TechStack:               NormalizeTechStack(techStack),
		Level:                   level,
		MaxFollowupsPerQuestion: maxFollowups,
		History:                 []QuestionAnswer{},
		ShouldContinue:          true,
		Phase:                   PhaseMainQuestion,
	}
}

// TechList renders the technology stack for prompts and headers.
func (s *Session) TechList() string {
	return strings.Join(s.TechStack, ", ")
}

// Experience returns the collected years of experience, or 0 before collection.
func (s *Session) Experience() int {
	if s.ExperienceYears == nil {
		return 0
	}
	return *s.ExperienceYears
}

// MainQuestions returns the texts of evaluated main questions in order.
func (s *Session) MainQuestions() []string {
	questions := make([]string, 0, len(s.History))
	for _, qa := range s.History {
		if !qa.Followup {
			questions = append(questions, qa.Question)
		}
	}
	return questions
}

// LastAnswer returns the most recent evaluation.
func (s *Session) LastAnswer() (QuestionAnswer, bool) {
	if len(s.History) == 0 {
		return QuestionAnswer{}, false
	}
	return s.History[len(s.History)-1], true
}

// SuccessRate is the share of correct answers in percent, rounded to two
// decimals. It is 0 before any question was evaluated.
func (s *Session) SuccessRate() float64 {
	if s.QuestionCount == 0 {
		return 0
	}
	rate := float64(s.CorrectCount) / float64(s.QuestionCount) * 100
	return math.Round(rate*100) / 100
}
