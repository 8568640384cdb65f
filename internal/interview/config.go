package interview

import "fmt"

const (
	DefaultMaxQuestions            = 10
	DefaultMinQuestions            = 3
	DefaultMaxConsecutiveWrong     = 3
	DefaultMaxFollowupsPerQuestion = 2
)

// Config holds the engine limits and the topology switches.
type Config struct {
	MaxQuestions            int
	MinQuestions            int
	MaxConsecutiveWrong     int
	MaxFollowupsPerQuestion int

	// Followups wires generate_followup_question into the graph.
	Followups bool
	// CandidateQuestions enables the handle_candidate_question branch.
	CandidateQuestions bool
}

// DefaultConfig returns the base loop: no follow-ups, candidate questions on.
func DefaultConfig() Config {
	return Config{
		MaxQuestions:            DefaultMaxQuestions,
		MinQuestions:            DefaultMinQuestions,
		MaxConsecutiveWrong:     DefaultMaxConsecutiveWrong,
		MaxFollowupsPerQuestion: DefaultMaxFollowupsPerQuestion,
		CandidateQuestions:      true,
	}
}

// Validate rejects limits that would never terminate or never ask anything.
func (c Config) Validate() error {
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("max questions must be positive, got %d", c.MaxQuestions)
	}
	if c.MinQuestions < 0 {
		return fmt.Errorf("min questions must not be negative, got %d", c.MinQuestions)
	}
	if c.MaxConsecutiveWrong <= 0 {
		return fmt.Errorf("max consecutive wrong must be positive, got %d", c.MaxConsecutiveWrong)
	}
	if c.MaxFollowupsPerQuestion < 0 {
		return fmt.Errorf("max follow-ups per question must not be negative, got %d", c.MaxFollowupsPerQuestion)
	}
	return nil
}
