package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type promptKind string

const (
	kindExperience promptKind = "experience"
	kindQuestion   promptKind = "question"
	kindEvaluation promptKind = "evaluation"
	kindFeedback   promptKind = "feedback"
	kindFollowup   promptKind = "followup"
	kindCandidate  promptKind = "candidate"
	kindUnknown    promptKind = "unknown"
)

func classify(prompt string) promptKind {
	switch {
	case strings.Contains(prompt, "Greet the candidate"):
		return kindExperience
	case strings.Contains(prompt, "Generate 1 technical question"):
		return kindQuestion
	case strings.Contains(prompt, "Reply in exactly this format"):
		return kindEvaluation
	case strings.Contains(prompt, "Brief constructive feedback"):
		return kindFeedback
	case strings.Contains(prompt, "Generate one related follow-up question"):
		return kindFollowup
	case strings.Contains(prompt, "Candidate asks:"):
		return kindCandidate
	default:
		return kindUnknown
	}
}

// scriptedGenerator answers by prompt kind. Evaluations follow verdicts and
// default to correct once the script runs out.
type scriptedGenerator struct {
	mu       sync.Mutex
	verdicts []bool
	failOn   promptKind
	err      error
	blankOn  promptKind

	prompts map[promptKind][]string
}

func newScriptedGenerator(verdicts ...bool) *scriptedGenerator {
	return &scriptedGenerator{verdicts: verdicts, prompts: make(map[promptKind][]string)}
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kind := classify(prompt)
	g.prompts[kind] = append(g.prompts[kind], prompt)
	n := len(g.prompts[kind])

	if g.failOn == kind {
		return "", g.err
	}
	if g.blankOn == kind {
		return "", nil
	}

	switch kind {
	case kindExperience:
		return "  Hello! How many years of experience do you have?\n", nil
	case kindQuestion:
		return fmt.Sprintf("\n Question %d? ", n), nil
	case kindEvaluation:
		correct := true
		if n <= len(g.verdicts) {
			correct = g.verdicts[n-1]
		}
		if correct {
			return "CORRECT: YES\nEVALUATION: solid answer", nil
		}
		return "CORRECT: NO\nEVALUATION: missed the point", nil
	case kindFeedback:
		return fmt.Sprintf("Feedback %d", n), nil
	case kindFollowup:
		return fmt.Sprintf("Follow-up %d?", n), nil
	case kindCandidate:
		return fmt.Sprintf("Candidate answer %d", n), nil
	default:
		return "", fmt.Errorf("unexpected prompt: %q", prompt)
	}
}

func (g *scriptedGenerator) calls(kind promptKind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts[kind])
}

func (g *scriptedGenerator) prompt(kind promptKind, i int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompts[kind][i]
}

// scriptedConsole serves answers and candidate questions from separate queues
// keyed by the read label. Exhausted queues yield empty input.
type scriptedConsole struct {
	experience string
	answers    []string
	questions  []string
	failAfter  int
	err        error

	reads     int
	displayed []string
}

func (c *scriptedConsole) ReadLine(_ context.Context, label string) (string, error) {
	c.reads++
	if c.err != nil && c.reads > c.failAfter {
		return "", c.err
	}

	switch label {
	case candidateQuestionLabel:
		return pop(&c.questions), nil
	default:
		if c.experience != "" {
			line := c.experience
			c.experience = ""
			return line, nil
		}
		return pop(&c.answers), nil
	}
}

func (c *scriptedConsole) Display(text string) {
	c.displayed = append(c.displayed, text)
}

func pop(queue *[]string) string {
	if len(*queue) == 0 {
		return ""
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head
}

type countingReporter struct {
	calls        int
	successRates []float64
	err          error
}

func (r *countingReporter) Generate(_ context.Context, s *Session) (string, error) {
	r.calls++
	r.successRates = append(r.successRates, s.SuccessRate())
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("report for %s", s.Role), nil
}

type recordingMetrics struct {
	questions, followups int
	correct, wrong       int
	reasons              []string
}

func (m *recordingMetrics) RecordQuestion(_ context.Context, followup bool) {
	if followup {
		m.followups++
		return
	}
	m.questions++
}

func (m *recordingMetrics) RecordAnswer(_ context.Context, correct bool) {
	if correct {
		m.correct++
		return
	}
	m.wrong++
}

func (m *recordingMetrics) RecordCompleted(_ context.Context, reason string, _ int, _ float64) {
	m.reasons = append(m.reasons, reason)
}
