// Package fake provides an offline Generator that recognises the interviewer
// prompts and answers them deterministically. It backs the "fake" provider.
package fake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// MinAnswerWords is the shortest answer the fake evaluator accepts as correct.
const MinAnswerWords = 3

var questionBank = []string{
	"How would you explain the difference between a process and a thread?",
	"What happens when you type a URL into a browser and press Enter?",
	"How do you find and fix a memory leak in a long-running service?",
	"What trade-offs do you consider when adding an index to a database table?",
	"How would you design retries for calls to a flaky downstream service?",
	"What does idempotency mean for an HTTP API, and why does it matter?",
	"How do you keep a test suite fast as a codebase grows?",
	"What is a race condition and how do you detect one?",
	"How would you roll out a risky configuration change safely?",
	"What metrics would you watch right after a production deploy?",
}

// Generator answers prompts without calling any network service.
type Generator struct {
	mu        sync.Mutex
	questions int
	followups int
	model     string
}

// New returns a fake generator. The model name only shows up in logs.
func New(model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = "scripted"
	}
	return &Generator{model: model}
}

func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case strings.Contains(prompt, "Greet the candidate"):
		return "Hello and welcome! How many years of experience do you have?", nil
	case strings.Contains(prompt, "Generate 1 technical question"):
		q := questionBank[g.questions%len(questionBank)]
		g.questions++
		return q, nil
	case strings.Contains(prompt, "Reply in exactly this format"):
		return evaluate(field(prompt, "A: ")), nil
	case strings.Contains(prompt, "Brief constructive feedback"):
		return "Thanks, noted. Let's keep going.", nil
	case strings.Contains(prompt, "follow-up question"):
		g.followups++
		return fmt.Sprintf("Can you give a concrete example of that from your own work? (%d)", g.followups), nil
	case strings.Contains(prompt, "Candidate asks:"):
		return "Good question. The team works in small squads and owns its services end to end.", nil
	case strings.Contains(prompt, "Write an interview report"):
		return "1. Summary\nOffline interview completed with the fake provider.", nil
	default:
		return "", errors.New("fake generator does not recognise the prompt")
	}
}

func (g *Generator) Model() string { return g.model }

func (g *Generator) Provider() string { return "fake" }

func evaluate(answer string) string {
	if len(strings.Fields(answer)) >= MinAnswerWords {
		return "CORRECT: YES\nEVALUATION: The answer covers the key points."
	}
	return "CORRECT: NO\nEVALUATION: The answer is too short to judge."
}

// field returns the remainder of the first line starting with prefix.
func field(prompt, prefix string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
