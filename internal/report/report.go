// Package report turns a finished interview session into the final report
// and persists it.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/tech-interviewer/internal/interview"
	"github.com/spigell/tech-interviewer/internal/logger"
	"github.com/spigell/tech-interviewer/internal/prompts"
)

const (
	// DefaultDir is where reports land when nothing else is configured.
	DefaultDir = "outputs/reports"

	reportPrefix  = "interview_report_"
	reportExt     = ".txt"
	sessionPrefix = "interview_session_"
	sessionExt    = ".yaml"

	fileTimeLayout   = "20060102_150405"
	headerTimeLayout = "2006-01-02 15:04:05"

	qaSeparator = "\n---\n"
	ruleWidth   = 80
)

// Generator produces the report body.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configure a Builder. Only Dir is required.
type Options struct {
	Dir         string
	SaveSession bool
	Logger      *zap.Logger
	// Out receives a short notice with the saved path. Nil disables it.
	Out io.Writer
	Now func() time.Time
}

// Builder implements interview.Reporter.
type Builder struct {
	generator   Generator
	dir         string
	saveSession bool
	logger      *zap.Logger
	out         io.Writer
	now         func() time.Time
}

func New(generator Generator, opts Options) *Builder {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Builder{
		generator:   generator,
		dir:         opts.Dir,
		saveSession: opts.SaveSession,
		logger:      logger.WithFields(opts.Logger),
		out:         opts.Out,
		now:         opts.Now,
	}
}

// Generate renders the report, writes it to disk and returns the full text.
func (b *Builder) Generate(ctx context.Context, s *interview.Session) (string, error) {
	now := b.now()

	report, err := b.Render(ctx, s, now)
	if err != nil {
		return "", err
	}

	path, err := Save(b.dir, s.Role, report, now)
	if err != nil {
		return "", err
	}

	log := logger.WithSession(b.logger, s.ID)
	log.Info("report saved", zap.String("path", path))
	if b.out != nil {
		fmt.Fprintf(b.out, "\n✅ Report saved to: %s\n\n", path)
	}

	if b.saveSession {
		sessionPath, err := SaveSession(b.dir, s, now)
		if err != nil {
			return "", err
		}
		log.Info("session saved", zap.String("path", sessionPath))
	}

	return report, nil
}

// Render builds the report prompt, asks the model for the body and prepends the header.
func (b *Builder) Render(ctx context.Context, s *interview.Session, now time.Time) (string, error) {
	prompt, err := prompts.Render(prompts.Report, prompts.Vars{
		"ROLE":                s.Role,
		"TECH":                s.TechList(),
		"LEVEL":               string(s.Level),
		"EXPERIENCE":          strconv.Itoa(s.Experience()),
		"TOTAL":               strconv.Itoa(s.QuestionCount),
		"CORRECT":             strconv.Itoa(s.CorrectCount),
		"WRONG":               strconv.Itoa(s.WrongCount),
		"SUCCESS_RATE":        FormatRate(s.SuccessRate()),
		"QA_DETAILS":          QADetails(s.History),
		"CANDIDATE_QUESTIONS": CandidateDetails(s.CandidateQuestions, s.CandidateAnswers),
	})
	if err != nil {
		return "", err
	}

	body, err := b.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate report body: %w", err)
	}

	return Header(s, now) + strings.TrimSpace(body) + "\n", nil
}

// FormatRate prints a success rate without trailing zeros.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// QADetails renders one block per evaluated question.
func QADetails(history []interview.QuestionAnswer) string {
	if len(history) == 0 {
		return "None"
	}

	blocks := make([]string, len(history))
	for i, qa := range history {
		result := "✗ INCORRECT"
		if qa.IsCorrect {
			result = "✓ CORRECT"
		}

		label := "Question"
		if qa.Followup {
			label = "Follow-up"
		}

		blocks[i] = fmt.Sprintf("%s %d: %s\nAnswer: %s\nResult: %s\nEvaluation: %s",
			label, i+1, qa.Question, qa.Answer, result, qa.Evaluation)
	}

	return strings.Join(blocks, qaSeparator)
}

// CandidateDetails renders the candidate's questions with the answers given.
func CandidateDetails(questions, answers []string) string {
	if len(questions) == 0 {
		return "None"
	}

	pairs := make([]string, len(questions))
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		pairs[i] = fmt.Sprintf("Q: %s\nA: %s", q, answer)
	}

	return strings.Join(pairs, "\n\n")
}

// Header is the fixed block placed above the model-written body.
func Header(s *interview.Session, now time.Time) string {
	rule := strings.Repeat("=", ruleWidth)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(strings.Repeat(" ", 24) + "INTERVIEW REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format(headerTimeLayout))
	fmt.Fprintf(&b, "Candidate Level: %s\n", s.Level)
	fmt.Fprintf(&b, "Role: %s\n", s.Role)
	fmt.Fprintf(&b, "Technologies: %s\n", s.TechList())
	fmt.Fprintf(&b, "Experience: %d years\n", s.Experience())
	b.WriteString(rule + "\n\n")

	return b.String()
}

// FileName is the report file name for role at t.
func FileName(role string, t time.Time) string {
	return reportPrefix + slug(role) + "_" + t.Format(fileTimeLayout) + reportExt
}

func slug(role string) string {
	return strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(strings.ToLower(strings.TrimSpace(role)))
}

// Save writes the report into dir, creating dir when needed, and returns the path.
func Save(dir, role, report string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	path := filepath.Join(dir, FileName(role, t))
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// SaveSession exports the full session record as YAML next to the report.
func SaveSession(dir string, s *interview.Session, t time.Time) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	path := filepath.Join(dir, sessionPrefix+slug(s.Role)+"_"+t.Format(fileTimeLayout)+sessionExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}

	return path, nil
}

// SessionPath is the path SaveSession used for the report at reportPath.
func SessionPath(reportPath string) string {
	dir, name := filepath.Split(reportPath)
	stem := strings.TrimSuffix(strings.TrimPrefix(name, reportPrefix), reportExt)
	return filepath.Join(dir, sessionPrefix+stem+sessionExt)
}

// LoadSession reads a session exported by SaveSession.
func LoadSession(path string) (*interview.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s interview.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", path, err)
	}

	return &s, nil
}
