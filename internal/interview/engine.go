package interview

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spigell/tech-interviewer/internal/logger"
)

// ErrInterrupted is returned when the operator aborts input.
var ErrInterrupted = errors.New("interview interrupted by operator")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Console reads operator input and shows interviewer messages.
type Console interface {
	ReadLine(ctx context.Context, label string) (string, error)
	Display(text string)
}

// Reporter turns a finished session into the final report text.
type Reporter interface {
	Generate(ctx context.Context, s *Session) (string, error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, s *Session) (string, error)

func (f ReporterFunc) Generate(ctx context.Context, s *Session) (string, error) { return f(ctx, s) }

// Recorder receives interview metrics.
type Recorder interface {
	RecordQuestion(ctx context.Context, followup bool)
	RecordAnswer(ctx context.Context, correct bool)
	RecordCompleted(ctx context.Context, reason string, questions int, successRate float64)
}

// Deps are the collaborators of the engine. Logger, Metrics and Tracer are
// optional.
type Deps struct {
	Generator Generator
	Console   Console
	Reporter  Reporter
	Logger    *zap.Logger
	Metrics   Recorder
	Tracer    trace.Tracer
}

// StageID names a state of the workflow.
type StageID string

const (
	StageAskExperience     StageID = "ask_experience"
	StageCollectExperience StageID = "collect_experience"
	StageGenerateQuestion  StageID = "generate_question"
	StageCollectAnswer     StageID = "collect_answer"
	StageEvaluateAnswer    StageID = "evaluate_answer"
	StageFeedback          StageID = "provide_interactive_feedback"
	StageCandidateQuestion StageID = "handle_candidate_question"
	StageCheckContinue     StageID = "check_continue"
	StageGenerateFollowup  StageID = "generate_followup_question"

	// StageEnd is the terminal state.
	StageEnd StageID = "end"
)

type stageFunc func(ctx context.Context, s *Session) (Update, error)

// node is one row of the transition table. route, when set, selects the
// successor from the updated session; otherwise next is taken.
type node struct {
	run   stageFunc
	next  StageID
	route func(s *Session) StageID
}

func (n node) successor(s *Session) StageID {
	if n.route != nil {
		return n.route(s)
	}
	return n.next
}

// Engine runs the interview state machine.
type Engine struct {
	cfg       Config
	generator Generator
	console   Console
	reporter  Reporter
	logger    *zap.Logger
	metrics   Recorder
	tracer    trace.Tracer
	graph     map[StageID]node
}

// New validates the configuration and builds the transition table.
func New(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Generator == nil {
		return nil, errors.New("text generator is required")
	}
	if deps.Console == nil {
		return nil, errors.New("console is required")
	}
	if deps.Reporter == nil {
		return nil, errors.New("reporter is required")
	}

	e := &Engine{
		cfg:       cfg,
		generator: deps.Generator,
		console:   deps.Console,
		reporter:  deps.Reporter,
		logger:    logger.WithFields(deps.Logger),
		metrics:   deps.Metrics,
		tracer:    deps.Tracer,
	}
	if e.metrics == nil {
		e.metrics = nopRecorder{}
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("interview-engine")
	}
	e.graph = e.buildGraph()

	return e, nil
}

func (e *Engine) buildGraph() map[StageID]node {
	graph := map[StageID]node{
		StageAskExperience:     {run: e.askExperience, next: StageCollectExperience},
		StageCollectExperience: {run: e.collectExperience, next: StageGenerateQuestion},
		StageGenerateQuestion:  {run: e.generateQuestion, next: StageCollectAnswer},
		StageCollectAnswer:     {run: e.collectAnswer, next: StageEvaluateAnswer},
		StageEvaluateAnswer:    {run: e.evaluateAnswer, next: StageFeedback},
		StageFeedback:          {run: e.provideFeedback, route: e.routeAfterFeedback},
		StageCandidateQuestion: {run: e.handleCandidateQuestion, next: StageCheckContinue},
		StageCheckContinue:     {run: e.checkContinue, route: routeAfterCheck},
	}

	if e.cfg.Followups {
		graph[StageGenerateFollowup] = node{run: e.generateFollowup, next: StageCollectAnswer}
	}

	return graph
}

func (e *Engine) routeAfterFeedback(s *Session) StageID {
	switch {
	case s.WaitingForCandidateQuestion:
		return StageCandidateQuestion
	case e.cfg.Followups && ShouldAskFollowup(s, e.cfg):
		return StageGenerateFollowup
	default:
		return StageCheckContinue
	}
}

func routeAfterCheck(s *Session) StageID {
	if s.ShouldContinue {
		return StageGenerateQuestion
	}
	return StageEnd
}

// Stages lists the stage identifiers wired into this engine.
func (e *Engine) Stages() []StageID {
	order := []StageID{
		StageAskExperience,
		StageCollectExperience,
		StageGenerateQuestion,
		StageCollectAnswer,
		StageEvaluateAnswer,
		StageFeedback,
		StageCandidateQuestion,
		StageGenerateFollowup,
		StageCheckContinue,
	}

	stages := make([]StageID, 0, len(order))
	for _, id := range order {
		if _, ok := e.graph[id]; ok {
			stages = append(stages, id)
		}
	}
	return stages
}

// Run conducts a full interview and returns the final session with its report.
// Stage failures abort the run; nothing is retried.
func (e *Engine) Run(ctx context.Context, role string, techStack []string, level Level) (*Session, string, error) {
	s := NewSession(role, techStack, level, e.cfg.MaxFollowupsPerQuestion)
	log := logger.WithSession(e.logger, s.ID)

	log.Info("starting the interview",
		zap.String("role", s.Role),
		zap.Strings("tech_stack", s.TechStack),
		zap.String("level", string(s.Level)),
		zap.Bool("followups", e.cfg.Followups),
	)

	current := StageAskExperience
	for current != StageEnd {
		if err := ctx.Err(); err != nil {
			return s, "", err
		}

		n, ok := e.graph[current]
		if !ok {
			return s, "", fmt.Errorf("stage %q is not wired", current)
		}

		update, err := e.runStage(ctx, current, n, s)
		if err != nil {
			return s, "", fmt.Errorf("%s: %w", current, err)
		}

		s.Apply(update)
		next := n.successor(s)

		log.Debug("stage finished",
			zap.String(logger.FieldStage, string(current)),
			zap.String("next", string(next)),
			zap.Int("question_count", s.QuestionCount),
			zap.String("phase", string(s.Phase)),
		)

		current = next
	}

	log.Info("generating the interview report",
		zap.Int("questions", s.QuestionCount),
		zap.Int("correct", s.CorrectCount),
		zap.Int("wrong", s.WrongCount),
	)

	report, err := e.reporter.Generate(ctx, s)
	if err != nil {
		return s, "", fmt.Errorf("report: %w", err)
	}
	s.Report = report

	return s, report, nil
}

func (e *Engine) runStage(ctx context.Context, id StageID, n node, s *Session) (Update, error) {
	ctx, span := e.tracer.Start(ctx, "interview."+string(id),
		trace.WithAttributes(
			attribute.String("interview.session_id", s.ID),
			attribute.Int("interview.question_count", s.QuestionCount),
		),
	)
	defer span.End()

	update, err := n.run(ctx, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Update{}, err
	}

	return update, nil
}

type nopRecorder struct{}

func (nopRecorder) RecordQuestion(context.Context, bool) {}
func (nopRecorder) RecordAnswer(context.Context, bool) {}
func (nopRecorder) RecordCompleted(context.Context, string, int, float64) {}
