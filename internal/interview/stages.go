package interview

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/tech-interviewer/internal/logger"
	"github.com/spigell/tech-interviewer/internal/prompts"
)

const (
	candidateLabel         = "You"
	candidateQuestionLabel = "Your question"

	candidateQuestionInvite = "Do you have any questions for me? (press Enter to skip)"
	consecutiveWrongWarning = "⚠️  Interview ending due to multiple incorrect answers."
)

func interviewerLine(text string) string { return "Interviewer: " + text }

func candidateLine(text string) string { return "Candidate: " + text }

func (e *Engine) sessionLogger(s *Session, stage StageID) *zap.Logger {
	return logger.WithStage(e.logger, s.ID, string(stage))
}

// profileVars are shared by most prompts.
func profileVars(s *Session) prompts.Vars {
	return prompts.Vars{
		"ROLE":       s.Role,
		"TECH":       s.TechList(),
		"LEVEL":      string(s.Level),
		"EXPERIENCE": strconv.Itoa(s.Experience()),
	}
}

func (e *Engine) generate(ctx context.Context, name prompts.Name, vars prompts.Vars) (string, error) {
	prompt, err := prompts.Render(name, vars)
	if err != nil {
		return "", err
	}

	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

func (e *Engine) askExperience(ctx context.Context, s *Session) (Update, error) {
	message, err := e.generate(ctx, prompts.Experience, profileVars(s))
	if err != nil {
		return Update{}, err
	}

	e.console.Display(message)

	return Update{
		Reset:      true,
		Transcript: []string{interviewerLine(message)},
	}, nil
}

func (e *Engine) collectExperience(ctx context.Context, s *Session) (Update, error) {
	input, err := e.console.ReadLine(ctx, candidateLabel)
	if err != nil {
		return Update{}, err
	}

	years := ParseExperience(input)
	e.sessionLogger(s, StageCollectExperience).Debug("experience collected", zap.Int("years", years))

	return Update{
		ExperienceYears:      ptr(years),
		TotalQuestionsTarget: ptr(e.cfg.MaxQuestions),
		Transcript:           []string{candidateLine(input)},
	}, nil
}

func (e *Engine) generateQuestion(ctx context.Context, s *Session) (Update, error) {
	vars := profileVars(s)
	vars["QUESTION_COUNT"] = strconv.Itoa(s.QuestionCount)
	vars["CORRECT"] = strconv.Itoa(s.CorrectCount)
	vars["WRONG"] = strconv.Itoa(s.WrongCount)
	vars["PREVIOUS"] = FormatPreviousQuestions(s.MainQuestions())

	question, err := e.generate(ctx, prompts.Question, vars)
	if err != nil {
		return Update{}, err
	}

	e.console.Display(question)
	e.metrics.RecordQuestion(ctx, false)

	return Update{
		CurrentQuestion: ptr(question),
		FollowupCount:   ptr(0),
		Phase:           ptr(PhaseMainQuestion),
		Transcript:      []string{interviewerLine(question)},
	}, nil
}

func (e *Engine) collectAnswer(ctx context.Context, _ *Session) (Update, error) {
	answer, err := e.console.ReadLine(ctx, candidateLabel)
	if err != nil {
		return Update{}, err
	}

	return Update{
		CurrentAnswer: ptr(answer),
		Transcript:    []string{candidateLine(answer)},
	}, nil
}

func (e *Engine) evaluateAnswer(ctx context.Context, s *Session) (Update, error) {
	vars := profileVars(s)
	vars["QUESTION"] = s.CurrentQuestion
	vars["ANSWER"] = s.CurrentAnswer

	raw, err := e.generate(ctx, prompts.Evaluation, vars)
	if err != nil {
		return Update{}, err
	}

	correct, explanation := ParseEvaluation(raw)
	qa := QuestionAnswer{
		Question:   s.CurrentQuestion,
		Answer:     s.CurrentAnswer,
		IsCorrect:  correct,
		Evaluation: explanation,
		Followup:   s.Phase == PhaseFollowup,
	}

	correctCount, wrongCount, consecutive := s.CorrectCount, s.WrongCount, s.ConsecutiveWrong
	if correct {
		correctCount++
		consecutive = 0
	} else {
		wrongCount++
		consecutive++
	}

	e.metrics.RecordAnswer(ctx, correct)
	e.sessionLogger(s, StageEvaluateAnswer).Info("answer evaluated",
		zap.Int("question", s.QuestionCount+1),
		zap.Bool("correct", correct),
		zap.Bool("followup", qa.Followup),
		zap.Int("consecutive_wrong", consecutive),
	)

	return Update{
		History:          []QuestionAnswer{qa},
		CorrectCount:     ptr(correctCount),
		WrongCount:       ptr(wrongCount),
		ConsecutiveWrong: ptr(consecutive),
		QuestionCount:    ptr(s.QuestionCount + 1),
	}, nil
}

func (e *Engine) provideFeedback(ctx context.Context, s *Session) (Update, error) {
	last, ok := s.LastAnswer()
	if !ok {
		return Update{}, errors.New("no evaluated answer to give feedback on")
	}

	vars := profileVars(s)
	vars["QUESTION"] = last.Question
	vars["ANSWER"] = last.Answer
	vars["EVALUATION"] = last.Evaluation
	vars["RESULT"] = resultLabel(last.IsCorrect)
	vars["CORRECT"] = strconv.Itoa(s.CorrectCount)
	vars["WRONG"] = strconv.Itoa(s.WrongCount)
	vars["QUESTION_COUNT"] = strconv.Itoa(s.QuestionCount)

	feedback, err := e.generate(ctx, prompts.Feedback, vars)
	if err != nil {
		return Update{}, err
	}

	e.console.Display(feedback)

	askCandidate := e.cfg.CandidateQuestions && ShouldAskCandidateQuestions(s.QuestionCount)
	phase := PhaseMainQuestion
	switch {
	case askCandidate:
		phase = PhaseCandidateQuestion
	case e.cfg.Followups:
		phase = PhaseFollowup
	}

	return Update{
		WaitingForCandidateQuestion: ptr(askCandidate),
		Phase:                       ptr(phase),
		Transcript:                  []string{interviewerLine(feedback)},
	}, nil
}

func (e *Engine) handleCandidateQuestion(ctx context.Context, s *Session) (Update, error) {
	done := Update{
		WaitingForCandidateQuestion: ptr(false),
		Phase:                       ptr(PhaseMainQuestion),
	}

	e.console.Display(candidateQuestionInvite)

	input, err := e.console.ReadLine(ctx, candidateQuestionLabel)
	if err != nil {
		return Update{}, err
	}

	question := strings.TrimSpace(input)
	if question == "" {
		return done, nil
	}

	vars := profileVars(s)
	vars["CANDIDATE_QUESTION"] = question

	answer, err := e.generate(ctx, prompts.Candidate, vars)
	if err != nil {
		return Update{}, err
	}

	e.console.Display(answer)

	done.CandidateQuestions = []string{question}
	done.CandidateAnswers = []string{answer}
	done.Transcript = []string{candidateLine(question), interviewerLine(answer)}

	return done, nil
}

func (e *Engine) checkContinue(ctx context.Context, s *Session) (Update, error) {
	cont, reason := ShouldContinue(s, e.cfg)

	if !cont {
		log := e.sessionLogger(s, StageCheckContinue)
		if reason == StopConsecutiveWrong {
			e.console.Display(consecutiveWrongWarning)
			log.Warn("ending the interview",
				zap.String("reason", string(reason)),
				zap.Int("consecutive_wrong", s.ConsecutiveWrong),
				zap.Int("question_count", s.QuestionCount),
			)
		} else {
			log.Info("ending the interview",
				zap.String("reason", string(reason)),
				zap.Int("question_count", s.QuestionCount),
			)
		}
		e.metrics.RecordCompleted(ctx, string(reason), s.QuestionCount, s.SuccessRate())
	}

	return Update{
		ShouldContinue:    ptr(cont),
		InterviewComplete: ptr(!cont),
		Phase:             ptr(PhaseMainQuestion),
	}, nil
}

func (e *Engine) generateFollowup(ctx context.Context, s *Session) (Update, error) {
	last, ok := s.LastAnswer()
	if !ok {
		return Update{}, errors.New("no evaluated answer to follow up on")
	}

	vars := profileVars(s)
	vars["ORIGINAL_QUESTION"] = last.Question
	vars["CANDIDATE_ANSWER"] = last.Answer
	vars["RESULT"] = resultLabel(last.IsCorrect)

	question, err := e.generate(ctx, prompts.Followup, vars)
	if err != nil {
		return Update{}, err
	}

	e.console.Display(question)
	e.metrics.RecordQuestion(ctx, true)

	return Update{
		CurrentQuestion: ptr(question),
		FollowupCount:   ptr(s.FollowupCount + 1),
		Followups:       []string{question},
		Transcript:      []string{interviewerLine(question)},
	}, nil
}

func resultLabel(correct bool) string {
	if correct {
		return "Correct"
	}
	return "Incorrect"
}
