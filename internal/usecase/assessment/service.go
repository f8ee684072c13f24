package assessment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lexihelp/lexi-server/internal/gemini"
	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/session"
)

const (
	resultCorrect   = "Correct"
	resultIncorrect = "Incorrect"
)

// Service scores handwritten spelling checks against session counters.
type Service struct {
	llm    gemini.LLM
	store  *session.Store
	logger *slog.Logger
}

// NewService wires the assessment service.
func NewService(model gemini.LLM, store *session.Store, logger *slog.Logger) *Service {
	return &Service{llm: model, store: store, logger: logger}
}

// CheckResult is the outcome of one spelling check.
type CheckResult struct {
	SessionID string
	Result    string
	Word      string
}

// Check judges one handwritten word image. A blank session ID starts a
// new session. The counters move only after a successful judgement, so
// a judge failure never consumes an attempt.
func (s *Service) Check(ctx context.Context, sessionID string, image llm.Media, word string) (CheckResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return CheckResult{}, httperror.NewInvalidInput("No word provided")
	}
	if len(image.Data) == 0 {
		return CheckResult{}, httperror.NewInvalidInput("No image file provided")
	}

	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	correct, transcript, err := s.llm.Judge(ctx, llm.MediaPart(image.Name, image.Data), word)
	if err != nil {
		return CheckResult{}, httperror.NewJudgeError(err.Error())
	}
	if s.logger != nil {
		s.logger.Debug("spelling_judged", "session_id", sessionID, "word", word, "transcript", transcript, "correct", correct)
	}

	if _, err := s.store.RecordCheck(ctx, sessionID, correct); err != nil {
		return CheckResult{}, err
	}

	result := resultIncorrect
	if correct {
		result = resultCorrect
	}
	return CheckResult{SessionID: sessionID, Result: result, Word: word}, nil
}

// Score is the final tally of an assessment session.
type Score struct {
	Percentage     float64
	TotalQuestions int
	CorrectAnswers int
}

// Submit closes an assessment session and returns its score. The counts
// reflect the session as it stood before the reset; a session with no
// checks scores zero.
func (s *Service) Submit(ctx context.Context, sessionID string) (Score, error) {
	counts, err := s.store.Reset(ctx, sessionID)
	if err != nil {
		return Score{}, err
	}

	if counts.Attempted == 0 {
		return Score{}, nil
	}

	return Score{
		Percentage:     float64(counts.Correct) / float64(counts.Attempted) * 100,
		TotalQuestions: counts.Attempted,
		CorrectAnswers: counts.Correct,
	}, nil
}
