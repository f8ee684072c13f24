package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/session"
)

type fakeJudge struct {
	correct bool
	err     error
	judged  int
}

func (f *fakeJudge) Invoke(context.Context, []llm.ContentPart, string) string {
	return "unused"
}

func (f *fakeJudge) Judge(context.Context, llm.ContentPart, string) (bool, string, error) {
	f.judged++
	if f.err != nil {
		return false, "", f.err
	}
	return f.correct, "word", nil
}

func newTestService(t *testing.T, judge *fakeJudge) *Service {
	t.Helper()
	store, err := session.NewStore(&config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false},
		Session:      config.SessionConfig{SessionTTLMinutes: 5},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewService(judge, store, nil)
}

func testImage() llm.Media {
	return llm.Media{Name: "cat.png", Data: []byte{1, 2, 3}}
}

func TestCheckCreatesSession(t *testing.T) {
	svc := newTestService(t, &fakeJudge{correct: true})

	result, err := svc.Check(context.Background(), "", testImage(), "cat")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected generated session id")
	}
	if result.Result != "Correct" || result.Word != "cat" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCheckKeepsSessionID(t *testing.T) {
	svc := newTestService(t, &fakeJudge{correct: false})

	result, err := svc.Check(context.Background(), "sess-1", testImage(), "dog")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.SessionID != "sess-1" || result.Result != "Incorrect" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCheckValidation(t *testing.T) {
	svc := newTestService(t, &fakeJudge{})

	_, err := svc.Check(context.Background(), "", testImage(), "  ")
	if apiErr := httperror.FromError(err); apiErr.Message != "No word provided" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	_, err = svc.Check(context.Background(), "", llm.Media{Name: "x.png"}, "cat")
	if apiErr := httperror.FromError(err); apiErr.Message != "No image file provided" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestCheckJudgeFailureDoesNotCount(t *testing.T) {
	judge := &fakeJudge{err: errors.New("upstream broke")}
	svc := newTestService(t, judge)

	_, err := svc.Check(context.Background(), "sess-1", testImage(), "cat")
	apiErr := httperror.FromError(err)
	if apiErr.Code != httperror.ErrorCodeJudge {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	score, err := svc.Submit(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score.TotalQuestions != 0 {
		t.Fatalf("failed judge consumed an attempt: %+v", score)
	}
}

func TestSubmitScoresAndResets(t *testing.T) {
	judge := &fakeJudge{correct: true}
	svc := newTestService(t, judge)

	ctx := context.Background()
	if _, err := svc.Check(ctx, "sess-1", testImage(), "cat"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if _, err := svc.Check(ctx, "sess-1", testImage(), "dog"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	judge.correct = false
	if _, err := svc.Check(ctx, "sess-1", testImage(), "sun"); err != nil {
		t.Fatalf("Check: %v", err)
	}

	score, err := svc.Submit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score.TotalQuestions != 3 || score.CorrectAnswers != 2 {
		t.Fatalf("score = %+v", score)
	}
	if score.Percentage < 66.6 || score.Percentage > 66.7 {
		t.Fatalf("percentage = %v", score.Percentage)
	}

	again, err := svc.Submit(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Submit after reset: %v", err)
	}
	if again.TotalQuestions != 0 || again.Percentage != 0 {
		t.Fatalf("expected zero score after reset, got %+v", again)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService(t, &fakeJudge{correct: true})

	ctx := context.Background()
	if _, err := svc.Check(ctx, "a", testImage(), "cat"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if _, err := svc.Check(ctx, "b", testImage(), "dog"); err != nil {
		t.Fatalf("Check: %v", err)
	}

	scoreA, err := svc.Submit(ctx, "a")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if scoreA.TotalQuestions != 1 {
		t.Fatalf("session a = %+v", scoreA)
	}

	scoreB, err := svc.Submit(ctx, "b")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if scoreB.TotalQuestions != 1 {
		t.Fatalf("session b leaked counts: %+v", scoreB)
	}
}
