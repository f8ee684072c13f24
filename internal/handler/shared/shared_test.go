package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/httperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req := httptest.NewRequest(http.MethodPost, "/api/test", strings.NewReader(body))
	c.Request = req
	return c, recorder
}

func TestDecodeWeakTyping(t *testing.T) {
	var out struct {
		Stability float64 `json:"stability"`
		Voice     string  `json:"voice"`
	}
	input := map[string]any{"stability": "0.4", "voice": "alice"}
	if err := Decode(input, &out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Stability != 0.4 || out.Voice != "alice" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestBindJSONRejectsMalformed(t *testing.T) {
	c, recorder := newTestContext("{not json")
	var out struct{}
	if BindJSON(c, &out) {
		t.Fatal("malformed JSON should not bind")
	}
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
}

func TestBindJSONAllowEmptyAcceptsEmptyBody(t *testing.T) {
	c, _ := newTestContext("")
	out := map[string]any{}
	if !BindJSONAllowEmpty(c, &out) {
		t.Fatal("empty body should bind")
	}
	if len(out) != 0 {
		t.Fatalf("expected untouched output, got %v", out)
	}
}

func TestBindJSONAllowEmptyIgnoresContentType(t *testing.T) {
	c, _ := newTestContext(`{"text":"hello"}`)
	c.Request.Header.Set("Content-Type", "text/plain")
	var out struct {
		Text string `json:"text"`
	}
	if !BindJSONAllowEmpty(c, &out) {
		t.Fatal("valid JSON should bind")
	}
	if out.Text != "hello" {
		t.Fatalf("unexpected text: %q", out.Text)
	}
}

func TestBindJSONAllowEmptyRejectsMalformed(t *testing.T) {
	c, recorder := newTestContext("{not json")
	var out struct{}
	if BindJSONAllowEmpty(c, &out) {
		t.Fatal("malformed JSON should not bind")
	}
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	c, recorder := newTestContext("")
	WriteError(c, httperror.NewInvalidInput("No word provided"))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "No word provided") {
		t.Fatalf("body missing message: %s", recorder.Body.String())
	}
}
