package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// DocumentRequest carries extracted document text. A nil Content means
// the key was absent from the body.
type DocumentRequest struct {
	Content *string `json:"content"`
}

// SimplifyResponse is the document simplification response body.
type SimplifyResponse struct {
	Message        string   `json:"message"`
	SimplifiedText string   `json:"simplified_text"`
	ImportantWords []string `json:"important_words"`
}

// NotesResponse is the study notes response body.
type NotesResponse struct {
	Message         string   `json:"message"`
	SimplifiedText  string   `json:"simplified_text"`
	ImportantWords  []string `json:"important_words"`
	ImportantPoints []string `json:"important_points"`
}

// DocumentsHandler serves the document support API.
type DocumentsHandler struct {
	svc    *assist.Service
	logger *slog.Logger
}

// NewDocumentsHandler creates a documents handler.
func NewDocumentsHandler(svc *assist.Service, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the document routes.
func (h *DocumentsHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/upload-pdf", h.handleSimplify)
	router.POST("/api/upload-pdf-notes", h.handleNotes)
}

func (h *DocumentsHandler) handleSimplify(c *gin.Context) {
	content, ok := bindDocumentContent(c)
	if !ok {
		return
	}

	result, err := h.svc.SimplifyDocument(c.Request.Context(), content)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SimplifyResponse{
		Message:        "PDF uploaded and simplified successfully!",
		SimplifiedText: result.SimplifiedText,
		ImportantWords: emptyIfNil(result.ImportantWords),
	})
}

func (h *DocumentsHandler) handleNotes(c *gin.Context) {
	content, ok := bindDocumentContent(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateNotes(c.Request.Context(), content)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotesResponse{
		Message:         "PDF uploaded and simplified successfully!",
		SimplifiedText:  result.Notes,
		ImportantWords:  emptyIfNil(result.ImportantWords),
		ImportantPoints: emptyIfNil(result.ImportantPoints),
	})
}

func bindDocumentContent(c *gin.Context) (string, bool) {
	var req DocumentRequest
	if !bindJSONAllowEmpty(c, &req) {
		return "", false
	}
	if req.Content == nil {
		writeError(c, httperror.NewInvalidInput("No content provided!"))
		return "", false
	}
	if strings.TrimSpace(*req.Content) == "" {
		writeError(c, httperror.NewInvalidInput("Failed to extract text from the PDF!"))
		return "", false
	}
	return *req.Content, true
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (h *DocumentsHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("document_request_failed", "err", err)
}
