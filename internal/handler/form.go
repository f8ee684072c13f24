package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/llm"
)

// formMedia reads an optional multipart file field. A missing field
// returns nil without error.
func formMedia(c *gin.Context, field string) (*llm.Media, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}

	return &llm.Media{Name: header.Filename, Data: data}, nil
}
