package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/handler/shared"
)

func writeError(c *gin.Context, err error) {
	shared.WriteError(c, err)
}

func bindJSON(c *gin.Context, out any) bool {
	return shared.BindJSON(c, out)
}

func bindJSONAllowEmpty(c *gin.Context, out any) bool {
	return shared.BindJSONAllowEmpty(c, out)
}
