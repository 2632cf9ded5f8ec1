package handler

import (
	"log/slog"

	"github.com/docchat/docchat-be/types"
	"github.com/gin-gonic/gin"
)

// respondError is the only place service errors become wire responses: the
// error kind picks the status code, the classified message is the body, and
// wrapped internals stay in the log.
func respondError(c *gin.Context, err error) {
	slog.Error(types.MessageOf(err), "path", c.FullPath(), "err", err)
	c.AbortWithStatusJSON(types.HTTPStatusOf(err), types.DataResponse{
		Status:  false,
		Message: types.MessageOf(err),
	})
}
