package api

import (
	"formfitness/internal/apperr"
	"formfitness/internal/logger"

	"github.com/gin-gonic/gin"
)

// RespondError writes err as an ErrorResponse. Storage failures are logged
// and reported without their cause.
func RespondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindStorageFailure {
		logger.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.JSON(apperr.HTTPStatus(err), ErrorResponse{
		Error: apperr.Message(err),
		Code:  apperr.CodeOf(err),
	})
}
