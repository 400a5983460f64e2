package handlers

import (
	"errors"
	"strconv"

	"medical-records-server/internal/middleware"
	"medical-records-server/internal/services"
	"medical-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP status codes. Anything unexpected
// is logged and answered with a 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidReference), errors.Is(err, services.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Conflict(c, err.Error())
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		_ = c.Error(err)
		utils.InternalServerError(c, "internal server error")
	}
}

// parseID reads a positive numeric path parameter. On failure it answers 400
// and returns false.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid "+param+": "+c.Param(param))
		return 0, false
	}
	return uint(id), true
}
