package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

// respondError maps domain errors onto the response envelope
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsPermissionError(err):
		response.Forbidden(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		response.ServiceUnavailable(c, "PROVIDER_UNAVAILABLE", err.Error())
	default:
		response.InternalError(c, err)
	}
}

// pagination reads limit/offset query parameters with sane bounds
func pagination(c *gin.Context) (limit, offset int) {
	limit = queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// queryInt reads an integer query parameter with a default
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
