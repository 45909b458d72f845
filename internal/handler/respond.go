package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/beyzasenay/mini-crm/internal/domain"
)

// writeError maps the domain error taxonomy onto HTTP status codes:
// validation 400, not found 404, conflict 409 with its structured detail.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		body := gin.H{"message": conflictErr.Message}
		if conflictErr.Detail != nil {
			body["conflict"] = conflictErr.Detail
		}
		c.JSON(http.StatusConflict, body)
	default:
		logger.Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
