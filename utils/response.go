package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mingle/models"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"error": message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{"error": message})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// Error maps a typed failure to its HTTP status. Anything that is not an
// APIError is logged and surfaced as an opaque internal fault.
func Error(c *gin.Context, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		zap.L().Error("internal fault",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		InternalError(c, "internal error")
		return
	}

	body := gin.H{"error": apiErr.Message, "code": apiErr.Code}
	switch apiErr.Kind {
	case models.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, body)
	case models.KindNotFound:
		c.JSON(http.StatusNotFound, body)
	case models.KindForbidden:
		c.JSON(http.StatusForbidden, body)
	case models.KindConflict:
		c.JSON(http.StatusConflict, body)
	case models.KindInvalidArgument:
		c.JSON(http.StatusBadRequest, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
