package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/dto"
	"github.com/piwi3910/cutplan/internal/logger"
)

// Recovery turns a panic in a handler into a 500 JSON response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)
				log := logger.Logger()
				log.Error().
					Str("request_id", requestID).
					Interface("panic", err).
					Msg("PANIC recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(dto.ErrCodeInternal, "An unexpected error occurred").WithRequestID(requestID))
			}
		}()
		c.Next()
	}
}
