package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/dto"
	"github.com/piwi3910/cutplan/internal/middleware"
)

// ResponseBuilder writes the API's JSON envelopes for one request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data wrapped with the request id and a timestamp.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	b.c.JSON(statusCode, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	})
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Error aborts the request with an error envelope. err, when set, is
// attached to the gin context so the request logger records it.
func (b *ResponseBuilder) Error(statusCode int, message string, err error) {
	b.ErrorWithDetails(statusCode, message, nil, err)
}

// ErrorWithDetails is Error with per-field or per-group messages.
func (b *ResponseBuilder) ErrorWithDetails(statusCode int, message string, details map[string]string, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	resp := dto.NewError(dto.ErrCodeFromStatus(statusCode), message).
		WithRequestID(middleware.GetRequestID(b.c)).
		WithDetails(details)
	b.c.AbortWithStatusJSON(statusCode, resp)
}

// Attachment sends a document for download.
func (b *ResponseBuilder) Attachment(contentType, filename string, data []byte) {
	b.c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	b.c.Data(http.StatusOK, contentType, data)
}
