package httperr

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key under which the request id is stored.
const RequestIDKey = "request_id"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message   string `json:"message"`
		RequestID string `json:"requestId,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// NewResponse builds the error envelope. The request id lets operators find
// the server log line holding the underlying error, which clients never see.
func NewResponse(c *gin.Context, status int, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	resp.Error.RequestID = c.GetString(RequestIDKey)
	return resp
}

// preserves original error for the request log
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(c, status, msg, detail)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
