package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error payload shape: {"message": "..."}.
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Pagination describes a paginated listing.
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// OK writes data with status 200. Collections are written raw, without
// an envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes the created record with status 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message writes {"message": msg} with status 200.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// OKWithPage writes a paginated listing.
func OKWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"data":       data,
		"pagination": pagination,
	})
}

// Error writes {"message": msg} with the given HTTP status.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Message: msg, RequestID: requestID(c)})
}

// NotFound writes a 404 error.
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

// BadRequest writes a 400 error.
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401 error.
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403 error.
func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, msg)
}

// TooManyRequests writes a 429 error.
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, msg)
}

// Internal writes a 500 error with a generic message.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
