package shared

import (
	"net/http"
	"strconv"

	"github.com/malcolmm20/farmlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CurrentUserID reads the authenticated user id set by the auth
// middleware. Writes a 401 when absent.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "authentication required")
		return 0, false
	}
	return id, true
}

// CurrentUserRole reads the authenticated role, empty when anonymous.
func CurrentUserRole(c *gin.Context) string {
	if value, exists := c.Get("user_role"); exists {
		if role, ok := value.(string); ok {
			return role
		}
	}
	return ""
}

// ParamUint parses a numeric path parameter. Writes a 400 on garbage.
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		response.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// QueryUint parses an optional numeric query parameter, 0 when absent.
func QueryUint(c *gin.Context, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}

// QueryInt parses an optional numeric query parameter, def when absent.
func QueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
