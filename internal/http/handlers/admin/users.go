package admin

import (
	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/repository"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// ListUsers returns accounts, filterable by keyword and role.
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(shared.QueryInt(c, "page", 1), shared.QueryInt(c, "pageSize", 0))
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("search"),
		Role:     c.Query("role"),
	}

	users, total, err := h.UserService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	if pageSize > 0 {
		response.OKWithPage(c, users, response.Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		})
		return
	}
	response.OK(c, users)
}

// GetUser returns one account.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	response.OK(c, user)
}

// CreateUser adds an account with any role.
func (h *Handler) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid user payload")
		return
	}
	user, err := h.UserService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	response.Created(c, user)
}

// UpdateUser patches an account, including role changes.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid user payload")
		return
	}
	user, err := h.UserService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	response.OK(c, user)
}

// DeleteUser removes an account. Owned records stay in place. A repeat
// delete reports not found.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.UserService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminErrorRules)
		return
	}
	response.Message(c, "user deleted")
}
