package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/spf-lend/backend/internal/application/identity"
)

// UserHandler handles operator account management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetActiveRequest toggles an account's active flag
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// ChangeRole handles PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req identityapp.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// SetActive handles PUT /users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Permissions handles GET /permissions
func (h *UserHandler) Permissions(c *gin.Context) {
	perms, err := h.userService.Permissions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perms)
}

// RoleGrants handles GET /roles/:role/permissions
func (h *UserHandler) RoleGrants(c *gin.Context) {
	grants, err := h.userService.RoleGrants(c.Request.Context(), c.Param("role"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grants)
}

// Grant handles POST /roles/:role/permissions
func (h *UserHandler) Grant(c *gin.Context) {
	var req identityapp.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Grant(c.Request.Context(), c.Param("role"), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Revoke handles DELETE /roles/:role/permissions
func (h *UserHandler) Revoke(c *gin.Context) {
	var req identityapp.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Revoke(c.Request.Context(), c.Param("role"), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
