package admin

import (
	"net/http"

	"storefront-app/internal/api/listing"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var userFields = listing.Fields{
	Search: []string{"name", "email"},
	Sort: map[string]string{
		"createdAt":   "created_at",
		"email":       "email",
		"lastLoginAt": "last_login_at",
	},
	Filters: map[string]listing.Filter{
		"role":   {Column: "role"},
		"active": {Column: "active", Bool: true},
	},
	DefaultSort: "created_at desc",
}

// ------------------------------
// GET /admin/users
// ------------------------------
func (h *Handler) ListUsers(c *gin.Context) {
	params, err := listing.Parse(c, userFields)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := listing.Find[users.User](h.db.Model(&users.User{}), userFields, params, nil)
	if err != nil {
		respond.DB(c, h.log, err, "User", "load users")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ------------------------------
// GET /admin/users/:id
// ------------------------------
func (h *Handler) GetUser(c *gin.Context) {
	var user users.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "User", "load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role" binding:"omitempty,oneof=admin editor"`
	Active *bool   `json:"active"`
}

// ------------------------------
// PUT /admin/users/:id
// ------------------------------
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var user users.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		respond.DB(c, h.log, err, "User", "load user")
		return
	}

	// An admin cannot lock themselves out.
	if user.ID == c.GetString("user_id") &&
		((req.Active != nil && !*req.Active) || (req.Role != nil && *req.Role != users.RoleAdmin)) {
		respond.Error(c, http.StatusBadRequest, "You cannot demote or disable your own account")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			respond.DB(c, h.log, err, "User", "update user")
			return
		}
		if err := h.db.First(&user, "id = ?", user.ID).Error; err != nil {
			respond.DB(c, h.log, err, "User", "load user")
			return
		}
	}
	h.log.Info("user updated", zap.String("user", user.ID), zap.String("by", c.GetString("user_id")))
	c.JSON(http.StatusOK, user)
}
