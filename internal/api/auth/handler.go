// Package auth handles back-office sign-in: email/password, Google and the
// JWT session tokens both produce.
package auth

import (
	"errors"
	"net/http"
	"time"

	"storefront-app/config"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	log    *zap.Logger
	tokens *Tokens
	google *googleAuth
}

func NewHandler(db *gorm.DB, log *zap.Logger, tokens *Tokens, gcfg config.GoogleConfig) *Handler {
	h := &Handler{db: db, log: log.Named("auth"), tokens: tokens}
	if gcfg.Enabled() {
		h.google = newGoogleAuth(gcfg)
	}
	return h
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

// ------------------------------
// POST /auth/login
// ------------------------------
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var user users.User
	if err := h.db.Where("email = ?", users.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.Active {
		respond.Error(c, http.StatusForbidden, "Account is disabled")
		return
	}
	if err := user.CheckPassword(req.Password); err != nil {
		if errors.Is(err, users.ErrNoPassword) {
			respond.Error(c, http.StatusUnauthorized, "This account uses Google sign-in")
			return
		}
		respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.signIn(c, user)
}

func (h *Handler) signIn(c *gin.Context, user users.User) {
	if err := users.TouchLogin(h.db, &user, time.Now()); err != nil {
		h.log.Warn("failed to record login", zap.String("user", user.ID), zap.Error(err))
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Could not create token")
		return
	}
	h.log.Info("signed in", zap.String("user", user.ID), zap.String("provider", user.AuthProvider))
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// ------------------------------
// GET /me
// ------------------------------
func (h *Handler) Me(c *gin.Context) {
	var user users.User
	if err := h.db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
		respond.Error(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ------------------------------
// POST /auth/change-password
// ------------------------------
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}

	var user users.User
	if err := h.db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
		respond.Error(c, http.StatusUnauthorized, "User not found")
		return
	}
	if err := user.CheckPassword(req.OldPassword); err != nil {
		if errors.Is(err, users.ErrNoPassword) {
			respond.Error(c, http.StatusBadRequest, "This account does not have a password. Sign in with Google.")
			return
		}
		respond.Error(c, http.StatusUnauthorized, "Old password is incorrect")
		return
	}

	hashed, err := users.HashPassword(req.NewPassword)
	if err != nil {
		respond.BadRequest(c, err)
		return
	}
	if err := h.db.Model(&user).Update("password", hashed).Error; err != nil {
		respond.DB(c, h.log, err, "User", "change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
