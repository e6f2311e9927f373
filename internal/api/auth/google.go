package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront-app/config"
	"storefront-app/internal/api/respond"
	"storefront-app/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const stateCookie = "oauth_state"

var errNotAllowed = errors.New("account is not allowed to sign in")

type googleAuth struct {
	oauth         *oauth2.Config
	clientID      string
	redirect      string
	allowedDomain string
}

func newGoogleAuth(cfg config.GoogleConfig) *googleAuth {
	return &googleAuth{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID:      cfg.ClientID,
		redirect:      cfg.FrontendRedirect,
		allowedDomain: strings.ToLower(strings.TrimPrefix(cfg.AllowedDomain, "@")),
	}
}

type googleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ------------------------------
// GET /auth/google
// ------------------------------
func (h *Handler) GoogleStart(c *gin.Context) {
	if h.google == nil {
		respond.Error(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state, err := randomState()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "failed to generate state")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.google.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// ------------------------------
// GET /auth/google/callback
// ------------------------------
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		respond.Error(c, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		respond.Error(c, http.StatusBadRequest, "missing code/state")
		return
	}
	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		respond.Error(c, http.StatusBadRequest, "invalid oauth state")
		return
	}

	claims, err := h.google.exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("google exchange failed", zap.Error(err))
		respond.Error(c, http.StatusUnauthorized, "google sign-in failed")
		return
	}

	user, err := h.google.resolveUser(h.db, claims)
	if errors.Is(err, errNotAllowed) {
		respond.Error(c, http.StatusForbidden, err.Error())
		return
	}
	if err != nil {
		respond.DB(c, h.log, err, "User", "sign in with google")
		return
	}

	if h.google.redirect == "" {
		h.signIn(c, user)
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Could not create token")
		return
	}
	_ = users.TouchLogin(h.db, &user, time.Now())
	c.Redirect(http.StatusFound, h.google.redirect+"?token="+token)
}

// exchange trades the code for tokens and verifies the ID token signature
// against Google's published keys.
func (g *googleAuth) exchange(ctx context.Context, code string) (*googleClaims, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("missing id_token")
	}

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, err
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: g.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}

// resolveUser links a Google identity to a back-office account. Existing
// active accounts match by subject, then by email. Unknown identities are
// only admitted, as editors, from the allowed domain with a verified email.
func (g *googleAuth) resolveUser(db *gorm.DB, gc *googleClaims) (users.User, error) {
	var user users.User

	err := db.Where("google_sub = ?", gc.Sub).First(&user).Error
	if err == nil {
		if !user.Active {
			return users.User{}, errNotAllowed
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	err = db.Where("email = ?", users.NormalizeEmail(gc.Email)).First(&user).Error
	if err == nil {
		if !user.Active || !gc.EmailVerified {
			return users.User{}, errNotAllowed
		}
		sub := gc.Sub
		user.GoogleSub = &sub
		return user, db.Model(&user).Update("google_sub", sub).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	if g.allowedDomain == "" || !gc.EmailVerified ||
		!strings.HasSuffix(users.NormalizeEmail(gc.Email), "@"+g.allowedDomain) {
		return users.User{}, errNotAllowed
	}
	sub := gc.Sub
	user = users.User{
		Name:         gc.Name,
		Email:        gc.Email,
		AuthProvider: users.ProviderGoogle,
		GoogleSub:    &sub,
		Role:         users.RoleEditor,
		Active:       true,
	}
	return user, db.Create(&user).Error
}
