package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/greenharvest/shop/internal/hash"
	"github.com/greenharvest/shop/internal/logging"
	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/mykafka"
)

type AuthHandler struct {
	Users     UserStore
	Producer  *mykafka.Producer
	JWTSecret []byte
	Env       string
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.Hex(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		l.Warn("register_failed", "status", 400, "reason", "missing_fields")
		return fail(c, http.StatusBadRequest, "name, email and a password of at least 6 characters are required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.Users.FindByEmail(ctx, email); err == nil {
		l.Warn("register_failed", "status", 409, "reason", "user_exists")
		return fail(c, http.StatusConflict, "user already exists")
	} else if !errors.Is(err, models.ErrNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error registering user", err)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return failInternal(c, h.Env, "error registering user", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error registering user", err)
	}

	token, err := h.signToken(&user)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create token", "error", err)
		return failInternal(c, h.Env, "error registering user", err)
	}

	h.publish(c, user.ID.Hex(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID.Hex(),
		"email":  user.Email,
	})

	l.Info("register_success", "status", 201)
	return respond(c, http.StatusCreated, "User registered successfully", echo.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}

	token, err := h.signToken(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return failInternal(c, h.Env, "error logging in", err)
	}

	h.publish(c, user.ID.Hex(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID.Hex(),
	})

	l.Info("login_success", "status", 200)
	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"user":  user,
		"token": token,
	})
}

// UpdateProfile partially updates the current principal's name and email.
// Absent fields keep their stored values.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_update_profile")

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.FindByID(ctx, currentUserID(c))
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "user not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error updating profile", err)
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			if _, err := h.Users.FindByEmail(ctx, email); err == nil {
				l.Warn("update_profile_failed", "status", 409, "reason", "email_taken")
				return fail(c, http.StatusConflict, "email already in use")
			} else if !errors.Is(err, models.ErrNotFound) {
				return failInternal(c, h.Env, "error updating profile", err)
			}
		}
		user.Email = email
	}

	if err := h.Users.Update(ctx, user); err != nil {
		l.Error("update_profile_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error updating profile", err)
	}

	h.publish(c, user.ID.Hex(), map[string]any{
		"type":   "user_profile_updated",
		"userID": user.ID.Hex(),
	})

	return respond(c, http.StatusOK, "Profile updated successfully", user)
}

// Me echoes the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Users.FindByID(ctx, currentUserID(c))
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "user not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error fetching user", err)
	}
	return respond(c, http.StatusOK, "OK", user)
}
