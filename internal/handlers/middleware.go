package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/models"
)

// AuthMiddleware resolves the current principal from a bearer token and
// stores identity and role on the request context.
type AuthMiddleware struct {
	JWTSecret []byte
}

func (m *AuthMiddleware) resolve(c echo.Context) (primitive.ObjectID, string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return primitive.NilObjectID, "", echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return primitive.NilObjectID, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return primitive.NilObjectID, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}
	role, _ := claims["role"].(string)

	return id, role, nil
}

func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, role, err := m.resolve(c)
		if err != nil {
			return err
		}
		c.Set("userID", id)
		c.Set("role", role)
		return next(c)
	}
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, role, err := m.resolve(c)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		c.Set("userID", id)
		c.Set("role", role)
		return next(c)
	}
}

func currentUserID(c echo.Context) primitive.ObjectID {
	id, _ := c.Get("userID").(primitive.ObjectID)
	return id
}

func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
