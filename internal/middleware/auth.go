package middleware

import (
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"mutualaid_app/internal/models"
)

// RequireAuth returns a middleware that verifies Firebase ID tokens from
// the Authorization header and sets the member identity in the context
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Authentication is not configured")
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}
			idToken := strings.TrimPrefix(header, "Bearer ")

			decodedToken, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			// Set user info in context for downstream handlers
			c.Set("userUID", decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
			if name, ok := decodedToken.Claims["name"].(string); ok {
				c.Set("userName", name)
			}

			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that only passes users present in
// the admins table. Must run after RequireAuth.
func RequireAdmin(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("userUID").(string)
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}

			var admin models.Admin
			err := db.WithContext(c.Request().Context()).Where("user_id = ?", uid).First(&admin).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
				}
				return err
			}

			c.Set("adminID", admin.ID)
			c.Set("adminRole", string(admin.Role))
			return next(c)
		}
	}
}
