package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront-order-service/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	UserIDKey = "user_id"

	userCookie   = "token"
	sellerCookie = "sellerToken"
	sellerRole   = "seller"
)

var errMissingToken = errors.New("missing token")

// AuthUser accepts an HS256 token from the "token" cookie or a bearer header
// and exposes its subject as the caller's user id.
func AuthUser(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseClaims(c, userCookie, secret)
			if err != nil {
				return unauthorized(c)
			}

			userID, err := claims.GetSubject()
			if err != nil || userID == "" {
				return unauthorized(c)
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// AuthSeller only lets through tokens carrying role=seller.
func AuthSeller(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseClaims(c, sellerCookie, secret)
			if err != nil {
				return unauthorized(c)
			}

			if role, _ := claims["role"].(string); role != sellerRole {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" when none was set.
func UserID(c echo.Context) string {
	userID, _ := c.Get(UserIDKey).(string)
	return userID
}

func parseClaims(c echo.Context, cookieName string, secret []byte) (jwt.MapClaims, error) {
	raw := tokenFromRequest(c, cookieName)
	if raw == "" {
		return nil, errMissingToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func tokenFromRequest(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, dto.Response{
		Success: false,
		Message: "Not Authorized",
	})
}
