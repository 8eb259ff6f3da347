package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-order-service/internal/config"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "server-test-secret"

type stubOrderService struct{}

func (stubOrderService) PlaceOrderCOD(_ context.Context, in *service.PlaceOrderInput) (*model.Order, error) {
	return &model.Order{ID: "o1", UserID: in.UserID}, nil
}

func (stubOrderService) PlaceOrderOnline(context.Context, *service.PlaceOrderInput, string) (*model.CheckoutSession, error) {
	return &model.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil
}

type stubQueryService struct{}

func (stubQueryService) ListForUser(context.Context, string) ([]*model.Order, error) {
	return []*model.Order{}, nil
}

func (stubQueryService) ListForSeller(context.Context) ([]*model.Order, error) {
	return []*model.Order{}, nil
}

type stubWebhookService struct{}

func (stubWebhookService) HandleWebhook(context.Context, []byte, string) error {
	return nil
}

func newTestServer(perSecond float64) *Server {
	cfg := &config.Config{
		HTTP:      config.HTTPServer{AllowedOrigins: []string{"https://shop.example.com"}},
		Auth:      config.Auth{JWTSecret: testSecret},
		RateLimit: config.RateLimit{PerSecond: perSecond},
	}
	return NewServer(cfg, stubOrderService{}, stubQueryService{}, stubWebhookService{})
}

func bearer(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestServer(20), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOrderRoutes_RequireAuth(t *testing.T) {
	s := newTestServer(20)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/order/cod"},
		{http.MethodPost, "/api/order/stripe"},
		{http.MethodGet, "/api/order/user"},
		{http.MethodGet, "/api/order/seller"},
	} {
		rec := serve(s, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestSellerRoute_RejectsUserToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/order/seller", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwt.MapClaims{"sub": "user-1"}))

	rec := serve(newTestServer(20), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrderCOD_Routed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/order/cod",
		strings.NewReader(`{"items":[{"product":"prod_apple","quantity":1}],"address":"addr-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, jwt.MapClaims{"sub": "user-1"}))

	rec := serve(newTestServer(20), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestWebhookRoute_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/stripe", strings.NewReader(`{}`))

	rec := serve(newTestServer(20), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
}

func TestPlacementRateLimited(t *testing.T) {
	s := newTestServer(1)

	var limited bool
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/order/cod", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		if serve(s, req).Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func TestCORS_OnlyConfiguredOrigins(t *testing.T) {
	s := newTestServer(20)

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/user", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example")
		req.Header.Set(echo.HeaderAuthorization, bearer(t, jwt.MapClaims{"sub": "user-1"}))

		rec := serve(s, req)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("foreign preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/order/cod", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)

		rec := serve(s, req)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("storefront origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/user", nil)
		req.Header.Set(echo.HeaderOrigin, "https://shop.example.com")
		req.Header.Set(echo.HeaderAuthorization, bearer(t, jwt.MapClaims{"sub": "user-1"}))

		rec := serve(s, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://shop.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})
}
