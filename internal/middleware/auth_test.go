package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_backend/internal/auth"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	router   *gin.Engine
	tokens   *auth.TokenManager
	customer *models.User
	admin    *models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	customer := &models.User{Name: "Cust", Email: "c@example.com", Role: models.UserRoleCustomer}
	admin := &models.User{Name: "Admin", Email: "a@example.com", Role: models.UserRoleAdmin}
	require.NoError(t, store.Users().Create(context.Background(), customer))
	require.NoError(t, store.Users().Create(context.Background(), admin))

	tokens := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.Use(RecoveryMiddleware())
	authed := r.Group("/", AuthMiddleware(tokens, store.Users()))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	authed.GET("/admin", RequireRoles(models.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return &authFixture{router: r, tokens: tokens, customer: customer, admin: admin}
}

func (f *authFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthMiddleware_BearerAndCookie(t *testing.T) {
	f := newAuthFixture(t)
	customerToken, err := f.tokens.Generate(f.customer)
	require.NoError(t, err)
	adminToken, err := f.tokens.Generate(f.admin)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+customerToken)

		w := f.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), f.customer.ID)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: adminToken})
		req.Header.Set("Authorization", "Bearer "+customerToken)

		w := f.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), f.admin.ID)
	})
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	valid, err := f.tokens.Generate(f.customer)
	require.NoError(t, err)

	expired, err := auth.NewTokenManager("secret", -time.Minute).Generate(f.customer)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"missing", "", "Please login to access this resource"},
		{"expired", expired, "Token has expired"},
		{"tampered", valid[:len(valid)-2] + "xx", "Invalid token"},
		{"wrong secret", func() string {
			tok, _ := auth.NewTokenManager("other", time.Hour).Generate(f.customer)
			return tok
		}(), "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := f.do(req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, w))
		})
	}
}

func TestRequireRoles(t *testing.T) {
	f := newAuthFixture(t)
	customerToken, _ := f.tokens.Generate(f.customer)
	adminToken, _ := f.tokens.Generate(f.admin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w := f.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Role: customer is not allowed to access this resource", messageOf(t, w))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = f.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", messageOf(t, w))
}
