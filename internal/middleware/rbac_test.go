package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	"github.com/taskmanager-pro/service-booking-api/internal/service"
)

func claimsFor(role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: role, FullName: "Test User"}
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	c.Set(ContextUserKey, claimsFor(models.RoleAdmin))

	called := false
	RequireRoles(models.RoleAdmin)(c)
	if !c.IsAborted() {
		called = true
	}

	assert.True(t, called)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	c.Set(ContextUserKey, claimsFor(models.RoleCustomer))

	RequireRoles(models.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	RequireRoles(models.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService := service.NewAuthService(nil, "test_secret", time.Hour, "service-booking-api", nil, zap.NewNop())

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)

		JWT(authService)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)
		c.Request.Header.Set("Authorization", "Token abc")

		JWT(authService)(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		now := time.Now().UTC()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.JWTClaims{
			UserID:   "cust-1",
			Role:     models.RoleCustomer,
			FullName: "Jordan",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("test_secret"))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/bookings/mine", nil)
		c.Request.Header.Set("Authorization", "Bearer "+signed)

		JWT(authService)(c)

		require.False(t, c.IsAborted())
		value, exists := c.Get(ContextUserKey)
		require.True(t, exists)
		claims := value.(*models.JWTClaims)
		assert.Equal(t, "cust-1", claims.UserID)
		assert.Equal(t, models.RoleCustomer, claims.Role)
	})
}
