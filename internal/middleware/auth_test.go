package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidstream/internal/models"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthRouter(t *testing.T, tokens *service.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":   c.MustGet(CtxUserID).(int64),
			"username": c.MustGet(CtxUsername).(string),
		})
	})
	return router
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokens := service.NewTokenService("a", "r", time.Hour, time.Hour)
	router := newAuthRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tokens := service.NewTokenService("a", "r", time.Hour, time.Hour)
	router := newAuthRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	tokens := service.NewTokenService("a", "r", time.Hour, time.Hour)
	router := newAuthRouter(t, tokens)

	tok, err := tokens.IssueAccessToken(&models.User{ID: 5, Username: "alice", Email: "a@b.c"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	tokens := service.NewTokenService("a", "r", time.Hour, time.Hour)
	router := newAuthRouter(t, tokens)

	tok, err := tokens.IssueAccessToken(&models.User{ID: 5, Username: "alice", Email: "a@b.c"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokens := service.NewTokenService("a", "r", -time.Second, time.Hour)
	router := newAuthRouter(t, tokens)

	tok, err := tokens.IssueAccessToken(&models.User{ID: 5, Username: "alice", Email: "a@b.c"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
}
