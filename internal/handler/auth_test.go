package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vidstream/internal/middleware"
	"vidstream/internal/models"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	registerFn       func(ctx context.Context, in service.RegisterInput) (*models.PublicUser, error)
	loginFn          func(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	refreshFn        func(ctx context.Context, presented string) (*service.TokenPair, error)
	logoutFn         func(ctx context.Context, userID int64) error
	changePasswordFn func(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

func (f *fakeAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.PublicUser, error) {
	return f.registerFn(ctx, in)
}

func (f *fakeAuthService) Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error) {
	return f.loginFn(ctx, in)
}

func (f *fakeAuthService) Refresh(ctx context.Context, presented string) (*service.TokenPair, error) {
	return f.refreshFn(ctx, presented)
}

func (f *fakeAuthService) Logout(ctx context.Context, userID int64) error {
	return f.logoutFn(ctx, userID)
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	return f.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func newAuthTestRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(svc, 15*time.Minute, 24*time.Hour, false, quietLogger())

	fakeAuth := func(c *gin.Context) {
		c.Set(middleware.CtxUserID, int64(7))
		c.Next()
	}

	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/refresh", h.Refresh)
	router.POST("/api/v1/auth/logout", fakeAuth, h.Logout)
	router.POST("/api/v1/auth/change-password", fakeAuth, h.ChangePassword)
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(_ context.Context, in service.LoginInput) (*service.LoginResult, error) {
			assert.Equal(t, "alice", in.Username)
			assert.Equal(t, "correct-pw", in.Password)
			return &service.LoginResult{
				User:   &models.PublicUser{ID: 7, Username: "alice"},
				Tokens: service.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
			}, nil
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"alice","password":"correct-pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "access", data["accessToken"])
	assert.Equal(t, "refresh", data["refreshToken"])
	assert.Equal(t, "alice", data["user"].(map[string]interface{})["username"])

	cookies := rec.Result().Cookies()
	names := make(map[string]*http.Cookie)
	for _, cookie := range cookies {
		names[cookie.Name] = cookie
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
	assert.True(t, names["refreshToken"].HttpOnly)
}

func TestLoginHandler_MissingPassword(t *testing.T) {
	svc := &fakeAuthService{}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(context.Context, service.LoginInput) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong-pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["data"], "no tokens must be issued on failed login")
}

func TestRefreshHandler_FromCookie(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(_ context.Context, presented string) (*service.TokenPair, error) {
			assert.Equal(t, "old-refresh", presented)
			return &service.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "new-refresh", data["refreshToken"])
}

func TestRefreshHandler_FromBody(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(_ context.Context, presented string) (*service.TokenPair, error) {
			assert.Equal(t, "body-refresh", presented)
			return &service.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refreshToken":"body-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshHandler_Missing(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(_ context.Context, presented string) (*service.TokenPair, error) {
			assert.Empty(t, presented)
			return nil, service.ErrMissingToken
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterHandler_MissingAvatar(t *testing.T) {
	svc := &fakeAuthService{}
	router := newAuthTestRouter(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("fullName", "Alice"))
	require.NoError(t, writer.WriteField("username", "alice"))
	require.NoError(t, writer.WriteField("email", "alice@example.com"))
	require.NoError(t, writer.WriteField("password", "pw"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "avatar is required")
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(_ context.Context, in service.RegisterInput) (*models.PublicUser, error) {
			assert.Equal(t, "Alice Example", in.FullName)
			assert.NotEmpty(t, in.AvatarPath)
			return &models.PublicUser{ID: 1, Username: "alice"}, nil
		},
	}
	router := newAuthTestRouter(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("fullName", "Alice Example"))
	require.NoError(t, writer.WriteField("username", "alice"))
	require.NoError(t, writer.WriteField("email", "alice@example.com"))
	require.NoError(t, writer.WriteField("password", "pw"))
	part, err := writer.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterHandler_DuplicateUser(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(context.Context, service.RegisterInput) (*models.PublicUser, error) {
			return nil, service.ErrUserAlreadyExists
		},
	}
	router := newAuthTestRouter(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("username", "alice"))
	part, err := writer.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogoutHandler_ClearsCookies(t *testing.T) {
	svc := &fakeAuthService{
		logoutFn: func(_ context.Context, userID int64) error {
			assert.Equal(t, int64(7), userID)
			return nil
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestChangePasswordHandler_WrongOldPassword(t *testing.T) {
	svc := &fakeAuthService{
		changePasswordFn: func(_ context.Context, _ int64, oldPassword, _ string) error {
			assert.Equal(t, "wrong-pw", oldPassword)
			return service.ErrWrongOldPassword
		},
	}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password",
		strings.NewReader(`{"oldPassword":"wrong-pw","newPassword":"new-pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid old password")
}

func TestChangePasswordHandler_MissingFields(t *testing.T) {
	svc := &fakeAuthService{}
	router := newAuthTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password",
		strings.NewReader(`{"oldPassword":"only-old"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
