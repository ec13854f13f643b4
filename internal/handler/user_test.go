package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidstream/internal/middleware"
	"vidstream/internal/models"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	getByIDFn           func(ctx context.Context, userID int64) (*models.PublicUser, error)
	updateAccountFn     func(ctx context.Context, userID int64, fullName, email string) (*models.PublicUser, error)
	updateAvatarFn      func(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error)
	updateCoverImageFn  func(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error)
	getChannelProfileFn func(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error)
}

func (f *fakeUserService) GetByID(ctx context.Context, userID int64) (*models.PublicUser, error) {
	return f.getByIDFn(ctx, userID)
}

func (f *fakeUserService) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*models.PublicUser, error) {
	return f.updateAccountFn(ctx, userID, fullName, email)
}

func (f *fakeUserService) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error) {
	return f.updateAvatarFn(ctx, userID, localPath)
}

func (f *fakeUserService) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*models.PublicUser, error) {
	return f.updateCoverImageFn(ctx, userID, localPath)
}

func (f *fakeUserService) GetChannelProfile(ctx context.Context, username string, viewerID int64) (*models.ChannelProfile, error) {
	return f.getChannelProfileFn(ctx, username, viewerID)
}

func newUserTestRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewUserHandler(svc, quietLogger())

	fakeAuth := func(c *gin.Context) {
		c.Set(middleware.CtxUserID, int64(7))
		c.Next()
	}

	router.GET("/api/v1/users/me", fakeAuth, h.Me)
	router.PATCH("/api/v1/users/me", fakeAuth, h.UpdateAccount)
	router.GET("/api/v1/channels/:username", fakeAuth, h.ChannelProfile)
	return router
}

func TestMeHandler(t *testing.T) {
	svc := &fakeUserService{
		getByIDFn: func(_ context.Context, userID int64) (*models.PublicUser, error) {
			assert.Equal(t, int64(7), userID)
			return &models.PublicUser{ID: 7, Username: "alice"}, nil
		},
	}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestUpdateAccountHandler_MissingFields(t *testing.T) {
	svc := &fakeUserService{}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/me",
		strings.NewReader(`{"fullName":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChannelProfileHandler(t *testing.T) {
	svc := &fakeUserService{
		getChannelProfileFn: func(_ context.Context, username string, viewerID int64) (*models.ChannelProfile, error) {
			assert.Equal(t, "bob", username)
			assert.Equal(t, int64(7), viewerID)
			return &models.ChannelProfile{
				ID: 2, Username: "bob", SubscriberCount: 12, IsSubscribed: true,
			}, nil
		},
	}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subscriberCount":12`)
	assert.Contains(t, rec.Body.String(), `"isSubscribed":true`)
}

func TestChannelProfileHandler_NotFound(t *testing.T) {
	svc := &fakeUserService{
		getChannelProfileFn: func(context.Context, string, int64) (*models.ChannelProfile, error) {
			return nil, service.ErrChannelNotFound
		},
	}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
