package server

import (
	"net/http"

	"vidstream/internal/config"
	"vidstream/internal/handler"
	"vidstream/internal/media"
	"vidstream/internal/middleware"
	"vidstream/internal/repository"
	"vidstream/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	cfg    *config.Config
	log    *logrus.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, uploader media.Uploader, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders("Authorization")
		router.Use(cors.New(corsConfig))
	}

	s := &Server{
		router: router,
		cfg:    cfg,
		log:    log,
	}

	s.setupRoutes(db, uploader, logger)

	return s
}

func (s *Server) setupRoutes(db *sqlx.DB, uploader media.Uploader, logger *zap.Logger) {
	// Repositories
	userRepo := repository.NewUserRepository(db, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(db, logger)
	playlistRepo := repository.NewPlaylistRepository(db, logger)

	// Services
	tokenService := service.NewTokenService(
		s.cfg.Auth.AccessTokenSecret,
		s.cfg.Auth.RefreshTokenSecret,
		s.cfg.AccessTokenTTL(),
		s.cfg.RefreshTokenTTL(),
	)
	authService := service.NewAuthService(userRepo, tokenService, uploader, logger)
	userService := service.NewUserService(userRepo, uploader, logger)
	subscriptionService := service.NewSubscriptionService(userRepo, subscriptionRepo, logger)
	playlistService := service.NewPlaylistService(playlistRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, s.cfg.AccessTokenTTL(), s.cfg.RefreshTokenTTL(), s.cfg.Auth.SecureCookies, s.log)
	userHandler := handler.NewUserHandler(userService, s.log)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, s.log)
	playlistHandler := handler.NewPlaylistHandler(playlistService, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api/v1")

	// Public authentication routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)

	// Authenticated routes
	authRequired := api.Group("")
	authRequired.Use(middleware.AuthMiddleware(tokenService, logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)
		authRequired.POST("/auth/change-password", authHandler.ChangePassword)

		authRequired.GET("/users/me", userHandler.Me)
		authRequired.PATCH("/users/me", userHandler.UpdateAccount)
		authRequired.PATCH("/users/me/avatar", userHandler.UpdateAvatar)
		authRequired.PATCH("/users/me/cover-image", userHandler.UpdateCoverImage)
		authRequired.GET("/users/me/subscriptions", subscriptionHandler.SubscribedChannels)

		authRequired.GET("/channels/:username", userHandler.ChannelProfile)
		authRequired.POST("/channels/:username/subscribe", subscriptionHandler.Toggle)
		authRequired.GET("/channels/:username/subscribers", subscriptionHandler.Subscribers)

		authRequired.POST("/playlists", playlistHandler.Create)
		authRequired.GET("/playlists", playlistHandler.ListOwn)
		authRequired.GET("/playlists/:id", playlistHandler.Get)
		authRequired.PATCH("/playlists/:id", playlistHandler.Update)
		authRequired.DELETE("/playlists/:id", playlistHandler.Delete)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
