package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notehub/notehub-api/internal/api/handler"
	"github.com/notehub/notehub-api/internal/api/middleware"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
	"github.com/notehub/notehub-api/internal/core/service"
	"github.com/notehub/notehub-api/internal/infrastructure/config"
	mongodb "github.com/notehub/notehub-api/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, events ports.EventSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("notehub"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db, cfg.StorageTimeout)
	assetRepo := mongodb.NewAssetRepository(db, cfg.StorageTimeout)
	shareRepo := mongodb.NewShareRepository(db, cfg.StorageTimeout)
	eventRepo := mongodb.NewEventRepository(db, cfg.StorageTimeout)

	issuer := service.NewTokenIssuer(service.TokenConfig{
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
	})
	authService := service.NewAuthService(userRepo, issuer, log)
	resolver := service.NewAccessResolver(userRepo, assetRepo, shareRepo, log)
	shareService := service.NewShareService(shareRepo, assetRepo, userRepo, events, log)
	assetService := service.NewAssetService(assetRepo, shareRepo, resolver, events, log)
	importService := service.NewImportService(authService, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Env == "production")
	folderHandler := handler.NewFolderHandler(assetService)
	noteHandler := handler.NewNoteHandler(assetService)
	shareHandler := handler.NewShareHandler(shareService, assetService)
	adminHandler := handler.NewAdminHandler(userRepo, resolver, eventRepo)
	importHandler := handler.NewImportHandler(importService)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/renew", authHandler.Renew)

	// --- Protected routes ---
	protected := e.Group("", middleware.Auth(issuer))

	protected.PUT("/users/me", authHandler.UpdateProfile)

	protected.POST("/folders", folderHandler.Create)
	protected.GET("/folders", folderHandler.List)
	protected.GET("/folders/:folderId", folderHandler.Get)
	protected.PUT("/folders/:folderId", folderHandler.Rename)
	protected.DELETE("/folders/:folderId", folderHandler.Delete)
	protected.GET("/folders/:folderId/notes", folderHandler.Notes)

	protected.POST("/notes", noteHandler.Create)
	protected.GET("/notes", noteHandler.List)
	protected.GET("/notes/:noteId", noteHandler.Get)
	protected.PUT("/notes/:noteId", noteHandler.Update)
	protected.DELETE("/notes/:noteId", noteHandler.Delete)

	protected.POST("/shares", shareHandler.Grant)
	protected.PUT("/shares/:shareId", shareHandler.Revise)
	protected.DELETE("/shares/:shareId", shareHandler.Revoke)
	protected.GET("/shares/resource/:resourceType/:resourceId", shareHandler.ListForResource)
	protected.GET("/shares/me", shareHandler.ListForMe)
	protected.GET("/shares/me/assets", shareHandler.AssetsForMe)

	// --- Admin routes (MANAGER only) ---
	admin := protected.Group("/admin", middleware.RBAC(domain.RoleManager))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/authz/check", adminHandler.CheckAccess)
	admin.GET("/events/:resourceType/:resourceId", adminHandler.ResourceEvents)
	admin.POST("/import-users", importHandler.ImportUsers)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
