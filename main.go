package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/retreat-portal/backend/internal/auth"
	"github.com/retreat-portal/backend/internal/config"
	"github.com/retreat-portal/backend/internal/db"
	"github.com/retreat-portal/backend/internal/handler"
	"github.com/retreat-portal/backend/internal/service"
)

// @title Retreat Portal API
// @version 1.0
// @description Backend for managing retreat attendees, rooms, groups and announcements.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Best-effort; env vars win over .env.
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	dsn, err := db.BuildPostgresURL(cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres config: %v", err)
	}
	if err := db.Migrate(ctx, dsn); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	repo := &db.Postgres{Pool: pool}

	limiter := service.NewRateLimiter(repo)
	sessions := service.NewSessionService(repo)
	authSvc := service.NewAuthService(repo, repo, limiter, sessions, cfg.Auth)
	roomSvc := service.NewRoomService(repo)
	groupSvc := service.NewGroupService(repo)
	attendeeSvc := service.NewAttendeeService(repo, repo, repo)
	announcementSvc := service.NewAnnouncementService(repo)

	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	attendeeHandler := handler.NewAttendeeHandler(attendeeSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	portalHandler := handler.NewPortalHandler(attendeeSvc, announcementSvc)
	healthHandler := handler.NewHealthHandler(pool)

	router := gin.Default()
	router.Use(handler.RequestID(), handler.CORS())

	router.GET("/ping", handler.Ping)
	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/admin/login", authHandler.AdminLogin)
	authGroup.POST("/attendee/login", authHandler.AttendeeLogin)

	// Shared by both principal types.
	either := authGroup.Group("")
	either.Use(handler.Auth(authSvc, auth.PrincipalAdmin, auth.PrincipalAttendee))
	either.POST("/logout", authHandler.Logout)
	either.GET("/me", authHandler.Me)

	admin := v1.Group("")
	admin.Use(handler.Auth(authSvc, auth.PrincipalAdmin))
	admin.GET("/attendees", attendeeHandler.List)
	admin.POST("/attendees", attendeeHandler.Create)
	admin.GET("/attendees/:id", attendeeHandler.Get)
	admin.PUT("/attendees/:id", attendeeHandler.Update)
	admin.DELETE("/attendees/:id", attendeeHandler.Delete)
	admin.POST("/attendees/:id/checkin", attendeeHandler.CheckIn)
	admin.GET("/rooms", roomHandler.List)
	admin.POST("/rooms", roomHandler.Create)
	admin.GET("/rooms/:id", roomHandler.Get)
	admin.PUT("/rooms/:id", roomHandler.Update)
	admin.DELETE("/rooms/:id", roomHandler.Delete)
	admin.GET("/groups", groupHandler.List)
	admin.POST("/groups", groupHandler.Create)
	admin.GET("/groups/:id", groupHandler.Get)
	admin.PUT("/groups/:id", groupHandler.Update)
	admin.DELETE("/groups/:id", groupHandler.Delete)
	admin.GET("/announcements", announcementHandler.List)
	admin.POST("/announcements", announcementHandler.Create)
	admin.GET("/announcements/:id", announcementHandler.Get)
	admin.PUT("/announcements/:id", announcementHandler.Update)
	admin.DELETE("/announcements/:id", announcementHandler.Delete)

	portal := v1.Group("/portal")
	portal.Use(handler.Auth(authSvc, auth.PrincipalAttendee))
	portal.GET("/me", portalHandler.Profile)
	portal.GET("/announcements", portalHandler.Announcements)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
