package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-action-board/errors"
	httpmw "github.com/johnquangdev/meeting-action-board/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-action-board/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	boardHandler   *Board
	meetingHandler *Meeting
	authHandler    *Auth
	requireGoogle  echo.MiddlewareFunc
	startedAt      time.Time
}

// NewRouter creates a new router with all handlers. authHandler is nil when
// Google login is not configured.
func NewRouter(cfg *config.Config, boardHandler *Board, meetingHandler *Meeting, authHandler *Auth) *Router {
	rt := &Router{
		cfg:            cfg,
		boardHandler:   boardHandler,
		meetingHandler: meetingHandler,
		authHandler:    authHandler,
		startedAt:      time.Now(),
	}
	if authHandler != nil && authHandler.oauthService != nil {
		rt.requireGoogle = httpmw.RequireConnection(authHandler.oauthService)
	} else {
		rt.requireGoogle = httpmw.RequireConnection(nil)
	}
	return rt
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupBoardRoutes(v1)
	rt.setupItemRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupAuthRoutes(v1)
}

func (rt *Router) setupBoardRoutes(g *echo.Group) {
	boardGroup := g.Group("/board")
	boardGroup.GET("", rt.boardHandler.GetBoard)
	boardGroup.DELETE("", rt.boardHandler.ClearBoard)
	boardGroup.GET("/export", rt.boardHandler.ExportBoard)
	boardGroup.GET("/exports", rt.boardHandler.ListExports)

	g.POST("/extract", rt.boardHandler.Extract)
}

func (rt *Router) setupItemRoutes(g *echo.Group) {
	itemGroup := g.Group("/items")
	itemGroup.GET("", rt.boardHandler.ListItems)
	itemGroup.POST("", rt.boardHandler.CreateItem)
	itemGroup.POST("/import", rt.boardHandler.ImportItems)
	itemGroup.GET("/:id", rt.boardHandler.GetItem)
	itemGroup.PATCH("/:id", rt.boardHandler.UpdateItem)
	itemGroup.PUT("/:id/status", rt.boardHandler.MoveStatus)
	itemGroup.DELETE("/:id", rt.boardHandler.DeleteItem)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings", rt.requireGoogle)
	meetingGroup.GET("", rt.meetingHandler.Search)
	meetingGroup.GET("/:id/transcript", rt.meetingHandler.Transcript)
	meetingGroup.POST("/:id/extract", rt.meetingHandler.Extract)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	if rt.authHandler != nil && rt.authHandler.oauthService != nil {
		authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
		authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
		authGroup.GET("/status", rt.authHandler.Status)
		authGroup.POST("/logout", rt.authHandler.Logout)
	} else {
		// Placeholder routes when Google credentials are missing
		authGroup.GET("/google/login", rt.notImplemented)
		authGroup.GET("/google/callback", rt.notImplemented)
		authGroup.GET("/status", NewAuth(nil, nil).Status)
		authGroup.POST("/logout", rt.notImplemented)
	}
}

// notImplemented answers routes whose integration is not configured
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, errs{
		Code:    errors.ErrorCode_UNAUTHENTICATED,
		Message: "Google login is not configured",
		Info:    "set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := ""
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
		"items":       len(rt.boardHandler.controller.Items()),
		"uptime":      time.Since(rt.startedAt).Round(time.Second).String(),
	})
}
