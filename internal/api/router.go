package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/middleware"
	"github.com/algocanvas/algocanvas/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Hub         *ws.Hub
	Sessions    SessionRegistry
	Library     GraphLibrary
	DB          Pinger
	PythonBin   string
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 4 << 20 // 4 MB
	rateLimit   = 200     // requests per second per IP; pointer moves are chatty
	rateBurst   = 400     // token bucket burst size
	runRate     = 1       // runs per second per session
	runBurst    = 5
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	backend := ""
	if deps.Library != nil {
		backend = deps.Library.Backend()
	}

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}

	health := NewHealthHandler(deps.Sessions, clients, deps.DB, backend, deps.PythonBin, log, deps.Version)
	sessions := NewSessionHandler(deps.Sessions, log)
	canvas := NewCanvasHandler(deps.Sessions, log)
	playback := NewPlaybackHandler(deps.Sessions, log)
	run := NewRunHandler(deps.Sessions, log)
	graph := NewGraphHandler(deps.Sessions, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Templates.
	api.GET("/templates", run.ListTemplates)
	api.GET("/templates/:name", run.GetTemplate)

	// Sessions.
	api.POST("/sessions", sessions.Create)
	api.GET("/sessions", sessions.List)
	api.GET("/sessions/:id", sessions.Get)
	api.DELETE("/sessions/:id", sessions.Delete)

	// Canvas interaction.
	api.POST("/sessions/:id/pointer/down", canvas.PointerDown)
	api.POST("/sessions/:id/pointer/move", canvas.PointerMove)
	api.POST("/sessions/:id/pointer/up", canvas.PointerUp)
	api.POST("/sessions/:id/pointer/release", canvas.Release)
	api.PUT("/sessions/:id/mode", canvas.SetMode)
	api.POST("/sessions/:id/clear", canvas.Clear)

	// Runs and templates.
	runLimiter := middleware.NewRateLimiter(ctx, runRate, runBurst)
	api.POST("/sessions/:id/run",
		runLimiter.KeyedHandler(middleware.BySession, "too many runs for this session"), run.Run)
	api.PUT("/sessions/:id/template", run.SelectTemplate)

	// Playback.
	api.POST("/sessions/:id/playback/play", playback.Play)
	api.POST("/sessions/:id/playback/pause", playback.Pause)
	api.POST("/sessions/:id/playback/step", playback.Step)
	api.POST("/sessions/:id/playback/reset", playback.Reset)
	api.PUT("/sessions/:id/playback/speed", playback.SetSpeed)

	// Graph document and adjacency.
	api.GET("/sessions/:id/graph", graph.Export)
	api.PUT("/sessions/:id/graph", graph.Import)
	api.GET("/sessions/:id/adjacency", graph.Adjacency)

	// Saved-graph library.
	if deps.Library != nil {
		library := NewLibraryHandler(deps.Library, deps.Sessions, log)

		api.GET("/library", library.List)
		api.PUT("/library/:name", library.Save)
		api.GET("/library/:name", library.Get)
		api.DELETE("/library/:name", library.Delete)
		api.POST("/sessions/:id/library/:name/load", library.LoadIntoSession)
	}

	// WebSocket stream.
	if deps.Hub != nil {
		api.GET("/sessions/:id/ws", wsHandler(ctx, log, deps.Hub, deps.Sessions, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
