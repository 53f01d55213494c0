package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/adapters/signal"
	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/auth"
	"github.com/linkup/linkup-server/internal/config"
	"github.com/linkup/linkup-server/internal/storage"
)

// Deps is everything the HTTP surface needs, wired once in main.
// Store may be nil when Mongo is unreachable; the REST surface that
// needs it is then not mounted, while signaling keeps running.
type Deps struct {
	Cfg     *config.Config
	Coord   *app.Coordinator
	Store   *storage.Store
	Tokens  *auth.Tokens
	Started time.Time
}

// ClientTokenMiddleware gives every browser a stable client token in
// its cookie session, surviving reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get("ct").(string)
		if token == "" {
			token = uuid.NewString()
			s.Set("ct", token)
			_ = s.Save()
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, deps *Deps) *gin.Engine {
	cfg := deps.Cfg
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LinkUpSession", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"uptime":    time.Since(deps.Started).Seconds(),
			"connected": deps.Coord.Registry.Count(),
			"rooms":     deps.Coord.Rooms.Count(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/config/ice", deps.handleICEServers)

	ctl := signal.NewController(deps.Coord, cfg)
	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws endpoint hit")
		ctl.HandleWS(ctx, c)
	})

	if deps.Store != nil {
		authGroup := api.Group("/auth")
		authGroup.POST("/register", deps.handleRegister)
		authGroup.POST("/login", deps.handleLogin)
		authGroup.GET("/me", deps.AuthRequired(), deps.handleMe)

		roomGroup := api.Group("/rooms", deps.AuthRequired())
		roomGroup.POST("/create", deps.handleCreateRoom)
		roomGroup.GET("/:roomId", deps.handleGetRoom)
		roomGroup.POST("/:roomId/join", deps.handleJoinRoom)
		roomGroup.POST("/:roomId/leave", deps.handleLeaveRoom)
		roomGroup.POST("/:roomId/end", deps.handleEndRoom)
		roomGroup.GET("/:roomId/messages", deps.handleListMessages)
	} else {
		log.Warn().Str("module", "adapters.http").Msg("store unavailable, auth and room API not mounted")
	}

	return r
}
