package api

import (
	a "github.com/anhnphe171575/SepCapstone-sub005/internal/auth"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/config"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/middleware"
	ws "github.com/anhnphe171575/SepCapstone-sub005/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Router struct {
	ah *AuthHandlers
	uh *UserHandlers
	wh *WebSocketHandler
	am *a.AuthMiddleware
	rl *middleware.IPRateLimiter
}

func NewRouter(db *gorm.DB, session *ws.Session, hub *ws.Hub, cfg *config.Config) *Router {
	am := a.NewAuthMiddleware(cfg.AppSecret)
	return &Router{
		ah: NewAuthHandlers(db, am),
		uh: NewUserHandlers(db, hub),
		wh: NewWebSocketHandler(session, hub),
		am: am,
		rl: middleware.NewIPRateLimiter(cfg.RatePerSecond, cfg.RateBurst),
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	{
		unprotected := router.Group("/")
		unprotected.GET("/hc", HealthCheckHandler)
		unprotected.POST("/register", r.rl.Middleware(), r.ah.RegisterHandler)
		unprotected.POST("/login", r.rl.Middleware(), r.ah.LoginHandler)
		// The realtime protocol authenticates through its own join
		// handshake; session issuance is the REST surface's job.
		unprotected.GET("/ws", r.wh.HandleWebSocket)
	}

	{
		protected := router.Group("/api")
		protected.Use(r.am.RequireAuth())
		protected.POST("/logout", r.ah.LogoutHandler)
		protected.GET("/me", r.uh.MeHandler)
		protected.GET("/online-users", r.uh.OnlineUsersHandler)
	}
}

func HealthCheckHandler(c *gin.Context) {
	c.String(200, "Running")
}
