package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/api/handler"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/api/middleware"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/config"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/ws"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	BidSvc        *service.BidService
	TransitionSvc *service.TransitionService
	ShipmentSvc   *service.ShipmentService
	AnalyticsSvc  *service.AnalyticsService
	Hub           *ws.Hub
	Cfg           *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS, and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	bidH := handler.NewBidHandler(deps.BidSvc, deps.TransitionSvc)
	shipmentH := handler.NewShipmentHandler(deps.BidSvc, deps.ShipmentSvc, deps.AnalyticsSvc)

	// ── JWT middleware (shared) ───────────────────────────────────────────────
	jwtMW := middleware.JWTMiddleware([]byte(deps.Cfg.JWT.AccessSecret))

	// ── Rate limiters ─────────────────────────────────────────────────────────
	bidRL := middleware.RateLimitMiddleware(30)      // 30 req/s per IP for bid submission
	analyticsRL := middleware.RateLimitMiddleware(10) // 10 req/s per IP for the public analytics endpoint

	api := r.Group("/api")
	{
		// ── Shipments ────────────────────────────────────────────────────────
		shipments := api.Group("/shipments")
		{
			// Analytics is public: shippers embed it in listing pages.
			shipments.GET("/:id/analytics", analyticsRL, shipmentH.GetBidAnalytics)

			authed := shipments.Group("")
			authed.Use(jwtMW)
			{
				authed.GET("/:id/bids", shipmentH.GetShipmentBids)
				authed.POST("/:id/bids", bidRL, middleware.RoleMiddleware(middleware.RoleTransporter), bidH.SubmitBid)
				authed.PUT("/:id/auto-accept", middleware.RoleMiddleware(middleware.RoleShipper), shipmentH.ConfigureAutoAccept)
			}
		}

		// ── Bids ─────────────────────────────────────────────────────────────
		bids := api.Group("/bids")
		bids.Use(jwtMW)
		{
			bids.GET("/my", bidH.GetMyBids)
			bids.GET("/:id/history", bidH.GetBidHistory)

			shipper := bids.Group("")
			shipper.Use(middleware.RoleMiddleware(middleware.RoleShipper))
			{
				shipper.POST("/:id/award", bidH.AwardBid)
				shipper.POST("/:id/reject", bidH.RejectBid)
				shipper.POST("/:id/counter-offer", bidH.CounterOffer)
			}
		}
	}

	// ── WebSocket ─────────────────────────────────────────────────────────────
	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// In development all origins are allowed; in production only configured ones.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.AllowedOrigins))
	for _, o := range cfg.Server.AllowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			// Development: allow any origin
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
