package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/handlers"
	"github.com/lastcall/sms-backend/internal/middleware"
)

// HandlerDependencies groups the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	AccountHandler   *handlers.AccountHandler
	RecipientHandler *handlers.RecipientHandler
	BlastHandler     *handlers.BlastHandler
	CouponHandler    *handlers.CouponHandler
	WebhookHandler   *handlers.WebhookHandler
	MetricsHandler   *handlers.MetricsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Signup page lookup and signup form submission
		public.GET("/bars/:slug", deps.AccountHandler.GetAccountBySlug)
		public.POST("/bars/:slug/recipients", deps.RecipientHandler.Signup)

		// Inbound SMS provider callbacks
		public.POST("/webhooks/telnyx", deps.WebhookHandler.HandleTelnyx)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Bar administration
		bars := protected.Group("/admin/bars")
		{
			bars.GET("", deps.AccountHandler.ListAccounts)
			bars.POST("", deps.AccountHandler.CreateAccount)
			bars.GET("/:id", deps.AccountHandler.GetAccount)
			bars.PUT("/:id", deps.AccountHandler.UpdateAccount)
			bars.DELETE("/:id", deps.AccountHandler.DeleteAccount)
		}

		accounts := protected.Group("/accounts/:accountId")
		{
			accounts.GET("/recipients", deps.RecipientHandler.ListRecipients)
			accounts.GET("/recipients/:id", deps.RecipientHandler.GetRecipient)

			blasts := accounts.Group("/blasts")
			{
				blasts.GET("", deps.BlastHandler.ListBlasts)
				blasts.POST("", deps.BlastHandler.CreateBlast)
				blasts.GET("/scheduled", deps.BlastHandler.ListScheduled)
				blasts.POST("/count", deps.BlastHandler.CountRecipients)
				blasts.GET("/:id", deps.BlastHandler.GetBlast)
				blasts.PUT("/:id", deps.BlastHandler.UpdateBlast)
				blasts.DELETE("/:id", deps.BlastHandler.DeleteBlast)
				blasts.POST("/:id/send", deps.BlastHandler.SendBlast)
				blasts.POST("/:id/schedule", deps.BlastHandler.ScheduleBlast)
				blasts.DELETE("/:id/schedule", deps.BlastHandler.CancelSchedule)
			}

			accounts.POST("/coupons/redeem", deps.CouponHandler.RedeemCoupon)

			accounts.GET("/metrics", deps.MetricsHandler.GetMetrics)
			accounts.POST("/metrics/recompute", deps.MetricsHandler.RecomputeMetrics)
		}
	}

	return router
}
