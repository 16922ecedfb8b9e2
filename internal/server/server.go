package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"formfitness/internal/auth"
	"formfitness/internal/config"
	"formfitness/internal/email"
	"formfitness/internal/engine"
	"formfitness/internal/session"
	"formfitness/internal/user"
	"formfitness/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Config   *config.Config
	Users    *user.Handler
	Wallets  *wallet.Handler
	Engine   *engine.Handler
	Sessions session.Store
	// Email is optional; without it /test-email is not mounted.
	Email        *email.Service
	HealthChecks map[string]HealthCheck
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(d Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(d.Config.RateLimitRPS, d.Config.RateLimitBurst))

	router.GET("/health", Health(d.HealthChecks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router, "")
	if d.Email != nil {
		router.GET("/test-email", TestEmail(d.Email))
	}

	public := router.Group("/auth")
	{
		public.POST("/register", d.Users.Register)
		public.POST("/login", d.Users.Login)
		public.POST("/refresh", d.Users.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(d.Config.JWTSecret, d.Sessions)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", d.Users.Logout)
		protected.GET("/me", d.Users.GetMe)

		protected.GET("/dashboard", d.Engine.Dashboard)
		protected.GET("/classes", d.Engine.Schedule)
		protected.GET("/classes/:classID/status", d.Engine.ClassStatus)
		protected.POST("/classes/:classID/book", d.Engine.Book)
		protected.DELETE("/classes/:classID/book", d.Engine.Cancel)
		protected.GET("/bookings", d.Engine.MyBookings)

		protected.GET("/subscription", d.Engine.MySubscription)
		protected.GET("/subscription/remaining-days", d.Engine.RemainingDays)
		protected.GET("/subscription/plans", d.Engine.Plans)
		protected.POST("/subscription/freeze", d.Engine.Freeze)
		protected.POST("/subscription/purchase", d.Engine.Purchase)

		protected.GET("/wallet", d.Wallets.GetBalance)
		protected.POST("/wallet/topup", d.Wallets.TopUp)
		protected.GET("/wallet/transactions", d.Wallets.ListTransactions)

		protected.GET("/events", d.Engine.Events)
	}

	staff := router.Group("/staff")
	staff.Use(authMiddleware, auth.RequireRole(string(user.RoleStaff), string(user.RoleAdmin)))
	{
		staff.POST("/classes", d.Engine.CreateClass)
		staff.PUT("/classes/:classID", d.Engine.UpdateClass)
		staff.DELETE("/classes/:classID", d.Engine.DeleteClass)
		staff.GET("/classes/:classID/roster", d.Engine.ClassRoster)
		staff.GET("/members", d.Engine.Members)
		staff.POST("/members/:userID/subscription", d.Engine.AssignSubscription)
		staff.GET("/members/:userID/subscription", d.Engine.MemberSubscription)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(string(user.RoleAdmin)))
	{
		admin.GET("/statistics", d.Engine.Statistics)
		admin.GET("/users", d.Engine.Users)
		admin.PUT("/users/:userID", d.Engine.UpdateUser)
		admin.DELETE("/users/:userID", d.Engine.DeleteUser)
		admin.GET("/subscriptions", d.Engine.AllSubscriptions)
		admin.GET("/bookings", d.Engine.AllBookings)
	}

	return &Server{router: router}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
