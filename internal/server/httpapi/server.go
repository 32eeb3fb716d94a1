// Package httpapi exposes the authentication and account services over
// HTTP/JSON using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"authservice/internal/logging"
	"authservice/internal/server/services"

	"github.com/gin-gonic/gin"
)

type Server struct {
	address            string
	logger             logging.Logger
	auth               *services.AuthService
	users              *services.UserService
	accessTokenSecret  []byte
	refreshTokenSecret []byte
	engine             *gin.Engine
}

// NewServer builds the router and returns a Server ready to Run.
func NewServer(address string, l logging.Logger, as *services.AuthService, us *services.UserService, accessSecret, refreshSecret string) *Server {
	s := &Server{
		address:            address,
		logger:             l.With("module", "http_server"),
		auth:               as,
		users:              us,
		accessTokenSecret:  []byte(accessSecret),
		refreshTokenSecret: []byte(refreshSecret),
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/refresh", s.refresh)
	}

	usersGroup := api.Group("/users")
	usersGroup.POST("", s.createUser)

	protected := usersGroup.Group("")
	protected.Use(s.requireAccessToken())
	{
		protected.GET("", s.listUsers)
		protected.GET("/:id", s.getUser)
		protected.PUT("/:id", s.updateUser)
		protected.DELETE("/:id", s.deleteUser)
	}

	return r
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.engine}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func clientMeta(c *gin.Context) services.ClientMeta {
	return services.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
