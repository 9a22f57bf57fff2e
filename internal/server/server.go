// Package server exposes the public dictionary API and the admin moderation API.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ppiankov/slangwatch/internal/collect"
	"github.com/ppiankov/slangwatch/internal/model"
	"github.com/ppiankov/slangwatch/internal/store"
)

const sessionCookie = "slangwatch_session"

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// httpMetrics returns the process-wide HTTP metrics middleware. It registers
// on the default prometheus registry, which accepts each collector once.
func httpMetrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New("slangwatch")
	})
	return promMW
}

// Server holds the API dependencies
type Server struct {
	cfg          *model.Config
	store        *store.Store
	collector    *collect.Collector // nil disables research
	log          *zap.Logger
	app          *fiber.App
	passwordHash []byte
}

// New builds the fiber app with middleware and routes. collector may be nil.
func New(cfg *model.Config, st *store.Store, collector *collect.Collector, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Admin.Password == "" || cfg.Admin.SessionSecret == "" {
		return nil, errors.New("admin password and session secret are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	s := &Server{
		cfg:          cfg,
		store:        st,
		collector:    collector,
		log:          log,
		passwordHash: hash,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "slangwatch",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// App returns the fiber app, mainly for tests
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.log.Info("server starting", zap.String("address", addr), zap.String("environment", s.cfg.Server.Environment))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger())

	prom := httpMetrics()
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)

	origins := s.cfg.Server.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.Health)

	api := s.app.Group("/api")
	api.Get("/terms", s.PublicTerms)
	api.Get("/stats", s.PublicStats)

	admin := api.Group("/admin")
	admin.Post("/login", s.Login)
	admin.Post("/logout", s.Logout)

	protected := admin.Group("", s.AdminRequired())
	protected.Get("/dashboard", s.Dashboard)
	protected.Get("/terms", s.AdminTerms)
	protected.Get("/terms/:id", s.TermDetail)
	protected.Get("/search", s.Search)
	protected.Get("/placeholders", s.Placeholders)
	protected.Get("/low-value", s.LowValue)
	protected.Get("/activity", s.Activity)
	protected.Post("/approve/:term", s.Approve)
	protected.Post("/reject/:term", s.Reject)
	protected.Delete("/delete/:term", s.Delete)
	protected.Post("/bulk-approve", s.BulkApprove)
	protected.Post("/bulk-delete", s.BulkDelete)
	protected.Post("/update-term", s.UpdateTerm)
	protected.Post("/research", s.Research)
	protected.Post("/cleanup", s.Cleanup)
}
