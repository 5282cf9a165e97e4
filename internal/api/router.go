package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/syncflow/syncflow-api/internal/api/handler"
	"github.com/syncflow/syncflow-api/internal/api/middleware"
	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"

	_ "github.com/syncflow/syncflow-api/internal/docs"
)

// Realtime is the push hub as seen by the HTTP layer.
type Realtime interface {
	handler.Subscriber
	handler.ConnectionCounter
}

// Deps carries everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry.
type Deps struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Clients       ports.ClientService
	Projects      ports.ProjectService
	Teams         ports.TeamService
	Invoices      ports.InvoiceService
	Users         ports.UserService
	Analytics     ports.AnalyticsService
	Hub           Realtime

	Dependencies   []handler.Dependency
	Cookies        handler.CookieOptions
	AllowedOrigins []string
	Heartbeat      time.Duration
	StreamBuffer   int

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/api/events"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	clientHandler := handler.NewClientHandler(d.Clients)
	projectHandler := handler.NewProjectHandler(d.Projects)
	teamHandler := handler.NewTeamHandler(d.Teams)
	invoiceHandler := handler.NewInvoiceHandler(d.Invoices)
	userHandler := handler.NewUserHandler(d.Users)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)
	eventsHandler := handler.NewEventsHandler(d.Hub, d.Heartbeat, d.StreamBuffer, d.Log)
	healthHandler := handler.NewHealthHandler(d.Hub, d.Dependencies...)

	authenticated := middleware.Authenticate(d.Authenticator)
	administrators := middleware.RequireRoles(domain.Administrators)

	api := e.Group("/api")

	// --- Auth ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.PATCH("/reset-password/:token", authHandler.ResetPassword)
	auth.POST("/logout", authHandler.Logout, authenticated)
	auth.GET("/me", authHandler.Me, authenticated)

	// --- Clients ---
	clients := api.Group("/clients", authenticated)
	clients.GET("", clientHandler.List, middleware.RequireRoles(domain.ClientViewers))
	clients.POST("", clientHandler.Create, administrators)
	clients.PUT("/:id", clientHandler.Update, administrators)
	clients.DELETE("/:id", clientHandler.Delete, administrators)

	// --- Projects ---
	projects := api.Group("/projects", authenticated)
	projects.GET("", projectHandler.List)
	projects.GET("/my-projects", projectHandler.ListMine)
	projects.POST("", projectHandler.Create, administrators)
	projects.PUT("/:id", projectHandler.Update, administrators)
	projects.DELETE("/:id", projectHandler.Delete, administrators)

	// --- Teams ---
	teams := api.Group("/teams", authenticated)
	teams.GET("/my-teams", teamHandler.ListMine)
	teamManagers := middleware.RequireRoles(domain.TeamManagers)
	teams.GET("", teamHandler.List, teamManagers)
	teams.POST("", teamHandler.Create, teamManagers)
	teams.PUT("/:id", teamHandler.Update, teamManagers)
	teams.DELETE("/:id", teamHandler.Delete, teamManagers)

	// --- Invoices ---
	invoices := api.Group("/invoices", authenticated, middleware.RequireRoles(domain.InvoiceManagers))
	invoices.GET("", invoiceHandler.List)
	invoices.POST("", invoiceHandler.Create)
	invoices.PUT("/:id", invoiceHandler.Update)
	invoices.DELETE("/:id", invoiceHandler.Delete)

	// --- Users ---
	users := api.Group("/users", authenticated, administrators)
	users.GET("", userHandler.List)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Analytics ---
	api.GET("/analytics", analyticsHandler.Dashboard, authenticated, administrators)

	// --- Real-time notifications ---
	api.GET("/events", eventsHandler.Stream, authenticated)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
