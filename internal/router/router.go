package router

import (
	"net/http"

	"project-service/internal/handler"
	"project-service/internal/middleware"
	"project-service/pkg/logger"
	"project-service/prometheus"

	_ "project-service/internal/docs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Handlers bundles everything the routes dispatch to
type Handlers struct {
	Auth        *handler.AuthHandler
	Projects    *handler.ProjectHandler
	Tasks       *handler.TaskHandler
	Memberships *handler.MembershipHandler
	Health      *handler.HealthHandler
	Resolver    middleware.CurrentUserResolver
}

type Options struct {
	AllowOrigins []string
	Logger       *zap.Logger
}

// New builds the echo instance with global middleware and every route
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(opts.Logger)

	// /api/projects and /api/projects/ resolve to the same route
	e.Pre(echomiddleware.RemoveTrailingSlash())

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.AllowOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware(opts.Logger))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	// /swagger/ arrives here once the trailing slash is stripped
	e.GET("/swagger", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	api := e.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/token", h.Auth.Token)

	// Everything below requires a bearer token
	secured := api.Group("", middleware.Authenticate(h.Resolver, opts.Logger))

	users := secured.Group("/users")
	users.GET("/me", h.Auth.Me)
	users.GET("/me/projects", h.Memberships.MyProjects)

	projects := secured.Group("/projects")
	projects.POST("", h.Projects.Create)
	projects.GET("", h.Projects.List)
	projects.GET("/:id", h.Projects.Get)
	projects.PATCH("/:id", h.Projects.Update)
	projects.DELETE("/:id", h.Projects.Delete)

	projects.GET("/:id/users", h.Memberships.ListUsers)
	projects.POST("/:id/users", h.Memberships.AddUser)
	projects.DELETE("/:id/users/:user_id", h.Memberships.RemoveUser)

	projects.POST("/:id/tasks", h.Tasks.Create)
	projects.GET("/:id/tasks", h.Tasks.List)
	projects.GET("/:id/tasks/:task_id", h.Tasks.Get)
	projects.PATCH("/:id/tasks/:task_id", h.Tasks.Update)
	projects.DELETE("/:id/tasks/:task_id", h.Tasks.Delete)

	return e
}
