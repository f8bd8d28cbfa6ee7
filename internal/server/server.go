// Package server contains the HTTP handlers and routing of the events API.
package server

import (
	"gatherly/internal/config"
	"gatherly/internal/database"
	"gatherly/internal/middleware"
	"gatherly/internal/repository"
	"gatherly/internal/service"
	"gatherly/internal/statsclient"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	userSvc        *service.UserService
	categorySvc    *service.CategoryService
	eventSvc       *service.EventService
	requestSvc     *service.RequestService
	commentSvc     *service.CommentService
	compilationSvc *service.CompilationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	stats := statsclient.New(cfg.StatsURL, cfg.AppName, middleware.Logger)

	return NewServerWithDeps(cfg, db, stats), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the DB and the
// stats collector client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, stats statsclient.StatsClient) *Server {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	compilationRepo := repository.NewCompilationRepository(db)

	statsSvc := service.NewStatsService(stats, requestRepo, middleware.Logger)
	eventSvc := service.NewEventService(eventRepo, locationRepo, categoryRepo, userRepo, statsSvc)

	return &Server{
		config:         cfg,
		db:             db,
		userSvc:        service.NewUserService(userRepo),
		categorySvc:    service.NewCategoryService(categoryRepo),
		eventSvc:       eventSvc,
		requestSvc:     service.NewRequestService(requestRepo, eventRepo, userRepo, statsSvc),
		commentSvc:     service.NewCommentService(commentRepo, eventRepo, userRepo),
		compilationSvc: service.NewCompilationService(compilationRepo, eventSvc),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())
	app.Use(cors.New())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)

	// Administrative surface
	admin := app.Group("/admin")
	admin.Post("/users", s.CreateUser)
	admin.Get("/users", s.ListUsers)
	admin.Delete("/users/:userId", s.DeleteUser)

	admin.Post("/categories", s.CreateCategory)
	admin.Patch("/categories/:catId", s.UpdateCategory)
	admin.Delete("/categories/:catId", s.DeleteCategory)

	admin.Get("/events", s.AdminSearchEvents)
	admin.Patch("/events/:eventId", s.AdminUpdateEvent)

	admin.Post("/compilations", s.CreateCompilation)
	admin.Patch("/compilations/:compId", s.UpdateCompilation)
	admin.Delete("/compilations/:compId", s.DeleteCompilation)

	admin.Get("/comments", s.AdminListComments)
	admin.Delete("/comments/:commentId", s.AdminDeleteComment)

	// Owner surface, identity scoped by path
	users := app.Group("/users/:userId")
	users.Get("/events", s.ListOwnEvents)
	users.Post("/events", s.CreateEvent)
	users.Get("/events/:eventId", s.GetOwnEvent)
	users.Patch("/events/:eventId", s.UpdateOwnEvent)
	users.Get("/events/:eventId/requests", s.ListEventRequests)
	users.Patch("/events/:eventId/requests", s.UpdateEventRequests)

	users.Get("/requests", s.ListOwnRequests)
	users.Post("/requests", s.CreateRequest)
	users.Patch("/requests/:requestId/cancel", s.CancelRequest)

	users.Get("/comments", s.ListOwnComments)
	users.Post("/comments", s.CreateComment)
	users.Patch("/comments/:commentId", s.UpdateComment)
	users.Delete("/comments/:commentId", s.DeleteComment)

	// Public surface
	app.Get("/events", s.SearchEvents)
	app.Get("/events/:eventId", s.GetEvent)
	app.Get("/categories", s.ListCategories)
	app.Get("/categories/:catId", s.GetCategory)
	app.Get("/compilations", s.ListCompilations)
	app.Get("/compilations/:compId", s.GetCompilation)
	app.Get("/comments", s.PublicListComments)
	app.Get("/comments/:commentId", s.GetComment)
}

// HealthCheck reports service liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
