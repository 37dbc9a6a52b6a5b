package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/campusdesk/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Catalogs       *handlers.CatalogsHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// known paths and the methods they accept, used to tell a 405 from a 404.
var routeMethods = map[string][]string{
	"/health/live":     {fiber.MethodGet},
	"/health/ready":    {fiber.MethodGet},
	"/catalogs":        {fiber.MethodGet},
	"/tickets/create":  {fiber.MethodPost},
	"/tickets/list":    {fiber.MethodGet},
	"/tickets/details": {fiber.MethodGet},
	"/tickets/update":  {fiber.MethodPut},
	"/tickets/staff":   {fiber.MethodGet},
	"/users/profile":   {fiber.MethodGet},
	"/users/sync":      {fiber.MethodPost},
}

// publicPaths are reachable without a credential. Everything else resolves
// a principal before routing, so unknown paths and method mismatches still
// answer 401 first when no credential is presented.
var publicPaths = map[string]struct{}{
	"/health/live":  {},
	"/health/ready": {},
	"/catalogs":     {},
}

// RegisterRoutes wires HTTP routes behind app-wide principal resolution.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(func(c *fiber.Ctx) error {
		if _, ok := publicPaths[c.Path()]; ok {
			return c.Next()
		}
		return cfg.AuthMiddleware.Handle(c)
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/catalogs", cfg.Catalogs.List)

	tickets := app.Group("/tickets")
	tickets.Post("/create", cfg.Tickets.Create)
	tickets.Get("/list", cfg.Tickets.List)
	tickets.Get("/details", cfg.Tickets.Details)
	tickets.Put("/update", cfg.Tickets.Update)
	tickets.Get("/staff", cfg.Tickets.Staff)

	users := app.Group("/users")
	users.Get("/profile", cfg.Users.Profile)
	users.Post("/sync", cfg.Users.Sync)

	app.Use(fallbackHandler)
}

// fallbackHandler distinguishes a known path hit with the wrong method
// from a path this service does not serve at all.
func fallbackHandler(c *fiber.Ctx) error {
	if methods, ok := routeMethods[c.Path()]; ok {
		for _, method := range methods {
			if c.Method() == method {
				return c.Next()
			}
		}
		return c.Status(http.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Endpoint not found"})
}
