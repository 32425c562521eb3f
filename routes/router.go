package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"loventy.org/configs"
	"loventy.org/configs/configsapp"
	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/middlewares"
	"loventy.org/services"
)

// SetupRoutes wires the global middlewares and every route group.
func SetupRoutes(app *fiber.App, cfg configsapp.Config) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())
	app.Use(middlewares.ResolveIdentity)

	catalog := design.DefaultCatalog()

	var mediaService services.IMediaService
	store, err := services.NewMinioStore(cfg)
	if err != nil {
		// The panel still works without uploads; the media routes then 503.
		configslog.Log.Warn("media store unavailable, image uploads disabled", zap.Error(err))
	} else {
		mediaService = services.NewMediaService(store)
	}

	deps := handlerDeps{
		catalog:           catalog,
		invitationService: services.NewInvitationService(catalog),
		designService:     services.NewDesignService(catalog),
		eventService:      services.NewEventService(),
		guestService:      services.NewGuestService(cfg.BaseURL, nil),
		quizService:       services.NewQuizService(),
		wallService:       services.NewSocialWallService(),
		mediaService:      mediaService,
	}

	registerPanelRoutes(app, deps)
	registerPublicLinkRoutes(app, deps)

	app.Get("/", rootRedirector)
	app.Use(notFoundHandler)
}

// handlerDeps carries the shared service instances into the route groups.
type handlerDeps struct {
	catalog           *design.Catalog
	invitationService services.IInvitationService
	designService     services.IDesignService
	eventService      services.IEventService
	guestService      services.IGuestService
	quizService       services.IQuizService
	wallService       services.ISocialWallService
	mediaService      services.IMediaService
}

func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configs.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		return c.Next()
	}
}

func rootRedirector(c *fiber.Ctx) error {
	if userID, ok := c.Locals("userID").(uint); ok && userID != 0 {
		return c.Redirect("/panel/invitations", fiber.StatusFound)
	}
	return c.Redirect("/panel/invitations", fiber.StatusTemporaryRedirect)
}

func notFoundHandler(c *fiber.Ctx) error {
	accepts := c.Accepts("application/json", "text/html")
	switch accepts {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "page introuvable"})
	default:
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page introuvable"}, "layouts/error_layout")
	}
}
