package routes

import (
	"github.com/gofiber/fiber/v2"

	link_handlers "loventy.org/handlers/link"
)

// registerPublicLinkRoutes defines the guest-facing pages under /i/<key>.
// The key is an invitation key or one guest's personal link key.
func registerPublicLinkRoutes(app *fiber.App, deps handlerDeps) {
	linkHandler := link_handlers.NewLinkHandler(deps.invitationService, deps.guestService, deps.eventService, deps.quizService, deps.wallService, deps.catalog)
	rsvpHandler := link_handlers.NewRSVPHandler(deps.invitationService, deps.guestService, deps.quizService, deps.wallService)

	app.Get("/i/:key", linkHandler.ShowInvitation)
	app.Post("/i/:key/unlock", linkHandler.Unlock)
	app.Post("/i/:key/rsvp", rsvpHandler.SubmitRSVP)
	app.Post("/i/:key/quiz", rsvpHandler.SubmitQuiz)
	app.Post("/i/:key/wall", rsvpHandler.SubmitWallPost)
	app.Post("/i/:key/wall/:postID/comments", rsvpHandler.SubmitWallComment)
}
