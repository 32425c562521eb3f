package routes

import (
	"github.com/gofiber/fiber/v2"

	panel_handlers "loventy.org/handlers/panel"
	"loventy.org/middlewares"
)

// registerPanelRoutes defines the owner-facing editor under /panel.
func registerPanelRoutes(app *fiber.App, deps handlerDeps) {
	invitationHandler := panel_handlers.NewPanelInvitationHandler(deps.invitationService)
	designHandler := panel_handlers.NewPanelDesignHandler(deps.designService, deps.invitationService, deps.eventService, deps.quizService, deps.wallService, deps.catalog)
	guestHandler := panel_handlers.NewPanelGuestHandler(deps.guestService, deps.invitationService)
	eventHandler := panel_handlers.NewPanelEventHandler(deps.eventService, deps.invitationService)
	quizHandler := panel_handlers.NewPanelQuizHandler(deps.quizService, deps.invitationService)
	wallHandler := panel_handlers.NewPanelWallHandler(deps.wallService, deps.invitationService)

	panelGroup := app.Group("/panel")
	panelGroup.Use(middlewares.AuthMiddleware)

	// Invitations
	panelGroup.Get("/invitations", invitationHandler.ListInvitations)
	panelGroup.Get("/invitations/create", invitationHandler.ShowCreateInvitation)
	panelGroup.Post("/invitations/create", invitationHandler.CreateInvitation)
	panelGroup.Get("/invitations/update/:id", invitationHandler.ShowUpdateInvitation)
	panelGroup.Post("/invitations/update/:id", invitationHandler.UpdateInvitation)
	panelGroup.Post("/invitations/publish/:id", invitationHandler.PublishInvitation)
	panelGroup.Post("/invitations/archive/:id", invitationHandler.ArchiveInvitation)
	panelGroup.Post("/invitations/delete/:id", invitationHandler.DeleteInvitation)
	panelGroup.Delete("/invitations/delete/:id", invitationHandler.DeleteInvitation)

	// Design editor API + preview
	panelGroup.Get("/invitations/:id/design", designHandler.GetSettings)
	panelGroup.Post("/invitations/:id/design/section", designHandler.SetSectionField)
	panelGroup.Post("/invitations/:id/design/global", designHandler.SetGlobalField)
	panelGroup.Get("/invitations/:id/preview", designHandler.Preview)
	panelGroup.Get("/design/catalog", designHandler.GetCatalog)

	// Wedding program
	panelGroup.Post("/invitations/:id/events", eventHandler.CreateEvent)
	panelGroup.Post("/invitations/:id/events/:eventID", eventHandler.UpdateEvent)
	panelGroup.Post("/invitations/:id/events/:eventID/delete", eventHandler.DeleteEvent)
	panelGroup.Post("/invitations/:id/events/:eventID/reorder", eventHandler.ReorderEvent)

	// Guest list
	panelGroup.Get("/invitations/:id/guests", guestHandler.ListGuests)
	panelGroup.Post("/invitations/:id/guests", guestHandler.CreateGuest)
	panelGroup.Post("/invitations/:id/guests/import", guestHandler.ImportGuests)
	panelGroup.Post("/invitations/:id/guests/delete", guestHandler.DeleteGuests)
	panelGroup.Post("/invitations/:id/guests/send", guestHandler.SendInvitations)
	panelGroup.Post("/invitations/:id/guests/:guestID", guestHandler.UpdateGuest)
	panelGroup.Get("/invitations/:id/guests/:guestID/message", guestHandler.PreviewMessage)

	// Quiz editor
	panelGroup.Get("/invitations/:id/quiz", quizHandler.ShowQuiz)
	panelGroup.Post("/invitations/:id/quiz", quizHandler.UpdateQuiz)
	panelGroup.Post("/invitations/:id/quiz/questions", quizHandler.CreateQuestion)
	panelGroup.Post("/invitations/:id/quiz/questions/:questionID", quizHandler.UpdateQuestion)
	panelGroup.Post("/invitations/:id/quiz/questions/:questionID/delete", quizHandler.DeleteQuestion)
	panelGroup.Post("/invitations/:id/quiz/questions/:questionID/reorder", quizHandler.ReorderQuestion)

	// Social wall moderation
	panelGroup.Get("/invitations/:id/wall", wallHandler.ShowWall)
	panelGroup.Post("/invitations/:id/wall/posts/:postID/moderate", wallHandler.ModeratePost)
	panelGroup.Post("/invitations/:id/wall/posts/:postID/delete", wallHandler.DeletePost)
	panelGroup.Post("/invitations/:id/wall/comments/:commentID/moderate", wallHandler.ModerateComment)

	// Media uploads, only when the object store came up
	if deps.mediaService != nil {
		mediaHandler := panel_handlers.NewPanelMediaHandler(deps.mediaService, deps.invitationService)
		panelGroup.Post("/invitations/:id/media", mediaHandler.Upload)
		panelGroup.Delete("/invitations/:id/media/:mediaID", mediaHandler.Delete)
	} else {
		panelGroup.Post("/invitations/:id/media", mediaUnavailable)
		panelGroup.Delete("/invitations/:id/media/:mediaID", mediaUnavailable)
	}
}

func mediaUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "le stockage d'images est indisponible"})
}
