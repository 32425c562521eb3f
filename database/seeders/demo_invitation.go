package seeders

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/models"
)

const demoInvitationKey = "demo-mariage"

// SeedDemoInvitation inserts a complete sample invitation for local
// development: content, program, a few guests, an active quiz. Idempotent on
// its fixed key.
func SeedDemoInvitation(db *gorm.DB) error {
	var existing models.Invitation
	err := db.Where("key = ?", demoInvitationKey).First(&existing).Error
	if err == nil {
		configslog.SLog.Info("Demo invitation already present, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	eventDate := time.Date(time.Now().Year()+1, time.June, 20, 16, 0, 0, 0, time.UTC)
	deadline := eventDate.AddDate(0, -1, 0)

	invitation := models.Invitation{
		Key:         demoInvitationKey,
		OwnerUserID: 1,
		Status:      models.StatusPublished,
		IsEnabled:   true,
		Detail: models.InvitationDetail{
			Title:             "Camille & Julien",
			PartnerOneName:    "Camille",
			PartnerTwoName:    "Julien",
			EventDateTime:     eventDate,
			RSVPDeadline:      &deadline,
			VenueName:         "Château de Valmer",
			VenueAddress:      "Route de Valmer, 37210 Chançay",
			WelcomeTitle:      "Bienvenue",
			WelcomeMessage:    "Nous sommes heureux de vous convier à notre mariage.",
			DressCode:         "Tenue de cocktail",
			SocialWallEnabled: true,
			QuizEnabled:       true,
			AllowPlusOnes:     true,
			MaxPlusOnes:       2,
			CollectGuestNotes: true,
		},
		Events: []models.Event{
			{Type: models.EventCeremony, Title: "Cérémonie", StartTime: eventDate, Location: "Jardin du château", DisplayOrder: 1},
			{Type: models.EventCocktail, Title: "Cocktail", StartTime: eventDate.Add(90 * time.Minute), Location: "Terrasse", DisplayOrder: 2},
			{Type: models.EventDinner, Title: "Dîner", StartTime: eventDate.Add(3 * time.Hour), Location: "Orangerie", DisplayOrder: 3},
		},
		Guests: []models.Guest{
			{LinkKey: "demo-guest-one", Token: uuid.New(), Name: "Marie Dupont", Email: "marie@example.com", Side: models.SidePartnerOne, Status: models.RSVPPending},
			{LinkKey: "demo-guest-two", Token: uuid.New(), Name: "Paul Martin", Email: "paul@example.com", Side: models.SidePartnerTwo, Status: models.RSVPPending},
		},
		Quiz: &models.Quiz{
			Title:         "Connaissez-vous les mariés ?",
			IsActive:      true,
			RewardMessage: "Bravo, vous nous connaissez par cœur !",
			Questions: []models.QuizQuestion{
				{
					Text:          "Où se sont-ils rencontrés ?",
					Type:          models.QuestionMultipleChoice,
					Options:       datatypes.JSONSlice[string]{"À Paris", "À Lyon", "En voyage"},
					CorrectAnswer: "À Lyon",
					DisplayOrder:  1,
				},
				{
					Text:          "Julien a demandé Camille en mariage à la montagne.",
					Type:          models.QuestionTrueFalse,
					CorrectAnswer: "true",
					DisplayOrder:  2,
				},
			},
		},
	}
	invitation.SetDesignSettings(design.DefaultCatalog().DefaultSettings())

	if err := db.Create(&invitation).Error; err != nil {
		return err
	}
	configslog.SLog.Infof("Demo invitation seeded: key=%s", demoInvitationKey)
	return nil
}
