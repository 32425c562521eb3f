package design

import (
	"sort"

	"loventy.org/models"
)

// PreviewInput is everything the section builders read. Guest is the
// optional personalization context of a per-guest link.
type PreviewInput struct {
	Detail models.InvitationDetail
	Events []models.Event
	Quiz   *models.Quiz
	Guest  *models.Guest
	Posts  []models.SocialWallPost
}

// SectionContent is the view model of one section: the template that renders
// it and the data it binds. Builders return nil when the backing data is
// entirely absent; this data-driven layer sits beneath the explicit visible
// toggle, and both must be satisfied for a section to appear.
type SectionContent struct {
	Key      models.SectionKey
	Template string
	Data     map[string]any
}

type sectionBuilder func(PreviewInput) *SectionContent

// builders is keyed by section, in no particular order; the composer walks
// models.SectionOrder.
var builders = map[models.SectionKey]sectionBuilder{
	models.SectionHero:        buildHero,
	models.SectionWelcome:     buildWelcome,
	models.SectionProgram:     buildProgram,
	models.SectionHoneymoon:   buildHoneymoon,
	models.SectionMusic:       buildMusic,
	models.SectionInteractive: buildInteractive,
	models.SectionContact:     buildContact,
	models.SectionPolicies:    buildPolicies,
	models.SectionAdditional:  buildAdditional,
	models.SectionRSVP:        buildRSVP,
}

// buildHero always renders: couple names and the event date are the
// invitation's reason to exist.
func buildHero(in PreviewInput) *SectionContent {
	return &SectionContent{
		Key:      models.SectionHero,
		Template: "sections/hero",
		Data: map[string]any{
			"PartnerOneName": in.Detail.PartnerOneName,
			"PartnerTwoName": in.Detail.PartnerTwoName,
			"Title":          in.Detail.Title,
			"Announcement":   in.Detail.Announcement,
			"EventDateTime":  in.Detail.EventDateTime,
			"VenueName":      in.Detail.VenueName,
			"VenueAddress":   in.Detail.VenueAddress,
			"VenueMapURL":    in.Detail.VenueMapURL,
			"DressCode":      in.Detail.DressCode,
			"RSVPDeadline":   in.Detail.RSVPDeadline,
			"Guest":          in.Guest,
		},
	}
}

func buildWelcome(in PreviewInput) *SectionContent {
	d := in.Detail
	if d.WelcomeTitle == "" && d.WelcomeMessage == "" && d.CoupleStory == "" && d.CoupleMessage == "" {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionWelcome,
		Template: "sections/welcome",
		Data: map[string]any{
			"WelcomeTitle":   d.WelcomeTitle,
			"WelcomeMessage": d.WelcomeMessage,
			"CoupleStory":    d.CoupleStory,
			"CoupleMessage":  d.CoupleMessage,
		},
	}
}

func buildProgram(in PreviewInput) *SectionContent {
	if len(in.Events) == 0 {
		return nil
	}
	events := make([]models.Event, len(in.Events))
	copy(events, in.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DisplayOrder < events[j].DisplayOrder
	})
	return &SectionContent{
		Key:      models.SectionProgram,
		Template: "sections/program",
		Data:     map[string]any{"Events": events},
	}
}

func buildHoneymoon(in PreviewInput) *SectionContent {
	d := in.Detail
	if !d.HoneymoonFundEnabled {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionHoneymoon,
		Template: "sections/honeymoon",
		Data: map[string]any{
			"Title":   d.HoneymoonFundTitle,
			"Message": d.HoneymoonFundMessage,
			"Link":    d.HoneymoonFundLink,
		},
	}
}

func buildMusic(in PreviewInput) *SectionContent {
	d := in.Detail
	if !d.HasMusic() {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionMusic,
		Template: "sections/music",
		Data: map[string]any{
			"SectionTitle":        d.MusicSectionTitle,
			"PlaylistURL":         d.PlaylistURL,
			"SuggestionsEnabled":  d.MusicSuggestionsOn,
			"PreferredMusicStyle": d.PreferredMusicStyle,
			"FirstDanceSong":      d.FirstDanceSong,
		},
	}
}

// buildInteractive renders the quiz and/or the social wall. It disappears
// when neither feature is enabled, and an inactive quiz counts as absent.
func buildInteractive(in PreviewInput) *SectionContent {
	d := in.Detail
	quizOn := d.QuizEnabled && in.Quiz != nil && in.Quiz.IsActive && len(in.Quiz.Questions) > 0
	wallOn := d.SocialWallEnabled
	if !quizOn && !wallOn {
		return nil
	}
	data := map[string]any{
		"Note":       d.InteractiveSectionNote,
		"QuizOn":     quizOn,
		"WallOn":     wallOn,
		"Moderated":  d.SocialWallModerated,
	}
	if quizOn {
		data["Quiz"] = in.Quiz
	}
	if wallOn {
		data["Posts"] = visiblePosts(in.Posts, d.SocialWallModerated)
	}
	return &SectionContent{Key: models.SectionInteractive, Template: "sections/interactive", Data: data}
}

// visiblePosts filters the wall for moderated mode: only approved posts and
// approved comments show.
func visiblePosts(posts []models.SocialWallPost, moderated bool) []models.SocialWallPost {
	if !moderated {
		return posts
	}
	out := make([]models.SocialWallPost, 0, len(posts))
	for _, p := range posts {
		if !p.IsApproved {
			continue
		}
		comments := make([]models.SocialWallComment, 0, len(p.Comments))
		for _, c := range p.Comments {
			if c.IsApproved {
				comments = append(comments, c)
			}
		}
		p.Comments = comments
		out = append(out, p)
	}
	return out
}

func buildContact(in PreviewInput) *SectionContent {
	d := in.Detail
	if !d.HasContactInfo() {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionContact,
		Template: "sections/contact",
		Data: map[string]any{
			"ContactPersonName": d.ContactPersonName,
			"ContactPhone":      d.ContactPhone,
			"ContactEmail":      d.ContactEmail,
			"WeddingWebsite":    d.WeddingWebsite,
			"RegistryLink":      d.RegistryLink,
		},
	}
}

func buildPolicies(in PreviewInput) *SectionContent {
	d := in.Detail
	if !d.HasPolicies() {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionPolicies,
		Template: "sections/policies",
		Data: map[string]any{
			"ChildrenPolicy": d.ChildrenPolicy,
			"PhotoPolicy":    d.PhotoPolicy,
			"GiftPolicy":     d.GiftPolicy,
		},
	}
}

func buildAdditional(in PreviewInput) *SectionContent {
	d := in.Detail
	if d.AdditionalInfo == "" && d.PlanBInfo == "" && d.TransportInfo == "" &&
		d.ParkingInfo == "" && d.HotelName == "" && d.HotelInfo == "" {
		return nil
	}
	return &SectionContent{
		Key:      models.SectionAdditional,
		Template: "sections/additional",
		Data: map[string]any{
			"AdditionalInfo": d.AdditionalInfo,
			"PlanBInfo":      d.PlanBInfo,
			"TransportInfo":  d.TransportInfo,
			"ParkingInfo":    d.ParkingInfo,
			"HotelName":      d.HotelName,
			"HotelInfo":      d.HotelInfo,
		},
	}
}

// buildRSVP always renders the reply form; the deadline is shown but never
// enforced here.
func buildRSVP(in PreviewInput) *SectionContent {
	return &SectionContent{
		Key:      models.SectionRSVP,
		Template: "sections/rsvp",
		Data: map[string]any{
			"Deadline":          in.Detail.RSVPDeadline,
			"AllowPlusOnes":     in.Detail.AllowPlusOnes,
			"MaxPlusOnes":       in.Detail.MaxPlusOnes,
			"CollectGuestNotes": in.Detail.CollectGuestNotes,
			"Guest":             in.Guest,
		},
	}
}
