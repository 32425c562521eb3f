package models

import (
	"time"
)

// InvitationDetail carries the editable content of an invitation: couple
// names, event coordinates and the long tail of optional fields the editor
// panels expose. One row per invitation.
type InvitationDetail struct {
	BaseModel
	InvitationID uint `gorm:"uniqueIndex;not null" json:"-"`

	// Couple and headline
	PartnerOneName string `gorm:"type:varchar(100);not null" json:"partner_one_name"`
	PartnerTwoName string `gorm:"type:varchar(100);not null" json:"partner_two_name"`
	Title          string `gorm:"type:varchar(255)" json:"title"`
	Announcement   string `gorm:"type:text" json:"announcement"`
	CoupleMessage  string `gorm:"type:text" json:"couple_message"`

	// Main event coordinates
	EventDateTime time.Time  `gorm:"index;type:timestamptz" json:"event_date_time"`
	Timezone      string     `gorm:"type:varchar(50);default:'UTC'" json:"timezone"`
	VenueName     string     `gorm:"type:varchar(255)" json:"venue_name"`
	VenueAddress  string     `gorm:"type:text" json:"venue_address"`
	VenueMapURL   string     `gorm:"type:varchar(500)" json:"venue_map_url"`
	RSVPDeadline  *time.Time `gorm:"index;type:timestamptz" json:"rsvp_deadline"`
	DressCode     string     `gorm:"type:varchar(255)" json:"dress_code"`

	// Welcome / story
	WelcomeTitle   string `gorm:"type:varchar(255)" json:"welcome_title"`
	WelcomeMessage string `gorm:"type:text" json:"welcome_message"`
	CoupleStory    string `gorm:"type:text" json:"couple_story"`

	// Practical information
	TransportInfo string `gorm:"type:text" json:"transport_info"`
	ParkingInfo   string `gorm:"type:text" json:"parking_info"`
	HotelName     string `gorm:"type:varchar(255)" json:"hotel_name"`
	HotelInfo     string `gorm:"type:text" json:"hotel_info"`

	// Policies
	ChildrenPolicy string `gorm:"type:text" json:"children_policy"`
	PhotoPolicy    string `gorm:"type:text" json:"photo_policy"`
	GiftPolicy     string `gorm:"type:text" json:"gift_policy"`

	// Honeymoon fund
	HoneymoonFundEnabled bool   `gorm:"default:false" json:"honeymoon_fund_enabled"`
	HoneymoonFundTitle   string `gorm:"type:varchar(255)" json:"honeymoon_fund_title"`
	HoneymoonFundMessage string `gorm:"type:text" json:"honeymoon_fund_message"`
	HoneymoonFundLink    string `gorm:"type:varchar(500)" json:"honeymoon_fund_link"`

	// Music
	PlaylistURL            string `gorm:"type:varchar(500)" json:"playlist_url"`
	MusicSuggestionsOn     bool   `gorm:"default:false" json:"music_suggestions_enabled"`
	PreferredMusicStyle    string `gorm:"type:varchar(255)" json:"preferred_music_style"`
	FirstDanceSong         string `gorm:"type:varchar(255)" json:"first_dance_song"`
	MusicSectionTitle      string `gorm:"type:varchar(255)" json:"music_section_title"`
	InteractiveSectionNote string `gorm:"type:text" json:"interactive_section_note"`

	// Feature toggles surfaced to the interactive section
	QuizEnabled       bool `gorm:"default:false" json:"quiz_enabled"`
	SocialWallEnabled bool `gorm:"default:false" json:"social_wall_enabled"`
	SocialWallModerated bool `gorm:"default:true" json:"social_wall_moderated"`

	// Contact & registry
	ContactPersonName  string `gorm:"type:varchar(150)" json:"contact_person_name"`
	ContactPhone       string `gorm:"type:varchar(30)" json:"contact_phone"`
	ContactEmail       string `gorm:"type:varchar(150)" json:"contact_email"`
	WeddingWebsite     string `gorm:"type:varchar(500)" json:"wedding_website"`
	RegistryLink       string `gorm:"type:varchar(500)" json:"registry_link"`

	// Additional free-form info
	AdditionalInfo     string `gorm:"type:text" json:"additional_info"`
	PlanBInfo          string `gorm:"type:text" json:"plan_b_info"`

	// RSVP behaviour
	AllowPlusOnes bool `gorm:"default:true" json:"allow_plus_ones"`
	MaxPlusOnes   int  `gorm:"default:1" json:"max_plus_ones"`
	CollectGuestNotes bool `gorm:"default:true" json:"collect_guest_notes"`
}

// HasContactInfo reports whether any contact-style field is populated. The
// contact section renders nothing when this is false, regardless of the
// section's visibility toggle.
func (d InvitationDetail) HasContactInfo() bool {
	return d.ContactPersonName != "" || d.ContactPhone != "" || d.ContactEmail != "" ||
		d.WeddingWebsite != "" || d.RegistryLink != ""
}

// HasPolicies reports whether any policy text is set.
func (d InvitationDetail) HasPolicies() bool {
	return d.ChildrenPolicy != "" || d.PhotoPolicy != "" || d.GiftPolicy != ""
}

// HasMusic reports whether the music section has any backing data.
func (d InvitationDetail) HasMusic() bool {
	return d.PlaylistURL != "" || d.MusicSuggestionsOn || d.PreferredMusicStyle != "" ||
		d.FirstDanceSong != ""
}
