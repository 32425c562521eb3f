package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVPStatus is the guest's reply state. Transitions are free-form: a guest
// may flip between confirmed and declined at any time, and the RSVP deadline
// is informational only.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// ValidRSVPStatus reports whether s is a known reply state.
func ValidRSVPStatus(s RSVPStatus) bool {
	return s == RSVPPending || s == RSVPConfirmed || s == RSVPDeclined
}

// GuestSide groups guests for the stats screen.
type GuestSide string

const (
	SidePartnerOne GuestSide = "partner_one"
	SidePartnerTwo GuestSide = "partner_two"
	SideBoth       GuestSide = "both"
)

// Guest is one invitee of an invitation. LinkKey is the per-guest short
// identifier embedded in the personal invitation link /i/<key>; Token is the
// opaque identifier used for guest-specific preview URLs.
type Guest struct {
	BaseModel
	InvitationID uint      `gorm:"index;not null" json:"-"`
	LinkKey      string    `gorm:"type:varchar(14);uniqueIndex;not null" json:"link_key"`
	Token        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"token"`

	Name  string    `gorm:"type:varchar(150);not null" json:"name"`
	Email string    `gorm:"type:varchar(150);index" json:"email"`
	Phone string    `gorm:"type:varchar(30)" json:"phone"`
	Side  GuestSide `gorm:"type:varchar(20);default:'both'" json:"side"`

	Status      RSVPStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RespondedAt *time.Time `gorm:"type:timestamptz" json:"responded_at"`
	Message     string     `gorm:"type:text" json:"message"`

	// Seating / plus-one / dietary metadata, all optional.
	TableName          string `gorm:"type:varchar(100)" json:"table_name"`
	PlusOnes           int    `gorm:"default:0" json:"plus_ones"`
	PlusOneNames       string `gorm:"type:text" json:"plus_one_names"`
	DietaryRestrictions string `gorm:"type:text" json:"dietary_restrictions"`

	EmailSentAt *time.Time `gorm:"type:timestamptz" json:"email_sent_at"`
}

// InvitationPath is the site-relative personal link for this guest.
func (g Guest) InvitationPath() string {
	return "/i/" + g.LinkKey
}
