package models

import (
	"gorm.io/datatypes"
)

// InvitationStatus gates which actions are available on an invitation.
type InvitationStatus string

const (
	StatusDraft     InvitationStatus = "draft"
	StatusPublished InvitationStatus = "published"
	StatusSent      InvitationStatus = "sent"
	StatusArchived  InvitationStatus = "archived"
)

// CanPublish reports whether the invitation may move to published.
func (s InvitationStatus) CanPublish() bool { return s == StatusDraft }

// CanSend reports whether guest emails may be sent for this invitation.
func (s InvitationStatus) CanSend() bool { return s == StatusPublished || s == StatusSent }

// Invitation is the root record of one wedding invitation. Key is the public
// short link segment: the page is served at /i/<key>.
type Invitation struct {
	BaseModel
	Key         string           `gorm:"type:varchar(14);uniqueIndex;not null" json:"key"`
	OwnerUserID uint             `gorm:"index;not null" json:"owner_user_id"`
	Status      InvitationStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	IsEnabled   bool             `gorm:"default:true;index" json:"is_enabled"`

	// PasswordHash protects the public page when set (bcrypt).
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`

	// Design holds the complete DesignSettings tree as JSONB.
	Design datatypes.JSONType[DesignSettings] `gorm:"type:jsonb" json:"design"`

	Detail InvitationDetail `gorm:"foreignKey:InvitationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"detail"`

	Events []Event `gorm:"foreignKey:InvitationID" json:"events,omitempty"`
	Guests []Guest `gorm:"foreignKey:InvitationID" json:"guests,omitempty"`
	Quiz   *Quiz   `gorm:"foreignKey:InvitationID" json:"quiz,omitempty"`
}

// DesignSettings unwraps the JSONB column.
func (i *Invitation) DesignSettings() DesignSettings {
	return i.Design.Data()
}

// SetDesignSettings replaces the stored design tree wholesale.
func (i *Invitation) SetDesignSettings(s DesignSettings) {
	i.Design = datatypes.NewJSONType(s)
}
