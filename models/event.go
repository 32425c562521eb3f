package models

import "time"

// EventType classifies one program entry.
type EventType string

const (
	EventCeremony  EventType = "ceremony"
	EventReception EventType = "reception"
	EventCocktail  EventType = "cocktail"
	EventDinner    EventType = "dinner"
	EventParty     EventType = "party"
	EventOther     EventType = "other"
)

// ValidEventType reports whether t is a known program entry type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventCeremony, EventReception, EventCocktail, EventDinner, EventParty, EventOther:
		return true
	}
	return false
}

// Event is one entry of the wedding program. DisplayOrder defines the render
// sequence; reordering swaps adjacent orders only.
type Event struct {
	BaseModel
	InvitationID uint      `gorm:"index;not null" json:"-"`
	Type         EventType `gorm:"type:varchar(20);not null;default:'other'" json:"type"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	StartTime    time.Time `gorm:"type:timestamptz" json:"start_time"`
	Location     string    `gorm:"type:varchar(255)" json:"location"`
	Address      string    `gorm:"type:text" json:"address"`

	// Plan B, for outdoor entries with a weather fallback.
	PlanBLocation string `gorm:"type:varchar(255)" json:"plan_b_location"`
	PlanBAddress  string `gorm:"type:text" json:"plan_b_address"`

	DisplayOrder int `gorm:"not null;default:0;index" json:"display_order"`
}
