package models

// SocialWallPost is a guest-authored message with optional photo, shown on
// the invitation's social wall. In moderated mode only approved posts are
// visible to other guests.
type SocialWallPost struct {
	BaseModel
	InvitationID uint   `gorm:"index;not null" json:"-"`
	GuestID      *uint  `gorm:"index" json:"guest_id,omitempty"`
	AuthorName   string `gorm:"type:varchar(150);not null" json:"author_name"`
	Content      string `gorm:"type:text;not null" json:"content"`
	PhotoURL     string `gorm:"type:varchar(500)" json:"photo_url"`
	IsApproved   bool   `gorm:"default:false;index" json:"is_approved"`

	Comments []SocialWallComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// SocialWallComment is a reply on a post, moderated the same way.
type SocialWallComment struct {
	BaseModel
	PostID     uint   `gorm:"index;not null" json:"-"`
	GuestID    *uint  `gorm:"index" json:"guest_id,omitempty"`
	AuthorName string `gorm:"type:varchar(150);not null" json:"author_name"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsApproved bool   `gorm:"default:false;index" json:"is_approved"`
}
