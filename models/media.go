package models

import "github.com/google/uuid"

// MediaImageType distinguishes the three image slots a section can carry.
type MediaImageType string

const (
	MediaBackground MediaImageType = "background"
	MediaCouple     MediaImageType = "couple"
	MediaDecorative MediaImageType = "decorative"
)

// ValidMediaImageType reports whether t is a known image slot.
func ValidMediaImageType(t MediaImageType) bool {
	return t == MediaBackground || t == MediaCouple || t == MediaDecorative
}

// MediaAsset tracks one uploaded image: which invitation/section it belongs
// to and where the object lives in the bucket, so deletes can remove both
// the row and the stored file.
type MediaAsset struct {
	BaseModel
	MediaID      uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"media_id"`
	InvitationID uint           `gorm:"index;not null" json:"-"`
	SectionKey   SectionKey     `gorm:"type:varchar(20);not null" json:"section_key"`
	ImageType    MediaImageType `gorm:"type:varchar(20);not null" json:"image_type"`
	ObjectKey    string         `gorm:"type:varchar(500);not null" json:"object_key"`
	URL          string         `gorm:"type:varchar(500);not null" json:"url"`
	ContentType  string         `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes    int64          `json:"size_bytes"`
}
