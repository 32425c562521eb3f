package models

import (
	"gorm.io/datatypes"
)

// QuestionType is the shape of one quiz question.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// ValidQuestionType reports whether t is a known question type.
func ValidQuestionType(t QuestionType) bool {
	return t == QuestionText || t == QuestionMultipleChoice || t == QuestionTrueFalse
}

// Quiz is the "how well do you know the couple" game attached to an
// invitation. One quiz per invitation.
type Quiz struct {
	BaseModel
	InvitationID  uint   `gorm:"uniqueIndex;not null" json:"-"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	IsActive      bool   `gorm:"default:false;index" json:"is_active"`
	RewardMessage string `gorm:"type:text" json:"reward_message"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// QuizQuestion is one question of a quiz. Options only applies to
// multiple_choice questions and is stored as a JSONB string array.
type QuizQuestion struct {
	BaseModel
	QuizID        uint                         `gorm:"index;not null" json:"-"`
	Text          string                       `gorm:"type:text;not null" json:"text"`
	Type          QuestionType                 `gorm:"type:varchar(20);not null" json:"type"`
	Options       datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"options,omitempty"`
	CorrectAnswer string                       `gorm:"type:text" json:"correct_answer"`
	DisplayOrder  int                          `gorm:"not null;default:0;index" json:"display_order"`
}
