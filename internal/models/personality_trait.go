package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersonalityTrait is a framework-scoped trait definition (big-five,
// enneagram, disc, custom). ValueType declares which value column a user row
// may populate and the bounds it must respect.
type PersonalityTrait struct {
	gorm.Model

	Slug        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description string
	Framework   string `gorm:"not null;index"` // big-five, enneagram, disc, custom

	ValueType  string `gorm:"not null"` // integer, decimal, boolean, text, enum
	MinValue   *float64
	MaxValue   *float64
	EnumValues datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	IsReverseScored bool `gorm:"default:false"`
	DisplayOrder    int  `gorm:"default:0"`
	IsActive        bool `gorm:"default:true"`
}

// UserPersonalityTrait stores exactly one typed value per (user, trait),
// consistent with the trait's declared ValueType. The ego service rejects
// writes that populate the wrong column or more than one.
type UserPersonalityTrait struct {
	gorm.Model

	UserID  uint `gorm:"not null;uniqueIndex:idx_user_trait,priority:1"`
	TraitID uint `gorm:"not null;uniqueIndex:idx_user_trait,priority:2"`

	ValueNumeric *float64
	ValueText    *string
	ValueBoolean *bool

	ConfidenceLevel  float64 `gorm:"default:0.5"` // 0-1
	AssessmentSource string  `gorm:"default:'self_assessment'"`
	AssessedAt       time.Time
	Notes            string
	IsPublic         bool `gorm:"default:true"`

	// Relationships
	User  User             `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Trait PersonalityTrait `gorm:"foreignKey:TraitID"`
}
