package models

import (
	"time"

	"gorm.io/gorm"
)

// CognitiveFunction is one of Jung's 8 fixed typing dimensions
// ({thinking, feeling, sensing, intuition} x {introverted, extraverted}).
// The 8 rows are seeded at migration time and never mutated.
type CognitiveFunction struct {
	gorm.Model

	Code         string `gorm:"uniqueIndex;not null"` // Ti, Te, Fi, Fe, Si, Se, Ni, Ne
	Name         string `gorm:"not null"`
	FullName     string `gorm:"not null"`
	Description  string
	FunctionType string `gorm:"not null"` // thinking, feeling, sensing, intuition
	Attitude     string `gorm:"not null"` // introverted, extraverted
	IsActive     bool   `gorm:"default:true"`
}

// UserCognitiveFunction is a user's scored value for one function. A complete
// profile has 8 rows whose ranks form a permutation of 1..8.
type UserCognitiveFunction struct {
	gorm.Model

	UserID              uint `gorm:"not null;uniqueIndex:idx_user_function,priority:1"`
	CognitiveFunctionID uint `gorm:"not null;uniqueIndex:idx_user_function,priority:2"`

	RawScore         *int     // 0-100
	NormalizedScore  *float64 // 0-100
	FunctionRank     *int     // 1-8, unique per user
	ConfidenceLevel  float64  `gorm:"default:0.5"` // 0-1
	AssessmentSource string   `gorm:"default:'self_assessment'"`
	Notes            string
	AssessedAt       time.Time

	// Relationships
	User              User              `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CognitiveFunction CognitiveFunction `gorm:"foreignKey:CognitiveFunctionID"`
}
