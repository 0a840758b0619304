package models

import (
	"time"

	"gorm.io/gorm"
)

// Recommendation statuses. Accepted, rejected and expired are terminal.
const (
	RecommendationPending  = "pending"
	RecommendationAccepted = "accepted"
	RecommendationRejected = "rejected"
	RecommendationExpired  = "expired"
)

// Recommendation is a time-bounded suggestion pairing a user with a candidate
// team. Only pending, unexpired rows are ever surfaced; expiry is a hard
// boundary checked at the start of every operation on the row.
type Recommendation struct {
	gorm.Model

	UserID    uint `gorm:"not null;index"`
	TeamID    uint `gorm:"not null;index"`
	Reason    string
	Score     float64   `gorm:"not null"`
	Status    string    `gorm:"default:'pending';index"`
	ExpiresAt time.Time `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
