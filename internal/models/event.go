package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is created out-of-band and never hard-deleted; deactivation hides it
// from listings. Participant counts are derived from EventParticipant rows.
type Event struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	Location    string
	IsActive    bool `gorm:"default:true"`

	// Relationships
	Participants []EventParticipant `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Teams        []Team             `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// EventParticipant tracks the per-(user, event) lifecycle state. TeamID nil
// means joined_no_team; a set TeamID means in_team. The unique index makes
// one membership per event structural; the team invariant (at most one team)
// follows because the team pointer lives on this single row.
type EventParticipant struct {
	gorm.Model

	UserID  uint  `gorm:"not null;uniqueIndex:idx_event_user,priority:2"`
	EventID uint  `gorm:"not null;uniqueIndex:idx_event_user,priority:1"`
	TeamID  *uint `gorm:"index"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team  *Team `gorm:"foreignKey:TeamID"`
}
