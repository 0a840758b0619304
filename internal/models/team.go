package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Team belongs to one event. A team that drops to zero members is kept:
// posts and recommendations may still reference it.
type Team struct {
	gorm.Model

	EventID      uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	SaySomething string

	// Relationships
	Event        Event              `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members      []EventParticipant `gorm:"foreignKey:TeamID"`
	MemberSkills []TeamMemberSkill  `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Posts        []TeamPost         `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// TeamMemberSkill holds the caller-chosen skill tags for one member of one
// team: at most 2 ids, each from the fixed 36-entry catalog.
type TeamMemberSkill struct {
	gorm.Model

	TeamID   uint                       `gorm:"not null;uniqueIndex:idx_team_member,priority:1"`
	UserID   uint                       `gorm:"not null;uniqueIndex:idx_team_member,priority:2"`
	SkillIDs datatypes.JSONSlice[int64] `gorm:"type:jsonb"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// TeamPost is authored by a team member and soft-deleted on removal. Posts
// outlive the author's membership.
type TeamPost struct {
	gorm.Model

	TeamID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Content  string `gorm:"not null"`
	IsActive bool   `gorm:"default:true"`

	// Relationships
	Team   Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
