package models

import "gorm.io/gorm"

// User is the local profile row for an externally issued identity. Rows are
// provisioned on first authenticated request; the subject id comes from the
// identity provider's token.
type User struct {
	gorm.Model

	SubjectID       string `gorm:"type:uuid;uniqueIndex;not null"`
	Email           string `gorm:"uniqueIndex;not null"`
	Nickname        string `gorm:"not null"`
	MBTI            string
	Motto           string
	SelfDescription string

	// Relationships
	Attributes         []UserAttribute         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CognitiveFunctions []UserCognitiveFunction `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PersonalityTraits  []UserPersonalityTrait  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Participations     []EventParticipant      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Recommendations    []Recommendation        `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
