package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attribute is a leaf interest/hobby item attached to exactly one category.
// PopularityScore is derived: the count of this attribute's associations with
// status "active". It is recomputed inside the transaction of every
// association write.
type Attribute struct {
	gorm.Model

	CategoryID  uint   `gorm:"not null;index;uniqueIndex:idx_category_code,priority:1;uniqueIndex:idx_category_name,priority:1"`
	Code        string `gorm:"not null;uniqueIndex:idx_category_code,priority:2"`
	Name        string `gorm:"not null;uniqueIndex:idx_category_name,priority:2"`
	NameEn      string
	Description string

	Tags              datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	DifficultyLevel   string                      `gorm:"default:'medium'"`
	TimeCommitment    string                      `gorm:"default:'medium'"`
	CostLevel         string                      `gorm:"default:'medium'"`
	PhysicalIntensity string                      `gorm:"default:'medium'"`
	SocialAspect      string                      `gorm:"default:'both'"`
	IndoorOutdoor     string                      `gorm:"default:'both'"`

	PopularityScore int  `gorm:"default:0;index"`
	IsActive        bool `gorm:"default:true"`

	// Relationships
	Category         Category        `gorm:"foreignKey:CategoryID"`
	UserAssociations []UserAttribute `gorm:"foreignKey:AttributeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// UserAttribute links a user to an attribute with interest/experience
// metadata. A (user, attribute) pair exists at most once.
type UserAttribute struct {
	gorm.Model

	UserID      uint `gorm:"not null;uniqueIndex:idx_user_attribute,priority:1"`
	AttributeID uint `gorm:"not null;index;uniqueIndex:idx_user_attribute,priority:2"`

	InterestLevel   int    `gorm:"not null"` // 1-10
	SkillLevel      string `gorm:"default:'beginner'"`
	ExperienceYears *int
	Frequency       string
	TimeSpentWeekly *int
	EnjoymentRating *int   // 1-10
	Status          string `gorm:"default:'active';index"`
	IsPublic        bool   `gorm:"default:true"`
	IsFeatured      bool   `gorm:"default:false"`
	Notes           string

	// Relationships
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Attribute Attribute `gorm:"foreignKey:AttributeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
