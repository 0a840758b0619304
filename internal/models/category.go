package models

import "gorm.io/gorm"

// Category is a taxonomy node. Level and Path are derived from the parent
// chain and recomputed by the taxonomy service on every create or re-parent;
// they are never accepted from callers.
type Category struct {
	gorm.Model

	Code        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	NameEn      string
	Description string
	ParentID    *uint  `gorm:"index"`
	Level       int    `gorm:"not null"`
	Path        string `gorm:"not null;index"`
	SortOrder   int    `gorm:"default:0"`
	IsActive    bool   `gorm:"default:true"`
	IsSystem    bool   `gorm:"default:false"`
	CreatedBy   *uint

	// Relationships
	Parent     *Category   `gorm:"foreignKey:ParentID"`
	Children   []Category  `gorm:"foreignKey:ParentID"`
	Attributes []Attribute `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
