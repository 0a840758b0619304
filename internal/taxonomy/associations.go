package taxonomy

import (
	"errors"

	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/types"
	"gorm.io/gorm"
)

var (
	ErrAssociationExists   = errors.New("user is already associated with this attribute")
	ErrAssociationNotFound = errors.New("user attribute association not found")
	ErrInvalidInterest     = errors.New("interest level must be between 1 and 10")
	ErrInvalidEnjoyment    = errors.New("enjoyment rating must be between 1 and 10")
	ErrInvalidExperience   = errors.New("experience years must not be negative")
	ErrInvalidWeeklyTime   = errors.New("weekly time spent must not be negative")
	ErrInvalidSkillLevel   = errors.New("unknown skill level")
	ErrInvalidStatus       = errors.New("unknown association status")
)

type AddAssociationInput struct {
	AttributeID     uint
	InterestLevel   int
	SkillLevel      string
	ExperienceYears *int
	Frequency       string
	TimeSpentWeekly *int
	EnjoymentRating *int
	IsPublic        *bool
	IsFeatured      bool
	Notes           string
}

// AddAssociation creates the (user, attribute) pair and recomputes the
// attribute's popularity inside the same transaction. Adding an existing
// pair is an error; use UpdateAssociation instead.
func (s *Service) AddAssociation(userID uint, input AddAssociationInput) (models.UserAttribute, error) {
	if input.InterestLevel < 1 || input.InterestLevel > 10 {
		return models.UserAttribute{}, ErrInvalidInterest
	}

	if input.EnjoymentRating != nil && (*input.EnjoymentRating < 1 || *input.EnjoymentRating > 10) {
		return models.UserAttribute{}, ErrInvalidEnjoyment
	}

	if input.ExperienceYears != nil && *input.ExperienceYears < 0 {
		return models.UserAttribute{}, ErrInvalidExperience
	}

	if input.TimeSpentWeekly != nil && *input.TimeSpentWeekly < 0 {
		return models.UserAttribute{}, ErrInvalidWeeklyTime
	}

	skillLevel := input.SkillLevel

	if skillLevel == "" {
		skillLevel = "beginner"
	}

	if !types.IsValidSkillLevel(skillLevel) {
		return models.UserAttribute{}, ErrInvalidSkillLevel
	}

	isPublic := true

	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	var association models.UserAttribute

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var attribute models.Attribute

		if err := tx.Where("id = ? AND is_active = ?", input.AttributeID, true).First(&attribute).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttributeNotFound
			}
			return err
		}

		var count int64

		err := tx.Model(&models.UserAttribute{}).
			Where("user_id = ? AND attribute_id = ?", userID, input.AttributeID).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrAssociationExists
		}

		association = models.UserAttribute{
			UserID:          userID,
			AttributeID:     input.AttributeID,
			InterestLevel:   input.InterestLevel,
			SkillLevel:      skillLevel,
			ExperienceYears: input.ExperienceYears,
			Frequency:       input.Frequency,
			TimeSpentWeekly: input.TimeSpentWeekly,
			EnjoymentRating: input.EnjoymentRating,
			Status:          "active",
			IsPublic:        isPublic,
			IsFeatured:      input.IsFeatured,
			Notes:           input.Notes,
		}

		if err := tx.Create(&association).Error; err != nil {
			return err
		}

		return recomputePopularity(tx, input.AttributeID)
	})

	return association, err
}

type UpdateAssociationInput struct {
	InterestLevel   *int
	SkillLevel      *string
	ExperienceYears *int
	Frequency       *string
	TimeSpentWeekly *int
	EnjoymentRating *int
	Status          *string
	IsPublic        *bool
	IsFeatured      *bool
	Notes           *string
}

// UpdateAssociation patches the pair; a status change re-derives popularity
// because only "active" rows count.
func (s *Service) UpdateAssociation(userID, attributeID uint, input UpdateAssociationInput) (models.UserAttribute, error) {
	if input.InterestLevel != nil && (*input.InterestLevel < 1 || *input.InterestLevel > 10) {
		return models.UserAttribute{}, ErrInvalidInterest
	}

	if input.EnjoymentRating != nil && (*input.EnjoymentRating < 1 || *input.EnjoymentRating > 10) {
		return models.UserAttribute{}, ErrInvalidEnjoyment
	}

	if input.ExperienceYears != nil && *input.ExperienceYears < 0 {
		return models.UserAttribute{}, ErrInvalidExperience
	}

	if input.TimeSpentWeekly != nil && *input.TimeSpentWeekly < 0 {
		return models.UserAttribute{}, ErrInvalidWeeklyTime
	}

	if input.SkillLevel != nil && !types.IsValidSkillLevel(*input.SkillLevel) {
		return models.UserAttribute{}, ErrInvalidSkillLevel
	}

	if input.Status != nil && !types.IsValidAssociationStatus(*input.Status) {
		return models.UserAttribute{}, ErrInvalidStatus
	}

	var association models.UserAttribute

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND attribute_id = ?", userID, attributeID).First(&association).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssociationNotFound
			}
			return err
		}

		if input.InterestLevel != nil {
			association.InterestLevel = *input.InterestLevel
		}
		if input.SkillLevel != nil {
			association.SkillLevel = *input.SkillLevel
		}
		if input.ExperienceYears != nil {
			association.ExperienceYears = input.ExperienceYears
		}
		if input.Frequency != nil {
			association.Frequency = *input.Frequency
		}
		if input.TimeSpentWeekly != nil {
			association.TimeSpentWeekly = input.TimeSpentWeekly
		}
		if input.EnjoymentRating != nil {
			association.EnjoymentRating = input.EnjoymentRating
		}
		if input.Status != nil {
			association.Status = *input.Status
		}
		if input.IsPublic != nil {
			association.IsPublic = *input.IsPublic
		}
		if input.IsFeatured != nil {
			association.IsFeatured = *input.IsFeatured
		}
		if input.Notes != nil {
			association.Notes = *input.Notes
		}

		if err := tx.Save(&association).Error; err != nil {
			return err
		}

		return recomputePopularity(tx, attributeID)
	})

	return association, err
}

// RemoveAssociation hard-deletes the pair and recomputes popularity in the
// same transaction.
func (s *Service) RemoveAssociation(userID, attributeID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().
			Where("user_id = ? AND attribute_id = ?", userID, attributeID).
			Delete(&models.UserAttribute{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrAssociationNotFound
		}

		return recomputePopularity(tx, attributeID)
	})
}

// UserAssociations lists a user's associations with attributes preloaded,
// optionally filtered by status.
func (s *Service) UserAssociations(userID uint, status string) ([]models.UserAttribute, error) {
	query := s.db.Preload("Attribute").Preload("Attribute.Category").Where("user_id = ?", userID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var associations []models.UserAttribute

	err := query.Order("is_featured DESC, interest_level DESC").Find(&associations).Error

	return associations, err
}

// ActiveAttributeIDs returns the ids of a user's active associations, the
// input to overlap scoring.
func (s *Service) ActiveAttributeIDs(userID uint) ([]uint, error) {
	var ids []uint

	err := s.db.Model(&models.UserAttribute{}).
		Where("user_id = ? AND status = ?", userID, "active").
		Pluck("attribute_id", &ids).Error

	return ids, err
}

// recomputePopularity re-derives an attribute's popularity as the count of
// its active associations. Runs in the caller's transaction so the score is
// never stale outside it.
func recomputePopularity(tx *gorm.DB, attributeID uint) error {
	var count int64

	err := tx.Model(&models.UserAttribute{}).
		Where("attribute_id = ? AND status = ?", attributeID, "active").
		Count(&count).Error

	if err != nil {
		return err
	}

	return tx.Model(&models.Attribute{}).
		Where("id = ?", attributeID).
		Update("popularity_score", count).Error
}
