package ego

import (
	"errors"

	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTraitNotFound      = errors.New("personality trait not found")
	ErrTraitValueExists   = errors.New("user already has a value for this trait")
	ErrTraitValueMissing  = errors.New("user trait value not found")
	ErrValueTypeMismatch  = errors.New("value does not match the trait's declared type")
	ErrValueOutOfRange    = errors.New("value is outside the trait's declared bounds")
	ErrValueNotInEnum     = errors.New("value is not one of the trait's enum options")
	ErrAmbiguousValue     = errors.New("exactly one value field must be set")
)

// Traits lists active trait definitions, optionally scoped to one framework.
func (s *Service) Traits(framework string) ([]models.PersonalityTrait, error) {
	query := s.db.Where("is_active = ?", true)

	if framework != "" {
		query = query.Where("framework = ?", framework)
	}

	var traits []models.PersonalityTrait

	err := query.Order("framework, display_order, name").Find(&traits).Error

	return traits, err
}

// TraitValue is the tagged variant a caller submits: exactly one field set,
// matching the trait's declared value type.
type TraitValue struct {
	Numeric *float64
	Text    *string
	Boolean *bool
}

func (v TraitValue) setCount() int {
	count := 0

	if v.Numeric != nil {
		count++
	}
	if v.Text != nil {
		count++
	}
	if v.Boolean != nil {
		count++
	}

	return count
}

// validateValue enforces the variant discipline: one populated field, of the
// declared type, inside the declared bounds or enum set.
func validateValue(trait models.PersonalityTrait, value TraitValue) error {
	if value.setCount() != 1 {
		return ErrAmbiguousValue
	}

	switch trait.ValueType {
	case "integer", "decimal":
		if value.Numeric == nil {
			return ErrValueTypeMismatch
		}
		if trait.ValueType == "integer" && *value.Numeric != float64(int64(*value.Numeric)) {
			return ErrValueTypeMismatch
		}
		if trait.MinValue != nil && *value.Numeric < *trait.MinValue {
			return ErrValueOutOfRange
		}
		if trait.MaxValue != nil && *value.Numeric > *trait.MaxValue {
			return ErrValueOutOfRange
		}
	case "boolean":
		if value.Boolean == nil {
			return ErrValueTypeMismatch
		}
	case "text":
		if value.Text == nil {
			return ErrValueTypeMismatch
		}
	case "enum":
		if value.Text == nil {
			return ErrValueTypeMismatch
		}
		found := false
		for _, option := range trait.EnumValues {
			if option == *value.Text {
				found = true
				break
			}
		}
		if !found {
			return ErrValueNotInEnum
		}
	default:
		return ErrValueTypeMismatch
	}

	return nil
}

type TraitValueInput struct {
	TraitID          uint
	Value            TraitValue
	ConfidenceLevel  *float64
	AssessmentSource string
	Notes            string
	IsPublic         *bool
}

// SetTraitValue records a user's value for a trait.
func (s *Service) SetTraitValue(userID uint, input TraitValueInput) (models.UserPersonalityTrait, error) {
	if input.ConfidenceLevel != nil && (*input.ConfidenceLevel < 0 || *input.ConfidenceLevel > 1) {
		return models.UserPersonalityTrait{}, ErrInvalidConfidence
	}

	var userTrait models.UserPersonalityTrait

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var trait models.PersonalityTrait

		if err := tx.Where("id = ? AND is_active = ?", input.TraitID, true).First(&trait).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTraitNotFound
			}
			return err
		}

		if err := validateValue(trait, input.Value); err != nil {
			return err
		}

		var count int64

		err := tx.Model(&models.UserPersonalityTrait{}).
			Where("user_id = ? AND trait_id = ?", userID, input.TraitID).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrTraitValueExists
		}

		confidence := 0.5

		if input.ConfidenceLevel != nil {
			confidence = *input.ConfidenceLevel
		}

		source := input.AssessmentSource

		if source == "" {
			source = "self_assessment"
		}

		isPublic := true

		if input.IsPublic != nil {
			isPublic = *input.IsPublic
		}

		userTrait = models.UserPersonalityTrait{
			UserID:           userID,
			TraitID:          input.TraitID,
			ValueNumeric:     input.Value.Numeric,
			ValueText:        input.Value.Text,
			ValueBoolean:     input.Value.Boolean,
			ConfidenceLevel:  confidence,
			AssessmentSource: source,
			Notes:            input.Notes,
			IsPublic:         isPublic,
		}

		return tx.Create(&userTrait).Error
	})

	return userTrait, err
}

// UpdateTraitValue replaces the stored value, revalidating against the
// trait's declared type.
func (s *Service) UpdateTraitValue(userID, traitID uint, input TraitValueInput) (models.UserPersonalityTrait, error) {
	if input.ConfidenceLevel != nil && (*input.ConfidenceLevel < 0 || *input.ConfidenceLevel > 1) {
		return models.UserPersonalityTrait{}, ErrInvalidConfidence
	}

	var userTrait models.UserPersonalityTrait

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND trait_id = ?", userID, traitID).First(&userTrait).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTraitValueMissing
			}
			return err
		}

		var trait models.PersonalityTrait

		if err := tx.First(&trait, traitID).Error; err != nil {
			return err
		}

		if err := validateValue(trait, input.Value); err != nil {
			return err
		}

		userTrait.ValueNumeric = input.Value.Numeric
		userTrait.ValueText = input.Value.Text
		userTrait.ValueBoolean = input.Value.Boolean

		if input.ConfidenceLevel != nil {
			userTrait.ConfidenceLevel = *input.ConfidenceLevel
		}
		if input.AssessmentSource != "" {
			userTrait.AssessmentSource = input.AssessmentSource
		}
		if input.Notes != "" {
			userTrait.Notes = input.Notes
		}
		if input.IsPublic != nil {
			userTrait.IsPublic = *input.IsPublic
		}

		return tx.Save(&userTrait).Error
	})

	return userTrait, err
}

// DeleteTraitValue removes a user's value for one trait.
func (s *Service) DeleteTraitValue(userID, traitID uint) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND trait_id = ?", userID, traitID).
		Delete(&models.UserPersonalityTrait{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTraitValueMissing
	}

	return nil
}

// UserTraitValues lists a user's trait values with definitions preloaded.
func (s *Service) UserTraitValues(userID uint, framework string, publicOnly bool) ([]models.UserPersonalityTrait, error) {
	query := s.db.Preload("Trait").
		Joins("JOIN personality_traits ON personality_traits.id = user_personality_traits.trait_id").
		Where("user_personality_traits.user_id = ?", userID)

	if framework != "" {
		query = query.Where("personality_traits.framework = ?", framework)
	}

	if publicOnly {
		query = query.Where("user_personality_traits.is_public = ?", true)
	}

	var values []models.UserPersonalityTrait

	err := query.Order("personality_traits.framework, personality_traits.display_order").Find(&values).Error

	return values, err
}
