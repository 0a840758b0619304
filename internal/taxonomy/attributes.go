package taxonomy

import (
	"errors"

	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrDuplicateAttribute = errors.New("an attribute with this name or code already exists in the category")

type CreateAttributeInput struct {
	CategoryID        uint
	Code              string
	Name              string
	NameEn            string
	Description       string
	Tags              []string
	DifficultyLevel   string
	TimeCommitment    string
	CostLevel         string
	PhysicalIntensity string
	SocialAspect      string
	IndoorOutdoor     string
}

// CreateAttribute adds a leaf item under an existing category. Name and code
// are unique within the category.
func (s *Service) CreateAttribute(input CreateAttributeInput) (models.Attribute, error) {
	var attribute models.Attribute

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category

		if err := tx.First(&category, input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var count int64

		err := tx.Model(&models.Attribute{}).
			Where("category_id = ? AND (name = ? OR code = ?)", input.CategoryID, input.Name, input.Code).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrDuplicateAttribute
		}

		attribute = models.Attribute{
			CategoryID:        input.CategoryID,
			Code:              input.Code,
			Name:              input.Name,
			NameEn:            input.NameEn,
			Description:       input.Description,
			Tags:              datatypes.NewJSONSlice(input.Tags),
			DifficultyLevel:   defaultEnum(input.DifficultyLevel, "medium"),
			TimeCommitment:    defaultEnum(input.TimeCommitment, "medium"),
			CostLevel:         defaultEnum(input.CostLevel, "medium"),
			PhysicalIntensity: defaultEnum(input.PhysicalIntensity, "medium"),
			SocialAspect:      defaultEnum(input.SocialAspect, "both"),
			IndoorOutdoor:     defaultEnum(input.IndoorOutdoor, "both"),
			IsActive:          true,
		}

		return tx.Create(&attribute).Error
	})

	return attribute, err
}

func defaultEnum(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// GetAttribute returns a single attribute with its category preloaded.
func (s *Service) GetAttribute(attributeID uint) (models.Attribute, error) {
	var attribute models.Attribute

	err := s.db.Preload("Category").First(&attribute, attributeID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Attribute{}, ErrAttributeNotFound
	}

	return attribute, err
}

// AttributesByCategory lists a category's attributes, most popular first.
func (s *Service) AttributesByCategory(categoryID uint, includeInactive bool) ([]models.Attribute, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}

	query := s.db.Preload("Category").Where("category_id = ?", categoryID)

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var attributes []models.Attribute

	if err := query.Order("popularity_score DESC, name").Find(&attributes).Error; err != nil {
		return nil, err
	}

	return attributes, nil
}

type SearchAttributesInput struct {
	Query           string
	CategoryID      *uint
	DifficultyLevel string
	TimeCommitment  string
	Limit           int
}

// SearchAttributes matches active attributes on name, translated name or
// description, with optional category and metadata filters.
func (s *Service) SearchAttributes(input SearchAttributesInput) ([]models.Attribute, error) {
	pattern := "%" + input.Query + "%"

	query := s.db.Preload("Category").
		Where("is_active = ?", true).
		Where("name LIKE ? OR name_en LIKE ? OR description LIKE ?", pattern, pattern, pattern)

	if input.CategoryID != nil {
		query = query.Where("category_id = ?", *input.CategoryID)
	}

	if input.DifficultyLevel != "" {
		query = query.Where("difficulty_level = ?", input.DifficultyLevel)
	}

	if input.TimeCommitment != "" {
		query = query.Where("time_commitment = ?", input.TimeCommitment)
	}

	limit := input.Limit

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var attributes []models.Attribute

	if err := query.Order("popularity_score DESC, name").Limit(limit).Find(&attributes).Error; err != nil {
		return nil, err
	}

	return attributes, nil
}

// PopularAttributes lists active attributes by descending popularity.
func (s *Service) PopularAttributes(limit int, categoryID *uint) ([]models.Attribute, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.Preload("Category").Where("is_active = ?", true)

	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var attributes []models.Attribute

	if err := query.Order("popularity_score DESC, name").Limit(limit).Find(&attributes).Error; err != nil {
		return nil, err
	}

	return attributes, nil
}
