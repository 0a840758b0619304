// Package taxonomy owns the category tree and the attribute catalog beneath
// it. Category path and level are derived fields: they are recomputed from
// the parent chain on every create and re-parent, for the node and its whole
// subtree, inside one transaction.
package taxonomy

import (
	"errors"

	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrDuplicateSibling  = errors.New("a sibling category with this name already exists")
	ErrDuplicateCode     = errors.New("a category with this code already exists")
	ErrCycle             = errors.New("category cannot be moved under its own descendant")
	ErrSelfParent        = errors.New("category cannot be its own parent")
)

type Service struct {
	db *gorm.DB
}

func NewService(database *gorm.DB) *Service {
	return &Service{db: database}
}

type CreateCategoryInput struct {
	Code        string
	Name        string
	NameEn      string
	Description string
	ParentID    *uint
	SortOrder   int
	IsSystem    bool
	CreatedBy   *uint
}

// CreateCategory inserts a node and derives its level and path from the
// parent. Roots get level 1 and path "/name".
func (s *Service) CreateCategory(input CreateCategoryInput) (models.Category, error) {
	var category models.Category

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Category{}).Where("code = ?", input.Code).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrDuplicateCode
		}

		level := 1
		path := "/" + input.Name

		if input.ParentID != nil {
			var parent models.Category

			if err := db.LockForUpdate(tx).First(&parent, *input.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}

			level = parent.Level + 1
			path = parent.Path + "/" + input.Name
		}

		if err := checkSiblingName(tx, input.ParentID, input.Name, 0); err != nil {
			return err
		}

		category = models.Category{
			Code:        input.Code,
			Name:        input.Name,
			NameEn:      input.NameEn,
			Description: input.Description,
			ParentID:    input.ParentID,
			Level:       level,
			Path:        path,
			SortOrder:   input.SortOrder,
			IsActive:    true,
			IsSystem:    input.IsSystem,
			CreatedBy:   input.CreatedBy,
		}

		return tx.Create(&category).Error
	})

	return category, err
}

// MoveCategory re-parents a node. The new parent must not be the node itself
// nor any of its descendants, and no sibling under the new parent may carry
// the same name. Paths and levels of the entire subtree are rewritten in the
// same transaction, so the move is O(subtree size).
func (s *Service) MoveCategory(categoryID uint, newParentID *uint) (models.Category, error) {
	var category models.Category

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := db.LockForUpdate(tx).First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		newLevel := 1
		newPath := "/" + category.Name

		if newParentID != nil {
			if *newParentID == categoryID {
				return ErrSelfParent
			}

			var parent models.Category

			if err := db.LockForUpdate(tx).First(&parent, *newParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}

			// Cycle check: walk the new parent's ancestor chain and reject
			// if it passes through the node being moved.
			ancestorID := parent.ParentID

			for ancestorID != nil {
				if *ancestorID == categoryID {
					return ErrCycle
				}

				var ancestor models.Category

				if err := tx.First(&ancestor, *ancestorID).Error; err != nil {
					return err
				}

				ancestorID = ancestor.ParentID
			}

			newLevel = parent.Level + 1
			newPath = parent.Path + "/" + category.Name
		}

		if err := checkSiblingName(tx, newParentID, category.Name, category.ID); err != nil {
			return err
		}

		category.ParentID = newParentID
		category.Level = newLevel
		category.Path = newPath

		if err := tx.Save(&category).Error; err != nil {
			return err
		}

		return recomputeSubtree(tx, category)
	})

	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// recomputeSubtree rewrites path and level for every descendant of root,
// expanding level by level. Depth is unbounded, so expansion iterates until
// a level has no children rather than assuming a maximum.
func recomputeSubtree(tx *gorm.DB, root models.Category) error {
	frontier := []models.Category{root}

	for len(frontier) > 0 {
		parentIDs := make([]uint, 0, len(frontier))
		parents := make(map[uint]models.Category, len(frontier))

		for _, node := range frontier {
			parentIDs = append(parentIDs, node.ID)
			parents[node.ID] = node
		}

		var children []models.Category

		if err := db.LockForUpdate(tx).Where("parent_id IN ?", parentIDs).Find(&children).Error; err != nil {
			return err
		}

		for i := range children {
			parent := parents[*children[i].ParentID]
			children[i].Level = parent.Level + 1
			children[i].Path = parent.Path + "/" + children[i].Name

			if err := tx.Save(&children[i]).Error; err != nil {
				return err
			}
		}

		frontier = children
	}

	return nil
}

func checkSiblingName(tx *gorm.DB, parentID *uint, name string, excludeID uint) error {
	query := tx.Model(&models.Category{}).Where("name = ?", name)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64

	if err := query.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrDuplicateSibling
	}

	return nil
}

// GetCategory returns a single node.
func (s *Service) GetCategory(categoryID uint) (models.Category, error) {
	var category models.Category

	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}

	return category, nil
}

// Subtree returns every descendant of the given node (the node excluded),
// breadth-first, using iterative frontier expansion so depth never needs a
// bound.
func (s *Service) Subtree(categoryID uint) ([]models.Category, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return nil, err
	}

	var result []models.Category
	frontier := []uint{categoryID}

	for len(frontier) > 0 {
		var children []models.Category

		if err := s.db.Where("parent_id IN ?", frontier).
			Order("parent_id, sort_order, name").
			Find(&children).Error; err != nil {
			return nil, err
		}

		frontier = frontier[:0]

		for _, child := range children {
			result = append(result, child)
			frontier = append(frontier, child.ID)
		}
	}

	return result, nil
}

// Ancestors returns the chain from root to the node's direct parent.
func (s *Service) Ancestors(categoryID uint) ([]models.Category, error) {
	category, err := s.GetCategory(categoryID)

	if err != nil {
		return nil, err
	}

	var chain []models.Category
	parentID := category.ParentID

	for parentID != nil {
		var parent models.Category

		if err := s.db.First(&parent, *parentID).Error; err != nil {
			return nil, err
		}

		chain = append([]models.Category{parent}, chain...)
		parentID = parent.ParentID
	}

	return chain, nil
}

// ListCategories returns nodes for tree assembly, optionally capped at a
// maximum level and filtered to active ones.
func (s *Service) ListCategories(maxLevel int, includeInactive bool) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if maxLevel > 0 {
		query = query.Where("level <= ?", maxLevel)
	}

	var categories []models.Category

	if err := query.Order("level, sort_order, name").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}
