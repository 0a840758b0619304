package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/taxonomy"
	"github.com/kindred-dev/kindred/internal/utils"
)

type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	NameEn      string `json:"name_en"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	SortOrder   int    `json:"sort_order"`
}

type MoveCategoryRequest struct {
	ParentID *uint `json:"parent_id"`
}

type CategoryResponse struct {
	ID          uint                `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	NameEn      string              `json:"name_en,omitempty"`
	Description string              `json:"description,omitempty"`
	ParentID    *uint               `json:"parent_id"`
	Level       int                 `json:"level"`
	Path        string              `json:"path"`
	SortOrder   int                 `json:"sort_order"`
	IsActive    bool                `json:"is_active"`
	IsSystem    bool                `json:"is_system"`
	Children    []*CategoryResponse `json:"children,omitempty"`
}

func toCategoryResponse(category models.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Code:        category.Code,
		Name:        category.Name,
		NameEn:      category.NameEn,
		Description: category.Description,
		ParentID:    category.ParentID,
		Level:       category.Level,
		Path:        category.Path,
		SortOrder:   category.SortOrder,
		IsActive:    category.IsActive,
		IsSystem:    category.IsSystem,
	}
}

func CreateCategory(ctx *gin.Context) {
	var body CreateCategoryRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service := taxonomy.NewService(db.DB)

	category, err := service.CreateCategory(taxonomy.CreateCategoryInput{
		Code:        body.Code,
		Name:        body.Name,
		NameEn:      body.NameEn,
		Description: body.Description,
		ParentID:    body.ParentID,
		SortOrder:   body.SortOrder,
		CreatedBy:   &userID,
	})

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toCategoryResponse(category))
}

func MoveCategory(ctx *gin.Context) {
	categoryID, err := utils.GetIDParam(ctx, "category_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body MoveCategoryRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := taxonomy.NewService(db.DB)

	category, err := service.MoveCategory(categoryID, body.ParentID)

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toCategoryResponse(category))
}

// GetCategoryTree returns the category forest, optionally capped by ?level=.
func GetCategoryTree(ctx *gin.Context) {
	maxLevel := 0

	if raw := ctx.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level"})
			return
		}

		maxLevel = parsed
	}

	includeInactive := ctx.Query("include_inactive") == "true"

	service := taxonomy.NewService(db.DB)

	categories, err := service.ListCategories(maxLevel, includeInactive)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	byID := make(map[uint]*CategoryResponse, len(categories))
	var roots []*CategoryResponse

	for _, category := range categories {
		byID[category.ID] = toCategoryResponse(category)
	}

	for _, category := range categories {
		node := byID[category.ID]

		if category.ParentID == nil {
			roots = append(roots, node)
			continue
		}

		if parent, ok := byID[*category.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// Parent filtered out by level cap; surface as a root.
			roots = append(roots, node)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": roots, "total_count": len(categories)})
}

func GetSubtree(ctx *gin.Context) {
	categoryID, err := utils.GetIDParam(ctx, "category_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := taxonomy.NewService(db.DB)

	descendants, err := service.Subtree(categoryID)

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	response := make([]*CategoryResponse, 0, len(descendants))

	for _, category := range descendants {
		response = append(response, toCategoryResponse(category))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetAncestors(ctx *gin.Context) {
	categoryID, err := utils.GetIDParam(ctx, "category_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := taxonomy.NewService(db.DB)

	ancestors, err := service.Ancestors(categoryID)

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	response := make([]*CategoryResponse, 0, len(ancestors))

	for _, category := range ancestors {
		response = append(response, toCategoryResponse(category))
	}

	ctx.JSON(http.StatusOK, response)
}

func respondTaxonomyError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, taxonomy.ErrCategoryNotFound), errors.Is(err, taxonomy.ErrAttributeNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, taxonomy.ErrDuplicateSibling),
		errors.Is(err, taxonomy.ErrDuplicateCode),
		errors.Is(err, taxonomy.ErrDuplicateAttribute),
		errors.Is(err, taxonomy.ErrCycle),
		errors.Is(err, taxonomy.ErrSelfParent):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
