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

type CreateAttributeRequest struct {
	CategoryID        uint     `json:"category_id" binding:"required"`
	Code              string   `json:"code" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	NameEn            string   `json:"name_en"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	DifficultyLevel   string   `json:"difficulty_level"`
	TimeCommitment    string   `json:"time_commitment"`
	CostLevel         string   `json:"cost_level"`
	PhysicalIntensity string   `json:"physical_intensity"`
	SocialAspect      string   `json:"social_aspect"`
	IndoorOutdoor     string   `json:"indoor_outdoor"`
}

type AttributeResponse struct {
	ID              uint     `json:"id"`
	CategoryID      uint     `json:"category_id"`
	CategoryName    string   `json:"category_name,omitempty"`
	CategoryPath    string   `json:"category_path,omitempty"`
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	NameEn          string   `json:"name_en,omitempty"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags"`
	DifficultyLevel string   `json:"difficulty_level"`
	TimeCommitment  string   `json:"time_commitment"`
	PopularityScore int      `json:"popularity_score"`
	IsActive        bool     `json:"is_active"`
}

func toAttributeResponse(attribute models.Attribute) AttributeResponse {
	return AttributeResponse{
		ID:              attribute.ID,
		CategoryID:      attribute.CategoryID,
		CategoryName:    attribute.Category.Name,
		CategoryPath:    attribute.Category.Path,
		Code:            attribute.Code,
		Name:            attribute.Name,
		NameEn:          attribute.NameEn,
		Description:     attribute.Description,
		Tags:            attribute.Tags,
		DifficultyLevel: attribute.DifficultyLevel,
		TimeCommitment:  attribute.TimeCommitment,
		PopularityScore: attribute.PopularityScore,
		IsActive:        attribute.IsActive,
	}
}

func CreateAttribute(ctx *gin.Context) {
	var body CreateAttributeRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := taxonomy.NewService(db.DB)

	attribute, err := service.CreateAttribute(taxonomy.CreateAttributeInput{
		CategoryID:        body.CategoryID,
		Code:              body.Code,
		Name:              body.Name,
		NameEn:            body.NameEn,
		Description:       body.Description,
		Tags:              body.Tags,
		DifficultyLevel:   body.DifficultyLevel,
		TimeCommitment:    body.TimeCommitment,
		CostLevel:         body.CostLevel,
		PhysicalIntensity: body.PhysicalIntensity,
		SocialAspect:      body.SocialAspect,
		IndoorOutdoor:     body.IndoorOutdoor,
	})

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toAttributeResponse(attribute))
}

func GetAttributesByCategory(ctx *gin.Context) {
	categoryID, err := utils.GetIDParam(ctx, "category_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	includeInactive := ctx.Query("include_inactive") == "true"

	service := taxonomy.NewService(db.DB)

	attributes, err := service.AttributesByCategory(categoryID, includeInactive)

	if err != nil {
		respondTaxonomyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toAttributeResponses(attributes))
}

func SearchAttributes(ctx *gin.Context) {
	query := ctx.Query("q")

	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
		return
	}

	input := taxonomy.SearchAttributesInput{
		Query:           query,
		DifficultyLevel: ctx.Query("difficulty_level"),
		TimeCommitment:  ctx.Query("time_commitment"),
	}

	if raw := ctx.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}

		categoryID := uint(parsed)
		input.CategoryID = &categoryID
	}

	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}

		input.Limit = parsed
	}

	service := taxonomy.NewService(db.DB)

	attributes, err := service.SearchAttributes(input)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search attributes"})
		return
	}

	ctx.JSON(http.StatusOK, toAttributeResponses(attributes))
}

func GetPopularAttributes(ctx *gin.Context) {
	limit := 20

	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}

		limit = parsed
	}

	var categoryID *uint

	if raw := ctx.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}

		id := uint(parsed)
		categoryID = &id
	}

	service := taxonomy.NewService(db.DB)

	attributes, err := service.PopularAttributes(limit, categoryID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attributes"})
		return
	}

	ctx.JSON(http.StatusOK, toAttributeResponses(attributes))
}

func toAttributeResponses(attributes []models.Attribute) []AttributeResponse {
	response := make([]AttributeResponse, 0, len(attributes))

	for _, attribute := range attributes {
		response = append(response, toAttributeResponse(attribute))
	}

	return response
}

type AddUserAttributeRequest struct {
	AttributeID     uint   `json:"attribute_id" binding:"required"`
	InterestLevel   int    `json:"interest_level" binding:"required"`
	SkillLevel      string `json:"skill_level"`
	ExperienceYears *int   `json:"experience_years"`
	Frequency       string `json:"frequency"`
	TimeSpentWeekly *int   `json:"time_spent_weekly"`
	EnjoymentRating *int   `json:"enjoyment_rating"`
	IsPublic        *bool  `json:"is_public"`
	IsFeatured      bool   `json:"is_featured"`
	Notes           string `json:"notes"`
}

type UpdateUserAttributeRequest struct {
	InterestLevel   *int    `json:"interest_level"`
	SkillLevel      *string `json:"skill_level"`
	ExperienceYears *int    `json:"experience_years"`
	Frequency       *string `json:"frequency"`
	TimeSpentWeekly *int    `json:"time_spent_weekly"`
	EnjoymentRating *int    `json:"enjoyment_rating"`
	Status          *string `json:"status"`
	IsPublic        *bool   `json:"is_public"`
	IsFeatured      *bool   `json:"is_featured"`
	Notes           *string `json:"notes"`
}

type UserAttributeResponse struct {
	ID            uint              `json:"id"`
	AttributeID   uint              `json:"attribute_id"`
	Attribute     AttributeResponse `json:"attribute"`
	InterestLevel int               `json:"interest_level"`
	SkillLevel    string            `json:"skill_level"`
	Status        string            `json:"status"`
	IsPublic      bool              `json:"is_public"`
	IsFeatured    bool              `json:"is_featured"`
	Notes         string            `json:"notes,omitempty"`
}

func toUserAttributeResponse(association models.UserAttribute) UserAttributeResponse {
	return UserAttributeResponse{
		ID:            association.ID,
		AttributeID:   association.AttributeID,
		Attribute:     toAttributeResponse(association.Attribute),
		InterestLevel: association.InterestLevel,
		SkillLevel:    association.SkillLevel,
		Status:        association.Status,
		IsPublic:      association.IsPublic,
		IsFeatured:    association.IsFeatured,
		Notes:         association.Notes,
	}
}

func ListMyAttributes(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service := taxonomy.NewService(db.DB)

	associations, err := service.UserAssociations(userID, ctx.Query("status"))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user attributes"})
		return
	}

	response := make([]UserAttributeResponse, 0, len(associations))

	for _, association := range associations {
		response = append(response, toUserAttributeResponse(association))
	}

	ctx.JSON(http.StatusOK, response)
}

func AddMyAttribute(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body AddUserAttributeRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := taxonomy.NewService(db.DB)

	association, err := service.AddAssociation(userID, taxonomy.AddAssociationInput{
		AttributeID:     body.AttributeID,
		InterestLevel:   body.InterestLevel,
		SkillLevel:      body.SkillLevel,
		ExperienceYears: body.ExperienceYears,
		Frequency:       body.Frequency,
		TimeSpentWeekly: body.TimeSpentWeekly,
		EnjoymentRating: body.EnjoymentRating,
		IsPublic:        body.IsPublic,
		IsFeatured:      body.IsFeatured,
		Notes:           body.Notes,
	})

	if err != nil {
		respondAssociationError(ctx, err)
		return
	}

	association, err = reloadAssociation(service, userID, association.AttributeID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, toUserAttributeResponse(association))
}

func UpdateMyAttribute(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attributeID, err := utils.GetIDParam(ctx, "attribute_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateUserAttributeRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := taxonomy.NewService(db.DB)

	association, err := service.UpdateAssociation(userID, attributeID, taxonomy.UpdateAssociationInput{
		InterestLevel:   body.InterestLevel,
		SkillLevel:      body.SkillLevel,
		ExperienceYears: body.ExperienceYears,
		Frequency:       body.Frequency,
		TimeSpentWeekly: body.TimeSpentWeekly,
		EnjoymentRating: body.EnjoymentRating,
		Status:          body.Status,
		IsPublic:        body.IsPublic,
		IsFeatured:      body.IsFeatured,
		Notes:           body.Notes,
	})

	if err != nil {
		respondAssociationError(ctx, err)
		return
	}

	association, err = reloadAssociation(service, userID, association.AttributeID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, toUserAttributeResponse(association))
}

func RemoveMyAttribute(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attributeID, err := utils.GetIDParam(ctx, "attribute_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := taxonomy.NewService(db.DB)

	if err := service.RemoveAssociation(userID, attributeID); err != nil {
		respondAssociationError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// reloadAssociation refetches a pair with its attribute and category
// preloaded for the response body.
func reloadAssociation(service *taxonomy.Service, userID, attributeID uint) (models.UserAttribute, error) {
	associations, err := service.UserAssociations(userID, "")

	if err != nil {
		return models.UserAttribute{}, err
	}

	for _, association := range associations {
		if association.AttributeID == attributeID {
			return association, nil
		}
	}

	return models.UserAttribute{}, taxonomy.ErrAssociationNotFound
}

func respondAssociationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, taxonomy.ErrAttributeNotFound), errors.Is(err, taxonomy.ErrAssociationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, taxonomy.ErrAssociationExists),
		errors.Is(err, taxonomy.ErrInvalidInterest),
		errors.Is(err, taxonomy.ErrInvalidEnjoyment),
		errors.Is(err, taxonomy.ErrInvalidExperience),
		errors.Is(err, taxonomy.ErrInvalidWeeklyTime),
		errors.Is(err, taxonomy.ErrInvalidSkillLevel),
		errors.Is(err, taxonomy.ErrInvalidStatus):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
