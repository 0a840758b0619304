package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/ego"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/utils"
)

type FunctionScoreRequest struct {
	CognitiveFunctionID uint     `json:"cognitive_function_id" binding:"required"`
	RawScore            *int     `json:"raw_score"`
	NormalizedScore     *float64 `json:"normalized_score"`
	FunctionRank        *int     `json:"function_rank"`
	ConfidenceLevel     *float64 `json:"confidence_level"`
	AssessmentSource    string   `json:"assessment_source"`
	Notes               string   `json:"notes"`
}

type FunctionScoreResponse struct {
	ID                  uint     `json:"id"`
	CognitiveFunctionID uint     `json:"cognitive_function_id"`
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	FunctionType        string   `json:"function_type"`
	Attitude            string   `json:"attitude"`
	RawScore            *int     `json:"raw_score"`
	NormalizedScore     *float64 `json:"normalized_score"`
	FunctionRank        *int     `json:"function_rank"`
	ConfidenceLevel     float64  `json:"confidence_level"`
	AssessmentSource    string   `json:"assessment_source,omitempty"`
}

func toFunctionScoreResponse(score models.UserCognitiveFunction) FunctionScoreResponse {
	return FunctionScoreResponse{
		ID:                  score.ID,
		CognitiveFunctionID: score.CognitiveFunctionID,
		Code:                score.CognitiveFunction.Code,
		Name:                score.CognitiveFunction.Name,
		FunctionType:        score.CognitiveFunction.FunctionType,
		Attitude:            score.CognitiveFunction.Attitude,
		RawScore:            score.RawScore,
		NormalizedScore:     score.NormalizedScore,
		FunctionRank:        score.FunctionRank,
		ConfidenceLevel:     score.ConfidenceLevel,
		AssessmentSource:    score.AssessmentSource,
	}
}

func ListCognitiveFunctions(ctx *gin.Context) {
	service := ego.NewService(db.DB)

	functions, err := service.Functions()

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cognitive functions"})
		return
	}

	ctx.JSON(http.StatusOK, functions)
}

func ListMyFunctionScores(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service := ego.NewService(db.DB)

	scores, err := service.UserFunctionScores(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve function scores"})
		return
	}

	response := make([]FunctionScoreResponse, 0, len(scores))

	for _, score := range scores {
		response = append(response, toFunctionScoreResponse(score))
	}

	ctx.JSON(http.StatusOK, response)
}

func SetMyFunctionScore(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body FunctionScoreRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := ego.NewService(db.DB)

	score, err := service.SetFunctionScore(userID, ego.ScoreInput{
		CognitiveFunctionID: body.CognitiveFunctionID,
		RawScore:            body.RawScore,
		NormalizedScore:     body.NormalizedScore,
		FunctionRank:        body.FunctionRank,
		ConfidenceLevel:     body.ConfidenceLevel,
		AssessmentSource:    body.AssessmentSource,
		Notes:               body.Notes,
	})

	if err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toFunctionScoreResponse(score))
}

func UpdateMyFunctionScore(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	functionID, err := utils.GetIDParam(ctx, "function_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body FunctionScoreRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := ego.NewService(db.DB)

	score, err := service.UpdateFunctionScore(userID, functionID, ego.ScoreInput{
		RawScore:         body.RawScore,
		NormalizedScore:  body.NormalizedScore,
		FunctionRank:     body.FunctionRank,
		ConfidenceLevel:  body.ConfidenceLevel,
		AssessmentSource: body.AssessmentSource,
		Notes:            body.Notes,
	})

	if err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toFunctionScoreResponse(score))
}

func DeleteMyFunctionScore(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	functionID, err := utils.GetIDParam(ctx, "function_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := ego.NewService(db.DB)

	if err := service.DeleteFunctionScore(userID, functionID); err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func GetMyFunctionDistribution(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service := ego.NewService(db.DB)

	distribution, err := service.FunctionDistribution(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute distribution"})
		return
	}

	ctx.JSON(http.StatusOK, distribution)
}

type TraitValueRequest struct {
	TraitID          uint     `json:"trait_id" binding:"required"`
	ValueNumeric     *float64 `json:"value_numeric"`
	ValueText        *string  `json:"value_text"`
	ValueBoolean     *bool    `json:"value_boolean"`
	ConfidenceLevel  *float64 `json:"confidence_level"`
	AssessmentSource string   `json:"assessment_source"`
	Notes            string   `json:"notes"`
	IsPublic         *bool    `json:"is_public"`
}

type TraitValueResponse struct {
	ID           uint     `json:"id"`
	TraitID      uint     `json:"trait_id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Framework    string   `json:"framework"`
	ValueType    string   `json:"value_type"`
	ValueNumeric *float64 `json:"value_numeric,omitempty"`
	ValueText    *string  `json:"value_text,omitempty"`
	ValueBoolean *bool    `json:"value_boolean,omitempty"`
	IsPublic     bool     `json:"is_public"`
}

func toTraitValueResponse(value models.UserPersonalityTrait) TraitValueResponse {
	return TraitValueResponse{
		ID:           value.ID,
		TraitID:      value.TraitID,
		Slug:         value.Trait.Slug,
		Name:         value.Trait.Name,
		Framework:    value.Trait.Framework,
		ValueType:    value.Trait.ValueType,
		ValueNumeric: value.ValueNumeric,
		ValueText:    value.ValueText,
		ValueBoolean: value.ValueBoolean,
		IsPublic:     value.IsPublic,
	}
}

func ListPersonalityTraits(ctx *gin.Context) {
	service := ego.NewService(db.DB)

	traits, err := service.Traits(ctx.Query("framework"))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve traits"})
		return
	}

	ctx.JSON(http.StatusOK, traits)
}

func ListMyTraitValues(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service := ego.NewService(db.DB)

	values, err := service.UserTraitValues(userID, ctx.Query("framework"), false)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trait values"})
		return
	}

	response := make([]TraitValueResponse, 0, len(values))

	for _, value := range values {
		response = append(response, toTraitValueResponse(value))
	}

	ctx.JSON(http.StatusOK, response)
}

func SetMyTraitValue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TraitValueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := ego.NewService(db.DB)

	value, err := service.SetTraitValue(userID, ego.TraitValueInput{
		TraitID: body.TraitID,
		Value: ego.TraitValue{
			Numeric: body.ValueNumeric,
			Text:    body.ValueText,
			Boolean: body.ValueBoolean,
		},
		ConfidenceLevel:  body.ConfidenceLevel,
		AssessmentSource: body.AssessmentSource,
		Notes:            body.Notes,
		IsPublic:         body.IsPublic,
	})

	if err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTraitValueResponse(value))
}

func UpdateMyTraitValue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	traitID, err := utils.GetIDParam(ctx, "trait_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body TraitValueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := ego.NewService(db.DB)

	value, err := service.UpdateTraitValue(userID, traitID, ego.TraitValueInput{
		Value: ego.TraitValue{
			Numeric: body.ValueNumeric,
			Text:    body.ValueText,
			Boolean: body.ValueBoolean,
		},
		ConfidenceLevel:  body.ConfidenceLevel,
		AssessmentSource: body.AssessmentSource,
		Notes:            body.Notes,
		IsPublic:         body.IsPublic,
	})

	if err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTraitValueResponse(value))
}

func DeleteMyTraitValue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	traitID, err := utils.GetIDParam(ctx, "trait_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := ego.NewService(db.DB)

	if err := service.DeleteTraitValue(userID, traitID); err != nil {
		respondEgoError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func respondEgoError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ego.ErrFunctionNotFound),
		errors.Is(err, ego.ErrFunctionScoreMissing),
		errors.Is(err, ego.ErrTraitNotFound),
		errors.Is(err, ego.ErrTraitValueMissing):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ego.ErrFunctionScoreExists),
		errors.Is(err, ego.ErrTraitValueExists),
		errors.Is(err, ego.ErrRankTaken),
		errors.Is(err, ego.ErrInvalidScore),
		errors.Is(err, ego.ErrInvalidRank),
		errors.Is(err, ego.ErrInvalidConfidence),
		errors.Is(err, ego.ErrValueTypeMismatch),
		errors.Is(err, ego.ErrValueOutOfRange),
		errors.Is(err, ego.ErrValueNotInEnum),
		errors.Is(err, ego.ErrAmbiguousValue):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
