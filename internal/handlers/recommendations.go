package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/recommendations"
	"github.com/kindred-dev/kindred/internal/teams"
	"github.com/kindred-dev/kindred/internal/utils"
)

type RecommendationResponse struct {
	ID        uint      `json:"id"`
	TeamID    uint      `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	Reason    string    `json:"reason"`
	Score     float64   `json:"score"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toRecommendationResponse(recommendation models.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:        recommendation.ID,
		TeamID:    recommendation.TeamID,
		TeamName:  recommendation.Team.Name,
		Reason:    recommendation.Reason,
		Score:     recommendation.Score,
		Status:    recommendation.Status,
		ExpiresAt: recommendation.ExpiresAt,
	}
}

func GenerateRecommendations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	engine := recommendations.NewEngine(db.DB)

	generated, err := engine.Generate(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}

	ctx.JSON(http.StatusCreated, toRecommendationResponses(generated))
}

func ListRecommendations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	engine := recommendations.NewEngine(db.DB)

	pending, err := engine.List(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recommendations"})
		return
	}

	ctx.JSON(http.StatusOK, toRecommendationResponses(pending))
}

type UpdateRecommendationRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateRecommendationStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recommendationID, err := utils.GetIDParam(ctx, "recommendation_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateRecommendationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	engine := recommendations.NewEngine(db.DB)

	if err := engine.UpdateStatus(userID, recommendationID, body.Status); err != nil {
		respondRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Recommendation updated"})
}

func toRecommendationResponses(items []models.Recommendation) []RecommendationResponse {
	response := make([]RecommendationResponse, 0, len(items))

	for _, item := range items {
		response = append(response, toRecommendationResponse(item))
	}

	return response
}

func respondRecommendationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, recommendations.ErrRecommendationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, recommendations.ErrInvalidStatus):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, teams.ErrAlreadyInTeam), errors.Is(err, teams.ErrNotJoinedEvent):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
