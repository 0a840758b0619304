package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/utils"
)

type UpdateProfileRequest struct {
	Nickname        *string `json:"nickname"`
	MBTI            *string `json:"mbti"`
	Motto           *string `json:"motto"`
	SelfDescription *string `json:"self_description"`
}

type ProfileResponse struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	MBTI            string `json:"mbti,omitempty"`
	Motto           string `json:"motto,omitempty"`
	SelfDescription string `json:"self_description,omitempty"`
}

func toProfileResponse(user models.User) ProfileResponse {
	return ProfileResponse{
		ID:              user.ID,
		Email:           user.Email,
		Nickname:        user.Nickname,
		MBTI:            user.MBTI,
		Motto:           user.Motto,
		SelfDescription: user.SelfDescription,
	}
}

func GetMyProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	ctx.JSON(http.StatusOK, toProfileResponse(user))
}

func UpdateMyProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{}

	if body.Nickname != nil {
		if *body.Nickname == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Nickname must not be empty"})
			return
		}
		updates["nickname"] = *body.Nickname
	}

	if body.MBTI != nil {
		updates["mbti"] = *body.MBTI
	}

	if body.Motto != nil {
		updates["motto"] = *body.Motto
	}

	if body.SelfDescription != nil {
		updates["self_description"] = *body.SelfDescription
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}

		if err := db.DB.First(&user, userID).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
			return
		}
	}

	ctx.JSON(http.StatusOK, toProfileResponse(user))
}
