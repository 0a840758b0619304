package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/teams"
	"github.com/kindred-dev/kindred/internal/utils"
)

type CreatePostRequest struct {
	EventID uint   `json:"event_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type PostResponse struct {
	ID         uint      `json:"id"`
	TeamID     uint      `json:"team_id"`
	TeamName   string    `json:"team_name,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPostResponse(post models.TeamPost) PostResponse {
	return PostResponse{
		ID:         post.ID,
		TeamID:     post.TeamID,
		TeamName:   post.Team.Name,
		AuthorName: post.Author.Nickname,
		Title:      post.Title,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
	}
}

func CreatePost(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreatePostRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := teams.NewService(db.DB)

	post, err := service.CreatePost(userID, body.EventID, body.Title, body.Content)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toPostResponse(post))
}

func ListPosts(ctx *gin.Context) {
	service := teams.NewService(db.DB)

	posts, err := service.ListPosts()

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	response := make([]PostResponse, 0, len(posts))

	for _, post := range posts {
		response = append(response, toPostResponse(post))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdatePost(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := utils.GetIDParam(ctx, "post_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdatePostRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := teams.NewService(db.DB)

	post, err := service.UpdatePost(userID, postID, body.Title, body.Content)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toPostResponse(post))
}

func DeletePost(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := utils.GetIDParam(ctx, "post_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	if err := service.DeletePost(userID, postID); err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
