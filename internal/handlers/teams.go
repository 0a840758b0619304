package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/teams"
	"github.com/kindred-dev/kindred/internal/types"
	"github.com/kindred-dev/kindred/internal/utils"
)

type EventResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Location         string    `json:"location,omitempty"`
	ParticipantCount int       `json:"participant_count"`
}

func ListEvents(ctx *gin.Context) {
	service := teams.NewService(db.DB)

	summaries, err := service.ListEvents()

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	response := make([]EventResponse, 0, len(summaries))

	for _, summary := range summaries {
		response = append(response, EventResponse{
			ID:               summary.Event.ID,
			Name:             summary.Event.Name,
			Description:      summary.Event.Description,
			StartTime:        summary.Event.StartTime,
			EndTime:          summary.Event.EndTime,
			Location:         summary.Event.Location,
			ParticipantCount: summary.ParticipantCount,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func JoinEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	if err := service.JoinEvent(userID, eventID); err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Joined event"})
}

type CreateTeamRequest struct {
	EventID      uint   `json:"event_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	SaySomething string `json:"say_something"`
}

type TeamResponse struct {
	ID           uint   `json:"id"`
	EventID      uint   `json:"event_id"`
	Name         string `json:"name"`
	SaySomething string `json:"say_something,omitempty"`
}

func CreateTeam(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := teams.NewService(db.DB)

	team, err := service.CreateTeam(userID, body.EventID, body.Name, body.SaySomething)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, TeamResponse{
		ID:           team.ID,
		EventID:      team.EventID,
		Name:         team.Name,
		SaySomething: team.SaySomething,
	})
}

func JoinTeam(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetIDParam(ctx, "team_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	if err := service.JoinTeam(userID, teamID); err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Joined team"})
}

func LeaveTeam(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	if err := service.LeaveTeam(userID, eventID); err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Left team"})
}

func GetMyTeam(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	team, err := service.CurrentTeam(userID, eventID)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, TeamResponse{
		ID:           team.ID,
		EventID:      team.EventID,
		Name:         team.Name,
		SaySomething: team.SaySomething,
	})
}

func GetTeamRoster(ctx *gin.Context) {
	teamID, err := utils.GetIDParam(ctx, "team_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := teams.NewService(db.DB)

	roster, err := service.Roster(teamID)

	if err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, roster)
}

type SetSkillsRequest struct {
	EventID  uint    `json:"event_id" binding:"required"`
	SkillIDs []int64 `json:"skill_ids" binding:"required"`
}

func SetMySkills(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body SetSkillsRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := teams.NewService(db.DB)

	if err := service.SetSkills(userID, body.EventID, body.SkillIDs); err != nil {
		respondTeamError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Skills updated"})
}

func GetSkillCatalog(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, types.SkillCatalog)
}

func respondTeamError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, teams.ErrEventNotFound),
		errors.Is(err, teams.ErrTeamNotFound),
		errors.Is(err, teams.ErrPostNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, teams.ErrAlreadyJoined),
		errors.Is(err, teams.ErrAlreadyInTeam),
		errors.Is(err, teams.ErrInvalidSkillSet):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, teams.ErrNotJoinedEvent),
		errors.Is(err, teams.ErrNotInTeam):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
