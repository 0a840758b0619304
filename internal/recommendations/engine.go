// Package recommendations scores candidate teams for a user, persists the
// results with an expiry window, and drives the accept/reject transitions.
// Accepting couples with the team-join in one transaction: both commit or
// neither does.
package recommendations

import (
	"errors"
	"fmt"
	"time"

	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/ego"
	"github.com/kindred-dev/kindred/internal/matching"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/taxonomy"
	"github.com/kindred-dev/kindred/internal/teams"
	"gorm.io/gorm"
)

// ExpiryWindow is how long a recommendation stays actionable.
const ExpiryWindow = 4 * 24 * time.Hour

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidStatus          = errors.New("status must be accepted or rejected")
)

type Engine struct {
	db       *gorm.DB
	ego      *ego.Service
	taxonomy *taxonomy.Service
	teams    *teams.Service
}

func NewEngine(database *gorm.DB) *Engine {
	return &Engine{
		db:       database,
		ego:      ego.NewService(database),
		taxonomy: taxonomy.NewService(database),
		teams:    teams.NewService(database),
	}
}

// Generate scores every candidate team for the user and persists pending
// recommendations. Candidates are teams in events the user has joined,
// excluding the user's current team; teams already holding a pending
// recommendation for the user are skipped.
func (e *Engine) Generate(userID uint) ([]models.Recommendation, error) {
	userVector, err := e.ego.FunctionVector(userID)

	if err != nil {
		return nil, err
	}

	userAttributes, err := e.taxonomy.ActiveAttributeIDs(userID)

	if err != nil {
		return nil, err
	}

	var participations []models.EventParticipant

	if err := e.db.Where("user_id = ?", userID).Find(&participations).Error; err != nil {
		return nil, err
	}

	var created []models.Recommendation
	now := time.Now()

	for _, participation := range participations {
		var candidates []models.Team

		query := e.db.Where("event_id = ?", participation.EventID)

		if participation.TeamID != nil {
			query = query.Where("id <> ?", *participation.TeamID)
		}

		if err := query.Find(&candidates).Error; err != nil {
			return nil, err
		}

		for _, team := range candidates {
			var pending int64

			err := e.db.Model(&models.Recommendation{}).
				Where("user_id = ? AND team_id = ? AND status = ? AND expires_at > ?",
					userID, team.ID, models.RecommendationPending, now).
				Count(&pending).Error

			if err != nil {
				return nil, err
			}

			if pending > 0 {
				continue
			}

			result, err := e.scoreTeam(userID, userVector, userAttributes, team.ID)

			if err != nil {
				return nil, err
			}

			recommendation := models.Recommendation{
				UserID:    userID,
				TeamID:    team.ID,
				Reason:    reasonFor(result),
				Score:     result.Score,
				Status:    models.RecommendationPending,
				ExpiresAt: now.Add(ExpiryWindow),
			}

			if err := e.db.Create(&recommendation).Error; err != nil {
				return nil, err
			}

			created = append(created, recommendation)
		}
	}

	return created, nil
}

// scoreTeam computes the composite score of a user against a team's
// aggregate profile: the mean of member vectors and the union of members'
// active attribute ids.
func (e *Engine) scoreTeam(userID uint, userVector map[string]float64, userAttributes []uint, teamID uint) (matching.CompositeResult, error) {
	memberIDs, err := e.teams.MemberUserIDs(teamID)

	if err != nil {
		return matching.CompositeResult{}, err
	}

	vectors := make([]map[string]float64, 0, len(memberIDs))
	attributeSet := map[uint]struct{}{}

	for _, memberID := range memberIDs {
		if memberID == userID {
			continue
		}

		vector, err := e.ego.FunctionVector(memberID)

		if err != nil {
			return matching.CompositeResult{}, err
		}

		vectors = append(vectors, vector)

		ids, err := e.taxonomy.ActiveAttributeIDs(memberID)

		if err != nil {
			return matching.CompositeResult{}, err
		}

		for _, id := range ids {
			attributeSet[id] = struct{}{}
		}
	}

	teamAttributes := make([]uint, 0, len(attributeSet))

	for id := range attributeSet {
		teamAttributes = append(teamAttributes, id)
	}

	return matching.Composite(userVector, matching.MeanVector(vectors), userAttributes, teamAttributes), nil
}

func reasonFor(result matching.CompositeResult) string {
	suffix := ""

	if result.Cognitive.Partial {
		suffix = ", partial profile"
	}

	return fmt.Sprintf("cognitive similarity %.2f over %d functions, shared interests %.2f%s",
		result.Cognitive.Score, result.Cognitive.Shared, result.Overlap, suffix)
}

// List returns the user's pending, unexpired recommendations, newest first.
// Expired-but-pending rows encountered on the way are flipped to expired
// first; expiry detection is lazy, on the read path.
func (e *Engine) List(userID uint) ([]models.Recommendation, error) {
	if err := e.SweepExpired(); err != nil {
		return nil, err
	}

	var recommendations []models.Recommendation

	err := e.db.Preload("Team").
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.RecommendationPending, time.Now()).
		Order("created_at DESC").
		Find(&recommendations).Error

	return recommendations, err
}

// SweepExpired flips every expired-but-pending row to expired. Called on the
// read path and by the background sweeper.
func (e *Engine) SweepExpired() error {
	return e.db.Model(&models.Recommendation{}).
		Where("status = ? AND expires_at <= ?", models.RecommendationPending, time.Now()).
		Update("status", models.RecommendationExpired).Error
}

// UpdateStatus accepts or rejects a pending recommendation owned by the
// caller. Expiry is a hard boundary checked first: an expired row is flipped
// and reported not found. Accepting also joins the team; if that fails the
// whole transaction rolls back and the row stays pending.
func (e *Engine) UpdateStatus(userID, recommendationID uint, status string) error {
	if status != models.RecommendationAccepted && status != models.RecommendationRejected {
		return ErrInvalidStatus
	}

	// Expiry is checked at the start of every operation. The sweep commits
	// on its own, outside the transaction below, so the expired flip
	// survives even though the operation itself fails.
	if err := e.SweepExpired(); err != nil {
		return err
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		var recommendation models.Recommendation

		err := db.LockForUpdate(tx).
			Where("id = ? AND user_id = ?", recommendationID, userID).
			First(&recommendation).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecommendationNotFound
		}

		if err != nil {
			return err
		}

		if recommendation.Status != models.RecommendationPending || !recommendation.ExpiresAt.After(time.Now()) {
			return ErrRecommendationNotFound
		}

		if err := tx.Model(&recommendation).Update("status", status).Error; err != nil {
			return err
		}

		if status == models.RecommendationAccepted {
			return e.teams.JoinTeamTx(tx, userID, recommendation.TeamID)
		}

		return nil
	})
}
