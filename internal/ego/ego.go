// Package ego owns the personality layer: the 8 fixed cognitive functions
// with per-user scored vectors, and framework-scoped personality traits whose
// user values are typed variants.
package ego

import (
	"errors"
	"time"

	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFunctionNotFound     = errors.New("cognitive function not found")
	ErrFunctionScoreExists  = errors.New("user already has a score for this cognitive function")
	ErrFunctionScoreMissing = errors.New("user cognitive function score not found")
	ErrRankTaken            = errors.New("another function already holds this rank")
	ErrInvalidScore         = errors.New("score must be between 0 and 100")
	ErrInvalidRank          = errors.New("rank must be between 1 and 8")
	ErrInvalidConfidence    = errors.New("confidence must be between 0 and 1")
)

type Service struct {
	db *gorm.DB
}

func NewService(database *gorm.DB) *Service {
	return &Service{db: database}
}

// Functions returns the fixed reference rows ordered by code.
func (s *Service) Functions() ([]models.CognitiveFunction, error) {
	var functions []models.CognitiveFunction

	err := s.db.Where("is_active = ?", true).Order("code").Find(&functions).Error

	return functions, err
}

type ScoreInput struct {
	CognitiveFunctionID uint
	RawScore            *int
	NormalizedScore     *float64
	FunctionRank        *int
	ConfidenceLevel     *float64
	AssessmentSource    string
	Notes               string
}

func validateScoreInput(input ScoreInput) error {
	if input.RawScore != nil && (*input.RawScore < 0 || *input.RawScore > 100) {
		return ErrInvalidScore
	}

	if input.NormalizedScore != nil && (*input.NormalizedScore < 0 || *input.NormalizedScore > 100) {
		return ErrInvalidScore
	}

	if input.FunctionRank != nil && (*input.FunctionRank < 1 || *input.FunctionRank > 8) {
		return ErrInvalidRank
	}

	if input.ConfidenceLevel != nil && (*input.ConfidenceLevel < 0 || *input.ConfidenceLevel > 1) {
		return ErrInvalidConfidence
	}

	return nil
}

// SetFunctionScore records a user's value for one function. Ranks are unique
// across the user's 8 rows; a complete profile is a permutation of 1..8.
func (s *Service) SetFunctionScore(userID uint, input ScoreInput) (models.UserCognitiveFunction, error) {
	if err := validateScoreInput(input); err != nil {
		return models.UserCognitiveFunction{}, err
	}

	var score models.UserCognitiveFunction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var function models.CognitiveFunction

		if err := tx.Where("id = ? AND is_active = ?", input.CognitiveFunctionID, true).First(&function).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFunctionNotFound
			}
			return err
		}

		var count int64

		err := tx.Model(&models.UserCognitiveFunction{}).
			Where("user_id = ? AND cognitive_function_id = ?", userID, input.CognitiveFunctionID).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrFunctionScoreExists
		}

		if input.FunctionRank != nil {
			if err := checkRankFree(tx, userID, *input.FunctionRank, 0); err != nil {
				return err
			}
		}

		confidence := 0.5

		if input.ConfidenceLevel != nil {
			confidence = *input.ConfidenceLevel
		}

		source := input.AssessmentSource

		if source == "" {
			source = "self_assessment"
		}

		score = models.UserCognitiveFunction{
			UserID:              userID,
			CognitiveFunctionID: input.CognitiveFunctionID,
			RawScore:            input.RawScore,
			NormalizedScore:     input.NormalizedScore,
			FunctionRank:        input.FunctionRank,
			ConfidenceLevel:     confidence,
			AssessmentSource:    source,
			Notes:               input.Notes,
			AssessedAt:          time.Now(),
		}

		return tx.Create(&score).Error
	})

	return score, err
}

// UpdateFunctionScore patches an existing score row.
func (s *Service) UpdateFunctionScore(userID, functionID uint, input ScoreInput) (models.UserCognitiveFunction, error) {
	input.CognitiveFunctionID = functionID

	if err := validateScoreInput(input); err != nil {
		return models.UserCognitiveFunction{}, err
	}

	var score models.UserCognitiveFunction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND cognitive_function_id = ?", userID, functionID).First(&score).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFunctionScoreMissing
			}
			return err
		}

		if input.FunctionRank != nil {
			if err := checkRankFree(tx, userID, *input.FunctionRank, score.ID); err != nil {
				return err
			}
			score.FunctionRank = input.FunctionRank
		}

		if input.RawScore != nil {
			score.RawScore = input.RawScore
		}
		if input.NormalizedScore != nil {
			score.NormalizedScore = input.NormalizedScore
		}
		if input.ConfidenceLevel != nil {
			score.ConfidenceLevel = *input.ConfidenceLevel
		}
		if input.AssessmentSource != "" {
			score.AssessmentSource = input.AssessmentSource
		}
		if input.Notes != "" {
			score.Notes = input.Notes
		}

		score.AssessedAt = time.Now()

		return tx.Save(&score).Error
	})

	return score, err
}

// DeleteFunctionScore removes a user's score for one function.
func (s *Service) DeleteFunctionScore(userID, functionID uint) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND cognitive_function_id = ?", userID, functionID).
		Delete(&models.UserCognitiveFunction{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFunctionScoreMissing
	}

	return nil
}

func checkRankFree(tx *gorm.DB, userID uint, rank int, excludeID uint) error {
	query := tx.Model(&models.UserCognitiveFunction{}).
		Where("user_id = ? AND function_rank = ?", userID, rank)

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64

	if err := query.Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrRankTaken
	}

	return nil
}

// UserFunctionScores lists a user's scores with the function rows preloaded,
// ranked first.
func (s *Service) UserFunctionScores(userID uint) ([]models.UserCognitiveFunction, error) {
	var scores []models.UserCognitiveFunction

	err := s.db.Preload("CognitiveFunction").
		Where("user_id = ?", userID).
		Order("function_rank, cognitive_function_id").
		Find(&scores).Error

	return scores, err
}

// FunctionVector maps function code to normalized score for one user. Rows
// without a normalized score are skipped, which is what makes pair scoring
// potentially partial.
func (s *Service) FunctionVector(userID uint) (map[string]float64, error) {
	scores, err := s.UserFunctionScores(userID)

	if err != nil {
		return nil, err
	}

	vector := make(map[string]float64, len(scores))

	for _, score := range scores {
		if score.NormalizedScore != nil {
			vector[score.CognitiveFunction.Code] = *score.NormalizedScore
		}
	}

	return vector, nil
}

// Distribution aggregates a user's normalized scores by function type and
// attitude.
type Distribution struct {
	ThinkingAvg    float64 `json:"thinking_avg"`
	FeelingAvg     float64 `json:"feeling_avg"`
	SensingAvg     float64 `json:"sensing_avg"`
	IntuitionAvg   float64 `json:"intuition_avg"`
	IntrovertedAvg float64 `json:"introverted_avg"`
	ExtravertedAvg float64 `json:"extraverted_avg"`
}

func (s *Service) FunctionDistribution(userID uint) (Distribution, error) {
	scores, err := s.UserFunctionScores(userID)

	if err != nil {
		return Distribution{}, err
	}

	sums := map[string]float64{}
	counts := map[string]int{}

	for _, score := range scores {
		if score.NormalizedScore == nil {
			continue
		}

		for _, key := range []string{score.CognitiveFunction.FunctionType, score.CognitiveFunction.Attitude} {
			sums[key] += *score.NormalizedScore
			counts[key]++
		}
	}

	avg := func(key string) float64 {
		if counts[key] == 0 {
			return 0
		}
		return sums[key] / float64(counts[key])
	}

	return Distribution{
		ThinkingAvg:    avg("thinking"),
		FeelingAvg:     avg("feeling"),
		SensingAvg:     avg("sensing"),
		IntuitionAvg:   avg("intuition"),
		IntrovertedAvg: avg("introverted"),
		ExtravertedAvg: avg("extraverted"),
	}, nil
}
