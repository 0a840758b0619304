// Package teams enforces the per-(user, event) lifecycle: not joined, joined
// without a team, or in exactly one team. Every transition runs in one
// transaction with the participant row locked, so two concurrent calls by
// the same user cannot split the "at most one team per event" invariant.
package teams

import (
	"errors"

	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrAlreadyJoined   = errors.New("already joined this event")
	ErrNotJoinedEvent  = errors.New("must join the event first")
	ErrAlreadyInTeam   = errors.New("already in a team")
	ErrNotInTeam       = errors.New("not in any team")
	ErrInvalidSkillSet = errors.New("invalid skill set")
)

type Service struct {
	db *gorm.DB
}

func NewService(database *gorm.DB) *Service {
	return &Service{db: database}
}

// JoinEvent moves the user from not_joined to joined_no_team.
func (s *Service) JoinEvent(userID, eventID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event

		if err := tx.Where("id = ? AND is_active = ?", eventID, true).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var count int64

		err := tx.Model(&models.EventParticipant{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrAlreadyJoined
		}

		participant := models.EventParticipant{UserID: userID, EventID: eventID}

		return tx.Create(&participant).Error
	})
}

// lockParticipant loads the user's participation row for an event with a row
// lock, serializing same-user transitions.
func lockParticipant(tx *gorm.DB, userID, eventID uint) (models.EventParticipant, error) {
	var participant models.EventParticipant

	err := db.LockForUpdate(tx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&participant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return participant, ErrNotJoinedEvent
	}

	return participant, err
}

// CreateTeam creates a team with the caller as sole member. Requires state
// joined_no_team.
func (s *Service) CreateTeam(userID, eventID uint, name, saySomething string) (models.Team, error) {
	var team models.Team

	err := s.db.Transaction(func(tx *gorm.DB) error {
		participant, err := lockParticipant(tx, userID, eventID)

		if err != nil {
			return err
		}

		if participant.TeamID != nil {
			return ErrAlreadyInTeam
		}

		team = models.Team{
			EventID:      eventID,
			Name:         name,
			SaySomething: saySomething,
		}

		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		participant.TeamID = &team.ID

		return tx.Save(&participant).Error
	})

	if err != nil {
		return models.Team{}, err
	}

	return team, nil
}

// JoinTeam adds the caller to an existing team of an event the caller has
// joined. A caller already in any team of that event must leave_team first;
// there is no auto-transfer.
func (s *Service) JoinTeam(userID, teamID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.joinTeamTx(tx, userID, teamID)
	})
}

// JoinTeamTx is JoinTeam inside a caller-owned transaction. The
// recommendation engine uses it so an accept and its membership change
// commit or roll back together.
func (s *Service) JoinTeamTx(tx *gorm.DB, userID, teamID uint) error {
	return s.joinTeamTx(tx, userID, teamID)
}

func (s *Service) joinTeamTx(tx *gorm.DB, userID, teamID uint) error {
	var team models.Team

	if err := tx.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	participant, err := lockParticipant(tx, userID, team.EventID)

	if err != nil {
		return err
	}

	if participant.TeamID != nil {
		return ErrAlreadyInTeam
	}

	participant.TeamID = &team.ID

	return tx.Save(&participant).Error
}

// LeaveTeam removes the caller's membership, transitioning from in_team back
// to joined_no_team. An emptied team is kept: posts and recommendations may
// still reference it.
func (s *Service) LeaveTeam(userID, eventID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		participant, err := lockParticipant(tx, userID, eventID)

		if err != nil {
			return err
		}

		if participant.TeamID == nil {
			return ErrNotInTeam
		}

		teamID := *participant.TeamID
		participant.TeamID = nil

		if err := tx.Save(&participant).Error; err != nil {
			return err
		}

		// The skill record belongs to the membership, not the user.
		return tx.Unscoped().
			Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&models.TeamMemberSkill{}).Error
	})
}

// SetSkills replaces the caller's skill tags for their current team in the
// given event: at most 2 ids, each from the fixed 36-entry catalog.
func (s *Service) SetSkills(userID, eventID uint, skillIDs []int64) error {
	if len(skillIDs) > types.MaxSkillsPerMember {
		return ErrInvalidSkillSet
	}

	seen := make(map[int64]struct{}, len(skillIDs))

	for _, id := range skillIDs {
		if _, ok := types.SkillByID(id); !ok {
			return ErrInvalidSkillSet
		}

		if _, dup := seen[id]; dup {
			return ErrInvalidSkillSet
		}

		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		participant, err := lockParticipant(tx, userID, eventID)

		if err != nil {
			return err
		}

		if participant.TeamID == nil {
			return ErrNotInTeam
		}

		var record models.TeamMemberSkill

		err = tx.Where("team_id = ? AND user_id = ?", *participant.TeamID, userID).First(&record).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.TeamMemberSkill{
				TeamID:   *participant.TeamID,
				UserID:   userID,
				SkillIDs: datatypes.NewJSONSlice(skillIDs),
			}
			return tx.Create(&record).Error
		}

		if err != nil {
			return err
		}

		record.SkillIDs = datatypes.NewJSONSlice(skillIDs)

		return tx.Save(&record).Error
	})
}
