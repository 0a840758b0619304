package teams

import (
	"errors"
	"sort"

	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/types"
	"gorm.io/gorm"
)

// EventSummary is an event with its derived participant count.
type EventSummary struct {
	Event            models.Event
	ParticipantCount int
}

// ListEvents returns active events ordered by participant count descending.
func (s *Service) ListEvents() ([]EventSummary, error) {
	var events []models.Event

	if err := s.db.Where("is_active = ?", true).Find(&events).Error; err != nil {
		return nil, err
	}

	summaries := make([]EventSummary, 0, len(events))

	for _, event := range events {
		var count int64

		err := s.db.Model(&models.EventParticipant{}).
			Where("event_id = ?", event.ID).
			Count(&count).Error

		if err != nil {
			return nil, err
		}

		summaries = append(summaries, EventSummary{Event: event, ParticipantCount: int(count)})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ParticipantCount > summaries[j].ParticipantCount
	})

	return summaries, nil
}

// CurrentTeam returns the caller's team for an event, or ErrNotInTeam.
func (s *Service) CurrentTeam(userID, eventID uint) (models.Team, error) {
	var participant models.EventParticipant

	err := s.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Team{}, ErrNotJoinedEvent
	}

	if err != nil {
		return models.Team{}, err
	}

	if participant.TeamID == nil {
		return models.Team{}, ErrNotInTeam
	}

	var team models.Team

	if err := s.db.First(&team, *participant.TeamID).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

// MemberProfile is one team member as shown in the roster view.
type MemberProfile struct {
	Nickname        string   `json:"nickname"`
	SelfDescription string   `json:"self_description"`
	Skills          []string `json:"skills"`
}

// TeamRoster is the members view: team identity plus per-member profile and
// resolved skill names.
type TeamRoster struct {
	TeamID   uint            `json:"team_id"`
	TeamName string          `json:"team_name"`
	Members  []MemberProfile `json:"members"`
}

// Roster assembles the member view for a team.
func (s *Service) Roster(teamID uint) (TeamRoster, error) {
	var team models.Team

	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamRoster{}, ErrTeamNotFound
		}
		return TeamRoster{}, err
	}

	var members []models.EventParticipant

	if err := s.db.Preload("User").Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		return TeamRoster{}, err
	}

	roster := TeamRoster{TeamID: team.ID, TeamName: team.Name, Members: []MemberProfile{}}

	for _, member := range members {
		var skillRecord models.TeamMemberSkill
		skills := []string{}

		err := s.db.Where("team_id = ? AND user_id = ?", teamID, member.UserID).First(&skillRecord).Error

		if err == nil {
			skills = types.SkillNames(skillRecord.SkillIDs)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamRoster{}, err
		}

		roster.Members = append(roster.Members, MemberProfile{
			Nickname:        member.User.Nickname,
			SelfDescription: member.User.SelfDescription,
			Skills:          skills,
		})
	}

	return roster, nil
}

// MemberUserIDs returns the user ids of a team's current members.
func (s *Service) MemberUserIDs(teamID uint) ([]uint, error) {
	var ids []uint

	err := s.db.Model(&models.EventParticipant{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &ids).Error

	return ids, err
}
