package teams

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	return database
}

func createUser(t *testing.T, database *gorm.DB, n int) models.User {
	t.Helper()

	user := models.User{
		SubjectID: fmt.Sprintf("00000000-0000-0000-0000-%012d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Nickname:  fmt.Sprintf("user%d", n),
	}
	require.NoError(t, database.Create(&user).Error)

	return user
}

func createEvent(t *testing.T, database *gorm.DB, name string) models.Event {
	t.Helper()

	event := models.Event{
		Name:      name,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(48 * time.Hour),
		IsActive:  true,
	}
	require.NoError(t, database.Create(&event).Error)

	return event
}

func TestJoinEvent(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	assert.ErrorIs(t, service.JoinEvent(user.ID, event.ID), ErrAlreadyJoined)
	assert.ErrorIs(t, service.JoinEvent(user.ID, 999), ErrEventNotFound)
}

func TestJoinInactiveEvent(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")
	require.NoError(t, database.Model(&event).Update("is_active", false).Error)

	assert.ErrorIs(t, service.JoinEvent(user.ID, event.ID), ErrEventNotFound)
}

func TestCreateTeamRequiresJoinedNoTeam(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	_, err := service.CreateTeam(user.ID, event.ID, "Alpha", "")
	assert.ErrorIs(t, err, ErrNotJoinedEvent)

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	team, err := service.CreateTeam(user.ID, event.ID, "Alpha", "hello")
	require.NoError(t, err)
	assert.Equal(t, event.ID, team.EventID)

	// Creating a second team while in one is rejected.
	_, err = service.CreateTeam(user.ID, event.ID, "Beta", "")
	assert.ErrorIs(t, err, ErrAlreadyInTeam)
}

func TestJoinTeamRequiresLeavingFirst(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	founder := createUser(t, database, 1)
	joiner := createUser(t, database, 2)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(founder.ID, event.ID))
	require.NoError(t, service.JoinEvent(joiner.ID, event.ID))

	alpha, err := service.CreateTeam(founder.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	beta, err := service.CreateTeam(joiner.ID, event.ID, "Beta", "")
	require.NoError(t, err)

	// No auto-transfer between teams.
	assert.ErrorIs(t, service.JoinTeam(joiner.ID, alpha.ID), ErrAlreadyInTeam)

	require.NoError(t, service.LeaveTeam(joiner.ID, event.ID))
	require.NoError(t, service.JoinTeam(joiner.ID, alpha.ID))

	// Beta survives empty.
	var reloaded models.Team
	require.NoError(t, database.First(&reloaded, beta.ID).Error)

	members, err := service.MemberUserIDs(beta.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestJoinTeamRequiresEventMembership(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	founder := createUser(t, database, 1)
	outsider := createUser(t, database, 2)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(founder.ID, event.ID))

	team, err := service.CreateTeam(founder.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	assert.ErrorIs(t, service.JoinTeam(outsider.ID, team.ID), ErrNotJoinedEvent)
	assert.ErrorIs(t, service.JoinTeam(outsider.ID, 999), ErrTeamNotFound)
}

func TestLeaveTeamClearsSkills(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	team, err := service.CreateTeam(user.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	require.NoError(t, service.SetSkills(user.ID, event.ID, []int64{1, 6}))
	require.NoError(t, service.LeaveTeam(user.ID, event.ID))

	var count int64
	require.NoError(t, database.Model(&models.TeamMemberSkill{}).
		Where("team_id = ? AND user_id = ?", team.ID, user.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, service.LeaveTeam(user.ID, event.ID), ErrNotInTeam)
}

func TestSetSkillsValidation(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	// Not in a team yet.
	assert.ErrorIs(t, service.SetSkills(user.ID, event.ID, []int64{1}), ErrNotInTeam)

	_, err := service.CreateTeam(user.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	assert.ErrorIs(t, service.SetSkills(user.ID, event.ID, []int64{1, 2, 3}), ErrInvalidSkillSet)
	assert.ErrorIs(t, service.SetSkills(user.ID, event.ID, []int64{37}), ErrInvalidSkillSet)
	assert.ErrorIs(t, service.SetSkills(user.ID, event.ID, []int64{1, 1}), ErrInvalidSkillSet)

	require.NoError(t, service.SetSkills(user.ID, event.ID, []int64{1, 6}))

	// Replacing is an upsert, not an append.
	require.NoError(t, service.SetSkills(user.ID, event.ID, []int64{12}))

	var record models.TeamMemberSkill
	require.NoError(t, database.Where("user_id = ?", user.ID).First(&record).Error)
	assert.Equal(t, []int64{12}, []int64(record.SkillIDs))
}

func TestCurrentTeamAndRoster(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	_, err := service.CurrentTeam(user.ID, event.ID)
	assert.ErrorIs(t, err, ErrNotInTeam)

	team, err := service.CreateTeam(user.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	current, err := service.CurrentTeam(user.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, current.ID)

	require.NoError(t, service.SetSkills(user.ID, event.ID, []int64{1}))

	roster, err := service.Roster(team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", roster.TeamName)
	require.Len(t, roster.Members, 1)
	assert.Equal(t, "user1", roster.Members[0].Nickname)
	assert.Len(t, roster.Members[0].Skills, 1)
}

func TestListEventsOrderedByParticipants(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	quiet := createEvent(t, database, "Quiet")
	busy := createEvent(t, database, "Busy")

	for i := 1; i <= 3; i++ {
		user := createUser(t, database, i)
		require.NoError(t, service.JoinEvent(user.ID, busy.ID))
	}

	inactive := createEvent(t, database, "Hidden")
	require.NoError(t, database.Model(&inactive).Update("is_active", false).Error)

	summaries, err := service.ListEvents()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, busy.ID, summaries[0].Event.ID)
	assert.Equal(t, 3, summaries[0].ParticipantCount)
	assert.Equal(t, quiet.ID, summaries[1].Event.ID)
}
