package sweeper

import (
	"testing"
	"time"

	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/recommendations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSweeperFlipsExpiredRows(t *testing.T) {
	database, err := gorm.Open(sqlite.Open("file:sweeper_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	user := models.User{SubjectID: "00000000-0000-0000-0000-000000000001", Email: "u@example.com", Nickname: "u"}
	require.NoError(t, database.Create(&user).Error)

	event := models.Event{Name: "E", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), IsActive: true}
	require.NoError(t, database.Create(&event).Error)

	team := models.Team{EventID: event.ID, Name: "Alpha"}
	require.NoError(t, database.Create(&team).Error)

	stale := models.Recommendation{
		UserID:    user.ID,
		TeamID:    team.ID,
		Score:     0.5,
		Status:    models.RecommendationPending,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, database.Create(&stale).Error)

	sweeper := NewSweeper(recommendations.NewEngine(database), time.Hour)
	sweeper.Start()
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		var reloaded models.Recommendation
		if err := database.First(&reloaded, stale.ID).Error; err != nil {
			return false
		}
		return reloaded.Status == models.RecommendationExpired
	}, 2*time.Second, 10*time.Millisecond)
}
