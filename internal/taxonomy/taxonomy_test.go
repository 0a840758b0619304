package taxonomy

import (
	"fmt"
	"strings"
	"testing"

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

func createCategory(t *testing.T, service *Service, code, name string, parentID *uint) models.Category {
	t.Helper()

	category, err := service.CreateCategory(CreateCategoryInput{Code: code, Name: name, ParentID: parentID})
	require.NoError(t, err)

	return category
}

func TestCreateCategoryDerivesPathAndLevel(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "运动", nil)
	assert.Equal(t, 1, sports.Level)
	assert.Equal(t, "/运动", sports.Path)

	ball := createCategory(t, service, "ball-sports", "球类运动", &sports.ID)
	assert.Equal(t, 2, ball.Level)
	assert.Equal(t, "/运动/球类运动", ball.Path)

	basketball := createCategory(t, service, "basketball", "篮球", &ball.ID)
	assert.Equal(t, 3, basketball.Level)
	assert.Equal(t, "/运动/球类运动/篮球", basketball.Path)
}

func TestCreateCategoryRejectsDuplicateSibling(t *testing.T) {
	service := NewService(setupTestDB(t))

	root := createCategory(t, service, "sports", "Sports", nil)
	createCategory(t, service, "ball", "Ball", &root.ID)

	_, err := service.CreateCategory(CreateCategoryInput{Code: "ball-2", Name: "Ball", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrDuplicateSibling)

	// Same name under a different parent is fine.
	other := createCategory(t, service, "arts", "Arts", nil)
	_, err = service.CreateCategory(CreateCategoryInput{Code: "ball-3", Name: "Ball", ParentID: &other.ID})
	assert.NoError(t, err)
}

func TestCreateCategoryRejectsDuplicateCode(t *testing.T) {
	service := NewService(setupTestDB(t))

	createCategory(t, service, "sports", "Sports", nil)

	_, err := service.CreateCategory(CreateCategoryInput{Code: "sports", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateCategoryMissingParent(t *testing.T) {
	service := NewService(setupTestDB(t))

	missing := uint(999)
	_, err := service.CreateCategory(CreateCategoryInput{Code: "x", Name: "X", ParentID: &missing})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestMoveCategoryRewritesSubtree(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)
	ball := createCategory(t, service, "ball", "Ball", &sports.ID)
	basketball := createCategory(t, service, "basketball", "Basketball", &ball.ID)
	street := createCategory(t, service, "street", "Street", &basketball.ID)

	outdoor := createCategory(t, service, "outdoor", "Outdoor", nil)

	moved, err := service.MoveCategory(ball.ID, &outdoor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Level)
	assert.Equal(t, "/Outdoor/Ball", moved.Path)

	reloaded, err := service.GetCategory(basketball.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Level)
	assert.Equal(t, "/Outdoor/Ball/Basketball", reloaded.Path)

	deepest, err := service.GetCategory(street.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, deepest.Level)
	assert.Equal(t, "/Outdoor/Ball/Basketball/Street", deepest.Path)
}

func TestMoveCategoryToRoot(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)
	ball := createCategory(t, service, "ball", "Ball", &sports.ID)

	moved, err := service.MoveCategory(ball.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.Level)
	assert.Equal(t, "/Ball", moved.Path)
	assert.Nil(t, moved.ParentID)
}

func TestMoveCategoryRejectsCycle(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)
	ball := createCategory(t, service, "ball", "Ball", &sports.ID)
	basketball := createCategory(t, service, "basketball", "Basketball", &ball.ID)

	_, err := service.MoveCategory(sports.ID, &basketball.ID)
	assert.ErrorIs(t, err, ErrCycle)

	// The rejected move must leave the tree untouched.
	reloaded, err := service.GetCategory(sports.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ParentID)
	assert.Equal(t, 1, reloaded.Level)
	assert.Equal(t, "/Sports", reloaded.Path)
}

func TestMoveCategoryRejectsSelfParent(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)

	_, err := service.MoveCategory(sports.ID, &sports.ID)
	assert.ErrorIs(t, err, ErrSelfParent)
}

func TestSubtreeAndAncestors(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)
	ball := createCategory(t, service, "ball", "Ball", &sports.ID)
	basketball := createCategory(t, service, "basketball", "Basketball", &ball.ID)
	swimming := createCategory(t, service, "swimming", "Swimming", &sports.ID)

	subtree, err := service.Subtree(sports.ID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(subtree))
	for _, node := range subtree {
		ids = append(ids, node.ID)
	}
	assert.ElementsMatch(t, []uint{ball.ID, basketball.ID, swimming.ID}, ids)

	ancestors, err := service.Ancestors(basketball.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, sports.ID, ancestors[0].ID)
	assert.Equal(t, ball.ID, ancestors[1].ID)
}

func TestListCategoriesLevelCap(t *testing.T) {
	service := NewService(setupTestDB(t))

	sports := createCategory(t, service, "sports", "Sports", nil)
	ball := createCategory(t, service, "ball", "Ball", &sports.ID)
	createCategory(t, service, "basketball", "Basketball", &ball.ID)

	capped, err := service.ListCategories(2, false)
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	all, err := service.ListCategories(0, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
