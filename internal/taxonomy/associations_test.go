package taxonomy

import (
	"testing"

	"github.com/kindred-dev/kindred/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, database *gorm.DB, nickname string) models.User {
	t.Helper()

	user := models.User{
		SubjectID: "00000000-0000-0000-0000-00000000000" + nickname[len(nickname)-1:],
		Email:     nickname + "@example.com",
		Nickname:  nickname,
	}
	require.NoError(t, database.Create(&user).Error)

	return user
}

func createAttribute(t *testing.T, service *Service, categoryID uint, code, name string) models.Attribute {
	t.Helper()

	attribute, err := service.CreateAttribute(CreateAttributeInput{
		CategoryID: categoryID,
		Code:       code,
		Name:       name,
	})
	require.NoError(t, err)

	return attribute
}

func popularityOf(t *testing.T, service *Service, attributeID uint) int {
	t.Helper()

	attribute, err := service.GetAttribute(attributeID)
	require.NoError(t, err)

	return attribute.PopularityScore
}

func TestAddAssociationRecomputesPopularity(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	attribute := createAttribute(t, service, category.ID, "basketball", "Basketball")

	for i := 1; i <= 3; i++ {
		user := createUser(t, database, "user"+string(rune('0'+i)))

		_, err := service.AddAssociation(user.ID, AddAssociationInput{
			AttributeID:   attribute.ID,
			InterestLevel: 7,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, popularityOf(t, service, attribute.ID))
}

func TestDeactivatedAssociationLeavesPopularity(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	attribute := createAttribute(t, service, category.ID, "basketball", "Basketball")

	users := make([]models.User, 0, 3)

	for i := 1; i <= 3; i++ {
		user := createUser(t, database, "user"+string(rune('0'+i)))
		users = append(users, user)

		_, err := service.AddAssociation(user.ID, AddAssociationInput{
			AttributeID:   attribute.ID,
			InterestLevel: 7,
		})
		require.NoError(t, err)
	}

	inactive := "inactive"
	_, err := service.UpdateAssociation(users[0].ID, attribute.ID, UpdateAssociationInput{Status: &inactive})
	require.NoError(t, err)

	assert.Equal(t, 2, popularityOf(t, service, attribute.ID))
}

func TestRemoveAssociationRecomputesPopularity(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	attribute := createAttribute(t, service, category.ID, "basketball", "Basketball")

	user := createUser(t, database, "user1")

	_, err := service.AddAssociation(user.ID, AddAssociationInput{
		AttributeID:   attribute.ID,
		InterestLevel: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, popularityOf(t, service, attribute.ID))

	require.NoError(t, service.RemoveAssociation(user.ID, attribute.ID))
	assert.Equal(t, 0, popularityOf(t, service, attribute.ID))

	assert.ErrorIs(t, service.RemoveAssociation(user.ID, attribute.ID), ErrAssociationNotFound)
}

func TestAddAssociationValidation(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	attribute := createAttribute(t, service, category.ID, "basketball", "Basketball")
	user := createUser(t, database, "user1")

	_, err := service.AddAssociation(user.ID, AddAssociationInput{AttributeID: attribute.ID, InterestLevel: 0})
	assert.ErrorIs(t, err, ErrInvalidInterest)

	_, err = service.AddAssociation(user.ID, AddAssociationInput{AttributeID: attribute.ID, InterestLevel: 11})
	assert.ErrorIs(t, err, ErrInvalidInterest)

	negative := -1
	_, err = service.AddAssociation(user.ID, AddAssociationInput{
		AttributeID:     attribute.ID,
		InterestLevel:   5,
		ExperienceYears: &negative,
	})
	assert.ErrorIs(t, err, ErrInvalidExperience)

	_, err = service.AddAssociation(user.ID, AddAssociationInput{
		AttributeID:   attribute.ID,
		InterestLevel: 5,
		SkillLevel:    "wizard",
	})
	assert.ErrorIs(t, err, ErrInvalidSkillLevel)

	_, err = service.AddAssociation(user.ID, AddAssociationInput{AttributeID: 999, InterestLevel: 5})
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestAddAssociationRejectsDuplicate(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	attribute := createAttribute(t, service, category.ID, "basketball", "Basketball")
	user := createUser(t, database, "user1")

	_, err := service.AddAssociation(user.ID, AddAssociationInput{AttributeID: attribute.ID, InterestLevel: 5})
	require.NoError(t, err)

	_, err = service.AddAssociation(user.ID, AddAssociationInput{AttributeID: attribute.ID, InterestLevel: 5})
	assert.ErrorIs(t, err, ErrAssociationExists)
}

func TestActiveAttributeIDs(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	basketball := createAttribute(t, service, category.ID, "basketball", "Basketball")
	swimming := createAttribute(t, service, category.ID, "swimming", "Swimming")
	user := createUser(t, database, "user1")

	_, err := service.AddAssociation(user.ID, AddAssociationInput{AttributeID: basketball.ID, InterestLevel: 5})
	require.NoError(t, err)
	_, err = service.AddAssociation(user.ID, AddAssociationInput{AttributeID: swimming.ID, InterestLevel: 5})
	require.NoError(t, err)

	inactive := "inactive"
	_, err = service.UpdateAssociation(user.ID, swimming.ID, UpdateAssociationInput{Status: &inactive})
	require.NoError(t, err)

	ids, err := service.ActiveAttributeIDs(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{basketball.ID}, ids)
}

func TestCreateAttributeRejectsDuplicateWithinCategory(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	category := createCategory(t, service, "sports", "Sports", nil)
	createAttribute(t, service, category.ID, "basketball", "Basketball")

	_, err := service.CreateAttribute(CreateAttributeInput{
		CategoryID: category.ID,
		Code:       "basketball",
		Name:       "Hoops",
	})
	assert.ErrorIs(t, err, ErrDuplicateAttribute)

	// Same code under a different category is fine.
	other := createCategory(t, service, "arts", "Arts", nil)
	_, err = service.CreateAttribute(CreateAttributeInput{
		CategoryID: other.ID,
		Code:       "basketball",
		Name:       "Basketball",
	})
	assert.NoError(t, err)
}
