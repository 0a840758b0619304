package db

import (
	"errors"

	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

// Migrate creates any missing tables and seeds reference data.
func Migrate(database *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Attribute{},
		&models.UserAttribute{},
		&models.CognitiveFunction{},
		&models.UserCognitiveFunction{},
		&models.PersonalityTrait{},
		&models.UserPersonalityTrait{},
		&models.Event{},
		&models.EventParticipant{},
		&models.Team{},
		&models.TeamMemberSkill{},
		&models.TeamPost{},
		&models.Recommendation{},
	}

	migrator := database.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := database.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return SeedReferenceData(database)
}

// The 8 Jungian cognitive functions. These rows are system reference data;
// seeding is idempotent and keyed by code.
var cognitiveFunctions = []models.CognitiveFunction{
	{Code: "Ti", Name: "Introverted Thinking", FullName: "Introverted Thinking (Ti)", FunctionType: "thinking", Attitude: "introverted", IsActive: true},
	{Code: "Te", Name: "Extraverted Thinking", FullName: "Extraverted Thinking (Te)", FunctionType: "thinking", Attitude: "extraverted", IsActive: true},
	{Code: "Fi", Name: "Introverted Feeling", FullName: "Introverted Feeling (Fi)", FunctionType: "feeling", Attitude: "introverted", IsActive: true},
	{Code: "Fe", Name: "Extraverted Feeling", FullName: "Extraverted Feeling (Fe)", FunctionType: "feeling", Attitude: "extraverted", IsActive: true},
	{Code: "Si", Name: "Introverted Sensing", FullName: "Introverted Sensing (Si)", FunctionType: "sensing", Attitude: "introverted", IsActive: true},
	{Code: "Se", Name: "Extraverted Sensing", FullName: "Extraverted Sensing (Se)", FunctionType: "sensing", Attitude: "extraverted", IsActive: true},
	{Code: "Ni", Name: "Introverted Intuition", FullName: "Introverted Intuition (Ni)", FunctionType: "intuition", Attitude: "introverted", IsActive: true},
	{Code: "Ne", Name: "Extraverted Intuition", FullName: "Extraverted Intuition (Ne)", FunctionType: "intuition", Attitude: "extraverted", IsActive: true},
}

func floatPtr(f float64) *float64 { return &f }

var defaultTraits = []models.PersonalityTrait{
	{Slug: "big-five-openness", Name: "Openness", Framework: "big-five", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "big-five-conscientiousness", Name: "Conscientiousness", Framework: "big-five", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "big-five-extraversion", Name: "Extraversion", Framework: "big-five", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "big-five-agreeableness", Name: "Agreeableness", Framework: "big-five", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "big-five-neuroticism", Name: "Neuroticism", Framework: "big-five", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "enneagram-type", Name: "Enneagram Type", Framework: "enneagram", ValueType: "integer", MinValue: floatPtr(1), MaxValue: floatPtr(9), IsActive: true},
	{Slug: "disc-dominance", Name: "Dominance", Framework: "disc", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "disc-influence", Name: "Influence", Framework: "disc", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "disc-steadiness", Name: "Steadiness", Framework: "disc", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
	{Slug: "disc-conscientiousness", Name: "Conscientiousness (DISC)", Framework: "disc", ValueType: "decimal", MinValue: floatPtr(0), MaxValue: floatPtr(100), IsActive: true},
}

// SeedReferenceData inserts the fixed cognitive functions and the default
// trait definitions if they are missing. Safe to run on every startup.
func SeedReferenceData(database *gorm.DB) error {
	for _, cf := range cognitiveFunctions {
		var existing models.CognitiveFunction

		err := database.Where("code = ?", cf.Code).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := database.Create(&cf).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	for _, trait := range defaultTraits {
		var existing models.PersonalityTrait

		err := database.Where("slug = ?", trait.Slug).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := database.Create(&trait).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}
