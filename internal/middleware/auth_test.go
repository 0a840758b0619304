package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/auth"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

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

	previous := db.DB
	db.DB = database
	t.Cleanup(func() { db.DB = previous })
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(ctx *gin.Context) {
		user := ctx.MustGet(types.ContextUserKey).(AuthenticatedUser)
		ctx.JSON(http.StatusOK, user)
	})
	return r
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	setupAuthTest(t)
	r := protectedRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	setupAuthTest(t)
	r := protectedRouter()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareRejectsNonUUIDSubject(t *testing.T) {
	setupAuthTest(t)
	r := protectedRouter()

	token, err := auth.GenerateJWT("not-a-uuid", "user@example.com")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddlewareProvisionsOnFirstSight(t *testing.T) {
	setupAuthTest(t)
	r := protectedRouter()

	subject := uuid.NewString()
	token, err := auth.GenerateJWT(subject, "New.User@Example.com")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var user models.User
	require.NoError(t, db.DB.Where("subject_id = ?", subject).First(&user).Error)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.Equal(t, "New.User", user.Nickname)

	// A second request reuses the provisioned row.
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.User{}).Where("subject_id = ?", subject).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
