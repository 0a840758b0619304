package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kindred-dev/kindred/db"
	"github.com/kindred-dev/kindred/internal/auth"
	"github.com/kindred-dev/kindred/internal/models"
	"github.com/kindred-dev/kindred/internal/types"
	"gorm.io/gorm"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		subject, ok := claims["sub"].(string)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid subject in token claims"})
			return
		}

		if _, err := uuid.Parse(subject); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid subject in token claims"})
			return
		}

		email, _ := claims["email"].(string)

		user, err := resolveUser(subject, email)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Nickname: user.Nickname,
			Email:    user.Email,
		})
		ctx.Next()
	}
}

// resolveUser maps an external subject to the local profile row, provisioning
// one on first sight. Identity issuance itself happens at the provider.
func resolveUser(subject string, email string) (models.User, error) {
	var user models.User

	err := db.DB.Where("subject_id = ?", subject).First(&user).Error

	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	if email == "" {
		return models.User{}, errors.New("email claim required to provision user")
	}

	user = models.User{
		SubjectID: subject,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Nickname:  strings.SplitN(email, "@", 2)[0],
	}

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to provision user for subject %s: %v", subject, err)
		return models.User{}, err
	}

	return user, nil
}
