package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kindred-dev/kindred/internal/handlers"
	"github.com/kindred-dev/kindred/internal/middleware"
	"github.com/kindred-dev/kindred/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		profile := api.Group("/me", middleware.AuthMiddleware())
		{
			profile.GET("", handlers.GetMyProfile)
			profile.PATCH("", handlers.UpdateMyProfile)

			profile.GET("/attributes", handlers.ListMyAttributes)
			profile.POST("/attributes", handlers.AddMyAttribute)
			profile.PATCH("/attributes/:attribute_id", handlers.UpdateMyAttribute)
			profile.DELETE("/attributes/:attribute_id", handlers.RemoveMyAttribute)

			profile.GET("/functions", handlers.ListMyFunctionScores)
			profile.POST("/functions", handlers.SetMyFunctionScore)
			profile.PATCH("/functions/:function_id", handlers.UpdateMyFunctionScore)
			profile.DELETE("/functions/:function_id", handlers.DeleteMyFunctionScore)
			profile.GET("/functions/distribution", handlers.GetMyFunctionDistribution)

			profile.GET("/traits", handlers.ListMyTraitValues)
			profile.POST("/traits", handlers.SetMyTraitValue)
			profile.PATCH("/traits/:trait_id", handlers.UpdateMyTraitValue)
			profile.DELETE("/traits/:trait_id", handlers.DeleteMyTraitValue)
		}

		categories := api.Group("/categories", middleware.AuthMiddleware())
		{
			categories.GET("", handlers.GetCategoryTree)
			categories.POST("", handlers.CreateCategory)
			categories.PATCH("/:category_id/parent", handlers.MoveCategory)
			categories.GET("/:category_id/subtree", handlers.GetSubtree)
			categories.GET("/:category_id/ancestors", handlers.GetAncestors)
			categories.GET("/:category_id/attributes", handlers.GetAttributesByCategory)
		}

		attributes := api.Group("/attributes", middleware.AuthMiddleware())
		{
			attributes.POST("", handlers.CreateAttribute)
			attributes.GET("/search", handlers.SearchAttributes)
			attributes.GET("/popular", handlers.GetPopularAttributes)
		}

		reference := api.Group("/reference", middleware.AuthMiddleware())
		{
			reference.GET("/functions", handlers.ListCognitiveFunctions)
			reference.GET("/traits", handlers.ListPersonalityTraits)
			reference.GET("/skills", handlers.GetSkillCatalog)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.GET("", handlers.ListEvents)
			events.POST("/:event_id/join", handlers.JoinEvent)
			events.GET("/:event_id/team", handlers.GetMyTeam)
			events.DELETE("/:event_id/team", handlers.LeaveTeam)
		}

		teams := api.Group("/teams", middleware.AuthMiddleware())
		{
			teams.POST("", handlers.CreateTeam)
			teams.POST("/:team_id/join", handlers.JoinTeam)
			teams.GET("/:team_id/members", handlers.GetTeamRoster)
			teams.PUT("/skills", handlers.SetMySkills)
		}

		posts := api.Group("/posts", middleware.AuthMiddleware())
		{
			posts.GET("", handlers.ListPosts)
			posts.POST("", handlers.CreatePost)
			posts.PUT("/:post_id", handlers.UpdatePost)
			posts.DELETE("/:post_id", handlers.DeletePost)
		}

		recommendations := api.Group("/recommendations", middleware.AuthMiddleware())
		{
			recommendations.GET("", handlers.ListRecommendations)
			recommendations.POST("/generate", handlers.GenerateRecommendations)
			recommendations.PATCH("/:recommendation_id", handlers.UpdateRecommendationStatus)
		}
	}

	return r
}
