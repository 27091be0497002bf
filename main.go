package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/princinho/vidstream/controllers"
	"github.com/princinho/vidstream/database"
	"github.com/princinho/vidstream/middleware"
	"github.com/princinho/vidstream/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()
	usersCol := database.OpenCollection("users")
	if err := utils.EnsureUserIndexes(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	store, err := utils.NewMediaStore(ctx, utils.LoadStorageConfig())
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/register", controllers.Register(store))
	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/auth/logout", controllers.Logout())

		authed.GET("/users/me", controllers.CurrentUser())
		authed.POST("/users/me/password", controllers.ChangeMyPassword())
		authed.GET("/users/me/history", controllers.WatchHistory())

		authed.GET("/videos", controllers.GetVideos())
		authed.POST("/videos", controllers.PublishVideo(store))
		authed.GET("/videos/:videoId", controllers.GetVideoByID())
		authed.PATCH("/videos/:videoId", controllers.UpdateVideo(store))
		authed.DELETE("/videos/:videoId", controllers.DeleteVideo(store))
		authed.PATCH("/videos/:videoId/toggle-publish", controllers.TogglePublish())
	}

	// Start server on port 8080 (default)
	r.Run()
}
