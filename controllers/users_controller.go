package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princinho/vidstream/apperror"
	"github.com/princinho/vidstream/database"
	"github.com/princinho/vidstream/dto"
	"github.com/princinho/vidstream/models"
	"github.com/princinho/vidstream/utils"
)

// GET /users/me
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		usersCol := database.OpenCollection("users")
		var user models.User
		if err := usersCol.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid user"))
			return
		}

		utils.Respond(c, http.StatusOK, user, "User fetched successfully")
	}
}

// POST /users/me/password
func ChangeMyPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, apperror.Validation(err.Error()))
			return
		}

		userID, err := callerID(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid user"))
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			utils.RespondError(c, apperror.Authentication("current password is incorrect"))
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to hash password", err))
			return
		}

		// Clearing the refresh token forces a fresh login everywhere.
		if _, err := usersCol.UpdateByID(ctx, userID, bson.M{
			"$set":   bson.M{"passwordHash": newHash, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"refreshToken": 1},
		}); err != nil {
			utils.RespondError(c, apperror.Internal("failed to update password", err))
			return
		}

		utils.ClearAuthCookies(c)
		utils.Respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
	}
}

// GET /users/me/history
// Watch history preserves insertion order, so the videos fetched with $in
// are reordered to match the stored id sequence.
func WatchHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid user"))
			return
		}

		history := make([]models.Video, 0)
		if len(user.WatchHistory) > 0 {
			videosCol := database.OpenCollection("videos")
			cursor, err := videosCol.Find(ctx, bson.M{"_id": bson.M{"$in": user.WatchHistory}})
			if err != nil {
				utils.RespondError(c, apperror.Internal("failed to fetch watch history", err))
				return
			}
			var videos []models.Video
			if err := cursor.All(ctx, &videos); err != nil {
				utils.RespondError(c, apperror.Internal("failed to decode watch history", err))
				return
			}

			byID := make(map[bson.ObjectID]models.Video, len(videos))
			for _, v := range videos {
				byID[v.ID] = v
			}
			for _, id := range user.WatchHistory {
				if v, ok := byID[id]; ok {
					history = append(history, v)
				}
			}
		}

		utils.Respond(c, http.StatusOK, history, "Watch history fetched successfully")
	}
}
