package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/princinho/vidstream/apperror"
	"github.com/princinho/vidstream/database"
	"github.com/princinho/vidstream/dto"
	"github.com/princinho/vidstream/models"
	"github.com/princinho/vidstream/utils"
)

// generateTokenPair mints and persists a fresh (access, refresh) pair for an
// already-verified identity. A missing user is an authentication failure,
// not an internal one; only mint/persist failures map to 500.
func generateTokenPair(ctx context.Context, usersCol *mongo.Collection, userID bson.ObjectID) (string, string, error) {
	var user models.User
	if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", "", apperror.Authentication("user not found")
		}
		return "", "", apperror.Internal("failed to load user", err)
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Username, user.Email, user.FullName, utils.AccessTTL())
	if err != nil {
		return "", "", apperror.Internal("failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), utils.RefreshTTL())
	if err != nil {
		return "", "", apperror.Internal("failed to generate refresh token", err)
	}

	// Field-level $set only: rotating the credential must not touch or
	// re-validate the rest of the document.
	if _, err := usersCol.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"refreshToken": refreshToken,
	}}); err != nil {
		return "", "", apperror.Internal("failed to store refresh token", err)
	}

	return accessToken, refreshToken, nil
}

func Register(store utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBind(&body); err != nil {
			utils.RespondError(c, apperror.Validation(err.Error()))
			return
		}

		username := strings.ToLower(strings.TrimSpace(body.Username))
		email := strings.ToLower(strings.TrimSpace(body.Email))

		avatarFile, err := c.FormFile("avatar")
		if err != nil {
			utils.RespondError(c, apperror.Validation("avatar file is required"))
			return
		}

		avatar, aerr := stageAndUpload(c, store, avatarFile, utils.ResourceImage, "avatars/"+username)
		if aerr != nil {
			utils.RespondError(c, aerr)
			return
		}

		var coverImage models.FileRef
		if coverFile, err := c.FormFile("coverImage"); err == nil {
			coverImage, aerr = stageAndUpload(c, store, coverFile, utils.ResourceImage, "covers/"+username)
			if aerr != nil {
				utils.RespondError(c, aerr)
				return
			}
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to hash password", err))
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Username:     username,
			Email:        email,
			FullName:     body.FullName,
			Avatar:       avatar,
			CoverImage:   coverImage,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		usersCol := database.OpenCollection("users")
		if _, err := usersCol.InsertOne(c.Request.Context(), user); err != nil {
			discardAssets(c.Request.Context(), store,
				stagedAsset{ref: avatar, kind: utils.ResourceImage},
				stagedAsset{ref: coverImage, kind: utils.ResourceImage},
			)
			if utils.IsDuplicateKey(err) {
				utils.RespondError(c, apperror.Conflict("user with email or username already exists"))
				return
			}
			utils.RespondError(c, apperror.Internal("failed to register user", err))
			return
		}

		utils.Respond(c, http.StatusCreated, user, "User registered successfully")
	}
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, apperror.Validation(err.Error()))
			return
		}
		if body.Username == "" && body.Email == "" {
			utils.RespondError(c, apperror.Validation("username or email is required"))
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		filter := bson.M{"$or": bson.A{
			bson.M{"username": strings.ToLower(strings.TrimSpace(body.Username))},
			bson.M{"email": strings.ToLower(strings.TrimSpace(body.Email))},
		}}
		if err := usersCol.FindOne(ctx, filter).Decode(&user); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid user credentials"))
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid user credentials"))
			return
		}

		accessToken, refreshToken, err := generateTokenPair(ctx, usersCol, user.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		utils.SetAuthCookies(c, accessToken, refreshToken)
		utils.Respond(c, http.StatusOK, gin.H{
			"user":         user,
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		}, "User logged in successfully")
	}
}

func Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		incoming, err := c.Cookie("refreshToken")
		if err != nil || incoming == "" {
			var body dto.RefreshDTO
			if err := c.ShouldBindJSON(&body); err == nil {
				incoming = body.RefreshToken
			}
		}
		if incoming == "" {
			utils.RespondError(c, apperror.Authentication("missing refresh token"))
			return
		}

		claims, err := utils.ValidateToken(incoming, os.Getenv("JWT_REFRESH_SECRET"))
		if err != nil {
			utils.RespondError(c, apperror.Authentication("invalid refresh token"))
			return
		}

		userID, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.RespondError(c, apperror.Authentication("invalid refresh token"))
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.RespondError(c, apperror.Authentication("invalid refresh token"))
			return
		}

		// Rotation: only the currently stored value is acceptable.
		if !utils.AcceptRefreshToken(user.RefreshToken, incoming) {
			utils.RespondError(c, apperror.Authentication("refresh token is expired or used"))
			return
		}

		accessToken, refreshToken, err := generateTokenPair(ctx, usersCol, user.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		utils.SetAuthCookies(c, accessToken, refreshToken)
		utils.Respond(c, http.StatusOK, gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		}, "Access token refreshed")
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		usersCol := database.OpenCollection("users")
		if _, err := usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$unset": bson.M{"refreshToken": 1},
		}); err != nil {
			utils.RespondError(c, apperror.Internal("failed to clear refresh token", err))
			return
		}

		utils.ClearAuthCookies(c)
		utils.Respond(c, http.StatusOK, gin.H{}, "User logged out")
	}
}

// callerID resolves the authenticated user's id set by the auth middleware.
func callerID(c *gin.Context) (bson.ObjectID, error) {
	val, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, apperror.Authentication("missing auth context")
	}
	id, err := bson.ObjectIDFromHex(val.(string))
	if err != nil {
		return bson.ObjectID{}, apperror.Authentication("invalid auth context")
	}
	return id, nil
}
