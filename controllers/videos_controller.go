package controllers

import (
	"errors"
	"log"
	"net/http"
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

func GetVideos() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		params := utils.VideoListParams{
			Query:    strings.TrimSpace(c.Query("query")),
			UserID:   strings.TrimSpace(c.Query("userId")),
			SortBy:   strings.TrimSpace(c.Query("sortBy")),
			SortType: strings.TrimSpace(c.Query("sortType")),
			Page:     utils.ParseIntDefault(c.Query("page"), utils.DefaultPage),
			Limit:    utils.ParseIntDefault(c.Query("limit"), utils.DefaultLimit),
		}
		if params.Page < 1 {
			params.Page = utils.DefaultPage
		}
		if params.Limit < 1 {
			params.Limit = utils.DefaultLimit
		}
		if params.Limit > utils.MaxLimit {
			params.Limit = utils.MaxLimit
		}

		listPipeline, err := utils.BuildVideoListPipeline(params)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		countPipeline, err := utils.BuildVideoCountPipeline(params)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		videosCol := database.OpenCollection("videos")

		cursor, err := videosCol.Aggregate(ctx, listPipeline)
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to fetch videos", err))
			return
		}
		videos := make([]models.VideoWithOwner, 0)
		if err := cursor.All(ctx, &videos); err != nil {
			utils.RespondError(c, apperror.Internal("failed to decode videos", err))
			return
		}

		var total int64
		countCursor, err := videosCol.Aggregate(ctx, countPipeline)
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to count videos", err))
			return
		}
		var counts []struct {
			Count int64 `bson:"count"`
		}
		if err := countCursor.All(ctx, &counts); err != nil {
			utils.RespondError(c, apperror.Internal("failed to count videos", err))
			return
		}
		if len(counts) > 0 {
			total = counts[0].Count
		}

		utils.Respond(c, http.StatusOK, utils.NewPage(videos, total, params.Page, params.Limit), "Videos fetched successfully")
	}
}

// GetVideoByID fetches a single published video with owner info, then
// increments the view counter and records the watch-history entry. Both side
// effects run after the response and never fail the read.
func GetVideoByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		videoID, err := bson.ObjectIDFromHex(c.Param("videoId"))
		if err != nil {
			utils.RespondError(c, apperror.Validation("invalid videoId"))
			return
		}

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{
				{Key: "_id", Value: videoID},
				{Key: "isPublished", Value: true},
			}}},
		}
		pipeline = append(pipeline, utils.OwnerLookupStages()...)

		videosCol := database.OpenCollection("videos")
		cursor, err := videosCol.Aggregate(ctx, pipeline)
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to fetch video", err))
			return
		}
		var results []models.VideoWithOwner
		if err := cursor.All(ctx, &results); err != nil {
			utils.RespondError(c, apperror.Internal("failed to decode video", err))
			return
		}
		// the aggregation always yields a slice, so absence is a length
		// check, never a nil check
		if len(results) == 0 {
			utils.RespondError(c, apperror.NotFound("video not found"))
			return
		}

		utils.Respond(c, http.StatusOK, results[0], "Video fetched successfully")

		if _, err := videosCol.UpdateByID(ctx, videoID, bson.M{"$inc": bson.M{"views": 1}}); err != nil {
			log.Printf("failed to increment views for %s: %v", videoID.Hex(), err)
		}
		if userID, cerr := callerID(c); cerr == nil {
			usersCol := database.OpenCollection("users")
			if _, err := usersCol.UpdateByID(ctx, userID, bson.M{
				"$addToSet": bson.M{"watchHistory": videoID},
			}); err != nil {
				log.Printf("failed to record watch history for %s: %v", userID.Hex(), err)
			}
		}
	}
}

func PublishVideo(store utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.PublishVideoDTO
		if err := c.ShouldBind(&body); err != nil {
			utils.RespondError(c, apperror.Validation(err.Error()))
			return
		}

		userID, err := callerID(c)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		videoFile, ferr := c.FormFile("videoFile")
		if ferr != nil {
			utils.RespondError(c, apperror.Validation("video file is required"))
			return
		}
		thumbFile, ferr := c.FormFile("thumbnail")
		if ferr != nil {
			utils.RespondError(c, apperror.Validation("thumbnail file is required"))
			return
		}

		ctx := c.Request.Context()
		slug := utils.GenerateSlug(body.Title)

		videoRef, uerr := stageAndUpload(c, store, videoFile, utils.ResourceVideo, slug)
		if uerr != nil {
			utils.RespondError(c, uerr)
			return
		}
		thumbRef, uerr := stageAndUpload(c, store, thumbFile, utils.ResourceImage, slug)
		if uerr != nil {
			discardAssets(ctx, store, stagedAsset{ref: videoRef, kind: utils.ResourceVideo})
			utils.RespondError(c, uerr)
			return
		}

		now := time.Now().UTC()
		video := models.Video{
			ID:          bson.NewObjectID(),
			VideoFile:   videoRef,
			Thumbnail:   thumbRef,
			Title:       body.Title,
			Description: body.Description,
			Duration:    body.Duration,
			IsPublished: true,
			Owner:       userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		videosCol := database.OpenCollection("videos")
		if _, err := videosCol.InsertOne(ctx, video); err != nil {
			discardAssets(ctx, store,
				stagedAsset{ref: videoRef, kind: utils.ResourceVideo},
				stagedAsset{ref: thumbRef, kind: utils.ResourceImage},
			)
			utils.RespondError(c, apperror.Internal("failed to create video", err))
			return
		}

		utils.Respond(c, http.StatusCreated, video, "Video published successfully")
	}
}

// loadOwnedVideo fetches a video and verifies the caller owns it.
func loadOwnedVideo(c *gin.Context) (*models.Video, error) {
	videoID, err := bson.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		return nil, apperror.Validation("invalid videoId")
	}

	userID, aerr := callerID(c)
	if aerr != nil {
		return nil, aerr
	}

	videosCol := database.OpenCollection("videos")
	var video models.Video
	if err := videosCol.FindOne(c.Request.Context(), bson.M{"_id": videoID}).Decode(&video); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("video not found")
		}
		return nil, apperror.Internal("failed to fetch video", err)
	}

	if err := utils.RequireOwner(video.Owner, userID); err != nil {
		return nil, err
	}

	return &video, nil
}

// applyVideoUpdate builds the $set document for an edit and mirrors the same
// changes onto the in-memory record so the response matches the stored state.
// An empty result means no fields were provided.
func applyVideoUpdate(video *models.Video, body dto.UpdateVideoDTO, newThumb models.FileRef, now time.Time) bson.M {
	set := bson.M{}
	if body.Title != nil {
		set["title"] = *body.Title
		video.Title = *body.Title
	}
	if body.Description != nil {
		set["description"] = *body.Description
		video.Description = *body.Description
	}
	if newThumb.PublicID != "" {
		set["thumbnail"] = newThumb
		video.Thumbnail = newThumb
	}
	if len(set) == 0 {
		return set
	}
	set["updatedAt"] = now
	video.UpdatedAt = now
	return set
}

// UpdateVideo edits title/description and optionally replaces the thumbnail.
// The new thumbnail uploads before the record update; the old remote asset is
// deleted only after the update succeeds, so the record never points at a
// missing asset.
func UpdateVideo(store utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		video, lerr := loadOwnedVideo(c)
		if lerr != nil {
			utils.RespondError(c, lerr)
			return
		}

		var body dto.UpdateVideoDTO
		if err := c.ShouldBind(&body); err != nil {
			utils.RespondError(c, apperror.Validation(err.Error()))
			return
		}

		ctx := c.Request.Context()

		var newThumb models.FileRef
		if thumbFile, err := c.FormFile("thumbnail"); err == nil {
			ref, uerr := stageAndUpload(c, store, thumbFile, utils.ResourceImage, utils.GenerateSlug(video.Title))
			if uerr != nil {
				utils.RespondError(c, uerr)
				return
			}
			newThumb = ref
		}

		oldThumb := video.Thumbnail
		set := applyVideoUpdate(video, body, newThumb, time.Now().UTC())
		if len(set) == 0 {
			utils.RespondError(c, apperror.Validation("no updates provided"))
			return
		}

		videosCol := database.OpenCollection("videos")
		if _, err := videosCol.UpdateByID(ctx, video.ID, bson.M{"$set": set}); err != nil {
			discardAssets(ctx, store, stagedAsset{ref: newThumb, kind: utils.ResourceImage})
			utils.RespondError(c, apperror.Internal("failed to update video", err))
			return
		}

		if newThumb.PublicID != "" && oldThumb.PublicID != "" {
			if derr := store.Delete(ctx, oldThumb.PublicID, utils.ResourceImage); derr != nil {
				log.Printf("failed to delete old thumbnail %s: %v", oldThumb.PublicID, derr)
			}
		}

		utils.Respond(c, http.StatusOK, video, "Video updated successfully")
	}
}

// DeleteVideo removes the record first, then best-effort deletes the remote
// assets. A missing or already-deleted video performs no remote call.
func DeleteVideo(store utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		video, lerr := loadOwnedVideo(c)
		if lerr != nil {
			utils.RespondError(c, lerr)
			return
		}

		ctx := c.Request.Context()
		videosCol := database.OpenCollection("videos")

		res, err := videosCol.DeleteOne(ctx, bson.M{"_id": video.ID})
		if err != nil {
			utils.RespondError(c, apperror.Internal("failed to delete video", err))
			return
		}
		if res.DeletedCount == 0 {
			utils.RespondError(c, apperror.NotFound("video not found"))
			return
		}

		if derr := store.Delete(ctx, video.VideoFile.PublicID, utils.ResourceVideo); derr != nil {
			log.Printf("failed to delete video asset %s: %v", video.VideoFile.PublicID, derr)
		}
		if derr := store.Delete(ctx, video.Thumbnail.PublicID, utils.ResourceImage); derr != nil {
			log.Printf("failed to delete thumbnail asset %s: %v", video.Thumbnail.PublicID, derr)
		}

		utils.Respond(c, http.StatusOK, video, "Video deleted successfully")
	}
}

func TogglePublish() gin.HandlerFunc {
	return func(c *gin.Context) {
		video, lerr := loadOwnedVideo(c)
		if lerr != nil {
			utils.RespondError(c, lerr)
			return
		}

		videosCol := database.OpenCollection("videos")
		if _, err := videosCol.UpdateByID(c.Request.Context(), video.ID, bson.M{"$set": bson.M{
			"isPublished": !video.IsPublished,
			"updatedAt":   time.Now().UTC(),
		}}); err != nil {
			utils.RespondError(c, apperror.Internal("failed to toggle publish status", err))
			return
		}

		utils.Respond(c, http.StatusOK, gin.H{"isPublished": !video.IsPublished}, "Publish status toggled")
	}
}
