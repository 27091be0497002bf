package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princinho/vidstream/dto"
	"github.com/princinho/vidstream/models"
)

func strPtr(s string) *string { return &s }

func TestApplyVideoUpdate(t *testing.T) {
	now := time.Now().UTC()
	video := models.Video{
		ID:          bson.NewObjectID(),
		Title:       "old title",
		Description: "old description",
		Thumbnail:   models.FileRef{PublicID: "images/old", URL: "https://cdn.example.com/images/old"},
	}

	newThumb := models.FileRef{PublicID: "images/new", URL: "https://cdn.example.com/images/new"}
	set := applyVideoUpdate(&video, dto.UpdateVideoDTO{
		Title: strPtr("new title"),
	}, newThumb, now)

	assert.Equal(t, "new title", set["title"])
	assert.Equal(t, newThumb, set["thumbnail"])
	assert.Equal(t, now, set["updatedAt"])
	assert.NotContains(t, set, "description")

	// the in-memory record mirrors the stored state for the response
	assert.Equal(t, "new title", video.Title)
	assert.Equal(t, "old description", video.Description)
	assert.Equal(t, newThumb, video.Thumbnail)
	assert.Equal(t, now, video.UpdatedAt)
}

func TestApplyVideoUpdateDescriptionOnly(t *testing.T) {
	now := time.Now().UTC()
	video := models.Video{
		Title:     "unchanged",
		Thumbnail: models.FileRef{PublicID: "images/old"},
	}

	set := applyVideoUpdate(&video, dto.UpdateVideoDTO{
		Description: strPtr("fresh description"),
	}, models.FileRef{}, now)

	assert.Equal(t, "fresh description", set["description"])
	assert.NotContains(t, set, "title")
	assert.NotContains(t, set, "thumbnail")
	assert.Equal(t, "fresh description", video.Description)
	assert.Equal(t, "images/old", video.Thumbnail.PublicID)
}

func TestApplyVideoUpdateNoFields(t *testing.T) {
	video := models.Video{Title: "unchanged"}
	set := applyVideoUpdate(&video, dto.UpdateVideoDTO{}, models.FileRef{}, time.Now().UTC())
	assert.Empty(t, set)
	assert.Equal(t, "unchanged", video.Title)
	assert.True(t, video.UpdatedAt.IsZero())
}
