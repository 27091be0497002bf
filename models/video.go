package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FileRef points at an object in the remote media store: the store's
// identifier (used for deletion) plus the public URL served to clients.
type FileRef struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

type Video struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoFile   FileRef       `bson:"videoFile" json:"videoFile"`
	Thumbnail   FileRef       `bson:"thumbnail" json:"thumbnail"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Duration    float64       `bson:"duration" json:"duration"`
	Views       int64         `bson:"views" json:"views"`
	IsPublished bool          `bson:"isPublished" json:"isPublished"`
	Owner       bson.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// VideoWithOwner is what the listing/detail aggregations decode into after
// the owner lookup stage.
type VideoWithOwner struct {
	Video        `bson:",inline"`
	OwnerDetails OwnerSummary `bson:"ownerDetails" json:"ownerDetails"`
}
