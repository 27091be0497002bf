package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string          `bson:"username" json:"username"`
	Email        string          `bson:"email" json:"email"`
	FullName     string          `bson:"fullName" json:"fullName"`
	Avatar       FileRef         `bson:"avatar" json:"avatar"`
	CoverImage   FileRef         `bson:"coverImage,omitempty" json:"coverImage"`
	PasswordHash string          `bson:"passwordHash" json:"-"` // never expose
	RefreshToken *string         `bson:"refreshToken,omitempty" json:"-"`
	WatchHistory []bson.ObjectID `bson:"watchHistory,omitempty" json:"watchHistory,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// OwnerSummary is the slice of a User exposed through the video owner join:
// username and avatar URL, nothing else.
type OwnerSummary struct {
	Username string `bson:"username" json:"username"`
	Avatar   struct {
		URL string `bson:"url" json:"url"`
	} `bson:"avatar" json:"avatar"`
}
