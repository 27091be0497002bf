package utils

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/princinho/vidstream/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// Atlas Search index over videos.title and videos.description.
	searchIndex = "search-video"
)

type VideoListParams struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Page     int
	Limit    int
}

// sortBy can be views, createdAt or duration; anything else falls back to
// the default newest-first ordering.
var sortableFields = map[string]bool{
	"views":     true,
	"createdAt": true,
	"duration":  true,
}

func (p VideoListParams) normalized() VideoListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// videoFilterStages builds the stages shared by the listing and its count:
// optional full-text search, optional owner restriction, and the mandatory
// published-only match, in that order.
func videoFilterStages(p VideoListParams) (mongo.Pipeline, error) {
	pipeline := mongo.Pipeline{}

	if p.Query != "" {
		pipeline = append(pipeline, bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: searchIndex},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: p.Query},
				{Key: "path", Value: bson.A{"title", "description"}},
			}},
		}}})
	}

	if p.UserID != "" {
		ownerID, err := bson.ObjectIDFromHex(p.UserID)
		if err != nil {
			return nil, apperror.Validation("invalid userId")
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "owner", Value: ownerID},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
		{Key: "isPublished", Value: true},
	}}})

	return pipeline, nil
}

func videoSortStage(p VideoListParams) bson.D {
	if p.SortBy != "" && p.SortType != "" && sortableFields[p.SortBy] {
		dir := -1
		if p.SortType == "asc" {
			dir = 1
		}
		return bson.D{{Key: "$sort", Value: bson.D{{Key: p.SortBy, Value: dir}}}}
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}
}

// OwnerLookupStages joins the owning user onto each video, exposing only
// username and avatar URL. The $unwind enforces one owner per video: a video
// whose owner reference does not resolve yields no row.
func OwnerLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "ownerDetails"},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "username", Value: 1},
					{Key: "avatar.url", Value: 1},
				}}},
			}},
		}}},
		bson.D{{Key: "$unwind", Value: "$ownerDetails"}},
	}
}

// BuildVideoListPipeline assembles the full listing pipeline:
// search → owner match → published match → sort → owner join → paginate.
func BuildVideoListPipeline(p VideoListParams) (mongo.Pipeline, error) {
	p = p.normalized()

	pipeline, err := videoFilterStages(p)
	if err != nil {
		return nil, err
	}

	pipeline = append(pipeline, videoSortStage(p))
	pipeline = append(pipeline, OwnerLookupStages()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: int64((p.Page - 1) * p.Limit)}},
		bson.D{{Key: "$limit", Value: int64(p.Limit)}},
	)

	return pipeline, nil
}

// BuildVideoCountPipeline counts the rows the listing would produce before
// pagination. It includes the owner join so orphaned videos are not counted.
func BuildVideoCountPipeline(p VideoListParams) (mongo.Pipeline, error) {
	pipeline, err := videoFilterStages(p.normalized())
	if err != nil {
		return nil, err
	}

	pipeline = append(pipeline, OwnerLookupStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$count", Value: "count"}})

	return pipeline, nil
}

type Page struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPage(items any, total int64, page, limit int) Page {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
