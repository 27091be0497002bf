package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/princinho/vidstream/apperror"
)

func stageKeys(p mongo.Pipeline) []string {
	keys := make([]string, 0, len(p))
	for _, stage := range p {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func TestBuildVideoListPipelineDefaults(t *testing.T) {
	pipeline, err := BuildVideoListPipeline(VideoListParams{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"$match", "$sort", "$lookup", "$unwind", "$skip", "$limit"},
		stageKeys(pipeline),
	)

	match := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, "isPublished", match[0].Key)
	assert.Equal(t, true, match[0].Value)

	sortDoc := pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "createdAt", sortDoc[0].Key)
	assert.Equal(t, -1, sortDoc[0].Value)

	assert.Equal(t, int64(0), pipeline[4][0].Value)
	assert.Equal(t, int64(DefaultLimit), pipeline[5][0].Value)
}

func TestBuildVideoListPipelineSearchStageComesFirst(t *testing.T) {
	pipeline, err := BuildVideoListPipeline(VideoListParams{Query: "cats"})
	require.NoError(t, err)

	assert.Equal(t, "$search", pipeline[0][0].Key)
	search := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, "index", search[0].Key)
	assert.Equal(t, "search-video", search[0].Value)

	text := search[1].Value.(bson.D)
	assert.Equal(t, "cats", text[0].Value)
	assert.Equal(t, bson.A{"title", "description"}, text[1].Value)
}

func TestBuildVideoListPipelineOwnerFilter(t *testing.T) {
	ownerID := bson.NewObjectID()
	pipeline, err := BuildVideoListPipeline(VideoListParams{UserID: ownerID.Hex()})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"$match", "$match", "$sort", "$lookup", "$unwind", "$skip", "$limit"},
		stageKeys(pipeline),
	)

	ownerMatch := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, "owner", ownerMatch[0].Key)
	assert.Equal(t, ownerID, ownerMatch[0].Value)
}

func TestBuildVideoListPipelineInvalidOwnerID(t *testing.T) {
	_, err := BuildVideoListPipeline(VideoListParams{UserID: "not-a-hex-id"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))

	_, err = BuildVideoCountPipeline(VideoListParams{UserID: "not-a-hex-id"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
}

func TestBuildVideoListPipelineSort(t *testing.T) {
	pipeline, err := BuildVideoListPipeline(VideoListParams{SortBy: "views", SortType: "asc"})
	require.NoError(t, err)
	sortDoc := pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "views", sortDoc[0].Key)
	assert.Equal(t, 1, sortDoc[0].Value)

	// anything but "asc" sorts descending
	pipeline, err = BuildVideoListPipeline(VideoListParams{SortBy: "duration", SortType: "descending"})
	require.NoError(t, err)
	sortDoc = pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "duration", sortDoc[0].Key)
	assert.Equal(t, -1, sortDoc[0].Value)

	// unknown sort fields fall back to newest-first
	pipeline, err = BuildVideoListPipeline(VideoListParams{SortBy: "passwordHash", SortType: "asc"})
	require.NoError(t, err)
	sortDoc = pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "createdAt", sortDoc[0].Key)
	assert.Equal(t, -1, sortDoc[0].Value)

	// direction without a field keeps the default too
	pipeline, err = BuildVideoListPipeline(VideoListParams{SortType: "asc"})
	require.NoError(t, err)
	sortDoc = pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "createdAt", sortDoc[0].Key)
}

func TestBuildVideoListPipelinePagination(t *testing.T) {
	pipeline, err := BuildVideoListPipeline(VideoListParams{Page: 3, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(40), pipeline[4][0].Value)
	assert.Equal(t, int64(20), pipeline[5][0].Value)

	// invalid values fall back to defaults, oversized limits are capped
	pipeline, err = BuildVideoListPipeline(VideoListParams{Page: -2, Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(0), pipeline[4][0].Value)
	assert.Equal(t, int64(MaxLimit), pipeline[5][0].Value)
}

func TestBuildVideoCountPipeline(t *testing.T) {
	pipeline, err := BuildVideoCountPipeline(VideoListParams{Query: "dogs"})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"$search", "$match", "$lookup", "$unwind", "$count"},
		stageKeys(pipeline),
	)
	assert.Equal(t, "count", pipeline[len(pipeline)-1][0].Value)
}

func TestOwnerLookupStagesProjection(t *testing.T) {
	stages := OwnerLookupStages()
	require.Len(t, stages, 2)

	lookup := stages[0][0].Value.(bson.D)
	assert.Equal(t, "users", lookup[0].Value)
	assert.Equal(t, "owner", lookup[1].Value)
	assert.Equal(t, "_id", lookup[2].Value)
	assert.Equal(t, "ownerDetails", lookup[3].Value)

	sub := lookup[4].Value.(mongo.Pipeline)
	project := sub[0][0].Value.(bson.D)
	assert.Equal(t, "username", project[0].Key)
	assert.Equal(t, "avatar.url", project[1].Key)

	assert.Equal(t, "$unwind", stages[1][0].Key)
	assert.Equal(t, "$ownerDetails", stages[1][0].Value)
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{}, 25, 2, 10)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	page = NewPage([]string{}, 25, 1, 10)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page = NewPage([]string{}, 25, 3, 10)
	assert.False(t, page.HasNext)

	page = NewPage([]string{}, 0, 1, 10)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}
