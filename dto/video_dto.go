package dto

// PublishVideoDTO binds the multipart publish form; videoFile and thumbnail
// files are pulled off the form separately.
type PublishVideoDTO struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration" binding:"gte=0"`
}

type UpdateVideoDTO struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
}
