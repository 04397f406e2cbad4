package consts

// Tables
const (
	DBConverted = "converted_videos"
)

// Converted videos
const (
	QConvVideoID     = "video_id"
	QConvChannelID   = "channel_id"
	QConvTitle       = "title"
	QConvOutputPath  = "output_path"
	QConvProcessedAt = "processed_at"
)
