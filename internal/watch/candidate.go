package watch

import (
	"path/filepath"
	"strings"

	"musicarr/internal/domain/consts"
	"musicarr/internal/models"
)

// ExtractCandidate derives a video candidate from a path under root.
//
// The archive lays files out as <root>/<channel_id>/<video_id>.<ext>; paths
// of any other shape, or with a non-video extension, yield no candidate.
func ExtractCandidate(root, path string) (models.VideoCandidate, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return models.VideoCandidate{}, false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return models.VideoCandidate{}, false
	}

	channelID, filename := parts[0], parts[1]
	if channelID == "" || strings.HasPrefix(filename, ".") {
		return models.VideoCandidate{}, false
	}

	ext := filepath.Ext(filename)
	if !isVideoExt(ext) {
		return models.VideoCandidate{}, false
	}

	videoID := strings.TrimSuffix(filename, ext)
	if videoID == "" {
		return models.VideoCandidate{}, false
	}

	return models.VideoCandidate{
		ChannelID:  channelID,
		VideoID:    videoID,
		SourcePath: path,
	}, true
}

func isVideoExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range consts.AllVidExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
