package convert

import (
	"context"
	"fmt"
	"os/exec"

	"musicarr/internal/utils/logging"
)

// YouTubeWatchBase is the URL prefix videos are fetched from.
const YouTubeWatchBase = "https://www.youtube.com/watch?v="

// AudioCommandBuilder builds the yt-dlp invocation for one extraction.
type AudioCommandBuilder struct {
	VideoID        string
	OutputTemplate string
	CookieFile     string
	CookieSource   string
}

// NewAudioCommandBuilder returns a builder for the given video and output
// template (yt-dlp "%(ext)s" style).
func NewAudioCommandBuilder(videoID, outputTemplate string) *AudioCommandBuilder {
	return &AudioCommandBuilder{
		VideoID:        videoID,
		OutputTemplate: outputTemplate,
	}
}

// AudioExtractCommand builds the command extracting the best audio stream as
// MP3 with the thumbnail embedded as cover art.
func (b *AudioCommandBuilder) AudioExtractCommand(ctx context.Context) (*exec.Cmd, error) {
	if b.VideoID == "" {
		return nil, fmt.Errorf("no video ID passed in, returning no command")
	}
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return nil, fmt.Errorf("yt-dlp command not found: %w", err)
	}

	args := b.Args()

	logging.D(1, "Built argument list: %v", args)

	return exec.CommandContext(ctx, "yt-dlp", args...), nil
}

// Args returns the argument list without constructing the command.
func (b *AudioCommandBuilder) Args() []string {
	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--embed-thumbnail",
		"--output", b.OutputTemplate,
	}

	if b.CookieFile != "" {
		args = append(args, "--cookies", b.CookieFile)
	} else if b.CookieSource != "" {
		args = append(args, "--cookies-from-browser", b.CookieSource)
	}

	return append(args, YouTubeWatchBase+b.VideoID)
}
