// Package convert turns archived videos into tagged MP3 files via yt-dlp.
package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"musicarr/internal/domain/consts"
	"musicarr/internal/models"
	"musicarr/internal/utils/logging"
)

// ErrConversion signals a failed extraction run. Retryable: no durable state
// has been mutated when it is returned.
var ErrConversion = errors.New("audio conversion failed")

// Converter extracts audio into the music directory.
//
// Output lands in a staging directory first and is renamed into place only
// once yt-dlp exits cleanly, so a killed process never leaves a partial MP3
// where library scanners would find it.
type Converter struct {
	musicDir     string
	cookieSource string
	cookies      *CookieManager
}

// NewConverter returns a converter writing into musicDir. A non-empty
// cookieSource enables browser cookie lookup for gated videos.
func NewConverter(musicDir, cookieSource string) *Converter {
	return &Converter{
		musicDir:     musicDir,
		cookieSource: cookieSource,
		cookies:      NewCookieManager(),
	}
}

// Convert extracts the audio track for the candidate, names it after title
// (falling back to the video ID), embeds the thumbnail and returns the final
// path. An already-existing output file is returned as-is.
func (c *Converter) Convert(ctx context.Context, cand models.VideoCandidate, title string) (models.ConversionResult, error) {
	if title == "" {
		title = cand.VideoID
	}

	name := SanitizeFilename(title)
	finalPath := filepath.Join(c.musicDir, name+consts.AudioExt)

	result := models.ConversionResult{
		OutputPath: finalPath,
		Title:      title,
	}

	if _, err := os.Stat(finalPath); err == nil {
		logging.I("MP3 file already exists: %s", finalPath)
		return result, nil
	}

	stagingDir := filepath.Join(c.musicDir, consts.StagingDirName)
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return result, fmt.Errorf("%w: creating staging directory: %v", ErrConversion, err)
	}

	stagedPath := filepath.Join(stagingDir, name+consts.AudioExt)
	defer os.Remove(stagedPath)

	builder := NewAudioCommandBuilder(cand.VideoID, filepath.Join(stagingDir, name+".%(ext)s"))
	c.applyCookies(ctx, builder, stagingDir)

	ctx, cancel := context.WithTimeout(ctx, consts.ConversionTimeout)
	defer cancel()

	cmd, err := builder.AudioExtractCommand(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	logging.I("Starting extraction: %s -> %s", YouTubeWatchBase+cand.VideoID, finalPath)

	if err := runCommand(cmd); err != nil {
		return result, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	if _, err := os.Stat(stagedPath); err != nil {
		return result, fmt.Errorf("%w: yt-dlp exited cleanly but %q was not produced", ErrConversion, stagedPath)
	}

	if err := os.Rename(stagedPath, finalPath); err != nil {
		return result, fmt.Errorf("%w: moving staged file into place: %v", ErrConversion, err)
	}

	logging.I("Extraction complete: %s", finalPath)
	return result, nil
}

// applyCookies writes a Netscape cookie file for the builder when a cookie
// source is configured. Falls back to yt-dlp's own browser lookup when the
// cookie read fails.
func (c *Converter) applyCookies(ctx context.Context, builder *AudioCommandBuilder, stagingDir string) {
	if c.cookieSource == "" {
		return
	}

	builder.CookieSource = c.cookieSource

	cookies, err := c.cookies.GetCookies(ctx, YouTubeWatchBase+builder.VideoID)
	if err != nil || len(cookies) == 0 {
		logging.D(1, "No browser cookies available: %v", err)
		return
	}

	cookieFile := filepath.Join(stagingDir, "cookies.txt")
	if err := saveCookiesToFile(cookies, cookieFile); err != nil {
		logging.W("Failed to write cookie file, using --cookies-from-browser instead: %v", err)
		return
	}
	builder.CookieFile = cookieFile
}

// runCommand runs the command, forwarding its combined output line by line to
// the log.
func runCommand(cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	doneChan := make(chan struct{})
	go func() {
		defer close(doneChan)
		scanner := bufio.NewScanner(io.MultiReader(stdout, stderr))
		for scanner.Scan() {
			logging.D(1, "yt-dlp: %s", scanner.Text())
		}
	}()

	logging.D(1, "Executing command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	<-doneChan

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("command exited abnormally: %w", err)
	}
	return nil
}
