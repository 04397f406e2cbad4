// Package archive talks to the TubeArchivist API.
//
// The client exposes the three semantic operations the pipeline needs (list
// playlists, list a playlist's video IDs, fetch a video title) behind narrow
// adapter types, so upstream schema changes stay contained here.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"musicarr/internal/domain/consts"
	"musicarr/internal/utils/logging"
)

var (
	// ErrUnavailable signals a transient API failure (network, auth, 5xx,
	// timeout). Callers must retry later rather than treat the video as
	// "not a member".
	ErrUnavailable = errors.New("archive API unavailable")

	// ErrNotFound signals a definitive "video does not exist" answer.
	ErrNotFound = errors.New("video not found in archive")
)

// HTTPDoer describes the HTTP client used by the archive client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Playlist is one subscribed playlist in the archive.
type Playlist struct {
	ID   string `json:"playlist_id"`
	Name string `json:"playlist_name"`
}

// Client queries the TubeArchivist REST API.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewClient returns an archive API client. A nil doer falls back to
// http.DefaultClient.
func NewClient(baseURL, token string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  doer,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, consts.ArchiveAPITimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build archive request for %q: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", ErrUnavailable, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUnavailable, path, err)
	}
	return nil
}

// Playlists fetches the playlists the archive is subscribed to.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var response struct {
		Data []Playlist `json:"data"`
	}
	if err := c.get(ctx, "/api/playlist/", &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// PlaylistVideoIDs fetches the video IDs contained in one playlist.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var response struct {
		Entries []struct {
			YoutubeID string `json:"youtube_id"`
		} `json:"playlist_entries"`
	}
	if err := c.get(ctx, "/api/playlist/"+playlistID+"/", &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Entries))
	for _, entry := range response.Entries {
		if entry.YoutubeID != "" {
			ids = append(ids, entry.YoutubeID)
		}
	}
	return ids, nil
}

// VideoTitle fetches the display title for a video. Returns ErrNotFound when
// the archive no longer knows the video.
func (c *Client) VideoTitle(ctx context.Context, videoID string) (string, error) {
	var response struct {
		Title      string `json:"title"`
		VideoTitle string `json:"video_title"`
	}
	if err := c.get(ctx, "/api/video/"+videoID+"/", &response); err != nil {
		return "", err
	}
	if response.Title != "" {
		return response.Title, nil
	}
	return response.VideoTitle, nil
}

// InMusicPlaylist reports whether the video is currently a member of any
// playlist whose name starts with the MUSIC prefix (exact case).
func (c *Client) InMusicPlaylist(ctx context.Context, videoID string) (bool, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return false, err
	}

	for _, pl := range playlists {
		if !strings.HasPrefix(pl.Name, consts.MusicPlaylistPrefix) {
			continue
		}
		if pl.ID == "" {
			continue
		}

		ids, err := c.PlaylistVideoIDs(ctx, pl.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Playlist vanished between the list call and this one.
				logging.D(1, "Playlist %q disappeared during membership check", pl.ID)
				continue
			}
			return false, err
		}

		for _, id := range ids {
			if id == videoID {
				logging.I("Video %s is in playlist %q", videoID, pl.Name)
				return true, nil
			}
		}
	}
	return false, nil
}
