package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newArchiveServer(t *testing.T, playlists string, entries map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("Authorization"); token != "Token secret-token" {
			t.Fatalf("unexpected auth header: %q", token)
		}

		switch r.URL.Path {
		case "/api/playlist/":
			fmt.Fprint(w, playlists)
		default:
			for id, body := range entries {
				if r.URL.Path == "/api/playlist/"+id+"/" {
					fmt.Fprint(w, body)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInMusicPlaylistPrefixMatching(t *testing.T) {
	playlists := `{"data":[
		{"playlist_id":"pl1","playlist_name":"MUSIC2025"},
		{"playlist_id":"pl2","playlist_name":"MyMUSIC"},
		{"playlist_id":"pl3","playlist_name":"music2025"}
	]}`
	entries := map[string]string{
		"pl1": `{"playlist_entries":[{"youtube_id":"vidA"}]}`,
		"pl2": `{"playlist_entries":[{"youtube_id":"vidB"}]}`,
		"pl3": `{"playlist_entries":[{"youtube_id":"vidC"}]}`,
	}
	server := newArchiveServer(t, playlists, entries)
	client := NewClient(server.URL, "secret-token", nil)

	// Qualifying playlist, member
	in, err := client.InMusicPlaylist(context.Background(), "vidA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in {
		t.Fatalf("expected vidA to qualify via MUSIC2025")
	}

	// Wrong position ("MyMUSIC") must not qualify
	in, err = client.InMusicPlaylist(context.Background(), "vidB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in {
		t.Fatalf("MyMUSIC should not be a qualifying playlist")
	}

	// Wrong case ("music2025") must not qualify
	in, err = client.InMusicPlaylist(context.Background(), "vidC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in {
		t.Fatalf("music2025 should not be a qualifying playlist")
	}

	// Non-member of any qualifying playlist
	in, err = client.InMusicPlaylist(context.Background(), "stranger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in {
		t.Fatalf("expected non-member to report false")
	}
}

func TestVideoTitleFallbackKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/video/vid1/":
			fmt.Fprint(w, `{"title":"Primary Title"}`)
		case "/api/video/vid2/":
			fmt.Fprint(w, `{"video_title":"Fallback Title"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil)

	title, err := client.VideoTitle(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Primary Title" {
		t.Fatalf("expected primary title, got %q", title)
	}

	title, err = client.VideoTitle(context.Background(), "vid2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Fallback Title" {
		t.Fatalf("expected fallback title, got %q", title)
	}
}

func TestVideoTitleNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil)

	_, err := client.VideoTitle(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil)

	_, err := client.Playlists(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
}

func TestUnreachableHostIsRetryable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "tok", nil)

	_, err := client.Playlists(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
}
