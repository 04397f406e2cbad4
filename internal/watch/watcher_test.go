package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExtractCandidate(t *testing.T) {
	root := "/archive"

	tests := []struct {
		name        string
		path        string
		wantOK      bool
		wantChannel string
		wantVideo   string
	}{
		{"valid mp4", "/archive/chan123/vid456.mp4", true, "chan123", "vid456"},
		{"valid mkv", "/archive/chanA/v1.mkv", true, "chanA", "v1"},
		{"uppercase extension", "/archive/chanA/v1.MP4", true, "chanA", "v1"},
		{"no channel subdirectory", "/archive/vid456.mp4", false, "", ""},
		{"nested too deep", "/archive/chan/extra/vid.mp4", false, "", ""},
		{"wrong extension", "/archive/chan123/vid456.txt", false, "", ""},
		{"no extension", "/archive/chan123/vid456", false, "", ""},
		{"hidden file", "/archive/chan123/.vid456.mp4", false, "", ""},
		{"outside root", "/elsewhere/chan123/vid456.mp4", false, "", ""},
		{"extension only", "/archive/chan123/.mp4", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, ok := ExtractCandidate(root, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ExtractCandidate(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cand.ChannelID != tt.wantChannel {
				t.Fatalf("channel = %q, want %q", cand.ChannelID, tt.wantChannel)
			}
			if cand.VideoID != tt.wantVideo {
				t.Fatalf("video = %q, want %q", cand.VideoID, tt.wantVideo)
			}
			if cand.SourcePath != tt.path {
				t.Fatalf("source path = %q, want %q", cand.SourcePath, tt.path)
			}
		})
	}
}

func TestWaitForSettleStableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("finished content"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := WaitForSettle(ctx, path); err != nil {
		t.Fatalf("expected stable file to settle, got: %v", err)
	}
}

func TestWaitForSettleMissingFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := WaitForSettle(ctx, filepath.Join(t.TempDir(), "nope.mp4"))
	if err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}

func TestWaitForSettleCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	// Zero-size file never settles; cancellation must break the wait.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	if err := WaitForSettle(ctx, path); err == nil {
		t.Fatalf("expected cancellation error, got nil")
	}
}

func TestWatcherEmitsCandidateForNewFile(t *testing.T) {
	root := t.TempDir()
	channelDir := filepath.Join(root, "chanA")
	if err := os.MkdirAll(channelDir, 0o755); err != nil {
		t.Fatalf("failed to create channel dir: %v", err)
	}

	w, err := New(root, 8)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	videoPath := filepath.Join(channelDir, "v1.mp4")
	if err := os.WriteFile(videoPath, []byte("video bytes"), 0o644); err != nil {
		t.Fatalf("failed to write video file: %v", err)
	}

	select {
	case cand := <-w.Candidates():
		if cand.ChannelID != "chanA" || cand.VideoID != "v1" {
			t.Fatalf("unexpected candidate: %+v", cand)
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("timed out waiting for candidate")
	}
}

func TestWatcherIgnoresNonVideoFiles(t *testing.T) {
	root := t.TempDir()
	channelDir := filepath.Join(root, "chanA")
	if err := os.MkdirAll(channelDir, 0o755); err != nil {
		t.Fatalf("failed to create channel dir: %v", err)
	}

	w, err := New(root, 8)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if err := os.WriteFile(filepath.Join(channelDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case cand := <-w.Candidates():
		t.Fatalf("expected no candidate, got %+v", cand)
	case <-time.After(3 * time.Second):
	}
}
