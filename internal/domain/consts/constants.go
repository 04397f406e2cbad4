// Package consts holds various global, unchanging values.
package consts

// MusicPlaylistPrefix marks a qualifying playlist. Exact, case-sensitive
// prefix match against the playlist display name.
const MusicPlaylistPrefix = "MUSIC"

// AudioExt is the extension given to converted audio files.
const AudioExt = ".mp3"

// StagingDirName is the staging directory created inside the music root.
// Conversions land here first and are renamed into place once complete.
const StagingDirName = ".musicarr-staging"

// AllVidExtensions is a list of video file extensions.
var AllVidExtensions = [...]string{".3gp", ".avi", ".f4v", ".flv", ".m4v", ".mkv",
	".mov", ".mp4", ".mpeg", ".mpg", ".ogm", ".ogv",
	".ts", ".vob", ".webm", ".wmv"}

// MaxFilenameLen truncates sanitized titles to keep under filesystem limits.
const MaxFilenameLen = 200
