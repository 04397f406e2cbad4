package convert

import (
	"regexp"
	"strings"

	"musicarr/internal/domain/consts"
)

// invalidFilenameChars matches characters unusable in filenames across
// Windows, Linux and macOS.
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFilename strips characters a filesystem would reject and trims the
// result to a safe length. Empty results become "untitled".
func SanitizeFilename(name string) string {
	sanitized := invalidFilenameChars.ReplaceAllString(name, "_")
	sanitized = strings.Trim(sanitized, " .")

	if len(sanitized) > consts.MaxFilenameLen {
		sanitized = sanitized[:consts.MaxFilenameLen]
	}

	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}
