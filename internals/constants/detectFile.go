package constants

import (
	"path/filepath"
	"strings"
)

// Media kinds stored on gallery items.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Gallery categories; legacy items without one read as DefaultCategory.
const DefaultCategory = "Junior"

var Categories = []string{"Junior", "Senior", "K1", "K2", "Day Care"}

// DetectMediaKind reads the kind from the content type, falling back to the
// extension when the type is missing or generic.
func DetectMediaKind(filename, contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "video/"):
		return MediaVideo
	case strings.HasPrefix(ct, "image/"):
		return MediaImage
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".webm", ".mov", ".m4v", ".ogv":
		return MediaVideo
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".avif", ".svg":
		return MediaImage
	default:
		return ""
	}
}

// Upload messages shown when the selection is unusable.
const (
	MsgSelectFiles      = "Please select at least one file to upload"
	MsgSelectImage      = "Please select an image file"
	MsgSelectImageFirst = "Please select an image file to upload"
	MsgSelectVideo      = "Please select a video file"
	MsgSelectVideoFirst = "Please select a video file to upload"
)
