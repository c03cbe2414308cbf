package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMediaKind(t *testing.T) {
	assert.Equal(t, MediaVideo, DetectMediaKind("a.bin", "video/mp4"))
	assert.Equal(t, MediaImage, DetectMediaKind("a.bin", "image/png"))
	assert.Equal(t, MediaVideo, DetectMediaKind("clip.MOV", "application/octet-stream"))
	assert.Equal(t, MediaImage, DetectMediaKind("photo.jpeg", ""))
	assert.Equal(t, "", DetectMediaKind("notes.pdf", "application/pdf"))
}
