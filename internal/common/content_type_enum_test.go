package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_String(t *testing.T) {
	assert.Equal(t, "text", ContentTypeText.String())
	assert.Equal(t, "image", ContentTypeImage.String())
}

func TestContentType_IsValid(t *testing.T) {
	assert.True(t, ContentTypeText.IsValid())
	assert.True(t, ContentTypeImage.IsValid())

	invalidType := ContentType("video")
	assert.False(t, invalidType.IsValid())
}

func TestParseContentType(t *testing.T) {
	ct, ok := ParseContentType("")
	assert.True(t, ok)
	assert.Equal(t, ContentTypeText, ct)

	ct, ok = ParseContentType("IMAGE")
	assert.True(t, ok)
	assert.Equal(t, ContentTypeImage, ct)

	_, ok = ParseContentType("sticker")
	assert.False(t, ok)
}

func TestIsAllowedImage(t *testing.T) {
	imageTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
		"IMAGE/PNG",
		"image/png; charset=binary",
	}

	for _, mimeType := range imageTypes {
		assert.True(t, IsAllowedImage(mimeType), "Failed for MIME type: %s", mimeType)
	}
}

func TestIsAllowedImage_Rejects(t *testing.T) {
	unknownTypes := []string{
		"video/mp4",
		"application/pdf",
		"text/plain",
		"image/svg+xml",
		"",
	}

	for _, mimeType := range unknownTypes {
		assert.False(t, IsAllowedImage(mimeType), "Should reject MIME type: %s", mimeType)
	}
}
