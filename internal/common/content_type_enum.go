package common

import "strings"

// ContentType is the kind of payload a chat message carries.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

func (ct ContentType) String() string {
	return string(ct)
}

func (ct ContentType) IsValid() bool {
	return ct == ContentTypeText || ct == ContentTypeImage
}

// ParseContentType defaults to text for an empty value.
func ParseContentType(s string) (ContentType, bool) {
	if s == "" {
		return ContentTypeText, true
	}
	ct := ContentType(strings.ToLower(s))
	return ct, ct.IsValid()
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImage reports whether an upload MIME type can be attached to a message.
func IsAllowedImage(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return allowedImageTypes[mt]
}
