package common

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	mediaIDRegex = regexp.MustCompile(`^[a-f0-9]{24}$`)
)

// DefaultMaxContentLength caps message bodies when no config value is given.
const DefaultMaxContentLength = 4000

func ValidateRoomID(roomID uint64) error {
	if roomID == 0 {
		return Validation("room id is required")
	}
	return nil
}

// ValidateContent checks a message body. Image messages carry the GridFS
// file id of the uploaded attachment as content.
func ValidateContent(content string, contentType ContentType, maxLen int) error {
	if !contentType.IsValid() {
		return Validation("unsupported content type %q", contentType)
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLength
	}

	trimmed := strings.TrimSpace(content)
	if contentType == ContentTypeImage {
		if !IsMediaID(trimmed) {
			return Validation("image message must reference an uploaded image")
		}
		return nil
	}

	if trimmed == "" {
		return Validation("message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxLen {
		return Validation("message is too long (max %d characters)", maxLen)
	}
	return nil
}

func IsMediaID(s string) bool {
	return mediaIDRegex.MatchString(s)
}

// NormalizePhone strips spaces, dashes and brackets.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(NormalizePhone(phone)) {
		return Validation("invalid phone number")
	}
	return nil
}
