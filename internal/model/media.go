package model

import "errors"

// UploadResult is returned after a successful object upload.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Media content types accepted for uploads.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypeMP4  = "video/mp4"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether contentType is an accepted image format.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// IsAllowedStoryType reports whether contentType may be uploaded as a story.
func IsAllowedStoryType(contentType string) bool {
	return allowedImageTypes[contentType] || contentType == ContentTypeMP4
}

var (
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrInvalidMediaType = errors.New("unsupported media type")
)

// Media API error codes
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidMediaType = "INVALID_MEDIA_TYPE"
)
