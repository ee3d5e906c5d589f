package prensa

import (
	"strings"
	"time"
)

// MediaType is the domain type for media kinds.
type MediaType string

// Media type constants (typed).
const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is an uploaded file reference. It belongs to exactly one site
// and is owned by its uploader; removal only drops the library entry,
// blocks referencing it keep their authoring-time snapshot.
type Media struct {
	ID         int64         `json:"id"`
	SiteID     int64         `json:"site_id"`
	UploaderID int64         `json:"uploader_id"`
	Filename   string        `json:"filename"`
	Path       string        `json:"path"`
	StorageKey string        `json:"storage_key"`
	Kind       MediaType     `json:"kind"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Duration   time.Duration `json:"duration,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

var mediaExtensions = map[string]MediaType{
	".jpg":  MediaImage,
	".jpeg": MediaImage,
	".png":  MediaImage,
	".gif":  MediaImage,
	".webp": MediaImage,
	".mp4":  MediaVideo,
	".mov":  MediaVideo,
	".avi":  MediaVideo,
}

// InferMediaType maps a file extension (with leading dot) to a media
// kind. Unknown extensions fail with ErrUnsupportedMediaType.
func InferMediaType(extension string) (MediaType, error) {
	kind, ok := mediaExtensions[strings.ToLower(extension)]
	if !ok {
		return "", ErrUnsupportedMediaType
	}
	return kind, nil
}
