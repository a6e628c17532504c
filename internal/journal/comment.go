package journal

import (
	"errors"
	"time"
)

var (
	ErrValidation            = errors.New("invalid comment")
	ErrEmptyComment          = errors.New("comment needs text or a photo")
	ErrPhotoTooLarge         = errors.New("photo exceeds size limit")
	ErrBadPhotoType          = errors.New("photo must be an image")
	ErrUploadFailed          = errors.New("photo upload failed")
	ErrUploaderNotConfigured = errors.New("photo hosting not configured")
	ErrStoreUnavailable      = errors.New("comment store unavailable")
)

// Comment is a journal entry attached to a calendar date. Append-only:
// comments are created and listed, never edited or removed.
type Comment struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Name      string    `json:"name,omitempty"`
	Anonymous bool      `json:"anonymous"`
	Text      string    `json:"text"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is the caller-supplied input for Create.
type Draft struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Anonymous bool   `json:"anonymous"`
	Text      string `json:"text"`
}

// Photo is an optional binary attachment accompanying a draft.
type Photo struct {
	Data        []byte
	ContentType string
	Filename    string
}
