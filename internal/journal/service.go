package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adam-price1/choresapp/internal/chore"
	"github.com/adam-price1/choresapp/internal/photo"
)

// Config bounds what the pipeline accepts before it ever contacts the
// hosting service.
type Config struct {
	MaxPhotoBytes int64
	PhotoTypes    []string
}

const defaultMaxPhotoBytes = 3 << 20 // 3 MiB

func (c *Config) applyDefaults() {
	if c.MaxPhotoBytes <= 0 {
		c.MaxPhotoBytes = defaultMaxPhotoBytes
	}
	if len(c.PhotoTypes) == 0 {
		c.PhotoTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
}

// Service is the comment/photo attachment pipeline. The upload happens
// before — and strictly outside — any store write: a comment record is
// only persisted once the hosting service has accepted its photo.
type Service struct {
	repo     Repo
	uploader photo.Uploader // nil means no hosting service configured
	cfg      Config
}

func NewService(repo Repo, uploader photo.Uploader, cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{repo: repo, uploader: uploader, cfg: cfg}
}

func (s *Service) List() ([]Comment, error) {
	return s.repo.List()
}

func (s *Service) Create(ctx context.Context, d Draft, p *Photo) (Comment, error) {
	date := strings.TrimSpace(d.Date)
	if date == "" {
		return Comment{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := chore.ParseDate(date); err != nil {
		return Comment{}, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	text := strings.TrimSpace(d.Text)
	if text == "" && p == nil {
		return Comment{}, ErrEmptyComment
	}

	var photoURL *string
	if p != nil {
		if err := s.checkPhoto(p); err != nil {
			return Comment{}, err
		}
		// Policy: a photo without configured hosting is an error, never
		// a comment silently persisted without its photo.
		if s.uploader == nil {
			return Comment{}, ErrUploaderNotConfigured
		}
		url, err := s.uploader.Upload(ctx, photoKey(date, p.ContentType), p.ContentType, p.Data)
		if err != nil {
			return Comment{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		if strings.TrimSpace(url) == "" {
			return Comment{}, fmt.Errorf("%w: empty reference returned", ErrUploadFailed)
		}
		photoURL = &url
	}

	name := strings.TrimSpace(d.Name)
	if d.Anonymous {
		name = ""
	}

	return s.repo.Create(Comment{
		Date:      date,
		Name:      name,
		Anonymous: d.Anonymous,
		Text:      text,
		PhotoURL:  photoURL,
	})
}

// checkPhoto enforces the local size and type bounds. Violations never
// reach the hosting service.
func (s *Service) checkPhoto(p *Photo) error {
	if int64(len(p.Data)) > s.cfg.MaxPhotoBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPhotoTooLarge, len(p.Data), s.cfg.MaxPhotoBytes)
	}
	ct := strings.ToLower(strings.TrimSpace(p.ContentType))
	for _, allowed := range s.cfg.PhotoTypes {
		if ct == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrBadPhotoType, p.ContentType)
}

func photoKey(date, contentType string) string {
	return fmt.Sprintf("%s/%s/%s%s",
		date[:4], date, uuid.NewString(), extForType(contentType))
}

func extForType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
