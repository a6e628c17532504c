package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adam-price1/choresapp/internal/photo"
)

func jpeg(n int) *Photo {
	return &Photo{Data: make([]byte, n), ContentType: "image/jpeg", Filename: "pic.jpg"}
}

func TestCreate_TextOnly(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil, Config{})

	c, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Name: "Sam", Text: "nice day"}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Sam", c.Name)
	assert.Equal(t, "nice day", c.Text)
	assert.Nil(t, c.PhotoURL)
}

func TestCreate_EmptyRejected(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil, Config{})

	_, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "   "}, nil)
	assert.True(t, errors.Is(err, ErrEmptyComment))
}

func TestCreate_DateRequired(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil, Config{})

	_, err := s.Create(context.Background(), Draft{Text: "hi"}, nil)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = s.Create(context.Background(), Draft{Date: "tomorrow", Text: "hi"}, nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCreate_AnonymousDropsName(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil, Config{})

	c, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Name: "Sam", Anonymous: true, Text: "hi"}, nil)
	require.NoError(t, err)

	assert.True(t, c.Anonymous)
	assert.Empty(t, c.Name)
}

func TestCreate_PhotoUploadedAndLinked(t *testing.T) {
	up := photo.NewMemoryUploader()
	s := NewService(NewMemoryRepo(), up, Config{})

	c, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "look"}, jpeg(128))
	require.NoError(t, err)

	require.NotNil(t, c.PhotoURL)
	assert.Contains(t, *c.PhotoURL, "https://photos.test/")
	assert.Contains(t, *c.PhotoURL, "2026/2026-01-07/")
	assert.Equal(t, 1, up.Count())
}

func TestCreate_PhotoOnlyComment(t *testing.T) {
	up := photo.NewMemoryUploader()
	s := NewService(NewMemoryRepo(), up, Config{})

	c, err := s.Create(context.Background(), Draft{Date: "2026-01-07"}, jpeg(16))
	require.NoError(t, err)
	assert.NotNil(t, c.PhotoURL)
}

func TestCreate_UploadFailureLeavesNoRecord(t *testing.T) {
	up := photo.NewMemoryUploader()
	up.Err = errors.New("bucket on fire")
	repo := NewMemoryRepo()
	s := NewService(repo, up, Config{})

	_, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "look"}, jpeg(128))
	require.True(t, errors.Is(err, ErrUploadFailed))

	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_OversizePhotoNeverReachesUploader(t *testing.T) {
	up := photo.NewMemoryUploader()
	s := NewService(NewMemoryRepo(), up, Config{MaxPhotoBytes: 64})

	_, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "x"}, jpeg(65))
	require.True(t, errors.Is(err, ErrPhotoTooLarge))
	assert.Zero(t, up.Count())
}

func TestCreate_BadTypeNeverReachesUploader(t *testing.T) {
	up := photo.NewMemoryUploader()
	s := NewService(NewMemoryRepo(), up, Config{})

	bad := &Photo{Data: []byte("#!/bin/sh"), ContentType: "application/x-sh", Filename: "evil.sh"}
	_, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "x"}, bad)
	require.True(t, errors.Is(err, ErrBadPhotoType))
	assert.Zero(t, up.Count())
}

func TestCreate_PhotoWithoutUploaderFails(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo, nil, Config{})

	_, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "x"}, jpeg(16))
	require.True(t, errors.Is(err, ErrUploaderNotConfigured))

	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_NewestFirst(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil, Config{})

	first, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "first"}, nil)
	require.NoError(t, err)
	second, err := s.Create(context.Background(), Draft{Date: "2026-01-07", Text: "second"}, nil)
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	if list[0].ID == first.ID {
		assert.Equal(t, second.ID, list[1].ID)
		assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))
	} else {
		assert.Equal(t, second.ID, list[0].ID)
	}
}
