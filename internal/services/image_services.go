package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"SportClubAPI/internal/storage"
)

// Asset directories, relative to the image store root.
const (
	ClubImagesDir = "club-images"
	SponsorsDir   = "sponsors"
	NewsPhotosDir = "news/news-photos"
	TeamPhotosDir = "teamsData/TeamsPhotos"
	sniffLen      = 512
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type ImageService struct {
	Store storage.ImageStore
	Now   func() time.Time
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{Store: store, Now: time.Now}
}

// SponsorDir returns the directory for a sponsor category. The category must
// be a single path element.
func SponsorDir(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" || category == "." || category == ".." || strings.ContainsAny(category, `/\`) {
		return "", fmt.Errorf("%w: invalid sponsor category", ErrValidation)
	}
	return SponsorsDir + "/" + category, nil
}

// Upload checks that r holds a jpeg, png or gif, stores it in dir under a
// timestamped name keeping the original extension, and returns that name.
func (s *ImageService) Upload(ctx context.Context, dir, originalName string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", err
	}
	if !allowedImageTypes[http.DetectContentType(head)] {
		return "", ErrNotAnImage
	}

	name := strconv.FormatInt(s.Now().UnixMilli(), 10) + strings.ToLower(filepath.Ext(originalName))
	if err := s.Store.Save(ctx, dir, name, br); err != nil {
		return "", err
	}
	return name, nil
}

// SaveAs stores r under a fixed name without content checks.
func (s *ImageService) SaveAs(ctx context.Context, dir, name string, r io.Reader) error {
	return s.Store.Save(ctx, dir, name, r)
}

// Open returns the stored image for reading. The caller closes it.
func (s *ImageService) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	return s.Store.Open(ctx, dir, name)
}

func (s *ImageService) List(ctx context.Context, dir string) ([]string, error) {
	return s.Store.List(ctx, dir)
}

func (s *ImageService) Delete(ctx context.Context, dir, name string) error {
	return s.Store.Delete(ctx, dir, name)
}
