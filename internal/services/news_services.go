package services

import (
	"context"
	"errors"
	"io"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
)

type NewsStore interface {
	List(ctx context.Context) ([]model.News, error)
	Create(ctx context.Context, n *model.News) (int64, error)
	DeleteByTitle(ctx context.Context, title string) (*model.News, error)
}

type NewsService struct {
	Repo   NewsStore
	Images *ImageService
}

func NewNewsService(r NewsStore, images *ImageService) *NewsService {
	return &NewsService{Repo: r, Images: images}
}

func (s *NewsService) List(ctx context.Context) ([]model.News, error) {
	return s.Repo.List(ctx)
}

// Create uploads the news photo and saves the item pointing at it. If the
// database write fails the photo is removed again.
func (s *NewsService) Create(ctx context.Context, title, description, imageName string, image io.Reader) (*model.News, error) {
	stored, err := s.Images.Upload(ctx, NewsPhotosDir, imageName, image)
	if err != nil {
		return nil, err
	}
	n := &model.News{Title: title, Description: description, ImageName: stored}
	if _, err := s.Repo.Create(ctx, n); err != nil {
		if derr := s.Images.Delete(ctx, NewsPhotosDir, stored); derr != nil {
			log.Warnf("Failed to remove orphan image %v: %v", stored, derr)
		}
		return nil, err
	}
	return n, nil
}

// Delete removes the news item and then its photo. A failed photo removal
// is only logged.
func (s *NewsService) Delete(ctx context.Context, title string) error {
	n, err := s.Repo.DeleteByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Images.Delete(ctx, NewsPhotosDir, n.ImageName); err != nil {
		log.Warnf("Failed to delete image %v: %v", n.ImageName, err)
	}
	return nil
}
