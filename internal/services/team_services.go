package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
)

type TeamStore interface {
	List(ctx context.Context) ([]model.Team, error)
	Create(ctx context.Context, t *model.Team) (int64, error)
	DeleteByName(ctx context.Context, name string) (*model.Team, error)
}

type TeamService struct {
	Repo   TeamStore
	Images *ImageService
}

func NewTeamService(r TeamStore, images *ImageService) *TeamService {
	return &TeamService{Repo: r, Images: images}
}

var pathSeparators = strings.NewReplacer("/", "_", "\\", "_")

// TeamImageName is the photo file name the front end requests for a team:
// spaces become underscores and the name is lower-cased, e.g.
// "U-15 Filles" -> "u-15_filles.png". Path separators are replaced too.
func TeamImageName(teamName string) string {
	name := strings.ToLower(strings.ReplaceAll(teamName, " ", "_"))
	return pathSeparators.Replace(name) + ".png"
}

func (s *TeamService) List(ctx context.Context) ([]model.Team, error) {
	return s.Repo.List(ctx)
}

// Create validates and saves t. When image is non-nil it is stored as the
// team photo.
func (s *TeamService) Create(ctx context.Context, t *model.Team, image io.Reader) (int64, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return 0, fmt.Errorf("%w: team name is required", ErrValidation)
	}
	if len(t.Roles) == 0 {
		t.Roles = json.RawMessage("[]")
	}
	var roles []map[string]any
	if err := json.Unmarshal(t.Roles, &roles); err != nil {
		return 0, fmt.Errorf("%w: roles must be a JSON array of objects", ErrValidation)
	}

	if image == nil {
		return s.Repo.Create(ctx, t)
	}

	img := TeamImageName(t.Name)
	if err := s.Images.SaveAs(ctx, TeamPhotosDir, img, image); err != nil {
		return 0, err
	}
	id, err := s.Repo.Create(ctx, t)
	if err != nil {
		if derr := s.Images.Delete(ctx, TeamPhotosDir, img); derr != nil {
			log.Warnf("Failed to remove orphan image %v: %v", img, derr)
		}
		return 0, err
	}
	return id, nil
}

// Delete removes the team called name and then its photo. A missing photo is
// only logged.
func (s *TeamService) Delete(ctx context.Context, name string) error {
	team, err := s.Repo.DeleteByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	img := TeamImageName(team.Name)
	if err := s.Images.Delete(ctx, TeamPhotosDir, img); err != nil {
		log.Warnf("Failed to delete image %v: %v", img, err)
	}
	return nil
}
