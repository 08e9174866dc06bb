package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
)

type MatchStore interface {
	List(ctx context.Context) ([]model.Match, error)
	Create(ctx context.Context, m *model.Match) (int64, error)
	DeleteByTeams(ctx context.Context, teams string) error
}

type MatchService struct {
	Repo MatchStore
}

func NewMatchService(r MatchStore) *MatchService {
	return &MatchService{Repo: r}
}

func (s *MatchService) List(ctx context.Context) ([]model.Match, error) {
	return s.Repo.List(ctx)
}

func (s *MatchService) Create(ctx context.Context, when, teams string) (int64, error) {
	teams = strings.TrimSpace(teams)
	if teams == "" {
		return 0, fmt.Errorf("%w: teams are required", ErrValidation)
	}
	return s.Repo.Create(ctx, &model.Match{Time: strings.TrimSpace(when), Teams: teams})
}

// Delete removes one match identified by its teams field.
func (s *MatchService) Delete(ctx context.Context, teams string) error {
	if strings.TrimSpace(teams) == "" {
		return fmt.Errorf("%w: no match identifier provided", ErrValidation)
	}
	if err := s.Repo.DeleteByTeams(ctx, teams); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
