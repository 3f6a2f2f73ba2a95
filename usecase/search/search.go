package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type UseCase struct {
	search repository.SearchRepository
	logger *zap.Logger
}

func New(search repository.SearchRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		search: search,
		logger: logger,
	}
}

// Query fans out the three substring searches concurrently and combines the
// results. An empty query returns three empty lists without touching the
// store.
func (uc *UseCase) Query(ctx context.Context, query string) (*domain.SearchResults, error) {
	results := &domain.SearchResults{
		Tasks:    []domain.Task{},
		Projects: []domain.Project{},
		Users:    []domain.User{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := uc.search.Tasks(gctx, query)
		if err != nil {
			return err
		}
		results.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		projects, err := uc.search.Projects(gctx, query)
		if err != nil {
			return err
		}
		results.Projects = projects
		return nil
	})
	g.Go(func() error {
		users, err := uc.search.Users(gctx, query)
		if err != nil {
			return err
		}
		results.Users = users
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
