package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository returns a Postgres-backed TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const query = `
	SELECT id, team_name, product_owner_user_id, project_manager_user_id
	FROM teams
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID,
			&team.TeamName,
			&team.ProductOwnerUserID,
			&team.ProjectManagerUserID,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
