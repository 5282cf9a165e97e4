package ports

import (
	"context"
	"time"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// ProjectPatch carries a partial project update.
type ProjectPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Status      *domain.ProjectStatus
	ClientID    *string
	TeamIDs     *[]string
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// ListByTeams returns projects assigned to at least one of teamIDs.
	ListByTeams(ctx context.Context, teamIDs []string) ([]*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	// RemoveTeam drops teamID from every project's assigned teams.
	RemoveTeam(ctx context.Context, teamID string) error
	CountByStatus(ctx context.Context) ([]domain.ProjectStatusCount, error)
}
