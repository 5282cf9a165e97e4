package ports

import (
	"context"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// TeamPatch carries a partial team update. A non-nil LeaderID pointing at an
// empty string removes the leader.
type TeamPatch struct {
	Name      *string
	LeaderID  *string
	MemberIDs *[]string
}

// TeamRepository defines persistence operations for teams.
type TeamRepository interface {
	Create(ctx context.Context, t *domain.Team) (*domain.Team, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	// ListByUser returns teams where userID is a member or the leader.
	ListByUser(ctx context.Context, userID string) ([]*domain.Team, error)
	// ListByMember returns teams where userID is a member.
	ListByMember(ctx context.Context, userID string) ([]*domain.Team, error)
	Update(ctx context.Context, id string, patch TeamPatch) (*domain.Team, error)
	Delete(ctx context.Context, id string) error
	// RemoveUser drops userID from every member list and leader slot.
	RemoveUser(ctx context.Context, userID string) error
}
