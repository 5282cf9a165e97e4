package ports

import (
	"context"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// ClientPatch carries a partial client update.
type ClientPatch struct {
	Name    *string
	Email   *string
	Company *string
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
