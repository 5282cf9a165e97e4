package ports

import (
	"context"
	"time"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// InvoicePatch carries a partial invoice update.
type InvoicePatch struct {
	ProjectID *string
	ClientID  *string
	Amount    *float64
	Status    *domain.InvoiceStatus
	DueDate   *time.Time
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	List(ctx context.Context) ([]*domain.Invoice, error)
	Update(ctx context.Context, id string, patch InvoicePatch) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
	// RevenueBuckets sums paid invoices created at or after since per grain
	// bucket, ascending by key. A zero since means no lower bound.
	RevenueBuckets(ctx context.Context, since time.Time, grain domain.Grain) ([]domain.RevenueBucket, error)
	TotalsByStatus(ctx context.Context) ([]domain.InvoiceStatusTotal, error)
}
