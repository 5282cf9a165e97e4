package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// InvoiceService implements invoice CRUD.
type InvoiceService struct {
	invoices ports.InvoiceRepository
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewInvoiceService(invoices ports.InvoiceRepository, projects ports.ProjectRepository, clients ports.ClientRepository, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		projects: projects,
		clients:  clients,
		now:      time.Now,
		log:      log.With().Str("component", "invoices").Logger(),
	}
}

func (s *InvoiceService) List(ctx context.Context) ([]ports.InvoiceDetail, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var clientIDs, projectIDs []string
	for _, inv := range invoices {
		clientIDs = append(clientIDs, inv.ClientID)
		projectIDs = append(projectIDs, inv.ProjectID)
	}
	clients, err := clientRefs(ctx, s.clients, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	projectTitles := make(map[string]string)
	if ids := uniqueIDs(projectIDs); len(ids) > 0 {
		projects, err := s.projects.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list invoices: populate projects: %w", err)
		}
		for _, p := range projects {
			projectTitles[p.ID] = p.Title
		}
	}

	out := make([]ports.InvoiceDetail, 0, len(invoices))
	for _, inv := range invoices {
		client, ok := clients[inv.ClientID]
		if !ok {
			client = domain.ClientRef{ID: inv.ClientID}
		}
		out = append(out, ports.InvoiceDetail{
			Invoice: inv,
			Project: &ports.ProjectRef{ID: inv.ProjectID, Title: projectTitles[inv.ProjectID]},
			Client:  &domain.ClientRef{ID: client.ID, Name: client.Name},
		})
	}
	return out, nil
}

func (s *InvoiceService) Create(ctx context.Context, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if in.ProjectID == "" || in.ClientID == "" || in.Amount == 0 || in.DueDate.IsZero() {
		return nil, domain.Validation("All fields are required")
	}
	if in.Amount < 0 {
		return nil, domain.Validation("Amount must be positive")
	}
	status := in.Status
	if status == "" {
		status = domain.InvoiceUnpaid
	}
	if !status.Valid() {
		return nil, domain.Validation("Invalid invoice status")
	}
	if err := requireProject(ctx, s.projects, in.ProjectID); err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.clients, in.ClientID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.invoices.Create(ctx, &domain.Invoice{
		InvoiceNumber: domain.InvoiceNumberAt(now, uuid.NewString()),
		ProjectID:     in.ProjectID,
		ClientID:      in.ClientID,
		Amount:        in.Amount,
		Status:        status,
		DueDate:       in.DueDate.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info().Str("invoice_id", created.ID).Str("invoice_number", created.InvoiceNumber).Msg("invoice created")
	return created, nil
}

func (s *InvoiceService) Update(ctx context.Context, id string, patch ports.InvoicePatch) (*domain.Invoice, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.Validation("Invalid invoice status")
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, domain.Validation("Amount must be positive")
	}
	if patch.ProjectID != nil {
		if err := requireProject(ctx, s.projects, *patch.ProjectID); err != nil {
			return nil, err
		}
	}
	if patch.ClientID != nil {
		if err := requireClient(ctx, s.clients, *patch.ClientID); err != nil {
			return nil, err
		}
	}

	updated, err := s.invoices.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, "Invoice not found", "update invoice")
	}
	return updated, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Invoice not found", "delete invoice")
	}
	return nil
}
