package ports

import (
	"context"
	"time"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// ClientDetail is a client with its creator populated.
type ClientDetail struct {
	*domain.Client
	Creator *domain.UserRef `json:"createdBy,omitempty"`
}

// CreateClientInput carries the fields of a new client.
type CreateClientInput struct {
	Name    string
	Email   string
	Company string
}

// ClientService defines client use cases. actor is the authenticated caller.
type ClientService interface {
	List(ctx context.Context) ([]ClientDetail, error)
	Create(ctx context.Context, actor *domain.User, in CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// ProjectDetail is a project with its client and teams populated.
type ProjectDetail struct {
	*domain.Project
	Client *domain.ClientRef `json:"client,omitempty"`
	Teams  []domain.TeamRef  `json:"assignedTeams"`
}

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Status      domain.ProjectStatus
	ClientID    string
	TeamIDs     []string
}

// ProjectService defines project use cases.
type ProjectService interface {
	List(ctx context.Context) ([]ProjectDetail, error)
	ListMine(ctx context.Context, userID string) ([]ProjectDetail, error)
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// TeamDetail is a team with its leader and members populated.
type TeamDetail struct {
	*domain.Team
	Leader  *domain.UserRef  `json:"leader,omitempty"`
	Members []domain.UserRef `json:"members"`
}

// CreateTeamInput carries the fields of a new team.
type CreateTeamInput struct {
	Name      string
	LeaderID  string
	MemberIDs []string
}

// TeamService defines team use cases.
type TeamService interface {
	List(ctx context.Context) ([]TeamDetail, error)
	ListMine(ctx context.Context, userID string) ([]TeamDetail, error)
	Create(ctx context.Context, in CreateTeamInput) (*domain.Team, error)
	Update(ctx context.Context, id string, patch TeamPatch) (*domain.Team, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRef is the populated form of a project reference.
type ProjectRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// InvoiceDetail is an invoice with its project and client populated.
type InvoiceDetail struct {
	*domain.Invoice
	Project *ProjectRef       `json:"project,omitempty"`
	Client  *domain.ClientRef `json:"client,omitempty"`
}

// CreateInvoiceInput carries the fields of a new invoice.
type CreateInvoiceInput struct {
	ProjectID string
	ClientID  string
	Amount    float64
	Status    domain.InvoiceStatus
	DueDate   time.Time
}

// InvoiceService defines invoice use cases.
type InvoiceService interface {
	List(ctx context.Context) ([]InvoiceDetail, error)
	Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, id string, patch InvoicePatch) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// UserService defines user administration use cases.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// AnalyticsService builds the admin dashboard.
type AnalyticsService interface {
	Dashboard(ctx context.Context, period domain.Period) (*domain.Analytics, error)
}
