package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// Required fields are checked by the services so the caller sees the same
// messages whatever the transport; tags here only constrain formats.

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// --- Clients ---

type createClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Company string `json:"company"`
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Company *string `json:"company"`
}

func (r updateClientRequest) patch() ports.ClientPatch {
	return ports.ClientPatch{Name: r.Name, Email: r.Email, Company: r.Company}
}

// --- Projects ---

type createProjectRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Deadline      *dateInput `json:"deadline"`
	Status        string     `json:"status"        validate:"omitempty,oneof=not-started in-progress completed"`
	Client        string     `json:"client"`
	AssignedTeams []string   `json:"assignedTeams"`
}

func (r createProjectRequest) input() ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline.timePtr(),
		Status:      domain.ProjectStatus(r.Status),
		ClientID:    r.Client,
		TeamIDs:     r.AssignedTeams,
	}
}

type updateProjectRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Deadline      *dateInput `json:"deadline"`
	Status        *string    `json:"status"        validate:"omitempty,oneof=not-started in-progress completed"`
	Client        *string    `json:"client"`
	AssignedTeams *[]string  `json:"assignedTeams"`
}

func (r updateProjectRequest) patch() ports.ProjectPatch {
	p := ports.ProjectPatch{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline.timePtr(),
		ClientID:    r.Client,
		TeamIDs:     r.AssignedTeams,
	}
	if r.Status != nil {
		status := domain.ProjectStatus(*r.Status)
		p.Status = &status
	}
	return p
}

// --- Teams ---

type createTeamRequest struct {
	Name    string   `json:"name"`
	Leader  string   `json:"leader"`
	Members []string `json:"members"`
}

type updateTeamRequest struct {
	Name    *string   `json:"name"`
	Leader  *string   `json:"leader"`
	Members *[]string `json:"members"`
}

func (r updateTeamRequest) patch() ports.TeamPatch {
	return ports.TeamPatch{Name: r.Name, LeaderID: r.Leader, MemberIDs: r.Members}
}

// --- Invoices ---

type createInvoiceRequest struct {
	Project string     `json:"project"`
	Client  string     `json:"client"`
	Amount  float64    `json:"amount"`
	Status  string     `json:"status"  validate:"omitempty,oneof=unpaid paid overdue"`
	DueDate *dateInput `json:"dueDate"`
}

func (r createInvoiceRequest) input() ports.CreateInvoiceInput {
	in := ports.CreateInvoiceInput{
		ProjectID: r.Project,
		ClientID:  r.Client,
		Amount:    r.Amount,
		Status:    domain.InvoiceStatus(r.Status),
	}
	if t := r.DueDate.timePtr(); t != nil {
		in.DueDate = *t
	}
	return in
}

type updateInvoiceRequest struct {
	Project *string    `json:"project"`
	Client  *string    `json:"client"`
	Amount  *float64   `json:"amount"`
	Status  *string    `json:"status"  validate:"omitempty,oneof=unpaid paid overdue"`
	DueDate *dateInput `json:"dueDate"`
}

func (r updateInvoiceRequest) patch() ports.InvoicePatch {
	p := ports.InvoicePatch{
		ProjectID: r.Project,
		ClientID:  r.Client,
		Amount:    r.Amount,
		DueDate:   r.DueDate.timePtr(),
	}
	if r.Status != nil {
		status := domain.InvoiceStatus(*r.Status)
		p.Status = &status
	}
	return p
}

// --- Users ---

type updateUserRequest struct {
	Role           *string `json:"role"           validate:"omitempty,oneof=admin owner manager accountant user"`
	Specialization *string `json:"specialization"`
}

func (r updateUserRequest) patch() ports.UserPatch {
	p := ports.UserPatch{Specialization: r.Specialization}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		p.Role = &role
	}
	return p
}

// dateInput accepts RFC 3339 timestamps and plain YYYY-MM-DD dates, which is
// what HTML date inputs submit.
type dateInput struct {
	time.Time
}

func (d *dateInput) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *dateInput) timePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
