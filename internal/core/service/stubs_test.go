package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory repositories shared by the service tests.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrConflict
		}
	}
	return r.add(cloneUser(u)), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Specialization != nil {
		u.Specialization = *patch.Specialization
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetRefreshTokenHash(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *stubUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	u.RefreshTokenHash = ""
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type stubClientRepo struct {
	clients map[string]*domain.Client
	seq     int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.clients[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, id := range ids {
		if c, ok := r.clients[id]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.clients {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Company != nil {
		c.Company = *patch.Company
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

type stubTeamRepo struct {
	teams map[string]*domain.Team
	seq   int
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{teams: make(map[string]*domain.Team)}
}

func cloneTeam(t *domain.Team) *domain.Team {
	clone := *t
	clone.MemberIDs = slices.Clone(t.MemberIDs)
	return &clone
}

func (r *stubTeamRepo) Create(_ context.Context, t *domain.Team) (*domain.Team, error) {
	r.seq++
	clone := cloneTeam(t)
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.teams[clone.ID] = clone
	return cloneTeam(clone), nil
}

func (r *stubTeamRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, id := range ids {
		if t, ok := r.teams[id]; ok {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *stubTeamRepo) List(_ context.Context) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range r.teams {
		out = append(out, cloneTeam(t))
	}
	return out, nil
}

func (r *stubTeamRepo) ListByUser(_ context.Context, userID string) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range r.teams {
		if t.LeaderID == userID || t.HasMember(userID) {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *stubTeamRepo) ListByMember(_ context.Context, userID string) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range r.teams {
		if t.HasMember(userID) {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *stubTeamRepo) Update(_ context.Context, id string, patch ports.TeamPatch) (*domain.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.LeaderID != nil {
		t.LeaderID = *patch.LeaderID
	}
	if patch.MemberIDs != nil {
		t.MemberIDs = slices.Clone(*patch.MemberIDs)
	}
	return cloneTeam(t), nil
}

func (r *stubTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.teams[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *stubTeamRepo) RemoveUser(_ context.Context, userID string) error {
	for _, t := range r.teams {
		t.MemberIDs = slices.DeleteFunc(t.MemberIDs, func(id string) bool { return id == userID })
		if t.LeaderID == userID {
			t.LeaderID = ""
		}
	}
	return nil
}

type stubProjectRepo struct {
	projects map[string]*domain.Project
	counts   []domain.ProjectStatusCount
	countErr error
	seq      int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.TeamIDs = slices.Clone(p.TeamIDs)
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.seq++
	clone := cloneProject(p)
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.projects[clone.ID] = clone
	return cloneProject(clone), nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (r *stubProjectRepo) ListByTeams(_ context.Context, teamIDs []string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		for _, id := range p.TeamIDs {
			if slices.Contains(teamIDs, id) {
				out = append(out, cloneProject(p))
				break
			}
		}
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ClientID != nil {
		p.ClientID = *patch.ClientID
	}
	if patch.TeamIDs != nil {
		p.TeamIDs = slices.Clone(*patch.TeamIDs)
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) RemoveTeam(_ context.Context, teamID string) error {
	for _, p := range r.projects {
		p.TeamIDs = slices.DeleteFunc(p.TeamIDs, func(id string) bool { return id == teamID })
	}
	return nil
}

func (r *stubProjectRepo) CountByStatus(_ context.Context) ([]domain.ProjectStatusCount, error) {
	return r.counts, r.countErr
}

type stubInvoiceRepo struct {
	invoices map[string]*domain.Invoice
	totals   []domain.InvoiceStatusTotal
	seq      int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	r.seq++
	clone := *inv
	clone.ID = fmt.Sprintf("i%d", r.seq)
	r.invoices[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubInvoiceRepo) List(_ context.Context) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	for _, inv := range r.invoices {
		clone := *inv
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, id string, patch ports.InvoicePatch) (*domain.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Status != nil {
		inv.Status = *patch.Status
	}
	if patch.Amount != nil {
		inv.Amount = *patch.Amount
	}
	clone := *inv
	return &clone, nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

// RevenueBuckets applies the same filter and grouping the MongoDB pipeline does.
func (r *stubInvoiceRepo) RevenueBuckets(_ context.Context, since time.Time, grain domain.Grain) ([]domain.RevenueBucket, error) {
	var paid []domain.Invoice
	for _, inv := range r.invoices {
		if inv.Status != domain.InvoicePaid {
			continue
		}
		if !since.IsZero() && inv.CreatedAt.Before(since) {
			continue
		}
		paid = append(paid, *inv)
	}
	spec := domain.PeriodSpec{Grain: grain, Key: grain.Key, Less: domain.BucketKey.Less}
	return spec.GroupRevenue(paid, time.Time{}), nil
}

func (r *stubInvoiceRepo) TotalsByStatus(_ context.Context) ([]domain.InvoiceStatusTotal, error) {
	return r.totals, nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBroadcaster) Broadcast(e domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

type stubMailer struct {
	err  error
	to   string
	link string
}

func (m *stubMailer) SendPasswordReset(to, resetURL string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.link = to, resetURL
	return nil
}

type stubLedger struct {
	used map[string]time.Duration
}

func newStubLedger() *stubLedger {
	return &stubLedger{used: make(map[string]time.Duration)}
}

func (l *stubLedger) IsUsed(_ context.Context, id string) (bool, error) {
	_, ok := l.used[id]
	return ok, nil
}

func (l *stubLedger) MarkUsed(_ context.Context, id string, ttl time.Duration) error {
	l.used[id] = ttl
	return nil
}
