package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// ProjectService implements project CRUD and the member-scoped listing.
type ProjectService struct {
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	teams    ports.TeamRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	clients ports.ClientRepository,
	teams ports.TeamRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		teams:    teams,
		users:    users,
		log:      log.With().Str("component", "projects").Logger(),
	}
}

func (s *ProjectService) List(ctx context.Context) ([]ports.ProjectDetail, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return s.populate(ctx, projects)
}

// ListMine returns the projects assigned to any team userID is a member of.
func (s *ProjectService) ListMine(ctx context.Context, userID string) ([]ports.ProjectDetail, error) {
	teams, err := s.teams.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list my projects: %w", err)
	}
	if len(teams) == 0 {
		return []ports.ProjectDetail{}, nil
	}

	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	projects, err := s.projects.ListByTeams(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list my projects: %w", err)
	}
	return s.populate(ctx, projects)
}

func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.ClientID == "" {
		return nil, domain.Validation("Title and Client are required")
	}
	status := in.Status
	if status == "" {
		status = domain.ProjectNotStarted
	}
	if !status.Valid() {
		return nil, domain.Validation("Invalid project status")
	}
	if err := requireClient(ctx, s.clients, in.ClientID); err != nil {
		return nil, err
	}
	teamIDs := uniqueIDs(in.TeamIDs)
	if err := requireTeams(ctx, s.teams, teamIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.projects.Create(ctx, &domain.Project{
		Title:       title,
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      status,
		ClientID:    in.ClientID,
		TeamIDs:     teamIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", created.ID).Msg("project created")
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.Validation("Title cannot be empty")
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.Validation("Invalid project status")
	}
	if patch.ClientID != nil {
		if err := requireClient(ctx, s.clients, *patch.ClientID); err != nil {
			return nil, err
		}
	}
	if patch.TeamIDs != nil {
		ids := uniqueIDs(*patch.TeamIDs)
		if err := requireTeams(ctx, s.teams, ids); err != nil {
			return nil, err
		}
		patch.TeamIDs = &ids
	}

	updated, err := s.projects.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, "Project not found", "update project")
	}
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Project not found", "delete project")
	}
	return nil
}

// populate resolves client and team references, including team leaders and
// members, in one batched lookup per collection.
func (s *ProjectService) populate(ctx context.Context, projects []*domain.Project) ([]ports.ProjectDetail, error) {
	var clientIDs, teamIDs []string
	for _, p := range projects {
		clientIDs = append(clientIDs, p.ClientID)
		teamIDs = append(teamIDs, p.TeamIDs...)
	}

	clients, err := clientRefs(ctx, s.clients, clientIDs)
	if err != nil {
		return nil, err
	}

	teamsByID := make(map[string]*domain.Team)
	var userIDs []string
	if ids := uniqueIDs(teamIDs); len(ids) > 0 {
		teams, err := s.teams.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("populate teams: %w", err)
		}
		for _, t := range teams {
			teamsByID[t.ID] = t
			userIDs = append(userIDs, t.LeaderID)
			userIDs = append(userIDs, t.MemberIDs...)
		}
	}

	users, err := userRefs(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ProjectDetail, 0, len(projects))
	for _, p := range projects {
		detail := ports.ProjectDetail{Project: p, Teams: make([]domain.TeamRef, 0, len(p.TeamIDs))}
		client, ok := clients[p.ClientID]
		if !ok {
			client = domain.ClientRef{ID: p.ClientID}
		}
		detail.Client = &client

		for _, id := range p.TeamIDs {
			t, ok := teamsByID[id]
			if !ok {
				continue
			}
			detail.Teams = append(detail.Teams, teamRef(t, users))
		}
		out = append(out, detail)
	}
	return out, nil
}

func teamRef(t *domain.Team, users map[string]domain.UserRef) domain.TeamRef {
	ref := domain.TeamRef{ID: t.ID, Name: t.Name, Members: make([]domain.UserRef, 0, len(t.MemberIDs))}
	if t.LeaderID != "" {
		leader := lookupUserRef(users, t.LeaderID)
		ref.Leader = &domain.UserRef{ID: leader.ID, Name: leader.Name}
	}
	for _, id := range t.MemberIDs {
		m := lookupUserRef(users, id)
		ref.Members = append(ref.Members, domain.UserRef{ID: m.ID, Name: m.Name})
	}
	return ref
}
