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

// TeamService implements team CRUD. Deleting a team detaches it from every
// project that referenced it.
type TeamService struct {
	teams    ports.TeamRepository
	users    ports.UserRepository
	projects ports.ProjectRepository
	log      zerolog.Logger
}

func NewTeamService(teams ports.TeamRepository, users ports.UserRepository, projects ports.ProjectRepository, log zerolog.Logger) *TeamService {
	return &TeamService{
		teams:    teams,
		users:    users,
		projects: projects,
		log:      log.With().Str("component", "teams").Logger(),
	}
}

func (s *TeamService) List(ctx context.Context) ([]ports.TeamDetail, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return s.populate(ctx, teams)
}

// ListMine returns teams userID belongs to or leads.
func (s *TeamService) ListMine(ctx context.Context, userID string) ([]ports.TeamDetail, error) {
	teams, err := s.teams.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list my teams: %w", err)
	}
	return s.populate(ctx, teams)
}

func (s *TeamService) Create(ctx context.Context, in ports.CreateTeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("Team name is required")
	}
	members := uniqueIDs(in.MemberIDs)
	if err := requireUsers(ctx, s.users, append([]string{in.LeaderID}, members...)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.teams.Create(ctx, &domain.Team{
		Name:      name,
		LeaderID:  in.LeaderID,
		MemberIDs: members,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.log.Info().Str("team_id", created.ID).Int("members", len(members)).Msg("team created")
	return created, nil
}

func (s *TeamService) Update(ctx context.Context, id string, patch ports.TeamPatch) (*domain.Team, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Validation("Team name cannot be empty")
		}
		patch.Name = &name
	}

	var refs []string
	if patch.LeaderID != nil {
		refs = append(refs, *patch.LeaderID)
	}
	if patch.MemberIDs != nil {
		members := uniqueIDs(*patch.MemberIDs)
		patch.MemberIDs = &members
		refs = append(refs, members...)
	}
	if err := requireUsers(ctx, s.users, refs); err != nil {
		return nil, err
	}

	updated, err := s.teams.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, "Team not found", "update team")
	}
	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Team not found", "delete team")
	}
	if err := s.projects.RemoveTeam(ctx, id); err != nil {
		return fmt.Errorf("delete team: detach from projects: %w", err)
	}
	return nil
}

func (s *TeamService) populate(ctx context.Context, teams []*domain.Team) ([]ports.TeamDetail, error) {
	var ids []string
	for _, t := range teams {
		ids = append(ids, t.LeaderID)
		ids = append(ids, t.MemberIDs...)
	}
	users, err := userRefs(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.TeamDetail, 0, len(teams))
	for _, t := range teams {
		detail := ports.TeamDetail{Team: t, Members: make([]domain.UserRef, 0, len(t.MemberIDs))}
		if t.LeaderID != "" {
			leader := lookupUserRef(users, t.LeaderID)
			detail.Leader = &domain.UserRef{ID: leader.ID, Name: leader.Name}
		}
		for _, id := range t.MemberIDs {
			m := lookupUserRef(users, id)
			detail.Members = append(detail.Members, domain.UserRef{ID: m.ID, Name: m.Name, Specialization: m.Specialization})
		}
		out = append(out, detail)
	}
	return out, nil
}
