package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// UserService implements user administration.
type UserService struct {
	users ports.UserRepository
	teams ports.TeamRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, teams ports.TeamRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, teams: teams, log: log.With().Str("component", "users").Logger()}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update changes a user's role and/or specialization.
func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, domain.Validation("Invalid role")
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, "User not found", "update user")
	}

	s.log.Info().Str("user_id", id).Str("role", string(updated.Role)).Msg("user updated")
	return updated, nil
}

// Delete removes a user and their team memberships and leaderships.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs(err, "User not found", "delete user")
	}
	if err := s.teams.RemoveUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: detach from teams: %w", err)
	}
	return nil
}
