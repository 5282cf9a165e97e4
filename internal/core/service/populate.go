package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// notFoundAs replaces a bare ErrNotFound with msg and wraps anything else
// with op.
func notFoundAs(err error, msg, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func userRefs(ctx context.Context, users ports.UserRepository, ids []string) (map[string]domain.UserRef, error) {
	ids = uniqueIDs(ids)
	refs := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate users: %w", err)
	}
	for _, u := range found {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}

func clientRefs(ctx context.Context, clients ports.ClientRepository, ids []string) (map[string]domain.ClientRef, error) {
	ids = uniqueIDs(ids)
	refs := make(map[string]domain.ClientRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	found, err := clients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate clients: %w", err)
	}
	for _, c := range found {
		refs[c.ID] = c.Ref()
	}
	return refs, nil
}

func lookupUserRef(refs map[string]domain.UserRef, id string) domain.UserRef {
	if ref, ok := refs[id]; ok {
		return ref
	}
	return domain.UserRef{ID: id}
}

// requireUsers fails with a validation error unless every id resolves.
func requireUsers(ctx context.Context, users ports.UserRepository, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve users: %w", err)
	}
	if len(found) != len(ids) {
		return domain.Validation("One or more users do not exist")
	}
	return nil
}

func requireTeams(ctx context.Context, teams ports.TeamRepository, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	found, err := teams.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve teams: %w", err)
	}
	if len(found) != len(ids) {
		return domain.Validation("One or more teams do not exist")
	}
	return nil
}

func requireClient(ctx context.Context, clients ports.ClientRepository, id string) error {
	if _, err := clients.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validation("Client does not exist")
		}
		return fmt.Errorf("resolve client: %w", err)
	}
	return nil
}

func requireProject(ctx context.Context, projects ports.ProjectRepository, id string) error {
	if _, err := projects.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validation("Project does not exist")
		}
		return fmt.Errorf("resolve project: %w", err)
	}
	return nil
}
