package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

func TestUserService_UpdateRole(t *testing.T) {
	users := newStubUserRepo()
	u := users.add(&domain.User{Name: "Ana", Role: domain.RoleUser})
	svc := NewUserService(users, newStubTeamRepo(), zerolog.Nop())

	role := domain.RoleAccountant
	updated, err := svc.Update(context.Background(), u.ID, ports.UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Role != domain.RoleAccountant {
		t.Fatalf("expected accountant, got %s", updated.Role)
	}

	bad := domain.Role("superuser")
	_, err = svc.Update(context.Background(), u.ID, ports.UserPatch{Role: &bad})
	if !errors.Is(err, domain.ErrValidation) || domain.Message(err, "") != "Invalid role" {
		t.Fatalf("expected Invalid role, got %v", err)
	}
}

func TestUserService_DeleteDetachesTeams(t *testing.T) {
	users := newStubUserRepo()
	u := users.add(&domain.User{Name: "Ana"})
	teams := newStubTeamRepo()
	team, _ := teams.Create(context.Background(), &domain.Team{Name: "Core", LeaderID: u.ID, MemberIDs: []string{u.ID, "u-other"}})
	svc := NewUserService(users, teams, zerolog.Nop())

	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	got := teams.teams[team.ID]
	if got.LeaderID != "" {
		t.Fatalf("expected leader cleared, got %q", got.LeaderID)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != "u-other" {
		t.Fatalf("expected user removed from members, got %v", got.MemberIDs)
	}

	if err := svc.Delete(context.Background(), u.ID); domain.Message(err, "") != "User not found" {
		t.Fatalf("expected User not found, got %v", err)
	}
}
