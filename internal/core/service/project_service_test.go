package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type projectFixture struct {
	svc      *ProjectService
	users    *stubUserRepo
	clients  *stubClientRepo
	teams    *stubTeamRepo
	projects *stubProjectRepo
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		users:    newStubUserRepo(),
		clients:  newStubClientRepo(),
		teams:    newStubTeamRepo(),
		projects: newStubProjectRepo(),
	}
	f.svc = NewProjectService(f.projects, f.clients, f.teams, f.users, zerolog.Nop())
	return f
}

func TestProjectService_CreateDefaults(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	client, _ := f.clients.Create(ctx, &domain.Client{Name: "Acme"})

	p, err := f.svc.Create(ctx, ports.CreateProjectInput{Title: " Site ", ClientID: client.ID})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Status != domain.ProjectNotStarted {
		t.Fatalf("expected default status not-started, got %s", p.Status)
	}
	if p.Title != "Site" {
		t.Fatalf("expected trimmed title, got %q", p.Title)
	}
}

func TestProjectService_CreateValidation(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	client, _ := f.clients.Create(ctx, &domain.Client{Name: "Acme"})

	cases := []struct {
		name string
		in   ports.CreateProjectInput
		msg  string
	}{
		{"missing title", ports.CreateProjectInput{ClientID: client.ID}, "Title and Client are required"},
		{"missing client", ports.CreateProjectInput{Title: "Site"}, "Title and Client are required"},
		{"unknown client", ports.CreateProjectInput{Title: "Site", ClientID: "nope"}, "Client does not exist"},
		{"unknown team", ports.CreateProjectInput{Title: "Site", ClientID: client.ID, TeamIDs: []string{"t9"}}, "One or more teams do not exist"},
		{"bad status", ports.CreateProjectInput{Title: "Site", ClientID: client.ID, Status: "archived"}, "Invalid project status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if got := domain.Message(err, ""); got != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestProjectService_ListMineAndPopulate(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	member := f.users.add(&domain.User{Name: "Mia", Email: "mia@example.com"})
	lead := f.users.add(&domain.User{Name: "Leo", Email: "leo@example.com"})
	client, _ := f.clients.Create(ctx, &domain.Client{Name: "Acme", Company: "Acme Inc"})
	mine, _ := f.teams.Create(ctx, &domain.Team{Name: "Core", LeaderID: lead.ID, MemberIDs: []string{member.ID}})
	other, _ := f.teams.Create(ctx, &domain.Team{Name: "Other", LeaderID: lead.ID})

	if _, err := f.svc.Create(ctx, ports.CreateProjectInput{Title: "Mine", ClientID: client.ID, TeamIDs: []string{mine.ID}}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := f.svc.Create(ctx, ports.CreateProjectInput{Title: "Theirs", ClientID: client.ID, TeamIDs: []string{other.ID}}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	list, err := f.svc.ListMine(ctx, member.ID)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Mine" {
		t.Fatalf("expected only the member's project, got %+v", list)
	}
	got := list[0]
	if got.Client == nil || got.Client.Name != "Acme" || got.Client.Company != "Acme Inc" {
		t.Fatalf("unexpected client ref %+v", got.Client)
	}
	if len(got.Teams) != 1 || got.Teams[0].Name != "Core" {
		t.Fatalf("unexpected teams %+v", got.Teams)
	}
	if got.Teams[0].Leader == nil || got.Teams[0].Leader.Name != "Leo" {
		t.Fatalf("expected populated leader, got %+v", got.Teams[0].Leader)
	}
	if len(got.Teams[0].Members) != 1 || got.Teams[0].Members[0].Name != "Mia" {
		t.Fatalf("expected populated members, got %+v", got.Teams[0].Members)
	}

	// Leading a team is not membership.
	led, err := f.svc.ListMine(ctx, lead.ID)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(led) != 0 {
		t.Fatalf("expected no projects for a non-member leader, got %d", len(led))
	}
}

func TestProjectService_UpdateNotFound(t *testing.T) {
	f := newProjectFixture()
	status := domain.ProjectCompleted

	_, err := f.svc.Update(context.Background(), "missing", ports.ProjectPatch{Status: &status})
	if !errors.Is(err, domain.ErrNotFound) || domain.Message(err, "") != "Project not found" {
		t.Fatalf("expected Project not found, got %v", err)
	}
}
