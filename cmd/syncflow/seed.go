package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/infrastructure/config"
	mongodb "github.com/syncflow/syncflow-api/internal/infrastructure/db/mongo"
	"github.com/syncflow/syncflow-api/pkg/logger"
)

const seedPassword = "Password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo data set",
	Long: `Seed deletes every user, client, team, project and invoice and inserts
a small demo organisation. All seeded accounts use the password ` + seedPassword + `.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel))
	log := logger.Component("seed")

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.Wipe(ctx, db); err != nil {
		return err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("existing data deleted")

	s := seeder{
		users:    mongodb.NewUserRepository(db),
		clients:  mongodb.NewClientRepository(db),
		teams:    mongodb.NewTeamRepository(db),
		projects: mongodb.NewProjectRepository(db),
		invoices: mongodb.NewInvoiceRepository(db),
		now:      time.Now().UTC(),
	}
	if err := s.run(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Info().
		Int("users", 5).
		Int("clients", 2).
		Int("teams", 2).
		Int("projects", 2).
		Int("invoices", 2).
		Msg("database seeded")
	return nil
}

type seeder struct {
	users    *mongodb.UserRepository
	clients  *mongodb.ClientRepository
	teams    *mongodb.TeamRepository
	projects *mongodb.ProjectRepository
	invoices *mongodb.InvoiceRepository
	now      time.Time
}

func (s seeder) run(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	accounts := []domain.User{
		{Name: "Admin User", Email: "admin@gmail.com", Role: domain.RoleAdmin, Specialization: "System Architect"},
		{Name: "Manager User", Email: "manager@gmail.com", Role: domain.RoleManager, Specialization: "Project Manager"},
		{Name: "Accountant User", Email: "accountant@gmail.com", Role: domain.RoleAccountant, Specialization: "Finance"},
		{Name: "user1", Email: "user1@gmail.com", Role: domain.RoleUser, Specialization: "Frontend Developer"},
		{Name: "user2", Email: "user2@gmail.com", Role: domain.RoleUser, Specialization: "Backend Developer"},
	}
	users := make([]*domain.User, 0, len(accounts))
	for _, u := range accounts {
		u.PasswordHash = string(hash)
		u.CreatedAt, u.UpdatedAt = s.now, s.now
		created, err := s.users.Create(ctx, &u)
		if err != nil {
			return err
		}
		users = append(users, created)
	}
	admin, manager, user1, user2 := users[0], users[1], users[3], users[4]

	client1, err := s.clients.Create(ctx, &domain.Client{
		Name: "Shubham", Email: "shubham@gmail.com", Company: "Innovate Corp",
		CreatedBy: admin.ID, CreatedAt: s.now, UpdatedAt: s.now,
	})
	if err != nil {
		return err
	}
	client2, err := s.clients.Create(ctx, &domain.Client{
		Name: "Soham", Email: "soham@gmail.com", Company: "Quantum Solutions",
		CreatedBy: admin.ID, CreatedAt: s.now, UpdatedAt: s.now,
	})
	if err != nil {
		return err
	}

	alpha, err := s.teams.Create(ctx, &domain.Team{
		Name: "Alpha Team", LeaderID: manager.ID, MemberIDs: []string{user1.ID, user2.ID},
		CreatedAt: s.now, UpdatedAt: s.now,
	})
	if err != nil {
		return err
	}
	beta, err := s.teams.Create(ctx, &domain.Team{
		Name: "Beta Team", LeaderID: manager.ID, MemberIDs: []string{user1.ID},
		CreatedAt: s.now, UpdatedAt: s.now,
	})
	if err != nil {
		return err
	}

	project1, err := s.projects.Create(ctx, &domain.Project{
		Title:       "AI Platform Development",
		Description: "Build a new AI-driven analytics platform.",
		Deadline:    date(2025, time.December, 31),
		Status:      domain.ProjectInProgress,
		ClientID:    client1.ID,
		TeamIDs:     []string{alpha.ID},
		CreatedAt:   s.now,
		UpdatedAt:   s.now,
	})
	if err != nil {
		return err
	}
	project2, err := s.projects.Create(ctx, &domain.Project{
		Title:       "Mobile App Redesign",
		Description: "Complete redesign of the flagship mobile app.",
		Deadline:    date(2025, time.November, 30),
		Status:      domain.ProjectNotStarted,
		ClientID:    client2.ID,
		TeamIDs:     []string{beta.ID},
		CreatedAt:   s.now,
		UpdatedAt:   s.now,
	})
	if err != nil {
		return err
	}

	for _, inv := range []domain.Invoice{
		{InvoiceNumber: "INV-001", ProjectID: project1.ID, ClientID: client1.ID, Amount: 25000, Status: domain.InvoiceUnpaid, DueDate: *date(2025, time.October, 15)},
		{InvoiceNumber: "INV-002", ProjectID: project2.ID, ClientID: client2.ID, Amount: 15000, Status: domain.InvoicePaid, DueDate: *date(2025, time.September, 30)},
	} {
		inv.CreatedAt, inv.UpdatedAt = s.now, s.now
		if _, err := s.invoices.Create(ctx, &inv); err != nil {
			return err
		}
	}
	return nil
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
