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

// ClientService implements client CRUD and announces new clients to live
// connections.
type ClientService struct {
	clients ports.ClientRepository
	users   ports.UserRepository
	events  ports.Broadcaster
	log     zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, users ports.UserRepository, events ports.Broadcaster, log zerolog.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		users:   users,
		events:  events,
		log:     log.With().Str("component", "clients").Logger(),
	}
}

func (s *ClientService) List(ctx context.Context) ([]ports.ClientDetail, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.CreatedBy)
	}
	creators, err := userRefs(ctx, s.users, ids)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	out := make([]ports.ClientDetail, 0, len(clients))
	for _, c := range clients {
		creator := lookupUserRef(creators, c.CreatedBy)
		out = append(out, ports.ClientDetail{Client: c, Creator: &creator})
	}
	return out, nil
}

// Create stores a client owned by actor and broadcasts NEW_CLIENT.
func (s *ClientService) Create(ctx context.Context, actor *domain.User, in ports.CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, domain.Validation("Name and email are required")
	}

	now := time.Now().UTC()
	created, err := s.clients.Create(ctx, &domain.Client{
		Name:      name,
		Email:     email,
		Company:   strings.TrimSpace(in.Company),
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.events.Broadcast(domain.Event{
		Type: domain.EventNewClient,
		Payload: domain.NewClientPayload{
			Message:  fmt.Sprintf("%s added a new client: %s", actor.Name, created.Name),
			ClientID: created.ID,
		},
	})

	s.log.Info().Str("client_id", created.ID).Str("created_by", actor.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Validation("Name cannot be empty")
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, domain.Validation("Email cannot be empty")
		}
		patch.Email = &email
	}

	updated, err := s.clients.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, "Client not found", "update client")
	}
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Client not found", "delete client")
	}
	return nil
}
