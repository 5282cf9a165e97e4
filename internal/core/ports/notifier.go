package ports

import "github.com/syncflow/syncflow-api/internal/core/domain"

// Broadcaster pushes an event to every open push connection. Delivery is
// best effort; Broadcast never fails.
type Broadcaster interface {
	Broadcast(event domain.Event)
}

// Mailer hands a password-reset link to the user.
type Mailer interface {
	SendPasswordReset(to, resetURL string) error
}
