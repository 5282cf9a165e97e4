package domain

// EventType tags a notification pushed to live connections.
type EventType string

const EventNewClient EventType = "NEW_CLIENT"

// WelcomeMessage is the first payload every push connection receives.
const WelcomeMessage = "Welcome to real-time notifications!"

// Event is an ephemeral notification; it is never persisted.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// NewClientPayload is the payload of an EventNewClient.
type NewClientPayload struct {
	Message  string `json:"message"`
	ClientID string `json:"clientId"`
}
