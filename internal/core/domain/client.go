package domain

import "time"

// Client is a customer of the organisation.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientRef is the populated form of a client reference.
type ClientRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// Ref returns the reference view of c.
func (c *Client) Ref() ClientRef {
	return ClientRef{ID: c.ID, Name: c.Name, Company: c.Company}
}
