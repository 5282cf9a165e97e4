package domain

import (
	"slices"
	"time"
)

// Team groups users; projects are assigned to teams.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader,omitempty"`
	MemberIDs []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is in the team's member list.
func (t *Team) HasMember(userID string) bool {
	return slices.Contains(t.MemberIDs, userID)
}

// TeamRef is the populated form of a team reference.
type TeamRef struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Leader  *UserRef  `json:"leader,omitempty"`
	Members []UserRef `json:"members"`
}
