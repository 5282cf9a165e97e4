package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "not-started"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectNotStarted, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}

// Project is work done for a client by one or more teams.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Status      ProjectStatus `json:"status"`
	ClientID    string        `json:"client"`
	TeamIDs     []string      `json:"assignedTeams"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
