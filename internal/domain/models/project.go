package models

import "time"

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// DefaultProjectCategory is used when a project is created without a category.
const DefaultProjectCategory = "general"

var projectStatusRank = map[ProjectStatus]int{
	ProjectStatusOpen:       0,
	ProjectStatusInProgress: 1,
	ProjectStatusCompleted:  2,
	ProjectStatusCancelled:  3,
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusRank[s]
	return ok
}

// CanTransitionTo reports whether a project may move from s to next.
// Statuses only move forward; nothing leaves cancelled.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == ProjectStatusCancelled {
		return false
	}
	return projectStatusRank[next] > projectStatusRank[s]
}

type Project struct {
	ID           int64         `json:"id" db:"id"`
	ClientID     int64         `json:"client_id" db:"client_id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	Category     string        `json:"category" db:"category"`
	Budget       float64       `json:"budget" db:"budget"` // denormalized from budget_max/budget_min for search and sort
	BudgetMin    *float64      `json:"budget_min" db:"budget_min"`
	BudgetMax    *float64      `json:"budget_max" db:"budget_max"`
	DurationDays *int          `json:"duration_days" db:"duration_days"`
	Status       ProjectStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectView is a project reshaped for a specific principal.
type ProjectView struct {
	Project
	ClientName           string   `json:"client_name"`
	ClientAvatar         *string  `json:"client_avatar"`
	Skills               []string `json:"skills"`
	ProposalsCount       int      `json:"proposals_count"`
	HasSubmittedProposal bool     `json:"has_submitted_proposal"`
}

// ProjectListing is a search result: the project and its client's profile.
type ProjectListing struct {
	Project
	ClientName   string  `json:"client_name"`
	ClientAvatar *string `json:"client_avatar"`
}

type Skill struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ProjectSort selects the ordering of search results.
type ProjectSort string

const (
	ProjectSortNewest ProjectSort = "created_at"
	ProjectSortBudget ProjectSort = "budget"
)

// ProjectSearchCriteria holds already-parsed search filters. Nil or empty
// fields are not applied.
type ProjectSearchCriteria struct {
	Query     string
	Status    ProjectStatus
	MinBudget *float64
	MaxBudget *float64
	SortBy    ProjectSort
}
