package models

import "time"

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
)

type Proposal struct {
	ID           int64          `json:"id" db:"id"`
	ProjectID    int64          `json:"project_id" db:"project_id"`
	FreelancerID int64          `json:"freelancer_id" db:"freelancer_id"`
	CoverLetter  string         `json:"cover_letter" db:"cover_letter"`
	BidAmount    float64        `json:"bid_amount" db:"bid_amount"`
	DeliveryDays int            `json:"delivery_days" db:"delivery_days"`
	Status       ProposalStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}
