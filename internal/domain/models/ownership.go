package models

// Gig and Order are owned by other parts of the platform; only the
// ownership columns needed for file access delegation are modelled here.

type Gig struct {
	ID           int64  `json:"id" db:"id"`
	FreelancerID int64  `json:"freelancer_id" db:"freelancer_id"`
	Title        string `json:"title" db:"title"`
}

type Order struct {
	ID           int64  `json:"id" db:"id"`
	GigID        int64  `json:"gig_id" db:"gig_id"`
	ClientID     int64  `json:"client_id" db:"client_id"`
	FreelancerID int64  `json:"freelancer_id" db:"freelancer_id"`
	Status       string `json:"status" db:"status"`
}
