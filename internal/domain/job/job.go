package job

import (
	"time"

	"jobdesk/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

type Job struct {
	ID          common.UUID `json:"id"`
	OwnerID     common.UUID `json:"owner_id"`
	Title       string      `json:"title"`
	CompanyName string      `json:"company_name"`
	Location    string      `json:"location"`
	Salary      string      `json:"salary"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Status      Status      `json:"status"`
	PostedAt    time.Time   `json:"posted_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
