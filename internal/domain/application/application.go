package application

import (
	"time"

	"jobdesk/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

type Sender string

const (
	SenderEmployer  Sender = "employer"
	SenderApplicant Sender = "applicant"
)

// Response is one entry of an application's message thread. Appends are
// allowed in every status, including the terminal ones.
type Response struct {
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Application is one submission of a candidate against one job posting.
// The *_cache fields are point-in-time snapshots taken at creation; they
// are never resynchronized with the job or user records they came from.
type Application struct {
	ID                        common.UUID  `json:"id"`
	JobID                     common.UUID  `json:"job_id"`
	JobTitleCache             string       `json:"job_title_cache"`
	CompanyNameCache          string       `json:"company_name_cache"`
	SubmitterName             string       `json:"submitter_name"`
	SubmitterEmail            string       `json:"submitter_email"`
	Message                   string       `json:"message,omitempty"`
	ResumePath                string       `json:"resume_path,omitempty"`
	ApplicantID               *common.UUID `json:"applicant_id,omitempty"`
	ApplicantIDCache          string       `json:"applicant_id_cache,omitempty"`
	SubmitterDisplayNameCache string       `json:"submitter_display_name_cache,omitempty"`
	Responses                 []Response   `json:"responses"`
	Status                    Status       `json:"status"`
	CreatedAt                 time.Time    `json:"created_at"`
	UpdatedAt                 time.Time    `json:"updated_at"`
}

// IsFinal reports whether the status permits no further transitions other
// than an idempotent repeat of itself.
func IsFinal(status Status) bool {
	return status == StatusAccepted || status == StatusRejected
}

func IsKnown(status Status) bool {
	switch status {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}
