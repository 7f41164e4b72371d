package application

import (
	"context"

	"jobdesk/internal/common"
)

// LookupFilter matches records where the applicant reference (live link or
// cached id) OR the submitter email equals the supplied values. At least
// one criterion must be set.
type LookupFilter struct {
	Applicant string
	Email     string
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	// ListByJobIDs returns records for any of the given jobs, newest-first.
	ListByJobIDs(ctx context.Context, jobIDs []common.UUID) ([]Application, error)
	// ListByApplicant returns records linked to the identity, newest-first.
	// jobID narrows the result to one posting when non-empty.
	ListByApplicant(ctx context.Context, applicantID common.UUID, jobID common.UUID) ([]Application, error)
	Lookup(ctx context.Context, filter LookupFilter) ([]Application, error)
	AppendResponse(ctx context.Context, id common.UUID, resp Response) error
	// UpdateStatusIfNotFinal sets the status only when the current status is
	// not terminal, in a single conditional statement. It reports whether a
	// row was changed.
	UpdateStatusIfNotFinal(ctx context.Context, id common.UUID, status Status) (bool, error)
	// ListGuest returns records with no applicant link, oldest-first.
	ListGuest(ctx context.Context) ([]Application, error)
	// LinkApplicant attaches an identity to a guest record and refreshes the
	// applicant-derived caches.
	LinkApplicant(ctx context.Context, id common.UUID, applicantID common.UUID, displayName string) error
}
