package app

import (
	"context"
	"strings"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/job"
	"jobdesk/internal/domain/user"
)

type JobService struct {
	repo job.Repository
}

func NewJobService(repo job.Repository) *JobService {
	return &JobService{repo: repo}
}

// Create stores a new posting. Moderation always starts at pending; only an
// admin moves it from there.
func (s *JobService) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	fields := map[string]string{}
	if strings.TrimSpace(posting.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(posting.CompanyName) == "" {
		fields["companyName"] = "companyName is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid job", fields)
	}
	posting.Status = job.StatusPending
	return s.repo.Create(ctx, posting)
}

func (s *JobService) ListAccepted(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAccepted(ctx, limit, offset)
}

// Get enforces the read rule: accepted postings are public, everything else
// is visible only to the owner or an admin.
func (s *JobService) Get(ctx context.Context, id common.UUID, viewerID common.UUID, viewerRole user.Role) (*job.Job, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.Status == job.StatusAccepted {
		return posting, nil
	}
	if viewerID != "" && (posting.OwnerID == viewerID || viewerRole == user.RoleAdmin) {
		return posting, nil
	}
	return nil, common.NewError(common.CodeNotFound, "job not found", nil)
}

func (s *JobService) ListByOwner(ctx context.Context, ownerID common.UUID) ([]job.Job, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *JobService) Moderate(ctx context.Context, id common.UUID, status string) (*job.Job, error) {
	normalized := job.Status(strings.ToLower(strings.TrimSpace(status)))
	switch normalized {
	case job.StatusPending, job.StatusAccepted, job.StatusRejected:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, accepted, or rejected"})
	}
	return s.repo.UpdateStatus(ctx, id, normalized)
}
