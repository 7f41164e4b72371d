package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/application"
	"jobdesk/internal/domain/job"
	"jobdesk/internal/domain/user"
)

type ApplicationService struct {
	repo   application.Repository
	jobs   job.Repository
	users  user.Repository
	logger Logger
}

func NewApplicationService(repo application.Repository, jobs job.Repository, users user.Repository, logger Logger) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, users: users, logger: logger}
}

// ApplicationView is an application record with its job and applicant
// expanded for display. Expansion is best-effort: a missing job or identity
// leaves the field nil and the caches on the record carry the display data.
type ApplicationView struct {
	application.Application
	Job       *job.Job   `json:"job,omitempty"`
	Applicant *user.User `json:"applicant,omitempty"`
}

type SubmitInput struct {
	JobID          string
	SubmitterName  string
	SubmitterEmail string
	Message        string
	ResumePath     string
	// ApplicantID is set only when the caller presented a verifiable bearer
	// credential. Nil means a guest submission, which is always legal.
	ApplicantID *common.UUID
}

func (s *ApplicationService) Submit(ctx context.Context, input SubmitInput) (*ApplicationView, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.JobID) == "" {
		fields["jobId"] = "jobId is required"
	}
	if strings.TrimSpace(input.SubmitterName) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(input.SubmitterEmail) == "" {
		fields["email"] = "email is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("missing required fields", fields)
	}
	jobID, err := common.ParseUUID(input.JobID)
	if err != nil {
		return nil, common.NewValidationError("invalid request", map[string]string{"jobId": "invalid job id"})
	}

	app := application.Application{
		JobID:          jobID,
		SubmitterName:  strings.TrimSpace(input.SubmitterName),
		SubmitterEmail: strings.ToLower(strings.TrimSpace(input.SubmitterEmail)),
		Message:        strings.TrimSpace(input.Message),
		ResumePath:     input.ResumePath,
		Status:         application.StatusPending,
		Responses:      []application.Response{},
	}

	var applicant *user.User
	if input.ApplicantID != nil {
		// An identity that cannot be resolved degrades to a guest submission.
		resolved, err := s.users.GetByID(ctx, *input.ApplicantID)
		if err != nil {
			s.logInfo(fmt.Sprintf("applicant lookup failed, submitting as guest applicant_id=%s", input.ApplicantID.String()))
		} else {
			applicant = resolved
			id := resolved.ID
			app.ApplicantID = &id
			app.ApplicantIDCache = id.String()
			app.SubmitterDisplayNameCache = resolved.DisplayName
		}
	}

	// The job snapshot is a side lookup; its failure must not block creation.
	var posting *job.Job
	if loaded, err := s.jobs.GetByID(ctx, jobID); err != nil {
		s.logInfo(fmt.Sprintf("job snapshot failed job_id=%s", jobID))
	} else {
		posting = loaded
		app.JobTitleCache = loaded.Title
		app.CompanyNameCache = loaded.CompanyName
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	return &ApplicationView{Application: *created, Job: posting, Applicant: applicant}, nil
}

// ListForOwner returns every application against the caller's postings,
// newest-first. An employer with no postings gets an empty list.
func (s *ApplicationService) ListForOwner(ctx context.Context, ownerID common.UUID) ([]ApplicationView, error) {
	jobIDs, err := s.jobs.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(jobIDs) == 0 {
		return []ApplicationView{}, nil
	}
	items, err := s.repo.ListByJobIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, items), nil
}

// ListForApplicant returns records linked to the caller's identity. Guest
// submissions that share the caller's email are not included; the public
// lookup and the reconcile run cover those.
func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID common.UUID, jobID string) ([]ApplicationView, error) {
	var jobFilter common.UUID
	if strings.TrimSpace(jobID) != "" {
		parsed, err := common.ParseUUID(jobID)
		if err != nil {
			return nil, common.NewValidationError("invalid request", map[string]string{"jobId": "invalid job id"})
		}
		jobFilter = parsed
	}
	items, err := s.repo.ListByApplicant(ctx, applicantID, jobFilter)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, items), nil
}

// PublicLookup matches on applicant reference OR submitter email. At least
// one criterion is required so the endpoint can never dump the whole table.
func (s *ApplicationService) PublicLookup(ctx context.Context, applicant, email string) ([]ApplicationView, error) {
	applicant = strings.TrimSpace(applicant)
	email = strings.TrimSpace(email)
	if applicant == "" && email == "" {
		return nil, common.NewValidationError("missing lookup filter", map[string]string{"query": "applicant or email is required"})
	}
	items, err := s.repo.Lookup(ctx, application.LookupFilter{Applicant: applicant, Email: email})
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, items), nil
}

type RespondInput struct {
	ApplicationID common.UUID
	CallerID      common.UUID
	Message       string
	Status        string
}

// Respond appends to the response thread and/or transitions the status.
// Thread appends are permitted in every status; status changes lock once a
// terminal status is reached, except for idempotent repeats.
func (s *ApplicationService) Respond(ctx context.Context, input RespondInput) (*ApplicationView, error) {
	app, err := s.repo.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	posting, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if posting.OwnerID != input.CallerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another employer", nil)
	}

	requested := application.Status(strings.ToLower(strings.TrimSpace(input.Status)))
	if requested != "" && !application.IsKnown(requested) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewed, accepted, or rejected"})
	}

	// The thread append is orthogonal to the status outcome: it lands even
	// when the transition below is refused for a finalized record.
	if message := strings.TrimSpace(input.Message); message != "" {
		entry := application.Response{Sender: application.SenderEmployer, Message: message, CreatedAt: time.Now().UTC()}
		if err := s.repo.AppendResponse(ctx, app.ID, entry); err != nil {
			return nil, err
		}
	}

	wantTransition := false
	if requested != "" {
		if application.IsFinal(app.Status) {
			if requested != app.Status {
				return nil, common.NewValidationError("application status is final", map[string]string{"status": "status can no longer be changed"})
			}
			// Resubmitting the current terminal status is a silent no-op.
		} else if requested != app.Status {
			wantTransition = true
		}
	}

	if wantTransition {
		changed, err := s.repo.UpdateStatusIfNotFinal(ctx, app.ID, requested)
		if err != nil {
			return nil, err
		}
		if !changed {
			// A concurrent request finalized the record between our load and
			// the conditional update. Idempotent repeats still pass.
			current, err := s.repo.GetByID(ctx, app.ID)
			if err != nil {
				return nil, err
			}
			if current.Status != requested {
				return nil, common.NewValidationError("application status is final", map[string]string{"status": "status can no longer be changed"})
			}
		}
	}

	updated, err := s.repo.GetByID(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	view := s.expand(ctx, []application.Application{*updated})
	return &view[0], nil
}

func (s *ApplicationService) expand(ctx context.Context, items []application.Application) []ApplicationView {
	views := make([]ApplicationView, 0, len(items))
	jobsByID := make(map[common.UUID]*job.Job)
	usersByID := make(map[common.UUID]*user.User)
	for _, item := range items {
		view := ApplicationView{Application: item}
		if posting, ok := jobsByID[item.JobID]; ok {
			view.Job = posting
		} else if loaded, err := s.jobs.GetByID(ctx, item.JobID); err == nil {
			jobsByID[item.JobID] = loaded
			view.Job = loaded
		}
		if item.ApplicantID != nil {
			if account, ok := usersByID[*item.ApplicantID]; ok {
				view.Applicant = account
			} else if loaded, err := s.users.GetByID(ctx, *item.ApplicantID); err == nil {
				usersByID[*item.ApplicantID] = loaded
				view.Applicant = loaded
			}
		}
		views = append(views, view)
	}
	return views
}

func (s *ApplicationService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}
