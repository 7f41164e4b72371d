package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/application"
	"jobdesk/internal/domain/job"
	"jobdesk/internal/domain/user"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[common.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = common.NewUUID()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	stored := account
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	return &stored, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *account
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *account
	return &copied, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting.ID = common.NewUUID()
	now := time.Now().UTC()
	posting.PostedAt = now
	posting.UpdatedAt = now
	stored := posting
	r.byID[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copied := *posting
	return &copied, nil
}

func (r *fakeJobRepo) ListAccepted(ctx context.Context, limit, offset int) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.byID {
		if posting.Status == job.StatusAccepted {
			items = append(items, *posting)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) ListByOwner(ctx context.Context, ownerID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, posting := range r.byID {
		if posting.OwnerID == ownerID {
			items = append(items, *posting)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) ListIDsByOwner(ctx context.Context, ownerID common.UUID) ([]common.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []common.UUID
	for _, posting := range r.byID {
		if posting.OwnerID == ownerID {
			ids = append(ids, posting.ID)
		}
	}
	return ids, nil
}

func (r *fakeJobRepo) UpdateStatus(ctx context.Context, id common.UUID, status job.Status) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	posting.Status = status
	posting.UpdatedAt = time.Now().UTC()
	copied := *posting
	return &copied, nil
}

type fakeApplicationRepo struct {
	mu    sync.Mutex
	byID  map[common.UUID]*application.Application
	order []common.UUID
	clock time.Time
	// onUpdateStatus runs before the conditional status update, letting
	// tests interleave a concurrent finalization.
	onUpdateStatus func()
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		byID:  make(map[common.UUID]*application.Application),
		clock: time.Now().UTC(),
	}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = common.NewUUID()
	// Strictly increasing timestamps keep newest-first ordering observable.
	r.clock = r.clock.Add(time.Second)
	app.CreatedAt = r.clock
	app.UpdatedAt = r.clock
	if app.Responses == nil {
		app.Responses = []application.Response{}
	}
	stored := app
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return &stored, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *app
	copied.Responses = append([]application.Response(nil), app.Responses...)
	return &copied, nil
}

func (r *fakeApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []common.UUID) ([]application.Application, error) {
	wanted := make(map[common.UUID]bool, len(jobIDs))
	for _, id := range jobIDs {
		wanted[id] = true
	}
	return r.list(func(app *application.Application) bool {
		return wanted[app.JobID]
	}), nil
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID, jobID common.UUID) ([]application.Application, error) {
	return r.list(func(app *application.Application) bool {
		if app.ApplicantID == nil || *app.ApplicantID != applicantID {
			return false
		}
		return jobID == "" || app.JobID == jobID
	}), nil
}

func (r *fakeApplicationRepo) Lookup(ctx context.Context, filter application.LookupFilter) ([]application.Application, error) {
	if filter.Applicant == "" && filter.Email == "" {
		return nil, common.NewValidationError("lookup filter is required", nil)
	}
	email := strings.ToLower(strings.TrimSpace(filter.Email))
	return r.list(func(app *application.Application) bool {
		if filter.Applicant != "" {
			if app.ApplicantID != nil && app.ApplicantID.String() == filter.Applicant {
				return true
			}
			if app.ApplicantIDCache == filter.Applicant {
				return true
			}
		}
		return email != "" && strings.ToLower(app.SubmitterEmail) == email
	}), nil
}

func (r *fakeApplicationRepo) AppendResponse(ctx context.Context, id common.UUID, resp application.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Responses = append(app.Responses, resp)
	return nil
}

func (r *fakeApplicationRepo) UpdateStatusIfNotFinal(ctx context.Context, id common.UUID, status application.Status) (bool, error) {
	if r.onUpdateStatus != nil {
		r.onUpdateStatus()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if application.IsFinal(app.Status) {
		return false, nil
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeApplicationRepo) ListGuest(ctx context.Context) ([]application.Application, error) {
	items := r.list(func(app *application.Application) bool {
		return app.ApplicantID == nil
	})
	// ListGuest is oldest-first.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (r *fakeApplicationRepo) LinkApplicant(ctx context.Context, id common.UUID, applicantID common.UUID, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.ApplicantID != nil {
		return common.NewError(common.CodeConflict, "application already linked", nil)
	}
	linked := applicantID
	app.ApplicantID = &linked
	app.ApplicantIDCache = linked.String()
	app.SubmitterDisplayNameCache = displayName
	return nil
}

// list returns matching records newest-first.
func (r *fakeApplicationRepo) list(match func(*application.Application) bool) []application.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for i := len(r.order) - 1; i >= 0; i-- {
		app := r.byID[r.order[i]]
		if match(app) {
			copied := *app
			copied.Responses = append([]application.Response(nil), app.Responses...)
			items = append(items, copied)
		}
	}
	return items
}
