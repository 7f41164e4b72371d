package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, owner_id, title, company_name, location, salary, description, tags, status, posted_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, posting job.Job) (*job.Job, error) {
	posting.ID = common.NewUUID()
	now := time.Now().UTC()
	posting.PostedAt = now
	posting.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, owner_id, title, company_name, location, salary, description, tags, status, posted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		posting.ID, posting.OwnerID, posting.Title, posting.CompanyName, posting.Location, posting.Salary, posting.Description, pq.Array(posting.Tags), posting.Status, posting.PostedAt, posting.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &posting, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	var posting job.Job
	if err := row.Scan(&posting.ID, &posting.OwnerID, &posting.Title, &posting.CompanyName, &posting.Location, &posting.Salary, &posting.Description, pq.Array(&posting.Tags), &posting.Status, &posting.PostedAt, &posting.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return &posting, nil
}

func (r *JobRepository) ListAccepted(ctx context.Context, limit, offset int) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY posted_at DESC LIMIT $2 OFFSET $3`,
		job.StatusAccepted, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) ListByOwner(ctx context.Context, ownerID common.UUID) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE owner_id = $1 ORDER BY posted_at DESC`, ownerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list owner jobs", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) ListIDsByOwner(ctx context.Context, ownerID common.UUID) ([]common.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM jobs WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list owner job ids", err)
	}
	defer rows.Close()
	var ids []common.UUID
	for rows.Next() {
		var id common.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job id", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id common.UUID, status job.Status) (*job.Job, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func scanJobs(rows *sql.Rows) ([]job.Job, error) {
	var items []job.Job
	for rows.Next() {
		var posting job.Job
		if err := rows.Scan(&posting.ID, &posting.OwnerID, &posting.Title, &posting.CompanyName, &posting.Location, &posting.Salary, &posting.Description, pq.Array(&posting.Tags), &posting.Status, &posting.PostedAt, &posting.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, posting)
	}
	return items, nil
}
