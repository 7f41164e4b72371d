package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, job_title_cache, company_name_cache, submitter_name, submitter_email, message, resume_path,
	applicant_id, applicant_id_cache, submitter_display_name_cache, responses, status, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Responses == nil {
		app.Responses = []application.Response{}
	}
	responsesJSON, err := json.Marshal(app.Responses)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode responses", err)
	}
	var applicantID any
	if app.ApplicantID != nil {
		applicantID = app.ApplicantID.String()
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (id, job_id, job_title_cache, company_name_cache, submitter_name, submitter_email, message, resume_path,
		applicant_id, applicant_id_cache, submitter_display_name_cache, responses, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.JobID, app.JobTitleCache, app.CompanyNameCache, app.SubmitterName, app.SubmitterEmail, app.Message, app.ResumePath,
		applicantID, app.ApplicantIDCache, app.SubmitterDisplayNameCache, responsesJSON, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) ListByJobIDs(ctx context.Context, jobIDs []common.UUID) ([]application.Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(jobIDs))
	for i, id := range jobIDs {
		ids[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = ANY($1) ORDER BY created_at DESC`, pq.Array(ids))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID common.UUID, jobID common.UUID) ([]application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE applicant_id = $1`
	args := []any{applicantID}
	if jobID != "" {
		query += ` AND job_id = $2`
		args = append(args, jobID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applicant applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) Lookup(ctx context.Context, filter application.LookupFilter) ([]application.Application, error) {
	var clauses []string
	var args []any
	if filter.Applicant != "" {
		args = append(args, filter.Applicant)
		clauses = append(clauses, `applicant_id::text = $1 OR applicant_id_cache = $1`)
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Email)))
		if len(args) == 2 {
			clauses = append(clauses, `lower(submitter_email) = $2`)
		} else {
			clauses = append(clauses, `lower(submitter_email) = $1`)
		}
	}
	if len(clauses) == 0 {
		return nil, common.NewValidationError("lookup filter is required", map[string]string{"filter": "applicant or email must be set"})
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE (` + strings.Join(clauses, `) OR (`) + `) ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to look up applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) AppendResponse(ctx context.Context, id common.UUID, resp application.Response) error {
	entryJSON, err := json.Marshal(resp)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode response", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET responses = responses || $1::jsonb, updated_at = $2 WHERE id = $3`,
		entryJSON, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to append response", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return nil
}

// UpdateStatusIfNotFinal performs the status transition as a single
// conditional statement so concurrent finalizations cannot interleave a
// load-check-save sequence.
func (r *ApplicationRepository) UpdateStatusIfNotFinal(ctx context.Context, id common.UUID, status application.Status) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status NOT IN ($4, $5)`,
		status, time.Now().UTC(), id, application.StatusAccepted, application.StatusRejected)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	return rows > 0, nil
}

func (r *ApplicationRepository) ListGuest(ctx context.Context) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE applicant_id IS NULL ORDER BY created_at ASC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list guest applications", err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepository) LinkApplicant(ctx context.Context, id common.UUID, applicantID common.UUID, displayName string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET applicant_id = $1, applicant_id_cache = $2, submitter_display_name_cache = $3, updated_at = $4
		WHERE id = $5 AND applicant_id IS NULL`,
		applicantID, applicantID.String(), displayName, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to link applicant", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeConflict, "application already linked", nil)
	}
	return nil
}

type scanFunc func(dest ...any) error

func scanApplication(scan scanFunc) (*application.Application, error) {
	var app application.Application
	var applicantID sql.NullString
	var responsesJSON []byte
	if err := scan(&app.ID, &app.JobID, &app.JobTitleCache, &app.CompanyNameCache, &app.SubmitterName, &app.SubmitterEmail, &app.Message, &app.ResumePath,
		&applicantID, &app.ApplicantIDCache, &app.SubmitterDisplayNameCache, &responsesJSON, &app.Status, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	if applicantID.Valid {
		parsed := common.UUID(applicantID.String)
		app.ApplicantID = &parsed
	}
	if len(responsesJSON) > 0 {
		if err := json.Unmarshal(responsesJSON, &app.Responses); err != nil {
			return nil, err
		}
	}
	if app.Responses == nil {
		app.Responses = []application.Response{}
	}
	return &app, nil
}

func scanApplications(rows *sql.Rows) ([]application.Application, error) {
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	return items, nil
}
