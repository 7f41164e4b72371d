package handlers

import (
	"net/http"
	"strconv"

	"jobdesk/internal/app"
	"jobdesk/internal/domain/job"
	"jobdesk/internal/http/middleware"
	"jobdesk/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"companyName"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type jobStatusRequest struct {
	Status string `json:"status"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), job.Job{
		OwnerID:     userID,
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Salary:      req.Salary,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusCreated, response.Payload{"job": created})
}

func (h *JobHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	items, err := h.jobs.ListAccepted(r.Context(), limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"jobs": items})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	viewerRole, _ := middleware.RoleFromContext(r.Context())
	posting, err := h.jobs.Get(r.Context(), id, viewerID, viewerRole)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"job": posting})
}

func (h *JobHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListByOwner(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"jobs": items})
}

func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.Moderate(r.Context(), id, req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"job": updated})
}
