package handlers

import (
	"net/http"
	"os"

	"jobdesk/internal/app"
	"jobdesk/internal/common"
	"jobdesk/internal/http/middleware"
	"jobdesk/internal/http/response"
	"jobdesk/internal/upload"
)

const maxMultipartMemory = 8 << 20

type ApplicationHandler struct {
	applications *app.ApplicationService
	uploads      *upload.Store
}

func NewApplicationHandler(applications *app.ApplicationService, uploads *upload.Store) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, uploads: uploads}
}

// Submit accepts multipart form submissions. The bearer credential is
// optional: the auth middleware attaches an identity when one verifies, and
// its absence makes this a guest submission rather than an error.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.Error(w, common.NewValidationError("invalid form", map[string]string{"body": "multipart form expected"}))
		return
	}
	input := app.SubmitInput{
		JobID:          r.FormValue("jobId"),
		SubmitterName:  r.FormValue("name"),
		SubmitterEmail: r.FormValue("email"),
		Message:        r.FormValue("message"),
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		input.ApplicantID = &userID
	}
	if file, header, err := r.FormFile("resume"); err == nil {
		defer file.Close()
		path, err := h.uploads.SaveResume(file, header)
		if err != nil {
			response.Error(w, err)
			return
		}
		input.ResumePath = path
	}
	created, err := h.applications.Submit(r.Context(), input)
	if err != nil {
		// The resume was stored before validation ran; do not leave it
		// orphaned on a rejected submission.
		if input.ResumePath != "" {
			_ = os.Remove(input.ResumePath)
		}
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusCreated, response.Payload{"application": created})
}

func (h *ApplicationHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.applications.ListForOwner(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"applications": items})
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.applications.ListForApplicant(r.Context(), userID, r.URL.Query().Get("jobId"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"applications": items})
}

func (h *ApplicationHandler) PublicLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.applications.PublicLookup(r.Context(), query.Get("applicant"), query.Get("email"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"applications": items})
}

type respondRequest struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (h *ApplicationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Respond(r.Context(), app.RespondInput{
		ApplicationID: applicationID,
		CallerID:      userID,
		Message:       req.Message,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, response.Payload{"application": updated})
}
