package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"jobdesk/internal/common"
)

type ErrorCollector interface {
	IncErrors()
}

var (
	collector ErrorCollector
	logger    *slog.Logger
)

func SetErrorCollector(c ErrorCollector) {
	collector = c
}

func SetLogger(l *slog.Logger) {
	logger = l
}

// Payload holds the resource part of an envelope, e.g. {"application": ...}.
type Payload map[string]any

// Success writes the {success: true, ...} envelope.
func Success(w http.ResponseWriter, status int, body Payload) {
	envelope := Payload{"success": true}
	for key, value := range body {
		envelope[key] = value
	}
	write(w, status, envelope)
}

// Error writes the {success: false, message} envelope with the HTTP status
// mapped from the error code. Internal failures are logged with their cause
// and reported to the caller with a generic message only.
func Error(w http.ResponseWriter, err error) {
	code := common.CodeInternal
	message := "internal error"
	var fields map[string]string
	var appErr *common.Error
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		fields = appErr.Fields
	}
	if code == common.CodeInternal {
		message = "internal error"
		if logger != nil {
			logger.Error("internal error", slog.String("error", err.Error()))
		}
		if collector != nil {
			collector.IncErrors()
		}
	}
	envelope := Payload{"success": false, "message": message}
	if len(fields) > 0 {
		envelope["fields"] = fields
	}
	write(w, statusFor(code), envelope)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
