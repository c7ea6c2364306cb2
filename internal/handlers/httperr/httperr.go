package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	serviceerrors "shopapi/internal/service"
	"shopapi/pkg/lib/logger/sl"
)

const StatusClientClosedRequest = 499

// Write maps a service error onto an HTTP status and writes it. msg is used
// for errors without a dedicated status.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, serviceerrors.ErrContextCanceled):
		log.Warn("Context canceled", sl.Err(err))
		http.Error(w, "Context canceled", StatusClientClosedRequest)
	case errors.Is(err, serviceerrors.ErrDeadlineExceeded):
		log.Warn("Deadline exceeded", sl.Err(err))
		http.Error(w, "Deadline exceeded", http.StatusGatewayTimeout)
	case errors.Is(err, serviceerrors.ErrInvalidArgument):
		log.Warn("Invalid argument", sl.Err(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, serviceerrors.ErrNotFound):
		log.Warn("Not found", sl.Err(err))
		http.NotFound(w, r)
	default:
		log.Error(msg, sl.Err(err))
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
