package serviceerrors

import (
	"context"
	"errors"
	"log/slog"

	databaseerrors "shopapi/internal/database"
	"shopapi/pkg/lib/logger/sl"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrContextCanceled  = errors.New("context canceled")
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// Translate maps context and storage sentinels onto service sentinels.
// Any other error is returned as is.
func Translate(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrDeadlineExceeded
	case errors.Is(err, databaseerrors.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// LogFailure logs expected outcomes (not found, canceled, timed out) at Warn
// and everything else at Error.
func LogFailure(log *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrContextCanceled),
		errors.Is(err, ErrDeadlineExceeded):
		log.Warn(msg, sl.Err(err))
	default:
		log.Error(msg, sl.Err(err))
	}
}
