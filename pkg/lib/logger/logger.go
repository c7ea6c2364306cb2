package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	constants "shopapi/pkg/config"
	"shopapi/pkg/lib/logger/handler/slogpretty"
)

func SetupLogger(env string) (*slog.Logger, error) {
	return New(env, os.Stdout)
}

// New builds the logger for env writing to out.
func New(env string, out io.Writer) (*slog.Logger, error) {
	var log *slog.Logger

	switch env {
	case constants.EnvLocal:
		log = setupPrettySlog(out)
	case constants.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case constants.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		return nil, fmt.Errorf("failed to init logger: wrong env %q", env)
	}

	return log.With("env", env), nil
}

func setupPrettySlog(out io.Writer) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(out)

	return slog.New(handler)
}
