package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default and
// returns its handler so that further sinks can be attached later. Debug
// records are kept only in development.
func Setup(appEnv string) slog.Handler {
	return setup(os.Stdout, appEnv)
}

func setup(w io.Writer, appEnv string) slog.Handler {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return handler
}

// Attach replaces the default logger with one that writes to base and every
// extra handler.
func Attach(base slog.Handler, extra ...slog.Handler) {
	slog.SetDefault(slog.New(NewMultiHandler(append([]slog.Handler{base}, extra...)...)))
}
