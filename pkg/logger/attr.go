package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". Nil errors produce an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags records with the emitting subsystem.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Form(name string) slog.Attr {
	return slog.String("form", name)
}

func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Fields records the names of invalid fields.
func Fields(names []string) slog.Attr {
	return slog.Any("fields", names)
}

func SubmissionID(id string) slog.Attr {
	return slog.String("submission_id", id)
}

// UserID records the authenticated user. Empty IDs are dropped.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
