package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error. A nil error is logged as an empty string.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Department tags a record with the department it concerns.
func Department(name string) slog.Attr {
	return slog.String("department", name)
}
