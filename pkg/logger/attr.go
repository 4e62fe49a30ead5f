package logger

import "log/slog"

// Attribute helpers keep field names consistent across the codebase so
// log aggregation queries do not have to account for spelling drift.

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func AccountID(id string) slog.Attr {
	return slog.String("account_id", id)
}

func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}
