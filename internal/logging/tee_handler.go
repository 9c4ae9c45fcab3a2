package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends records to the primary sink and, when configured, to a
// file sink that usually runs at a lower level.
type teeHandler struct {
	primary slog.Handler
	file    slog.Handler
}

func newTeeHandler(primary, file slog.Handler) slog.Handler {
	switch {
	case primary == nil && file == nil:
		return slog.DiscardHandler
	case file == nil:
		return primary
	case primary == nil:
		return file
	}
	return teeHandler{primary: primary, file: file}
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.primary.Enabled(ctx, level) || t.file.Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if t.file.Enabled(ctx, r.Level) {
		errs = append(errs, t.file.Handle(ctx, r.Clone()))
	}
	if t.primary.Enabled(ctx, r.Level) {
		errs = append(errs, t.primary.Handle(ctx, r))
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{primary: t.primary.WithAttrs(attrs), file: t.file.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{primary: t.primary.WithGroup(name), file: t.file.WithGroup(name)}
}
