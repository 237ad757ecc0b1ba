package logging

import "log/slog"

const (
	defaultErrorHint = "check logs for details"
	defaultImpact    = "run completed with warnings"
)

// WarnWithContext logs a warning carrying event_type, error_hint and impact.
// Fields missing from attrs are filled with defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, toArgs(withEventFields(attrs, eventType, true))...)
}

// ErrorWithContext logs an error carrying event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, toArgs(withEventFields(attrs, eventType, false))...)
}

func withEventFields(attrs []Attr, eventType string, impact bool) []Attr {
	present := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		present[attr.Key] = true
	}
	out := append(make([]Attr, 0, len(attrs)+3), attrs...)
	if !present[FieldEventType] {
		out = append(out, String(FieldEventType, eventType))
	}
	if !present[FieldErrorHint] {
		out = append(out, String(FieldErrorHint, defaultErrorHint))
	}
	if impact && !present[FieldImpact] {
		out = append(out, String(FieldImpact, defaultImpact))
	}
	return out
}
