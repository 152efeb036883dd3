package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// subjectKey is the context key for the verified token subject.
const subjectKey contextKey = "auth_subject"

// ContextWithSubject adds the verified token subject to the context.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext retrieves the verified token subject from the context.
// Returns an empty string if the request was not authenticated.
//
// Handlers currently trust caller-supplied ids instead of this value,
// mirroring the original access model; the subject is threaded through
// anyway so self-scoped handlers can adopt it.
func SubjectFromContext(ctx context.Context) string {
	if subject, ok := ctx.Value(subjectKey).(string); ok {
		return subject
	}
	return ""
}
