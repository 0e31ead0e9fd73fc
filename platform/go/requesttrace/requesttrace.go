// Package requesttrace carries request-scoped audit metadata: who initiated a
// request, identified by their user sequence id when authenticated. Services
// use it to stamp Created_by / Updated_by on writes.
package requesttrace

import (
	"context"
)

type contextKey string

const ctxAuditInfo contextKey = "BACKOFFICE_REQUEST_TRACE"

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata needed for traceability and
// audit-field stamping. UserID holds the acting user's sequence id and is set
// only when ActorKind is user.
type AuditInfo struct {
	ActorKind ActorKind
	UserID    *int64
	RequestID string
}

// IntoContext stores the AuditInfo on the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when absent.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	v := ctx.Value(ctxAuditInfo)
	if v == nil {
		return AuditInfo{}, false
	}

	audit, ok := v.(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an
// anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// ForUser builds an AuditInfo for an authenticated user sequence id.
func ForUser(userID int64, requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindUser, UserID: &userID, RequestID: requestID}
}

// Anonymous builds an AuditInfo for unauthenticated requests.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for background/system operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: requestID}
}
