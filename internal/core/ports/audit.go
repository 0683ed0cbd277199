package ports

import "github.com/bookinghub/user-service/internal/core/domain"

// AuditSink accepts audit events for asynchronous recording. Implementations
// must not block the request path.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
