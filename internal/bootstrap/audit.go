package bootstrap

import "context"

// AuditLog is one administrative action worth keeping: overrides,
// template deletions, shutdowns. Meta carries the pre-change values so
// corrections stay reconstructable.
type AuditLog struct {
	Action  string
	Message string
	Actor   string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
