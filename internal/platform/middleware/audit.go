package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq/internal/platform/auth"
)

// AuditEntry captures who accessed which clinical resource, when, from
// where, and how.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Resource   string
	Action     string // read, create, update, delete, search
	IPAddress  string
	Path       string
	Method     string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. Decoupled from the middleware so
// tests can capture entries in memory.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc adapts a function to AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error { return f(entry) }

// auditedResources maps the first path segment under /api/v1 to the resource
// name recorded in the audit trail. Only patient-data routes are audited.
var auditedResources = map[string]string{
	"patients":    "patient",
	"evaluations": "evaluation",
	"analyses":    "smile_analysis",
	"documents":   "document",
}

// Audit logs access to patient data. Entries go to the recorder when one is
// provided, otherwise to the structured log.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			resource, ok := resourceFromPath(path)
			if !ok {
				return next(c)
			}

			err := next(c)

			rid, _ := c.Get("request_id").(string)
			ctx := c.Request().Context()
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(ctx),
				UserRoles:  auth.RolesFromContext(ctx),
				Resource:   resource,
				Action:     actionFromMethod(c.Request().Method, path),
				IPAddress:  c.RealIP(),
				Path:       path,
				Method:     c.Request().Method,
				RequestID:  rid,
				StatusCode: c.Response().Status,
				Timestamp:  time.Now().UTC(),
			}

			if len(recorders) > 0 {
				for _, r := range recorders {
					if rerr := r.RecordAccess(entry); rerr != nil {
						logger.Error().Err(rerr).Str("request_id", rid).Msg("audit record failed")
					}
				}
			} else {
				logger.Info().
					Str("request_id", entry.RequestID).
					Str("user_id", entry.UserID).
					Str("resource", entry.Resource).
					Str("action", entry.Action).
					Str("ip", entry.IPAddress).
					Int("status", entry.StatusCode).
					Msg("audit")
			}

			return err
		}
	}
}

func resourceFromPath(path string) (string, bool) {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	segment := strings.TrimPrefix(path, prefix)
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	resource, ok := auditedResources[segment]
	return resource, ok
}

func actionFromMethod(method, path string) string {
	switch method {
	case http.MethodGet:
		if strings.Contains(path, "search") {
			return "search"
		}
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
