// Package telemetry wraps Sentry error reporting around a Machine run:
// optional, DSN-gated, and additive to whatever the caller already
// does with a returned error.
package telemetry

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/cbegin/jez-go/internal/errs"
)

const flushTimeout = 2 * time.Second

// Reporter forwards Machine.Run errors of every Kind to Sentry when
// configured, and is a harmless no-op otherwise.
type Reporter struct {
	enabled bool
}

// Init configures the global Sentry client from dsn/environment/release
// and returns a Reporter bound to it. An empty dsn disables reporting
// entirely; callers can still use the returned Reporter unconditionally.
func Init(dsn, environment, release string) (*Reporter, func()) {
	noop := func() {}
	if dsn == "" {
		log.Println("telemetry: no SENTRY_DSN set, error reporting disabled")
		return &Reporter{enabled: false}, noop
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
		Debug:       environment != "production",
	}); err != nil {
		log.Printf("telemetry: failed to initialize Sentry: %v", err)
		return &Reporter{enabled: false}, noop
	}

	log.Printf("telemetry: Sentry initialized (environment: %s, release: %s)", environment, release)
	return &Reporter{enabled: true}, func() { sentry.Flush(flushTimeout) }
}

// ReportRunError forwards a Machine.Run failure to Sentry, tagging it
// with the session so overlapping runs in a test suite or a long-lived
// host process don't get conflated in one issue. Internal errors (bugs)
// and everything else both get captured; only the Kind is tagged
// differently, since a bug and a malformed program are different
// classes of incident.
func (r *Reporter) ReportRunError(sessionID string, err *errs.Error) {
	if r == nil || !r.enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("session_id", sessionID)
		scope.SetTag("error_kind", err.Kind.String())
		sentry.CaptureException(err)
	})
}
