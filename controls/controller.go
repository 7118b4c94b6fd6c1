// Package controls holds the per-form and per-button controllers. A
// controller owns one interaction: it validates input, issues the API
// call, and settles every outcome into session state, navigation, or a
// notification. Failures never escape the controller that triggered
// them.
package controls

import (
	stderrors "errors"
	"time"

	"github.com/quaybank/teller/bankapi"
)

// Pages controllers navigate to.
const (
	RouteDashboard = "/dashboard"
	RouteLogin     = "/login"
)

// GenericErrorMessage covers transport and decode failures, where no
// server-supplied detail exists.
const GenericErrorMessage = "An error occurred. Please try again."

// Reload delays, long enough for the user to read the outcome first.
const (
	reloadDelay        = 2 * time.Second
	depositReloadDelay = 3 * time.Second
)

// Navigator performs page-level transitions.
type Navigator interface {
	Navigate(path string)
	Reload()
}

// Scheduler defers work, the handle for "reload after N seconds".
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the production Scheduler.
type TimerScheduler struct{}

var _ Scheduler = TimerScheduler{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// messageFor maps an error to the user-visible message: the server's
// detail field when present, the action-specific fallback when the
// server rejected without one, and the generic message for transport
// or decode failures.
func messageFor(err error, fallback string) string {
	var apiErr *bankapi.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	return GenericErrorMessage
}
