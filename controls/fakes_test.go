package controls_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/controls"
	"github.com/quaybank/teller/notify"
	"github.com/stretchr/testify/require"
)

// fakeNavigator records navigations and reloads.
type fakeNavigator struct {
	mu        sync.Mutex
	navigated []string
	reloads   int
}

func (f *fakeNavigator) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, path)
}

func (f *fakeNavigator) Reload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
}

func (f *fakeNavigator) lastNavigation() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.navigated) == 0 {
		return ""
	}
	return f.navigated[len(f.navigated)-1]
}

func (f *fakeNavigator) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

// fakeScheduler captures deferred work so tests can fire it on demand.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

type scheduledTask struct {
	delay time.Duration
	fn    func()
}

func (f *fakeScheduler) After(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, scheduledTask{delay: d, fn: fn})
}

func (f *fakeScheduler) runAll() {
	f.mu.Lock()
	tasks := f.tasks
	f.tasks = nil
	f.mu.Unlock()
	for _, task := range tasks {
		task.fn()
	}
}

func (f *fakeScheduler) pending() []scheduledTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]scheduledTask, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu    sync.Mutex
	notes []notification
}

type notification struct {
	message  string
	severity notify.Severity
}

func (f *fakeNotifier) Notify(message string, severity notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, notification{message: message, severity: severity})
}

func (f *fakeNotifier) all() []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notification, len(f.notes))
	copy(out, f.notes)
	return out
}

// fakeFormView satisfies every per-form view interface and records
// what the controllers did to it.
type fakeFormView struct {
	mu          sync.Mutex
	errorShown  string
	success     string
	clearCalls  int
	resetCalls  int
	submitLog   []submitState
	receipts    []controls.Receipt
	controlLog  []controlChange
}

type submitState struct {
	enabled bool
	label   string
}

type controlChange struct {
	controlID string
	enabled   bool
	label     string
}

func (f *fakeFormView) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	f.errorShown = ""
}

func (f *fakeFormView) ShowError(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorShown = message
}

func (f *fakeFormView) ShowSuccess(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.success = message
}

func (f *fakeFormView) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
}

func (f *fakeFormView) SetSubmit(enabled bool, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitLog = append(f.submitLog, submitState{enabled: enabled, label: label})
}

func (f *fakeFormView) RenderReceipt(receipt controls.Receipt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, receipt)
}

func (f *fakeFormView) SetControl(controlID string, enabled bool, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controlLog = append(f.controlLog, controlChange{controlID: controlID, enabled: enabled, label: label})
}

func (f *fakeFormView) shownError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorShown
}

// newTestClient wires a bankapi.Client against an httptest handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *bankapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := bankapi.New(srv.URL, bankapi.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}

// jsonResponse writes v as a JSON body with the given status.
func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
