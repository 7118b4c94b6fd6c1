package controls_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quaybank/teller/controls"
	"github.com/quaybank/teller/notify"
	"github.com/stretchr/testify/require"
)

func newAdminController(t *testing.T, handler http.HandlerFunc) (*controls.AdminActionController, *fakeFormView, *fakeNotifier, *fakeNavigator, *fakeScheduler) {
	t.Helper()
	client := newTestClient(t, handler)
	view := &fakeFormView{}
	notes := &fakeNotifier{}
	nav := &fakeNavigator{}
	sched := &fakeScheduler{}
	ctrl, err := controls.NewAdminActionController(client, view, notes, nav, sched)
	require.NoError(t, err)
	return ctrl, view, notes, nav, sched
}

func TestAdminApproveDeposit(t *testing.T) {
	var gotPath, gotStatus string
	ctrl, view, notes, nav, sched := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotStatus = req.Status
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	})

	button := ctrl.Register(controls.KindDeposit, controls.ActionApprove, "42", "Approve")
	ctrl.Click(context.Background(), button.ID)

	require.Equal(t, "/api/admin/deposit/42/status", gotPath)
	require.Equal(t, "approved", gotStatus)

	all := notes.all()
	require.Len(t, all, 1)
	require.Equal(t, "Deposit approved successfully!", all[0].message)
	require.Equal(t, notify.SeveritySuccess, all[0].severity)

	// Control went through processing and stayed settled.
	require.Equal(t, []controlChange{
		{controlID: button.ID, enabled: false, label: "Processing..."},
	}, view.controlLog)
	require.Equal(t, controls.StateDone, button.State())

	pending := sched.pending()
	require.Len(t, pending, 1)
	require.Equal(t, 2*time.Second, pending[0].delay)
	sched.runAll()
	require.Equal(t, 1, nav.reloadCount())
}

func TestAdminRejectWithdrawal(t *testing.T) {
	var gotPath, gotStatus string
	ctrl, _, notes, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotStatus = req.Status
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	})

	button := ctrl.Register(controls.KindWithdrawal, controls.ActionReject, "7", "Reject")
	ctrl.Click(context.Background(), button.ID)

	require.Equal(t, "/api/admin/withdraw/7/status", gotPath)
	require.Equal(t, "rejected", gotStatus)
	require.Equal(t, "Withdrawal rejected successfully!", notes.all()[0].message)
}

func TestAdminActionFailure(t *testing.T) {
	t.Run("detail message and control restored", func(t *testing.T) {
		ctrl, view, notes, nav, sched := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusBadRequest, `{"detail":"User has insufficient funds for this withdrawal"}`)
		})

		button := ctrl.Register(controls.KindWithdrawal, controls.ActionApprove, "7", "Approve")
		ctrl.Click(context.Background(), button.ID)

		require.Equal(t, "User has insufficient funds for this withdrawal", notes.all()[0].message)
		require.Equal(t, []controlChange{
			{controlID: button.ID, enabled: false, label: "Processing..."},
			{controlID: button.ID, enabled: true, label: "Approve"},
		}, view.controlLog)
		require.Equal(t, controls.StateIdle, button.State())
		require.Empty(t, sched.pending())
		require.Zero(t, nav.reloadCount())
	})

	t.Run("fallback names kind and action", func(t *testing.T) {
		ctrl, _, notes, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusInternalServerError, `{}`)
		})

		button := ctrl.Register(controls.KindDeposit, controls.ActionReject, "42", "Reject")
		ctrl.Click(context.Background(), button.ID)

		require.Equal(t, "Failed to reject deposit", notes.all()[0].message)
	})

	t.Run("error path allows a retry", func(t *testing.T) {
		var calls int32
		ctrl, _, notes, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				jsonResponse(w, http.StatusBadGateway, `{}`)
				return
			}
			jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
		})

		button := ctrl.Register(controls.KindDeposit, controls.ActionApprove, "42", "Approve")
		ctrl.Click(context.Background(), button.ID)
		require.Equal(t, controls.StateIdle, button.State())

		ctrl.Click(context.Background(), button.ID)
		require.Equal(t, controls.StateDone, button.State())
		require.Equal(t, int32(2), atomic.LoadInt32(&calls))
		require.Equal(t, "Deposit approved successfully!", notes.all()[1].message)
	})
}

func TestAdminDoubleClickIdempotence(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	ctrl, _, _, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	})

	button := ctrl.Register(controls.KindDeposit, controls.ActionApprove, "42", "Approve")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Click(context.Background(), button.ID)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, time.Millisecond)

	// Rapid extra clicks while in flight.
	ctrl.Click(context.Background(), button.ID)
	ctrl.Click(context.Background(), button.ID)

	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// After success the control is settled; further clicks stay dropped.
	ctrl.Click(context.Background(), button.ID)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAdminSettledControlReleased(t *testing.T) {
	var calls int32
	ctrl, _, _, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	})

	button := ctrl.Register(controls.KindDeposit, controls.ActionApprove, "42", "Approve")
	ctrl.Click(context.Background(), button.ID)
	require.Equal(t, controls.StateDone, button.State())

	// The record is gone once the decision settled, so repeated
	// registrations across a long session do not accumulate.
	_, ok := ctrl.Control(button.ID)
	require.False(t, ok)

	ctrl.Click(context.Background(), button.ID)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Failed decisions keep their record for the retry.
	failing, _, _, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusBadGateway, `{}`)
	})
	retry := failing.Register(controls.KindDeposit, controls.ActionReject, "7", "Reject")
	failing.Click(context.Background(), retry.ID)
	_, ok = failing.Control(retry.ID)
	require.True(t, ok)
}

func TestAdminIndependentControls(t *testing.T) {
	var mu sync.Mutex
	paths := []string{}
	ctrl, _, _, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	})

	approve := ctrl.Register(controls.KindDeposit, controls.ActionApprove, "42", "Approve")
	reject := ctrl.Register(controls.KindDeposit, controls.ActionReject, "43", "Reject")

	ctrl.Click(context.Background(), approve.ID)
	ctrl.Click(context.Background(), reject.ID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, paths, 2)
	require.Contains(t, paths, "/api/admin/deposit/42/status")
	require.Contains(t, paths, "/api/admin/deposit/43/status")
}

func TestAdminUnknownControl(t *testing.T) {
	var calls int32
	ctrl, _, notes, _, _ := newAdminController(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	ctrl.Click(context.Background(), "no-such-control")
	require.Zero(t, atomic.LoadInt32(&calls))
	require.Empty(t, notes.all())
}
