package controls_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quaybank/teller/controls"
	"github.com/stretchr/testify/require"
)

func TestRegistrationController(t *testing.T) {
	t.Run("password mismatch never reaches the network", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			jsonResponse(w, http.StatusCreated, `{"message":"User created successfully"}`)
		})
		view := &fakeFormView{}
		sched := &fakeScheduler{}

		ctrl, err := controls.NewRegistrationController(client, view, &fakeNavigator{}, sched)
		require.NoError(t, err)

		ctrl.Submit(context.Background(), controls.RegistrationForm{
			Username:        "bob",
			Password:        "secret1",
			ConfirmPassword: "secret2",
		})

		require.Equal(t, "Passwords do not match", view.shownError())
		require.Zero(t, atomic.LoadInt32(&calls))
		require.Empty(t, sched.pending())
	})

	t.Run("success shows message then navigates to login after delay", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/register", r.URL.Path)
			jsonResponse(w, http.StatusCreated, `{"message":"User created successfully"}`)
		})
		view := &fakeFormView{}
		nav := &fakeNavigator{}
		sched := &fakeScheduler{}

		ctrl, err := controls.NewRegistrationController(client, view, nav, sched)
		require.NoError(t, err)

		ctrl.Submit(context.Background(), controls.RegistrationForm{
			Username:        "bob",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		})

		require.NotEmpty(t, view.success)
		// Navigation is deferred, not immediate.
		require.Empty(t, nav.lastNavigation())
		pending := sched.pending()
		require.Len(t, pending, 1)
		require.Equal(t, 2*time.Second, pending[0].delay)

		sched.runAll()
		require.Equal(t, controls.RouteLogin, nav.lastNavigation())
	})

	t.Run("server rejection keeps user on page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusBadRequest, `{"detail":"Username already registered"}`)
		})
		view := &fakeFormView{}
		nav := &fakeNavigator{}
		sched := &fakeScheduler{}

		ctrl, err := controls.NewRegistrationController(client, view, nav, sched)
		require.NoError(t, err)

		ctrl.Submit(context.Background(), controls.RegistrationForm{
			Username:        "bob",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		})

		require.Equal(t, "Username already registered", view.shownError())
		require.Empty(t, nav.lastNavigation())
		require.Empty(t, sched.pending())
	})
}
