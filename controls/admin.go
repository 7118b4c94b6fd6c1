package controls

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/notify"
	"github.com/rs/zerolog/log"
)

// Kind is the resource an admin decision applies to.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Action is the decision itself.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ControlState is the lifecycle of one action button. There is no path
// out of StateInFlight except a settled response; StateDone only exists
// in the window between a success and the scheduled reload.
type ControlState int

const (
	StateIdle ControlState = iota
	StateInFlight
	StateDone
)

// ActionControl is the explicit per-button state record: the resource
// it acts on, the requested decision, and its in-flight guard. State
// lives here, not in any rendering layer.
type ActionControl struct {
	ID         string
	Kind       Kind
	Action     Action
	ResourceID string

	mu    sync.Mutex
	state ControlState
	label string
}

// State returns the control's current lifecycle state.
func (c *ActionControl) State() ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Label returns the control's current label text.
func (c *ActionControl) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// ActionControlView reflects control state changes wherever the buttons
// are drawn.
type ActionControlView interface {
	SetControl(controlID string, enabled bool, label string)
}

// AdminActionController drives the approve/reject buttons on the
// pending deposits and withdrawals screens. Guards are per control:
// two different buttons may be in flight at once, one button never is.
type AdminActionController struct {
	api       *bankapi.Client
	view      ActionControlView
	notifier  notify.Notifier
	nav       Navigator
	scheduler Scheduler

	mu       sync.Mutex
	controls map[string]*ActionControl
}

func NewAdminActionController(api *bankapi.Client, view ActionControlView, notifier notify.Notifier, nav Navigator, scheduler Scheduler) (*AdminActionController, error) {
	if api == nil {
		return nil, errors.New("[NewAdminActionController] api is required")
	}
	if view == nil {
		return nil, errors.New("[NewAdminActionController] view is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewAdminActionController] notifier is required")
	}
	if nav == nil {
		return nil, errors.New("[NewAdminActionController] nav is required")
	}
	if scheduler == nil {
		return nil, errors.New("[NewAdminActionController] scheduler is required")
	}
	return &AdminActionController{
		api:       api,
		view:      view,
		notifier:  notifier,
		nav:       nav,
		scheduler: scheduler,
		controls:  make(map[string]*ActionControl),
	}, nil
}

// Register creates the state record for one rendered button and returns
// it. The label is what the button shows while idle.
func (a *AdminActionController) Register(kind Kind, action Action, resourceID, label string) *ActionControl {
	ctl := &ActionControl{
		ID:         uuid.New().String(),
		Kind:       kind,
		Action:     action,
		ResourceID: resourceID,
		state:      StateIdle,
		label:      label,
	}

	a.mu.Lock()
	a.controls[ctl.ID] = ctl
	a.mu.Unlock()

	return ctl
}

// Control looks up a registered control by ID.
func (a *AdminActionController) Control(controlID string) (*ActionControl, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctl, ok := a.controls[controlID]
	return ctl, ok
}

// Click runs one decision. Clicks on a control that is already in
// flight or already settled are dropped without any network traffic.
func (a *AdminActionController) Click(ctx context.Context, controlID string) {
	ctl, ok := a.Control(controlID)
	if !ok {
		log.Warn().Str("control_id", controlID).Msg("click on unknown control")
		return
	}

	ctl.mu.Lock()
	if ctl.state != StateIdle {
		ctl.mu.Unlock()
		return
	}
	ctl.state = StateInFlight
	idleLabel := ctl.label
	ctl.mu.Unlock()

	a.view.SetControl(ctl.ID, false, processingLabel)

	err := a.sendStatus(ctx, ctl)
	if err != nil {
		ctl.mu.Lock()
		ctl.state = StateIdle
		ctl.mu.Unlock()

		a.view.SetControl(ctl.ID, true, idleLabel)
		log.Warn().Err(err).
			Str("kind", string(ctl.Kind)).
			Str("action", string(ctl.Action)).
			Str("resource_id", ctl.ResourceID).
			Msg("admin action failed")
		a.notifier.Notify(messageFor(err, failureMessage(ctl.Kind, ctl.Action)), notify.SeverityError)
		return
	}

	// Success leaves the control settled; the page is about to reload
	// and the button disappears with it, so the record is released.
	ctl.mu.Lock()
	ctl.state = StateDone
	ctl.mu.Unlock()

	a.mu.Lock()
	delete(a.controls, ctl.ID)
	a.mu.Unlock()

	a.notifier.Notify(successMessage(ctl.Kind, ctl.Action), notify.SeveritySuccess)
	a.scheduler.After(reloadDelay, a.nav.Reload)
}

func (a *AdminActionController) sendStatus(ctx context.Context, ctl *ActionControl) error {
	status := bankapi.StatusApproved
	if ctl.Action == ActionReject {
		status = bankapi.StatusRejected
	}

	switch ctl.Kind {
	case KindWithdrawal:
		return a.api.SetWithdrawStatus(ctx, ctl.ResourceID, status)
	default:
		return a.api.SetDepositStatus(ctx, ctl.ResourceID, status)
	}
}

func successMessage(kind Kind, action Action) string {
	past := "approved"
	if action == ActionReject {
		past = "rejected"
	}
	return fmt.Sprintf("%s %s successfully!", titleKind(kind), past)
}

func failureMessage(kind Kind, action Action) string {
	return fmt.Sprintf("Failed to %s %s", action, kind)
}

func titleKind(kind Kind) string {
	switch kind {
	case KindWithdrawal:
		return "Withdrawal"
	default:
		return "Deposit"
	}
}
