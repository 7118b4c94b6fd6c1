package controls

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/rs/zerolog/log"
)

const (
	registerFallbackMessage = "Registration failed"
	passwordMismatchMessage = "Passwords do not match"
	registerSuccessMessage  = "Registration successful! Redirecting to login..."
)

// RegistrationForm is the sign-up input.
type RegistrationForm struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// RegistrationView is the feedback region of the sign-up form.
type RegistrationView interface {
	ClearError()
	ShowError(message string)
	ShowSuccess(message string)
}

// RegistrationController validates and submits sign-ups. The password
// mismatch check happens before any network call.
type RegistrationController struct {
	api       *bankapi.Client
	view      RegistrationView
	nav       Navigator
	scheduler Scheduler
}

func NewRegistrationController(api *bankapi.Client, view RegistrationView, nav Navigator, scheduler Scheduler) (*RegistrationController, error) {
	if api == nil {
		return nil, errors.New("[NewRegistrationController] api is required")
	}
	if view == nil {
		return nil, errors.New("[NewRegistrationController] view is required")
	}
	if nav == nil {
		return nil, errors.New("[NewRegistrationController] nav is required")
	}
	if scheduler == nil {
		return nil, errors.New("[NewRegistrationController] scheduler is required")
	}
	return &RegistrationController{api: api, view: view, nav: nav, scheduler: scheduler}, nil
}

// Submit registers the user and, on success, moves to the login page
// after a short delay so the success message can be read.
func (c *RegistrationController) Submit(ctx context.Context, form RegistrationForm) {
	c.view.ClearError()

	if form.Password != form.ConfirmPassword {
		c.view.ShowError(passwordMismatchMessage)
		return
	}

	if err := c.api.Register(ctx, form.Username, form.Password); err != nil {
		log.Warn().Err(err).Str("username", form.Username).Msg("registration failed")
		c.view.ShowError(messageFor(err, registerFallbackMessage))
		return
	}

	c.view.ShowSuccess(registerSuccessMessage)
	c.scheduler.After(reloadDelay, func() {
		c.nav.Navigate(RouteLogin)
	})
}
