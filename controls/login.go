package controls

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/session"
	"github.com/rs/zerolog/log"
)

const loginFallbackMessage = "Login failed"

// LoginForm is the login input.
type LoginForm struct {
	Username   string
	Password   string
	RememberMe bool
}

// LoginView is the inline error region of the login form.
type LoginView interface {
	ClearError()
	ShowError(message string)
}

// LoginController submits credentials, persists the issued token pair,
// and moves the user to the dashboard.
type LoginController struct {
	api   *bankapi.Client
	store session.Store
	view  LoginView
	nav   Navigator
}

func NewLoginController(api *bankapi.Client, store session.Store, view LoginView, nav Navigator) (*LoginController, error) {
	if api == nil {
		return nil, errors.New("[NewLoginController] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewLoginController] store is required")
	}
	if view == nil {
		return nil, errors.New("[NewLoginController] view is required")
	}
	if nav == nil {
		return nil, errors.New("[NewLoginController] nav is required")
	}
	return &LoginController{api: api, store: store, view: view, nav: nav}, nil
}

// Submit runs the login flow. Any previously shown error is cleared
// before the request goes out; on failure the user stays on the page.
func (c *LoginController) Submit(ctx context.Context, form LoginForm) {
	c.view.ClearError()

	res, err := c.api.Login(ctx, form.Username, form.Password, form.RememberMe)
	if err != nil {
		log.Warn().Err(err).Str("username", form.Username).Msg("login failed")
		c.view.ShowError(messageFor(err, loginFallbackMessage))
		return
	}

	if err := c.store.Save(res.AccessToken, res.TokenType, form.RememberMe); err != nil {
		log.Error().Err(err).Msg("persisting session failed")
		c.view.ShowError(GenericErrorMessage)
		return
	}

	c.nav.Navigate(RouteDashboard)
}
