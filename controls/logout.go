package controls

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/session"
	"github.com/rs/zerolog/log"
)

// LogoutController ends the session. Logout is always locally
// effective: the server call is best-effort and its failure never
// blocks clearing local state or leaving the page.
type LogoutController struct {
	api   *bankapi.Client
	store session.Store
	nav   Navigator
}

func NewLogoutController(api *bankapi.Client, store session.Store, nav Navigator) (*LogoutController, error) {
	if api == nil {
		return nil, errors.New("[NewLogoutController] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewLogoutController] store is required")
	}
	if nav == nil {
		return nil, errors.New("[NewLogoutController] nav is required")
	}
	return &LogoutController{api: api, store: store, nav: nav}, nil
}

// Logout fires the server logout, clears the session store, and
// navigates to the login page regardless of what the network did.
func (c *LogoutController) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}
	if err := c.store.Clear(); err != nil {
		log.Error().Err(err).Msg("clearing session store failed")
	}
	c.nav.Navigate(RouteLogin)
}
