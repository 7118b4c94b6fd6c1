package controls

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/notify"
	"github.com/rs/zerolog/log"
)

const (
	transferFallbackMessage = "Transfer failed"
	transferSuccessMessage  = "Transfer completed successfully!"
)

// TransferForm is the transfer input; the amount arrives as the raw
// text the user typed.
type TransferForm struct {
	ReceiverUsername string
	Amount           string
}

// TransferView resets the form fields after a successful transfer.
type TransferView interface {
	Reset()
}

// TransferController submits transfers and reloads the page afterwards
// so balance and history reflect the change.
type TransferController struct {
	api       *bankapi.Client
	view      TransferView
	notifier  notify.Notifier
	nav       Navigator
	scheduler Scheduler
}

func NewTransferController(api *bankapi.Client, view TransferView, notifier notify.Notifier, nav Navigator, scheduler Scheduler) (*TransferController, error) {
	if api == nil {
		return nil, errors.New("[NewTransferController] api is required")
	}
	if view == nil {
		return nil, errors.New("[NewTransferController] view is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewTransferController] notifier is required")
	}
	if nav == nil {
		return nil, errors.New("[NewTransferController] nav is required")
	}
	if scheduler == nil {
		return nil, errors.New("[NewTransferController] scheduler is required")
	}
	return &TransferController{api: api, view: view, notifier: notifier, nav: nav, scheduler: scheduler}, nil
}

// Submit validates the amount, transfers, and on success resets the
// form and schedules a reload. On failure the form keeps its values.
func (c *TransferController) Submit(ctx context.Context, form TransferForm) {
	amount, err := bankapi.ParseAmount(form.Amount)
	if err != nil {
		c.notifier.Notify(err.Error(), notify.SeverityError)
		return
	}

	if err := c.api.Transfer(ctx, form.ReceiverUsername, amount); err != nil {
		log.Warn().Err(err).Str("receiver", form.ReceiverUsername).Msg("transfer failed")
		c.notifier.Notify(messageFor(err, transferFallbackMessage), notify.SeverityError)
		return
	}

	c.notifier.Notify(transferSuccessMessage, notify.SeveritySuccess)
	c.view.Reset()
	c.scheduler.After(reloadDelay, c.nav.Reload)
}
