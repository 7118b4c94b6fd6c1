package controls

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/internal/utils"
	"github.com/quaybank/teller/notify"
	"github.com/rs/zerolog/log"
)

const (
	withdrawFallbackMessage = "Withdrawal request failed"
	withdrawPendingNotice   = "Your withdrawal is pending admin approval."
)

// WithdrawForm is the withdrawal input.
type WithdrawForm struct {
	Amount  string
	Method  string // bank | atm
	Details string
}

// WithdrawController mirrors the deposit flow for withdrawals,
// including the ATM code shown when the server issues one.
type WithdrawController struct {
	api         *bankapi.Client
	view        DepositView
	notifier    notify.Notifier
	nav         Navigator
	scheduler   Scheduler
	submitLabel string

	mu       sync.Mutex
	inFlight bool
}

func NewWithdrawController(api *bankapi.Client, view DepositView, notifier notify.Notifier, nav Navigator, scheduler Scheduler, submitLabel string) (*WithdrawController, error) {
	if api == nil {
		return nil, errors.New("[NewWithdrawController] api is required")
	}
	if view == nil {
		return nil, errors.New("[NewWithdrawController] view is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewWithdrawController] notifier is required")
	}
	if nav == nil {
		return nil, errors.New("[NewWithdrawController] nav is required")
	}
	if scheduler == nil {
		return nil, errors.New("[NewWithdrawController] scheduler is required")
	}
	if submitLabel == "" {
		submitLabel = "Withdraw"
	}
	return &WithdrawController{
		api:         api,
		view:        view,
		notifier:    notifier,
		nav:         nav,
		scheduler:   scheduler,
		submitLabel: submitLabel,
	}, nil
}

func (c *WithdrawController) Submit(ctx context.Context, form WithdrawForm) {
	amount, err := bankapi.ParseAmount(form.Amount)
	if err != nil {
		c.notifier.Notify(err.Error(), notify.SeverityError)
		return
	}

	method := form.Method
	if method == "" {
		method = bankapi.WithdrawMethodBank
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.view.SetSubmit(false, processingLabel)
	c.mu.Unlock()

	res, err := c.api.Withdraw(ctx, amount, method, form.Details)

	c.mu.Lock()
	c.inFlight = false
	c.view.SetSubmit(true, c.submitLabel)
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("withdrawal request failed")
		c.notifier.Notify(messageFor(err, withdrawFallbackMessage), notify.SeverityError)
		return
	}

	c.view.RenderReceipt(Receipt{
		ChequeNumber: res.ChequeNumber,
		Amount:       bankapi.FormatAmount(amount),
		Notice:       withdrawPendingNotice,
		PDFPath:      bankapi.WithdrawPDFPath(res.ChequeNumber),
		AtmCode:      utils.Value(res.AtmCode),
	})
	c.view.Reset()
	c.scheduler.After(depositReloadDelay, c.nav.Reload)
}
