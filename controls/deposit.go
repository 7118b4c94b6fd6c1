package controls

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/notify"
	"github.com/rs/zerolog/log"
)

const (
	depositFallbackMessage = "Deposit request failed"
	depositPendingNotice   = "Your deposit is pending admin approval."
	processingLabel        = "Processing..."
)

// Receipt is the result panel shown after a deposit or withdrawal is
// filed.
type Receipt struct {
	ChequeNumber string
	Amount       string // formatted, e.g. "$250.00"
	Notice       string
	PDFPath      string
	AtmCode      string // withdrawals via ATM only
}

// DepositView is the deposit form plus its submit control and result
// panel.
type DepositView interface {
	// SetSubmit toggles the submit control and swaps its label.
	SetSubmit(enabled bool, label string)
	RenderReceipt(receipt Receipt)
	Reset()
}

// DepositController files deposit requests. The submit control is
// disabled before the request leaves and is always restored once the
// response settles, so it can never stay dead after a failure.
type DepositController struct {
	api         *bankapi.Client
	view        DepositView
	notifier    notify.Notifier
	nav         Navigator
	scheduler   Scheduler
	submitLabel string

	mu       sync.Mutex
	inFlight bool
}

func NewDepositController(api *bankapi.Client, view DepositView, notifier notify.Notifier, nav Navigator, scheduler Scheduler, submitLabel string) (*DepositController, error) {
	if api == nil {
		return nil, errors.New("[NewDepositController] api is required")
	}
	if view == nil {
		return nil, errors.New("[NewDepositController] view is required")
	}
	if notifier == nil {
		return nil, errors.New("[NewDepositController] notifier is required")
	}
	if nav == nil {
		return nil, errors.New("[NewDepositController] nav is required")
	}
	if scheduler == nil {
		return nil, errors.New("[NewDepositController] scheduler is required")
	}
	if submitLabel == "" {
		submitLabel = "Deposit"
	}
	return &DepositController{
		api:         api,
		view:        view,
		notifier:    notifier,
		nav:         nav,
		scheduler:   scheduler,
		submitLabel: submitLabel,
	}, nil
}

// Submit files a deposit for the typed amount. A submit that arrives
// while one is already in flight is dropped.
func (c *DepositController) Submit(ctx context.Context, amountText string) {
	amount, err := bankapi.ParseAmount(amountText)
	if err != nil {
		c.notifier.Notify(err.Error(), notify.SeverityError)
		return
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	// Disable before the request starts; a second click during the
	// in-flight window must find the control dead.
	c.view.SetSubmit(false, processingLabel)
	c.mu.Unlock()

	res, err := c.api.Deposit(ctx, amount)

	c.mu.Lock()
	c.inFlight = false
	c.view.SetSubmit(true, c.submitLabel)
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("deposit request failed")
		c.notifier.Notify(messageFor(err, depositFallbackMessage), notify.SeverityError)
		return
	}

	c.view.RenderReceipt(Receipt{
		ChequeNumber: res.ChequeNumber,
		Amount:       bankapi.FormatAmount(amount),
		Notice:       depositPendingNotice,
		PDFPath:      bankapi.DepositPDFPath(res.ChequeNumber),
	})
	c.view.Reset()
	c.scheduler.After(depositReloadDelay, c.nav.Reload)
}
