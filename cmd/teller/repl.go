package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/controls"
	"github.com/quaybank/teller/notify"
	"github.com/quaybank/teller/partial"
	"github.com/quaybank/teller/session"
	"github.com/quaybank/teller/terminal"
)

const helpText = `Commands:
  login                          sign in
  register                       create an account
  logout                         sign out
  balance                        show the account balance
  transfer <user> <amount>       send money to another user
  deposit <amount>               file a cheque deposit
  withdraw <amount> <bank|atm> [details]
  deposits | withdrawals         own request history
  pending                        requests awaiting review (admin)
  approve <deposit|withdrawal> <id>
  reject  <deposit|withdrawal> <id>
  pdf <deposit|withdrawal> <cheque>  save a receipt PDF
  export [csv|pdf] [type]        save the transaction history
  banners                        list landing-page banners (admin)
  banner add                     create a banner (admin)
  banner update <id>             replace a banner (admin)
  banner toggle <id>             flip a banner in/out of rotation
  banner delete <id>             remove a banner (admin)
  panel <path> [target]          fetch a rendered page fragment
  help | quit
`

type repl struct {
	api       *bankapi.Client
	fragments *partial.Requester
	store     session.Store
	term      *terminal.Terminal

	login    *controls.LoginController
	register *controls.RegistrationController
	logout   *controls.LogoutController
	transfer *controls.TransferController
	deposit  *controls.DepositController
	withdraw *controls.WithdrawController
	admin    *controls.AdminActionController

	scanner *bufio.Scanner
}

func newREPL(api *bankapi.Client, fragments *partial.Requester, store session.Store, term *terminal.Terminal, notifier notify.Notifier) (*repl, error) {
	scheduler := controls.TimerScheduler{}

	login, err := controls.NewLoginController(api, store, term, term)
	if err != nil {
		return nil, err
	}
	register, err := controls.NewRegistrationController(api, term, term, scheduler)
	if err != nil {
		return nil, err
	}
	logout, err := controls.NewLogoutController(api, store, term)
	if err != nil {
		return nil, err
	}
	transfer, err := controls.NewTransferController(api, term, notifier, term, scheduler)
	if err != nil {
		return nil, err
	}
	deposit, err := controls.NewDepositController(api, term, notifier, term, scheduler, "Deposit")
	if err != nil {
		return nil, err
	}
	withdraw, err := controls.NewWithdrawController(api, term, notifier, term, scheduler, "Withdraw")
	if err != nil {
		return nil, err
	}
	admin, err := controls.NewAdminActionController(api, term, notifier, term, scheduler)
	if err != nil {
		return nil, err
	}

	return &repl{
		api:       api,
		fragments: fragments,
		store:     store,
		term:      term,
		login:     login,
		register:  register,
		logout:    logout,
		transfer:  transfer,
		deposit:   deposit,
		withdraw:  withdraw,
		admin:     admin,
	}, nil
}

func (r *repl) run(in io.Reader) error {
	r.scanner = bufio.NewScanner(in)
	r.term.Say(helpText)
	r.resumeSession()

	for {
		r.term.Say("%s> ", r.term.Route())
		if !r.scanner.Scan() {
			return r.scanner.Err()
		}
		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		r.dispatch(context.Background(), fields[0], fields[1:])
	}
}

// resumeSession picks up a persisted login. A token past its expiry is
// cleared so the next protected request does not carry dead credentials.
func (r *repl) resumeSession() {
	sess, ok := r.store.Read()
	if !ok || !sess.Valid() {
		return
	}
	if sess.Expired(time.Now()) {
		if err := r.store.Clear(); err != nil {
			r.term.ShowError(err.Error())
		}
		r.term.ShowError("Session expired, please log in again.")
		return
	}
	r.term.Navigate(controls.RouteDashboard)
}

func (r *repl) dispatch(ctx context.Context, command string, args []string) {
	switch command {
	case "help":
		r.term.Say(helpText)
	case "login":
		r.runLogin(ctx)
	case "register":
		r.runRegister(ctx)
	case "logout":
		r.logout.Logout(ctx)
	case "balance":
		r.runBalance(ctx)
	case "transfer":
		if len(args) != 2 {
			r.term.Say("usage: transfer <user> <amount>\n")
			return
		}
		r.transfer.Submit(ctx, controls.TransferForm{ReceiverUsername: args[0], Amount: args[1]})
	case "deposit":
		if len(args) != 1 {
			r.term.Say("usage: deposit <amount>\n")
			return
		}
		r.deposit.Submit(ctx, args[0])
	case "withdraw":
		r.runWithdraw(ctx, args)
	case "deposits":
		r.runHistory(ctx, "deposits")
	case "withdrawals":
		r.runHistory(ctx, "withdrawals")
	case "pending":
		r.runPending(ctx)
	case "approve":
		r.runDecision(ctx, controls.ActionApprove, args)
	case "reject":
		r.runDecision(ctx, controls.ActionReject, args)
	case "pdf":
		r.runPDF(ctx, args)
	case "export":
		r.runExport(ctx, args)
	case "banners":
		r.runBannerList(ctx)
	case "banner":
		r.runBanner(ctx, args)
	case "panel":
		r.runPanel(ctx, args)
	default:
		r.term.Say("unknown command %q, try help\n", command)
	}
}

func (r *repl) runLogin(ctx context.Context) {
	username := r.prompt("Username")
	password, err := r.secret("Password")
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	remember := strings.EqualFold(r.prompt("Remember me (y/n)"), "y")

	r.login.Submit(ctx, controls.LoginForm{Username: username, Password: password, RememberMe: remember})
}

func (r *repl) runRegister(ctx context.Context) {
	username := r.prompt("Username")
	password, err := r.secret("Password")
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	confirm, err := r.secret("Confirm password")
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}

	r.register.Submit(ctx, controls.RegistrationForm{Username: username, Password: password, ConfirmPassword: confirm})
}

func (r *repl) runBalance(ctx context.Context) {
	balance, err := r.api.Balance(ctx)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	r.term.Say("Balance: %s\n", bankapi.FormatAmount(balance))
}

func (r *repl) runWithdraw(ctx context.Context, args []string) {
	if len(args) < 2 {
		r.term.Say("usage: withdraw <amount> <bank|atm> [details]\n")
		return
	}
	method := strings.ToLower(args[1])
	if method != bankapi.WithdrawMethodBank && method != bankapi.WithdrawMethodATM {
		r.term.Say("withdrawal method must be bank or atm\n")
		return
	}
	r.withdraw.Submit(ctx, controls.WithdrawForm{
		Amount:  args[0],
		Method:  method,
		Details: strings.Join(args[2:], " "),
	})
}

func (r *repl) runHistory(ctx context.Context, which string) {
	var (
		records []bankapi.ChequeRecord
		err     error
	)
	if which == "deposits" {
		records, err = r.api.Deposits(ctx)
	} else {
		records, err = r.api.Withdrawals(ctx)
	}
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	if len(records) == 0 {
		r.term.Say("No %s yet.\n", which)
		return
	}
	for _, rec := range records {
		r.term.Say("%-12s %10s  %-9s %s\n",
			rec.ChequeNumber, bankapi.FormatAmount(rec.Amount), rec.Status,
			rec.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (r *repl) runPending(ctx context.Context) {
	deposits, err := r.api.PendingDeposits(ctx)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	withdrawals, err := r.api.PendingWithdrawals(ctx)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}

	r.term.Say("Pending deposits:\n")
	for _, d := range deposits {
		r.term.Say("  %-6s %-12s %-16s %s\n",
			d.ID, d.ChequeNumber, d.Username, bankapi.FormatAmount(d.Amount))
	}
	r.term.Say("Pending withdrawals:\n")
	for _, w := range withdrawals {
		funds := "funded"
		if !w.HasSufficientFunds {
			funds = "INSUFFICIENT"
		}
		r.term.Say("  %-6s %-12s %-16s %s (%s)\n",
			w.ID, w.ChequeNumber, w.Username, bankapi.FormatAmount(w.Amount), funds)
	}
}

func (r *repl) runDecision(ctx context.Context, action controls.Action, args []string) {
	if len(args) != 2 {
		r.term.Say("usage: %s <deposit|withdrawal> <id>\n", action)
		return
	}
	var kind controls.Kind
	switch args[0] {
	case "deposit":
		kind = controls.KindDeposit
	case "withdrawal":
		kind = controls.KindWithdrawal
	default:
		r.term.Say("decision target must be deposit or withdrawal\n")
		return
	}

	label := "Approve"
	if action == controls.ActionReject {
		label = "Reject"
	}
	ctl := r.admin.Register(kind, action, args[1], label)
	r.admin.Click(ctx, ctl.ID)
}

func (r *repl) runPDF(ctx context.Context, args []string) {
	if len(args) != 2 {
		r.term.Say("usage: pdf <deposit|withdrawal> <cheque>\n")
		return
	}
	var (
		data []byte
		err  error
	)
	switch args[0] {
	case "deposit":
		data, err = r.api.DepositPDF(ctx, args[1])
	case "withdrawal":
		data, err = r.api.WithdrawPDF(ctx, args[1])
	default:
		r.term.Say("receipt target must be deposit or withdrawal\n")
		return
	}
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}

	name := args[1] + ".pdf"
	if err := os.WriteFile(name, data, 0o644); err != nil {
		r.term.ShowError(err.Error())
		return
	}
	r.term.Say("Saved %s (%d bytes)\n", name, len(data))
}

func (r *repl) runExport(ctx context.Context, args []string) {
	format := "csv"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	if format != "csv" && format != "pdf" {
		r.term.Say("export format must be csv or pdf\n")
		return
	}
	filter := bankapi.ExportFilter{}
	if len(args) > 1 && args[1] != "all" {
		filter.TransactionType = args[1]
	}

	data, err := r.api.ExportTransactions(ctx, format, filter)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}

	name := "transactions_" + time.Now().Format("20060102") + "." + format
	if err := os.WriteFile(name, data, 0o644); err != nil {
		r.term.ShowError(err.Error())
		return
	}
	r.term.Say("Saved %s (%d bytes)\n", name, len(data))
}

func (r *repl) runBannerList(ctx context.Context) {
	banners, err := r.api.Banners(ctx)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	if len(banners) == 0 {
		r.term.Say("No banners configured.\n")
		return
	}
	for _, b := range banners {
		state := "active"
		if !b.IsActive {
			state = "inactive"
		}
		r.term.Say("%-38s %2d %-8s %s - %s\n", b.ID, b.Order, state, b.Title, b.Subtitle)
	}
}

func (r *repl) runBanner(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.term.Say("usage: banner <add|update|toggle|delete> [id]\n")
		return
	}

	switch args[0] {
	case "add":
		banner, err := r.api.CreateBanner(ctx, r.promptBanner())
		if err != nil {
			r.term.ShowError(err.Error())
			return
		}
		r.term.ShowSuccess("Banner created: " + banner.ID)
	case "update":
		if len(args) != 2 {
			r.term.Say("usage: banner update <id>\n")
			return
		}
		banner, err := r.api.UpdateBanner(ctx, args[1], r.promptBanner())
		if err != nil {
			r.term.ShowError(err.Error())
			return
		}
		r.term.ShowSuccess("Banner updated: " + banner.ID)
	case "toggle":
		if len(args) != 2 {
			r.term.Say("usage: banner toggle <id>\n")
			return
		}
		banner, err := r.api.ToggleBanner(ctx, args[1])
		if err != nil {
			r.term.ShowError(err.Error())
			return
		}
		state := "inactive"
		if banner.IsActive {
			state = "active"
		}
		r.term.ShowSuccess("Banner " + banner.ID + " is now " + state)
	case "delete":
		if len(args) != 2 {
			r.term.Say("usage: banner delete <id>\n")
			return
		}
		if err := r.api.DeleteBanner(ctx, args[1]); err != nil {
			r.term.ShowError(err.Error())
			return
		}
		r.term.ShowSuccess("Banner deleted")
	default:
		r.term.Say("banner subcommand must be add, update, toggle or delete\n")
	}
}

func (r *repl) promptBanner() bankapi.BannerRequest {
	req := bankapi.BannerRequest{
		Title:           r.prompt("Title"),
		Subtitle:        r.prompt("Subtitle"),
		BackgroundColor: r.prompt("Background colour (hex)"),
		TextColor:       r.prompt("Text colour (hex)"),
		IsActive:        true,
	}
	if order := r.prompt("Order (blank for next)"); order != "" {
		if n, err := strconv.Atoi(order); err == nil {
			req.Order = n
		}
	}
	return req
}

func (r *repl) runPanel(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.term.Say("usage: panel <path> [target]\n")
		return
	}
	target := ""
	if len(args) > 1 {
		target = args[1]
	}
	fragment, err := r.fragments.Get(ctx, args[0], target)
	if err != nil {
		r.term.ShowError(err.Error())
		return
	}
	if fragment.Target != "" {
		r.term.Say("[%s]\n", fragment.Target)
	}
	r.term.Say("%s\n", fragment.HTML)
}

func (r *repl) prompt(label string) string {
	r.term.Say("%s: ", label)
	if !r.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(r.scanner.Text())
}

func (r *repl) secret(label string) (string, error) {
	if terminal.Interactive() {
		return r.term.PromptSecret(label)
	}
	return r.prompt(label), nil
}
