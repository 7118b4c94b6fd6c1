// Package terminal renders controller output on an ANSI terminal. It
// is the view layer the controllers write through: form feedback,
// submit control state, receipts, notification banners, and page
// transitions all land here as printed lines.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	sshterminal "golang.org/x/crypto/ssh/terminal"

	"github.com/quaybank/teller/controls"
	"github.com/quaybank/teller/notify"
)

// Terminal serialises all writes so banners fired from timers never
// interleave with REPL output.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	route string
}

func New(out io.Writer) *Terminal {
	return &Terminal{out: out, route: controls.RouteLogin}
}

var (
	_ controls.LoginView         = (*Terminal)(nil)
	_ controls.RegistrationView  = (*Terminal)(nil)
	_ controls.TransferView      = (*Terminal)(nil)
	_ controls.DepositView       = (*Terminal)(nil)
	_ controls.ActionControlView = (*Terminal)(nil)
	_ controls.Navigator         = (*Terminal)(nil)
	_ notify.Sink                = (*Terminal)(nil)
)

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Say prints plain output, serialised with everything else.
func (t *Terminal) Say(format string, args ...any) {
	t.printf(format, args...)
}

// ClearError is a no-op: printed lines cannot be withdrawn, the next
// outcome simply prints below them.
func (t *Terminal) ClearError() {}

func (t *Terminal) ShowError(message string) {
	t.printf("%s%s%s\n", Red, message, ResetColor)
}

func (t *Terminal) ShowSuccess(message string) {
	t.printf("%s%s%s\n", Green, message, ResetColor)
}

// Reset is a no-op: the REPL collects fresh field values per command.
func (t *Terminal) Reset() {}

func (t *Terminal) SetSubmit(enabled bool, label string) {
	if enabled {
		return
	}
	t.printf("%s%s%s\n", Gray, label, ResetColor)
}

func (t *Terminal) RenderReceipt(receipt controls.Receipt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%sCheque %s for %s%s\n", Cyan, receipt.ChequeNumber, receipt.Amount, ResetColor)
	if receipt.AtmCode != "" {
		fmt.Fprintf(t.out, "%sATM code: %s%s\n", CyanInverse, receipt.AtmCode, ResetColor)
	}
	fmt.Fprintf(t.out, "%s%s%s\n", Gray, receipt.Notice, ResetColor)
	fmt.Fprintf(t.out, "Receipt PDF: %s\n", receipt.PDFPath)
}

func (t *Terminal) SetControl(controlID string, enabled bool, label string) {
	if enabled {
		return
	}
	t.printf("%s[%s] %s%s\n", Gray, controlID, label, ResetColor)
}

func (t *Terminal) Navigate(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = path
	fmt.Fprintf(t.out, "%s-> %s%s\n", Magenta, path, ResetColor)
}

func (t *Terminal) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s-> %s (refreshed)%s\n", Magenta, t.route, ResetColor)
}

// Route reports the page the user was last navigated to.
func (t *Terminal) Route() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

func (t *Terminal) Render(banner notify.Banner) {
	colour, ok := severityColors[banner.Severity]
	if !ok {
		colour = White
	}
	t.printf("%s%s%s\n", colour, banner.Message, ResetColor)
}

// Remove is a no-op. Auto-dismissal only matters on surfaces that keep
// banners visible; printed lines age out on their own.
func (t *Terminal) Remove(bannerID string) {}

// PromptSecret reads a line without echoing it, for passwords.
func (t *Terminal) PromptSecret(label string) (string, error) {
	t.printf("%s: ", label)
	secret, err := sshterminal.ReadPassword(int(syscall.Stdin))
	t.printf("\n")
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Interactive reports whether stdin is an actual terminal.
func Interactive() bool {
	return sshterminal.IsTerminal(int(os.Stdin.Fd()))
}
