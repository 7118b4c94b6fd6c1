// Package bankapi is the typed JSON client for the bank's HTTP API.
// Authentication is not this package's concern: the http.Client handed
// in carries the credential-injecting transport.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the bank backend. Every request runs under a
// deadline so a stalled call always settles and frees its control.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	timeout    time.Duration
}

// Option modifies the Client.
type Option func(*Client)

// WithHTTPClient supplies the http.Client, normally one whose transport
// is a transport.Bearer.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the default 30s per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[bankapi.New] parse baseURL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("[bankapi.New] baseURL must be absolute")
	}

	client := &Client{
		httpClient: http.DefaultClient,
		baseURL:    base,
		timeout:    defaultTimeout,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Login exchanges credentials for a bearer token pair.
func (c *Client) Login(ctx context.Context, username, password string, rememberMe bool) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Username:   username,
		Password:   password,
		RememberMe: rememberMe,
	}, &out)
	return out, err
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", RegisterRequest{
		Username: username,
		Password: password,
	}, nil)
}

// Logout tells the server to drop the session. Local state is the
// caller's responsibility; this call may fail without consequence.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Balance returns the caller's current balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var out BalanceResponse
	if err := c.do(ctx, http.MethodGet, "/api/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// Transfer moves money to another user.
func (c *Client) Transfer(ctx context.Context, receiverUsername string, amount float64) error {
	return c.do(ctx, http.MethodPost, "/api/transfer", TransferRequest{
		ReceiverUsername: receiverUsername,
		Amount:           amount,
	}, nil)
}

// Deposit files a deposit request; the money lands once an admin
// approves the returned cheque.
func (c *Client) Deposit(ctx context.Context, amount float64) (DepositResponse, error) {
	var out DepositResponse
	err := c.do(ctx, http.MethodPost, "/api/deposit", DepositRequest{Amount: amount}, &out)
	return out, err
}

// Withdraw files a withdrawal request.
func (c *Client) Withdraw(ctx context.Context, amount float64, method, details string) (WithdrawResponse, error) {
	var out WithdrawResponse
	err := c.do(ctx, http.MethodPost, "/api/withdraw", WithdrawRequest{
		Amount:  amount,
		Method:  method,
		Details: details,
	}, &out)
	return out, err
}

// Deposits lists the caller's deposit history.
func (c *Client) Deposits(ctx context.Context) ([]ChequeRecord, error) {
	var out []ChequeRecord
	err := c.do(ctx, http.MethodGet, "/api/deposits", nil, &out)
	return out, err
}

// Withdrawals lists the caller's withdrawal history.
func (c *Client) Withdrawals(ctx context.Context) ([]ChequeRecord, error) {
	var out []ChequeRecord
	err := c.do(ctx, http.MethodGet, "/api/withdrawals", nil, &out)
	return out, err
}

// PendingDeposits lists deposits awaiting review (admin only).
func (c *Client) PendingDeposits(ctx context.Context) ([]PendingDeposit, error) {
	var out []PendingDeposit
	err := c.do(ctx, http.MethodGet, "/api/admin/deposits/pending", nil, &out)
	return out, err
}

// PendingWithdrawals lists withdrawals awaiting review (admin only).
func (c *Client) PendingWithdrawals(ctx context.Context) ([]PendingWithdrawal, error) {
	var out []PendingWithdrawal
	err := c.do(ctx, http.MethodGet, "/api/admin/withdrawals/pending", nil, &out)
	return out, err
}

// SetDepositStatus approves or rejects a pending deposit (admin only).
func (c *Client) SetDepositStatus(ctx context.Context, depositID, status string) error {
	path := fmt.Sprintf("/api/admin/deposit/%s/status", url.PathEscape(depositID))
	return c.do(ctx, http.MethodPost, path, statusUpdateRequest{Status: status}, nil)
}

// SetWithdrawStatus approves or rejects a pending withdrawal (admin only).
func (c *Client) SetWithdrawStatus(ctx context.Context, withdrawID, status string) error {
	path := fmt.Sprintf("/api/admin/withdraw/%s/status", url.PathEscape(withdrawID))
	return c.do(ctx, http.MethodPost, path, statusUpdateRequest{Status: status}, nil)
}

// Banners lists every landing-page banner, active or not (admin only).
func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	var banners []Banner
	if err := c.do(ctx, http.MethodGet, "/api/admin/banners", nil, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// CreateBanner adds a banner to the rotation (admin only).
func (c *Client) CreateBanner(ctx context.Context, req BannerRequest) (Banner, error) {
	var banner Banner
	if err := c.do(ctx, http.MethodPost, "/api/admin/banners", req, &banner); err != nil {
		return Banner{}, err
	}
	return banner, nil
}

// UpdateBanner replaces a banner's content and placement (admin only).
func (c *Client) UpdateBanner(ctx context.Context, bannerID string, req BannerRequest) (Banner, error) {
	var banner Banner
	path := fmt.Sprintf("/api/admin/banners/%s", url.PathEscape(bannerID))
	if err := c.do(ctx, http.MethodPut, path, req, &banner); err != nil {
		return Banner{}, err
	}
	return banner, nil
}

// DeleteBanner removes a banner permanently (admin only).
func (c *Client) DeleteBanner(ctx context.Context, bannerID string) error {
	path := fmt.Sprintf("/api/admin/banners/%s", url.PathEscape(bannerID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ToggleBanner flips a banner in or out of rotation (admin only).
func (c *Client) ToggleBanner(ctx context.Context, bannerID string) (Banner, error) {
	var banner Banner
	path := fmt.Sprintf("/api/admin/banners/%s/toggle", url.PathEscape(bannerID))
	if err := c.do(ctx, http.MethodPost, path, nil, &banner); err != nil {
		return Banner{}, err
	}
	return banner, nil
}

// ExportTransactions downloads the caller's transaction history as a
// rendered document. Format is "csv" or "pdf".
func (c *Client) ExportTransactions(ctx context.Context, format string, filter ExportFilter) ([]byte, error) {
	query := url.Values{}
	query.Set("format", format)
	if filter.TransactionType != "" {
		query.Set("transaction_type", filter.TransactionType)
	}
	if filter.DateFrom != "" {
		query.Set("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("date_to", filter.DateTo)
	}
	return c.fetchBinary(ctx, "/api/transactions/export?"+query.Encode())
}

// DepositPDFPath is the document link shown on the deposit receipt.
func DepositPDFPath(chequeNumber string) string {
	return fmt.Sprintf("/api/deposit/%s/pdf", url.PathEscape(chequeNumber))
}

// WithdrawPDFPath is the document link for a withdrawal cheque.
func WithdrawPDFPath(chequeNumber string) string {
	return fmt.Sprintf("/api/withdraw/%s/pdf", url.PathEscape(chequeNumber))
}

// DepositPDF downloads the generated cheque document.
func (c *Client) DepositPDF(ctx context.Context, chequeNumber string) ([]byte, error) {
	return c.fetchBinary(ctx, DepositPDFPath(chequeNumber))
}

// WithdrawPDF downloads the generated withdrawal document.
func (c *Client) WithdrawPDF(ctx context.Context, chequeNumber string) ([]byte, error) {
	return c.fetchBinary(ctx, WithdrawPDFPath(chequeNumber))
}

func (c *Client) fetchBinary(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.fetchBinary] NewRequest")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.fetchBinary] Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.rejectionError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.fetchBinary] ReadAll")
	}
	return body, nil
}

// do sends one JSON request and decodes the response. Non-2xx responses
// become *APIError carrying the server's detail field; everything else
// that goes wrong is a wrapped transport or decode error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] Marshal")
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, payload)
	if err != nil {
		return errors.Wrap(err, "[Client.do] NewRequest")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.rejectionError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s %s", method, path)
	}
	return nil
}

func (c *Client) rejectionError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var detail detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
