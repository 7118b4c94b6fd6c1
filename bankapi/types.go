package bankapi

import "time"

// Review states for pending deposits and withdrawals.
const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Withdrawal delivery methods.
const (
	WithdrawMethodBank = "bank"
	WithdrawMethodATM  = "atm"
)

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TransferRequest struct {
	ReceiverUsername string  `json:"receiver_username"`
	Amount           float64 `json:"amount"`
}

type DepositRequest struct {
	Amount float64 `json:"amount"`
}

type DepositResponse struct {
	Message      string `json:"message"`
	ChequeNumber string `json:"cheque_number"`
}

type WithdrawRequest struct {
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
	Details string  `json:"details,omitempty"`
}

type WithdrawResponse struct {
	Message      string  `json:"message"`
	ChequeNumber string  `json:"cheque_number"`
	AtmCode      *string `json:"atm_code,omitempty"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

// ChequeRecord is one row of the caller's own deposit or withdrawal
// history.
type ChequeRecord struct {
	ID           string    `json:"id"`
	ChequeNumber string    `json:"cheque_number"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingDeposit is an admin-reviewable deposit awaiting a decision.
type PendingDeposit struct {
	ID           string    `json:"id"`
	ChequeNumber string    `json:"cheque_number"`
	Username     string    `json:"username"`
	Amount       float64   `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingWithdrawal carries the extra funding check the review screen
// shows for withdrawals.
type PendingWithdrawal struct {
	ID                 string    `json:"id"`
	ChequeNumber       string    `json:"cheque_number"`
	Username           string    `json:"username"`
	Amount             float64   `json:"amount"`
	UserBalance        float64   `json:"user_balance"`
	CreatedAt          time.Time `json:"created_at"`
	HasSufficientFunds bool      `json:"has_sufficient_funds"`
}

// Banner is one promotional strip on the landing page. Admins manage
// the rotation; Order fixes the display position and IsActive takes a
// banner out of rotation without deleting it.
type Banner struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	BackgroundColor string     `json:"background_color"`
	TextColor       string     `json:"text_color"`
	IsActive        bool       `json:"is_active"`
	Order           int        `json:"order"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// BannerRequest creates or replaces a banner. A zero Order on create
// lets the server append the banner at the end of the rotation.
type BannerRequest struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	IsActive        bool   `json:"is_active"`
	Order           int    `json:"order"`
}

// ExportFilter narrows a transaction export. Zero values mean no
// filtering on that dimension.
type ExportFilter struct {
	TransactionType string // deposit | withdrawal | transfer
	DateFrom        string // ISO date, inclusive
	DateTo          string // ISO date, inclusive
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}
