package dashboard

import "time"

type ChannelKind string

const (
	ChannelFree ChannelKind = "Free"
	ChannelVIP  ChannelKind = "VIP"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalPaid     WithdrawalStatus = "paid"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Result reports whether a mutation found its target.
type Result int

const (
	ResultApplied Result = iota
	ResultNotFound
)

func (r Result) String() string {
	if r == ResultNotFound {
		return "not_found"
	}
	return "applied"
}

// Client is a channel owner. ID is the telegram id assigned by the backend,
// Seq is the local display sequence.
type Client struct {
	ID        int64   `json:"id"`
	Seq       int     `json:"seq"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Balance   float64 `json:"balance"`
	VIP       bool    `json:"vip"`
	BankInfo  string  `json:"bank_info,omitempty"`
	PaymentID string  `json:"payment_id,omitempty"`
	ROI       float64 `json:"roi"`
}

type Channel struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Kind        ChannelKind `json:"kind"`
	Subscribers int         `json:"subscribers"`
	OwnerID     *int64      `json:"owner_id"`
	OwnerName   string      `json:"owner_name"`
}

// Withdrawal keeps the net amount and the fee separately; Total is what the client asked for.
type Withdrawal struct {
	ID          int64            `json:"id"`
	ClientID    int64            `json:"client_id"`
	ClientName  string           `json:"client_name"`
	Destination string           `json:"destination"`
	Net         float64          `json:"net"`
	Fee         float64          `json:"fee"`
	Method      string           `json:"method,omitempty"`
	Status      WithdrawalStatus `json:"status"`
	RequestedAt time.Time        `json:"requested_at"`
}

func (w Withdrawal) Total() float64 {
	return w.Net + w.Fee
}

type Budget struct {
	ClientID  int64   `json:"client_id"`
	Allocated float64 `json:"allocated"`
	Spent     float64 `json:"spent"`
}

type Campaign struct {
	ID        string    `json:"id"`
	ClientID  int64     `json:"client_id"`
	Channel   string    `json:"channel"`
	Name      string    `json:"name"`
	Alias     string    `json:"alias"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// Sale is a local projection created when a payment link is approved.
type Sale struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	BuyerTelegramID int64   `json:"buyer_telegram_id,omitempty"`
	Email           string  `json:"email,omitempty"`
	Country         string  `json:"country,omitempty"`
	Amount          float64 `json:"amount"`
	Method          string  `json:"method"`
	Plan            string  `json:"plan"`
	Campaign        string  `json:"campaign"`
	Channel         string  `json:"channel"`
	ClientID        int64   `json:"client_id"`
	StartDate       string  `json:"start_date"`
	ExpiryDate      string  `json:"expiry_date"`
}

type PaymentLink struct {
	ID              string        `json:"id"`
	ClientID        int64         `json:"client_id"`
	Channel         string        `json:"channel"`
	ChannelID       int64         `json:"channel_id,omitempty"`
	Plan            string        `json:"plan"`
	PriceUSD        float64       `json:"price_usd"`
	DurationDays    int           `json:"duration_days"`
	Method          string        `json:"method"`
	Status          PaymentStatus `json:"status"`
	PaymentURL      string        `json:"payment_url"`
	InviteURL       string        `json:"invite_url,omitempty"`
	BuyerTelegramID int64         `json:"buyer_telegram_id,omitempty"`
	BuyerEmail      string        `json:"buyer_email,omitempty"`
	BuyerCountry    string        `json:"buyer_country,omitempty"`
	Campaign        string        `json:"campaign,omitempty"`
}

type MetricPoint struct {
	Date     string `json:"date"`
	NewUsers int    `json:"new_users"`
}

// State is everything the panel caches between backend round trips.
type State struct {
	Clients         []Client          `json:"clientes"`
	Channels        []Channel         `json:"canales"`
	Withdrawals     []Withdrawal      `json:"retiros"`
	Budgets         []Budget          `json:"presupuestos"`
	Campaigns       []Campaign        `json:"campanias"`
	Sales           []Sale            `json:"ventas"`
	Payments        []PaymentLink     `json:"pagos"`
	AdBalances      map[int64]float64 `json:"ad_balances"`
	CurrentClientID int64             `json:"cliente_actual"`
	Metrics         []MetricPoint     `json:"metricas_resumen"`
}

func DefaultState() State {
	return State{
		Clients:     []Client{},
		Channels:    []Channel{},
		Withdrawals: []Withdrawal{},
		Budgets:     []Budget{},
		Campaigns:   []Campaign{},
		Sales:       []Sale{},
		Payments:    []PaymentLink{},
		AdBalances:  map[int64]float64{},
		Metrics:     []MetricPoint{},
	}
}

// Session is persisted under its own key so logout leaves the business cache alone.
type Session struct {
	Authenticated bool    `json:"authenticated"`
	Client        *Client `json:"client,omitempty"`
	Role          Role    `json:"role,omitempty"`
}

// MetricsFilter narrows the new-subscriber summary.
type MetricsFilter struct {
	GroupBy     string
	ClientID    *int64
	ChannelKind *ChannelKind
	Since       *time.Time
}

type Member struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	Email      string `json:"email,omitempty"`
}

// MemberReportRow is one line of the per-client audience report; the backend owns the columns.
type MemberReportRow map[string]any

type LoginResult struct {
	Client Client
	Role   Role
}

type NewClient struct {
	FirstName  string
	LastName   string
	Email      string
	TelegramID int64
	Password   string
	BankInfo   string
	VIP        bool
	PaymentID  string
}

type ChannelUpdate struct {
	ChannelID int64
	OwnerID   *int64
	VIP       bool
}

type WithdrawalRequest struct {
	Destination string
	Net         float64
	Fee         float64
	RequestedAt time.Time
}

type TransactionRequest struct {
	Amount    float64
	Method    string
	ClientID  int64
	CreatedAt time.Time
}

type Transaction struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupTask struct {
	Name      string
	Username  string
	OwnerID   int64
	IsPrivate bool
}

type RemoveUserTask struct {
	ChannelID int64
	UserID    int64
}

type InviteRequest struct {
	ChannelID        int64
	ClientTelegramID int64
	UserTelegramID   int64
	Paid             bool
}

type CheckoutRequest struct {
	TransactionID string
	Method        string
	Amount        float64
	Description   string
	ClientID      int64
	ChannelID     int64
	BuyerID       int64
	BuyerEmail    string
}

// PaymentLinkRequest describes a checkout for a prospective subscriber.
type PaymentLinkRequest struct {
	ClientID        int64
	Channel         string
	ChannelID       int64
	Plan            string
	PriceUSD        float64
	DurationDays    int
	Method          string
	Campaign        string
	BuyerTelegramID int64
	BuyerEmail      string
	BuyerCountry    string
}

type ApproveOutcome struct {
	Result    Result
	InviteURL string
	Sale      *Sale
}

// DisplayName is what the panel shows in tables.
func (c Client) DisplayName() string {
	if c.FirstName == "" {
		return "N/A"
	}
	return c.FirstName
}
