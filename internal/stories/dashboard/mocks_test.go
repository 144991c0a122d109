package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// fakeBackend is an in-memory REST API.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	clients     []Client
	withdrawals []Withdrawal
	channels    []Channel
	metrics     []MetricPoint

	errs map[string]error

	nextWithdrawalID int64
	nextTxID         int
	balances         map[int64]float64
	lastChannelUpd   *ChannelUpdate
	lastWithdrawal   *WithdrawalRequest
	invites          []InviteRequest
	loginResult      *LoginResult
	lastLogin        [2]string

	// afterCredit runs once a balance update has been accepted
	afterCredit func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:            map[string]int{},
		errs:             map[string]error{},
		balances:         map[int64]float64{},
		nextWithdrawalID: 100,
	}
}

func (f *fakeBackend) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeBackend) ListClients(ctx context.Context) ([]Client, error) {
	if err := f.hit("ListClients"); err != nil {
		return nil, err
	}
	return append([]Client(nil), f.clients...), nil
}

func (f *fakeBackend) ListWithdrawals(ctx context.Context) ([]Withdrawal, error) {
	if err := f.hit("ListWithdrawals"); err != nil {
		return nil, err
	}
	return append([]Withdrawal(nil), f.withdrawals...), nil
}

func (f *fakeBackend) ListChannels(ctx context.Context) ([]Channel, error) {
	if err := f.hit("ListChannels"); err != nil {
		return nil, err
	}
	return append([]Channel(nil), f.channels...), nil
}

func (f *fakeBackend) MetricsSummary(ctx context.Context, filter MetricsFilter) ([]MetricPoint, error) {
	if err := f.hit("MetricsSummary"); err != nil {
		return nil, err
	}
	return append([]MetricPoint(nil), f.metrics...), nil
}

func (f *fakeBackend) ListChannelMembers(ctx context.Context, channelID int64) ([]Member, error) {
	if err := f.hit("ListChannelMembers"); err != nil {
		return nil, err
	}
	return []Member{{TelegramID: 7, Username: "member"}}, nil
}

func (f *fakeBackend) ClientMembersReport(ctx context.Context, clientID int64) ([]MemberReportRow, error) {
	if err := f.hit("ClientMembersReport"); err != nil {
		return nil, err
	}
	return []MemberReportRow{{"telegram_id": float64(7)}}, nil
}

func (f *fakeBackend) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if err := f.hit("Login"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastLogin = [2]string{identifier, secret}
	f.mu.Unlock()
	return f.loginResult, nil
}

func (f *fakeBackend) CreateClient(ctx context.Context, req NewClient) (*Client, error) {
	if err := f.hit("CreateClient"); err != nil {
		return nil, err
	}
	return &Client{
		ID:        req.TelegramID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		BankInfo:  req.BankInfo,
		PaymentID: req.PaymentID,
	}, nil
}

func (f *fakeBackend) UpdateChannel(ctx context.Context, req ChannelUpdate) error {
	if err := f.hit("UpdateChannel"); err != nil {
		return err
	}
	f.mu.Lock()
	f.lastChannelUpd = &req
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) UpdateClientBalance(ctx context.Context, clientID int64, balance float64) error {
	if err := f.hit("UpdateClientBalance"); err != nil {
		return err
	}
	f.mu.Lock()
	f.balances[clientID] = balance
	for i := range f.clients {
		if f.clients[i].ID == clientID {
			f.clients[i].Balance = balance
		}
	}
	hook := f.afterCredit
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeBackend) CreateWithdrawal(ctx context.Context, req WithdrawalRequest) (*Withdrawal, error) {
	if err := f.hit("CreateWithdrawal"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastWithdrawal = &req
	f.nextWithdrawalID++
	return &Withdrawal{
		ID:          f.nextWithdrawalID,
		Destination: req.Destination,
		Net:         req.Net,
		Fee:         req.Fee,
		Status:      WithdrawalPending,
	}, nil
}

func (f *fakeBackend) UpdateWithdrawalStatus(ctx context.Context, withdrawalID int64, status WithdrawalStatus) error {
	return f.hit("UpdateWithdrawalStatus")
}

func (f *fakeBackend) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	if err := f.hit("CreateTransaction"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTxID++
	return &Transaction{ID: "tx-" + strconv.Itoa(f.nextTxID), Amount: req.Amount, Method: req.Method}, nil
}

func (f *fakeBackend) CreateGroup(ctx context.Context, task GroupTask) error {
	return f.hit("CreateGroup")
}

func (f *fakeBackend) RemoveUser(ctx context.Context, task RemoveUserTask) error {
	return f.hit("RemoveUser")
}

func (f *fakeBackend) CreateInvite(ctx context.Context, req InviteRequest) error {
	if err := f.hit("CreateInvite"); err != nil {
		return err
	}
	f.mu.Lock()
	f.invites = append(f.invites, req)
	f.mu.Unlock()
	return nil
}

type fakeCheckout struct {
	err error
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.gateway.com/checkout/" + req.TransactionID, nil
}

// memStore keeps snapshots in memory.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[key]...), nil
}

func (m *memStore) PutSnapshot(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) DeleteSnapshots(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

var errBackend = errors.New("backend unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestService(backend *fakeBackend, store *memStore) *Service {
	s := NewService(backend, &fakeCheckout{}, store, Settings{
		WithdrawalFeePercent: 4,
		AdminLogins:          []string{"admin@panel.io"},
	}, discardLogger())
	s.now = fixedNow
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("%08d-1111-2222-3333-444444444444", seq)
	}
	return s
}

func int64Ptr(v int64) *int64 {
	return &v
}

func seededBackend() *fakeBackend {
	b := newFakeBackend()
	b.clients = []Client{
		{ID: 1001, FirstName: "Ana", Email: "ana@mail.com", Balance: 10000, BankInfo: "BANK-1001"},
		{ID: 1002, FirstName: "Beto", Email: "beto@mail.com", Balance: 999999},
	}
	b.channels = []Channel{
		{ID: -1001, Name: "VIP Ana", Kind: ChannelVIP, Subscribers: 10, OwnerID: int64Ptr(1001)},
		{ID: -1002, Name: "Libre", Kind: ChannelFree, Subscribers: 3},
	}
	b.withdrawals = []Withdrawal{
		{ID: 1, Destination: "BANK-1001", Net: 96, Fee: 4, Status: WithdrawalPending},
	}
	b.metrics = []MetricPoint{{Date: "2026-03-09", NewUsers: 4}}
	return b
}
