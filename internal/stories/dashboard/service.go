package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	StateKey   = "dashboard-state"
	SessionKey = "dashboard-session"

	defaultMetricsGroupBy = "day"
	directCampaign        = "Direct"
	dateLayout            = "2006-01-02"
)

type Settings struct {
	WithdrawalFeePercent float64
	AdminLogins          []string
}

// Service is the session container: the single source of truth for everything the panel
// shows. Every backend write is confirmed before a pure reducer is applied to the cached
// state, and every applied change is persisted.
type Service struct {
	backend  Backend
	checkout Checkout
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string

	feePercent  float64
	adminLogins map[string]struct{}

	mu      sync.RWMutex
	state   State
	session Session
	loading atomic.Bool

	// serializes balance credits computed from the cached balance
	approveMu sync.Mutex
}

func NewService(backend Backend, checkout Checkout, store Store, settings Settings, logger *slog.Logger) *Service {
	admins := make(map[string]struct{}, len(settings.AdminLogins))
	for _, login := range settings.AdminLogins {
		admins[strings.ToLower(strings.TrimSpace(login))] = struct{}{}
	}

	s := &Service{
		backend:     backend,
		checkout:    checkout,
		store:       store,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
		feePercent:  settings.WithdrawalFeePercent,
		adminLogins: admins,
		state:       DefaultState(),
	}
	s.loading.Store(true)
	return s
}

// Restore seeds the container from the durable snapshots, if any.
func (s *Service) Restore(ctx context.Context) error {
	rawState, err := s.store.GetSnapshot(ctx, StateKey)
	if err != nil {
		return fmt.Errorf("get state snapshot: %w", err)
	}
	rawSession, err := s.store.GetSnapshot(ctx, SessionKey)
	if err != nil {
		return fmt.Errorf("get session snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(rawState) > 0 {
		var st State
		if err := json.Unmarshal(rawState, &st); err != nil {
			s.logger.Warn("Discarding unreadable state snapshot", "error", err)
		} else {
			s.state = st.normalized()
		}
	}
	if len(rawSession) > 0 {
		var sess Session
		if err := json.Unmarshal(rawSession, &sess); err != nil {
			s.logger.Warn("Discarding unreadable session snapshot", "error", err)
		} else {
			s.session = sess
		}
	}
	return nil
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Service) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.session
	if sess.Client != nil {
		c := *sess.Client
		sess.Client = &c
	}
	return sess
}

func (s *Service) Loading() bool {
	return s.loading.Load()
}

// ActingClientID is the session client for client logins and the selected client for admins.
func (s *Service) ActingClientID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actingClientIDLocked()
}

// clientScopeLocked rejects a client session acting on another client's records.
func (s *Service) clientScopeLocked(clientID int64) error {
	if s.session.Authenticated && s.session.Role == RoleClient && s.session.Client != nil &&
		s.session.Client.ID != clientID {
		return fmt.Errorf("client %d: %w", clientID, ErrForbidden)
	}
	return nil
}

func (s *Service) actingClientIDLocked() int64 {
	if s.session.Authenticated && s.session.Role == RoleClient && s.session.Client != nil {
		return s.session.Client.ID
	}
	return s.state.CurrentClientID
}

// Initialize loads the backend-owned slices. A failed fetch is logged and replaced by an
// empty slice; only cancellation of ctx is returned.
func (s *Service) Initialize(ctx context.Context) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	var (
		loaded loadedSlices
		wg     sync.WaitGroup
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		loaded.clients = loadSlice(ctx, s.logger, "clientes", s.backend.ListClients)
	}()
	go func() {
		defer wg.Done()
		loaded.withdrawals = loadSlice(ctx, s.logger, "retiros", s.backend.ListWithdrawals)
	}()
	go func() {
		defer wg.Done()
		loaded.channels = loadSlice(ctx, s.logger, "canales", s.backend.ListChannels)
	}()
	go func() {
		defer wg.Done()
		loaded.metrics = loadSlice(ctx, s.logger, "metricas", func(ctx context.Context) ([]MetricPoint, error) {
			return s.backend.MetricsSummary(ctx, MetricsFilter{GroupBy: defaultMetricsGroupBy})
		})
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.commit(ctx, func(prev State) (State, Result) {
		return withLoaded(prev, loaded), ResultApplied
	})

	s.logger.Info("Dashboard state loaded",
		"clients", len(loaded.clients),
		"channels", len(loaded.channels),
		"withdrawals", len(loaded.withdrawals),
		"metrics", len(loaded.metrics),
	)
	return nil
}

func loadSlice[T any](ctx context.Context, logger *slog.Logger, name string, fetch func(context.Context) ([]T, error)) []T {
	items, err := fetch(ctx)
	if err != nil {
		logger.Error("Failed to load slice, using empty", "slice", name, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Login stores the authenticated client; a rejected login leaves the session untouched.
func (s *Service) Login(ctx context.Context, identifier, secret string) (Session, error) {
	identifier = strings.TrimSpace(identifier)
	// the secret is sent as typed
	if missing := missingFields(map[string]bool{
		"identifier": identifier == "",
		"secret":     strings.TrimSpace(secret) == "",
	}); len(missing) > 0 {
		return Session{}, &ValidationError{Fields: missing}
	}

	res, err := s.backend.Login(ctx, identifier, secret)
	if err != nil {
		return Session{}, err
	}
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}

	role := res.Role
	if role == "" {
		role = s.roleFor(identifier)
	}
	client := res.Client
	sess := Session{Authenticated: true, Client: &client, Role: role}

	s.mu.Lock()
	s.session = sess
	s.saveSessionLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("Login succeeded", "client_id", client.ID, "role", role)
	return s.Session(), nil
}

func (s *Service) roleFor(identifier string) Role {
	if _, ok := s.adminLogins[strings.ToLower(identifier)]; ok {
		return RoleAdmin
	}
	return RoleClient
}

// Logout clears the session only; cached business data stays.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}
	if err := s.store.DeleteSnapshots(ctx, SessionKey); err != nil {
		return fmt.Errorf("delete session snapshot: %w", err)
	}
	return nil
}

// Reset restores defaults and clears both durable keys.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = DefaultState()
	s.session = Session{}
	if err := s.store.DeleteSnapshots(ctx, StateKey, SessionKey); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}

func (s *Service) AddClient(ctx context.Context, req NewClient) (*Client, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Email = strings.TrimSpace(req.Email)
	if missing := missingFields(map[string]bool{
		"nombre":      req.FirstName == "",
		"correo":      req.Email == "",
		"telegram_id": req.TelegramID == 0,
	}); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if req.LastName == "" {
		req.LastName = "N/A"
	}
	if req.PaymentID == "" {
		req.PaymentID = "PAY-" + s.newID()[:8]
	}
	if req.Password == "" {
		req.Password = s.newID()
	}

	created, err := s.backend.CreateClient(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.commit(ctx, func(prev State) (State, Result) {
		return withClientAdded(prev, *created), ResultApplied
	})

	s.logger.Info("Client created", "client_id", created.ID)
	out := *created
	return &out, nil
}

// AssignChannelOwner persists the owner on the backend first; the cached channel only changes
// after the backend confirms.
func (s *Service) AssignChannelOwner(ctx context.Context, channelID, ownerID int64) (Result, error) {
	channel, ok := s.findChannel(channelID)
	if !ok {
		return ResultNotFound, nil
	}

	err := s.backend.UpdateChannel(ctx, ChannelUpdate{
		ChannelID: channelID,
		OwnerID:   &ownerID,
		VIP:       channel.Kind == ChannelVIP,
	})
	if err != nil {
		return ResultNotFound, err
	}
	if err := ctx.Err(); err != nil {
		return ResultNotFound, err
	}

	return s.commit(ctx, func(prev State) (State, Result) {
		return withChannelOwner(prev, channelID, ownerID)
	}), nil
}

func (s *Service) SetChannelKind(ctx context.Context, channelID int64, kind ChannelKind) (Result, error) {
	if kind != ChannelFree && kind != ChannelVIP {
		return ResultNotFound, &ValidationError{Fields: []string{"tipo"}}
	}

	channel, ok := s.findChannel(channelID)
	if !ok {
		return ResultNotFound, nil
	}

	err := s.backend.UpdateChannel(ctx, ChannelUpdate{
		ChannelID: channelID,
		OwnerID:   channel.OwnerID,
		VIP:       kind == ChannelVIP,
	})
	if err != nil {
		return ResultNotFound, err
	}
	if err := ctx.Err(); err != nil {
		return ResultNotFound, err
	}

	return s.commit(ctx, func(prev State) (State, Result) {
		return withChannelKind(prev, channelID, kind)
	}), nil
}

// CreateCampaign enqueues group creation for the acting client and records the tracked link.
func (s *Service) CreateCampaign(ctx context.Context, channel, name, alias string) (*Campaign, error) {
	cleanAlias := CleanAlias(alias)
	if missing := missingFields(map[string]bool{
		"canal":  strings.TrimSpace(channel) == "",
		"nombre": strings.TrimSpace(name) == "",
		"alias":  cleanAlias == "",
	}); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	client, err := s.actingClient()
	if err != nil {
		return nil, err
	}

	err = s.backend.CreateGroup(ctx, GroupTask{
		Name:      name,
		Username:  cleanAlias,
		OwnerID:   client.ID,
		IsPrivate: true,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	campaign := Campaign{
		ID:        s.newID(),
		ClientID:  client.ID,
		Channel:   channel,
		Name:      name,
		Alias:     alias,
		Link:      "https://t.me/" + cleanAlias,
		CreatedAt: s.now().UTC(),
	}
	s.commit(ctx, func(prev State) (State, Result) {
		return withCampaign(prev, campaign), ResultApplied
	})
	return &campaign, nil
}

// CleanAlias strips '@' and whitespace and lowercases a telegram alias.
func CleanAlias(alias string) string {
	alias = strings.ReplaceAll(alias, "@", "")
	alias = strings.Join(strings.Fields(alias), "")
	return strings.ToLower(alias)
}

// CreatePaymentLink records a pending transaction, resolves its checkout and caches the link
// under the backend transaction id.
func (s *Service) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	if missing := missingFields(map[string]bool{
		"cliente": req.ClientID == 0,
		"canal":   strings.TrimSpace(req.Channel) == "",
		"plan":    strings.TrimSpace(req.Plan) == "",
		"precio":  req.PriceUSD <= 0,
		"metodo":  strings.TrimSpace(req.Method) == "",
	}); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	s.mu.RLock()
	scopeErr := s.clientScopeLocked(req.ClientID)
	_, ok := s.state.findClient(req.ClientID)
	s.mu.RUnlock()
	if scopeErr != nil {
		return nil, scopeErr
	}
	if !ok {
		return nil, fmt.Errorf("client %d: %w", req.ClientID, ErrNotFound)
	}

	tx, err := s.backend.CreateTransaction(ctx, TransactionRequest{
		Amount:    req.PriceUSD,
		Method:    req.Method,
		ClientID:  req.ClientID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	paymentURL, err := s.checkout.CreateCheckout(ctx, CheckoutRequest{
		TransactionID: tx.ID,
		Method:        req.Method,
		Amount:        req.PriceUSD,
		Description:   fmt.Sprintf("%s - %s", req.Channel, req.Plan),
		ClientID:      req.ClientID,
		ChannelID:     req.ChannelID,
		BuyerID:       req.BuyerTelegramID,
		BuyerEmail:    req.BuyerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout for transaction %s: %w", tx.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	link := PaymentLink{
		ID:              tx.ID,
		ClientID:        req.ClientID,
		Channel:         req.Channel,
		ChannelID:       req.ChannelID,
		Plan:            req.Plan,
		PriceUSD:        req.PriceUSD,
		DurationDays:    req.DurationDays,
		Method:          req.Method,
		Status:          PaymentPending,
		PaymentURL:      paymentURL,
		BuyerTelegramID: req.BuyerTelegramID,
		BuyerEmail:      req.BuyerEmail,
		BuyerCountry:    req.BuyerCountry,
		Campaign:        req.Campaign,
	}
	s.commit(ctx, func(prev State) (State, Result) {
		return withPaymentLink(prev, link), ResultApplied
	})
	return &link, nil
}

// RequestPayout withdraws amount from the acting client's balance; the fee is kept apart so
// net + fee equals amount.
func (s *Service) RequestPayout(ctx context.Context, amount float64, method string) (*Withdrawal, error) {
	if amount <= 0 {
		return nil, &ValidationError{Fields: []string{"monto"}}
	}

	client, err := s.actingClient()
	if err != nil {
		return nil, err
	}
	if client.BankInfo == "" {
		return nil, ErrNoBankInfo
	}

	net, fee := SplitPayout(amount, s.feePercent)
	requestedAt := s.now().UTC()

	created, err := s.backend.CreateWithdrawal(ctx, WithdrawalRequest{
		Destination: client.BankInfo,
		Net:         net,
		Fee:         fee,
		RequestedAt: requestedAt,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := Withdrawal{
		ID:          created.ID,
		ClientID:    client.ID,
		ClientName:  client.DisplayName(),
		Destination: client.BankInfo,
		Net:         net,
		Fee:         fee,
		Method:      method,
		Status:      WithdrawalPending,
		RequestedAt: requestedAt,
	}
	s.commit(ctx, func(prev State) (State, Result) {
		return withWithdrawal(prev, w), ResultApplied
	})

	s.logger.Info("Payout requested", "client_id", client.ID, "net", net, "fee", fee)
	return &w, nil
}

// ApprovePayment credits the owner's balance on the backend, then marks the link approved
// and records the sale. A missing or already approved link yields ResultNotFound. Once the
// credit is accepted the approval is recorded even if ctx is cancelled.
func (s *Service) ApprovePayment(ctx context.Context, paymentID string) (ApproveOutcome, error) {
	s.approveMu.Lock()
	defer s.approveMu.Unlock()

	s.mu.RLock()
	link, linkOK := lo.Find(s.state.Payments, func(p PaymentLink) bool {
		return p.ID == paymentID && p.Status == PaymentPending
	})
	scopeErr := s.clientScopeLocked(link.ClientID)
	s.mu.RUnlock()

	if !linkOK {
		return ApproveOutcome{Result: ResultNotFound}, nil
	}
	if scopeErr != nil {
		return ApproveOutcome{Result: ResultNotFound}, scopeErr
	}

	// the balance endpoint takes an absolute value, so start from the backend's figure
	client, ok, err := s.fetchClient(ctx, link.ClientID)
	if err != nil {
		return ApproveOutcome{Result: ResultNotFound}, err
	}
	if !ok {
		return ApproveOutcome{Result: ResultNotFound}, nil
	}
	if err := ctx.Err(); err != nil {
		return ApproveOutcome{Result: ResultNotFound}, err
	}

	balance := addMoney(client.Balance, link.PriceUSD)
	if err := s.backend.UpdateClientBalance(ctx, client.ID, balance); err != nil {
		return ApproveOutcome{Result: ResultNotFound}, err
	}
	ctx = context.WithoutCancel(ctx)

	if link.ChannelID != 0 && link.BuyerTelegramID != 0 {
		err := s.backend.CreateInvite(ctx, InviteRequest{
			ChannelID:        link.ChannelID,
			ClientTelegramID: client.ID,
			UserTelegramID:   link.BuyerTelegramID,
			Paid:             true,
		})
		if err != nil {
			// balance is already credited; the invite can be resent from the channels page
			s.logger.Error("Failed to enqueue invite for approved payment", "payment_id", paymentID, "error", err)
		}
	}

	now := s.now().UTC()
	sale := Sale{
		ID:              "V-" + s.newID(),
		Date:            now.Format(dateLayout),
		BuyerTelegramID: link.BuyerTelegramID,
		Email:           link.BuyerEmail,
		Country:         link.BuyerCountry,
		Amount:          link.PriceUSD,
		Method:          link.Method,
		Plan:            link.Plan,
		Campaign:        lo.Ternary(link.Campaign != "", link.Campaign, directCampaign),
		Channel:         link.Channel,
		ClientID:        link.ClientID,
		StartDate:       now.Format(dateLayout),
		ExpiryDate:      now.AddDate(0, 0, link.DurationDays).Format(dateLayout),
	}
	invite := "https://t.me/joinchat/+" + strings.ReplaceAll(s.newID(), "-", "")[:12]

	res := s.commit(ctx, func(prev State) (State, Result) {
		return withPaymentApproved(prev, paymentID, invite, sale, balance)
	})
	if res != ResultApplied {
		return ApproveOutcome{Result: res}, nil
	}

	s.logger.Info("Payment approved", "payment_id", paymentID, "client_id", client.ID, "amount", link.PriceUSD)
	return ApproveOutcome{Result: ResultApplied, InviteURL: invite, Sale: &sale}, nil
}

// fetchClient reads one client straight from the backend, bypassing the cached state.
func (s *Service) fetchClient(ctx context.Context, id int64) (Client, bool, error) {
	clients, err := s.backend.ListClients(ctx)
	if err != nil {
		return Client{}, false, fmt.Errorf("reload client %d: %w", id, err)
	}
	client, ok := lo.Find(clients, func(c Client) bool { return c.ID == id })
	return client, ok, nil
}

func (s *Service) MarkWithdrawalPaid(ctx context.Context, withdrawalID int64) (Result, error) {
	return s.SetWithdrawalStatus(ctx, withdrawalID, WithdrawalPaid)
}

func (s *Service) SetWithdrawalStatus(ctx context.Context, withdrawalID int64, status WithdrawalStatus) (Result, error) {
	s.mu.RLock()
	found := slices.ContainsFunc(s.state.Withdrawals, func(w Withdrawal) bool { return w.ID == withdrawalID })
	s.mu.RUnlock()
	if !found {
		return ResultNotFound, nil
	}

	if err := s.backend.UpdateWithdrawalStatus(ctx, withdrawalID, status); err != nil {
		return ResultNotFound, err
	}
	if err := ctx.Err(); err != nil {
		return ResultNotFound, err
	}

	return s.commit(ctx, func(prev State) (State, Result) {
		return withWithdrawalStatus(prev, withdrawalID, status)
	}), nil
}

// UpdateBudget sets the allocated ad budget; budgets have no backend counterpart.
func (s *Service) UpdateBudget(ctx context.Context, clientID int64, allocated float64) (Result, error) {
	if allocated < 0 {
		return ResultNotFound, &ValidationError{Fields: []string{"presupuesto"}}
	}
	return s.commit(ctx, func(prev State) (State, Result) {
		if _, ok := prev.findClient(clientID); !ok {
			return prev, ResultNotFound
		}
		return withBudget(prev, clientID, allocated), ResultApplied
	}), nil
}

func (s *Service) InjectAdCapital(ctx context.Context, clientID int64, amount float64) (Result, error) {
	if amount <= 0 {
		return ResultNotFound, &ValidationError{Fields: []string{"monto"}}
	}
	return s.commit(ctx, func(prev State) (State, Result) {
		if _, ok := prev.findClient(clientID); !ok {
			return prev, ResultNotFound
		}
		return withAdCapital(prev, clientID, amount), ResultApplied
	}), nil
}

func (s *Service) SetCurrentClient(ctx context.Context, clientID int64) Result {
	return s.commit(ctx, func(prev State) (State, Result) {
		return withCurrentClient(prev, clientID)
	})
}

func (s *Service) RemoveChannelMember(ctx context.Context, channelID, userID int64) error {
	if channelID == 0 || userID == 0 {
		return &ValidationError{Fields: missingFields(map[string]bool{
			"canal_id": channelID == 0,
			"user_id":  userID == 0,
		})}
	}
	return s.backend.RemoveUser(ctx, RemoveUserTask{ChannelID: channelID, UserID: userID})
}

func (s *Service) SendInvite(ctx context.Context, req InviteRequest) error {
	if missing := missingFields(map[string]bool{
		"canal_id":            req.ChannelID == 0,
		"cliente_telegram_id": req.ClientTelegramID == 0,
		"user_telegram_id":    req.UserTelegramID == 0,
	}); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return s.backend.CreateInvite(ctx, req)
}

// ChannelMembers degrades to an empty list when the backend read fails.
func (s *Service) ChannelMembers(ctx context.Context, channelID int64) []Member {
	return loadSlice(ctx, s.logger, "canal_miembros", func(ctx context.Context) ([]Member, error) {
		return s.backend.ListChannelMembers(ctx, channelID)
	})
}

func (s *Service) ClientMembersReport(ctx context.Context, clientID int64) []MemberReportRow {
	return loadSlice(ctx, s.logger, "cliente_miembros", func(ctx context.Context) ([]MemberReportRow, error) {
		return s.backend.ClientMembersReport(ctx, clientID)
	})
}

func (s *Service) findChannel(channelID int64) (Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.state.Channels, func(c Channel) bool { return c.ID == channelID })
}

func (s *Service) actingClient() (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := s.actingClientIDLocked()
	if id == 0 {
		return Client{}, ErrNoCurrentClient
	}
	client, ok := s.state.findClient(id)
	if !ok {
		return Client{}, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return client, nil
}

// commit applies reduce to the cached state and persists the result when it applied.
func (s *Service) commit(ctx context.Context, reduce func(State) (State, Result)) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, res := reduce(s.state)
	if res != ResultApplied {
		return res
	}
	s.state = next
	s.saveStateLocked(ctx)
	return res
}

// Persistence failures are logged; the in-memory state stays authoritative until the next save.
func (s *Service) saveStateLocked(ctx context.Context) {
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("Failed to encode state snapshot", "error", err)
		return
	}
	if err := s.store.PutSnapshot(ctx, StateKey, raw); err != nil {
		s.logger.Error("Failed to save state snapshot", "error", err)
	}
}

func (s *Service) saveSessionLocked(ctx context.Context) {
	raw, err := json.Marshal(s.session)
	if err != nil {
		s.logger.Error("Failed to encode session snapshot", "error", err)
		return
	}
	if err := s.store.PutSnapshot(ctx, SessionKey, raw); err != nil {
		s.logger.Error("Failed to save session snapshot", "error", err)
	}
}

// missingFields returns the names flagged as missing in a stable order.
func missingFields(checks map[string]bool) []string {
	missing := lo.Keys(lo.PickBy(checks, func(_ string, isMissing bool) bool { return isMissing }))
	slices.Sort(missing)
	return missing
}
