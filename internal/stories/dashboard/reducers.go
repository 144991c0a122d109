package dashboard

import (
	"maps"
	"slices"

	"github.com/samber/lo"
)

const unassignedOwner = "Sin Asignar"

// clone returns a copy that shares no slices or maps with s.
func (s State) clone() State {
	out := s
	out.Clients = slices.Clone(s.Clients)
	out.Channels = lo.Map(s.Channels, func(c Channel, _ int) Channel {
		if c.OwnerID != nil {
			id := *c.OwnerID
			c.OwnerID = &id
		}
		return c
	})
	out.Withdrawals = slices.Clone(s.Withdrawals)
	out.Budgets = slices.Clone(s.Budgets)
	out.Campaigns = slices.Clone(s.Campaigns)
	out.Sales = slices.Clone(s.Sales)
	out.Payments = slices.Clone(s.Payments)
	out.Metrics = slices.Clone(s.Metrics)
	out.AdBalances = maps.Clone(s.AdBalances)
	if out.AdBalances == nil {
		out.AdBalances = map[int64]float64{}
	}
	return out.normalized()
}

// normalized replaces nil collections so snapshots always encode as arrays.
func (s State) normalized() State {
	if s.Clients == nil {
		s.Clients = []Client{}
	}
	if s.Channels == nil {
		s.Channels = []Channel{}
	}
	if s.Withdrawals == nil {
		s.Withdrawals = []Withdrawal{}
	}
	if s.Budgets == nil {
		s.Budgets = []Budget{}
	}
	if s.Campaigns == nil {
		s.Campaigns = []Campaign{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	if s.Payments == nil {
		s.Payments = []PaymentLink{}
	}
	if s.Metrics == nil {
		s.Metrics = []MetricPoint{}
	}
	if s.AdBalances == nil {
		s.AdBalances = map[int64]float64{}
	}
	return s
}

func (s State) findClient(id int64) (Client, bool) {
	return lo.Find(s.Clients, func(c Client) bool { return c.ID == id })
}

// loadedSlices is what one Initialize pass fetched; failed fetches arrive empty.
type loadedSlices struct {
	clients     []Client
	withdrawals []Withdrawal
	channels    []Channel
	metrics     []MetricPoint
}

// withLoaded replaces the backend-owned slices wholesale, so reloading never accumulates.
func withLoaded(prev State, l loadedSlices) State {
	next := prev.clone()

	next.Clients = lo.Map(l.clients, func(c Client, i int) Client {
		c.Seq = i + 1
		if c.ROI == 0 {
			c.ROI = 1.0
		}
		return c
	})
	next.Channels = resolveOwners(next.Clients, l.channels)
	next.Withdrawals = resolveRequesters(next.Clients, l.withdrawals)
	next.Metrics = slices.Clone(l.metrics)

	if _, ok := next.findClient(next.CurrentClientID); !ok && len(next.Clients) > 0 {
		next.CurrentClientID = next.Clients[0].ID
	}

	return next.normalized()
}

func resolveOwners(clients []Client, channels []Channel) []Channel {
	return lo.Map(channels, func(c Channel, _ int) Channel {
		c.OwnerName = unassignedOwner
		if c.OwnerID == nil {
			return c
		}
		id := *c.OwnerID
		c.OwnerID = &id
		if owner, ok := lo.Find(clients, func(cl Client) bool { return cl.ID == id }); ok {
			c.OwnerName = owner.DisplayName()
		}
		return c
	})
}

// resolveRequesters fills the requesting client from the backend id, falling back to the
// bank destination the payout was sent to.
func resolveRequesters(clients []Client, withdrawals []Withdrawal) []Withdrawal {
	return lo.Map(withdrawals, func(w Withdrawal, _ int) Withdrawal {
		var (
			owner Client
			ok    bool
		)
		if w.ClientID != 0 {
			owner, ok = lo.Find(clients, func(c Client) bool { return c.ID == w.ClientID })
		}
		if !ok && w.Destination != "" {
			owner, ok = lo.Find(clients, func(c Client) bool { return c.BankInfo == w.Destination })
		}
		if ok {
			w.ClientID = owner.ID
			w.ClientName = owner.DisplayName()
		} else if w.ClientName == "" {
			w.ClientName = "Desconocido"
		}
		if w.Status == "" {
			w.Status = WithdrawalPending
		}
		return w
	})
}

func withClientAdded(prev State, c Client) State {
	next := prev.clone()
	c.Seq = len(next.Clients) + 1
	if c.ROI == 0 {
		c.ROI = 1.0
	}
	next.Clients = append(next.Clients, c)
	if next.CurrentClientID == 0 {
		next.CurrentClientID = c.ID
	}
	return next
}

func withChannelOwner(prev State, channelID, ownerID int64) (State, Result) {
	idx := slices.IndexFunc(prev.Channels, func(c Channel) bool { return c.ID == channelID })
	if idx < 0 {
		return prev, ResultNotFound
	}

	next := prev.clone()
	id := ownerID
	next.Channels[idx].OwnerID = &id
	next.Channels[idx].OwnerName = unassignedOwner
	if owner, ok := next.findClient(ownerID); ok {
		next.Channels[idx].OwnerName = owner.DisplayName()
	}
	return next, ResultApplied
}

func withChannelKind(prev State, channelID int64, kind ChannelKind) (State, Result) {
	idx := slices.IndexFunc(prev.Channels, func(c Channel) bool { return c.ID == channelID })
	if idx < 0 {
		return prev, ResultNotFound
	}

	next := prev.clone()
	next.Channels[idx].Kind = kind
	return next, ResultApplied
}

func withCampaign(prev State, c Campaign) State {
	next := prev.clone()
	next.Campaigns = append(next.Campaigns, c)
	return next
}

func withPaymentLink(prev State, p PaymentLink) State {
	next := prev.clone()
	next.Payments = append(next.Payments, p)
	return next
}

func withWithdrawal(prev State, w Withdrawal) State {
	next := prev.clone()
	next.Withdrawals = append(next.Withdrawals, w)
	return next
}

func withWithdrawalStatus(prev State, withdrawalID int64, status WithdrawalStatus) (State, Result) {
	idx := slices.IndexFunc(prev.Withdrawals, func(w Withdrawal) bool { return w.ID == withdrawalID })
	if idx < 0 {
		return prev, ResultNotFound
	}

	next := prev.clone()
	next.Withdrawals[idx].Status = status
	return next, ResultApplied
}

// withPaymentApproved marks the link approved, prepends the sale and sets the owner's
// confirmed balance.
func withPaymentApproved(prev State, paymentID, inviteURL string, sale Sale, balance float64) (State, Result) {
	idx := slices.IndexFunc(prev.Payments, func(p PaymentLink) bool { return p.ID == paymentID })
	if idx < 0 {
		return prev, ResultNotFound
	}

	next := prev.clone()
	next.Payments[idx].Status = PaymentApproved
	next.Payments[idx].InviteURL = inviteURL
	next.Sales = append([]Sale{sale}, next.Sales...)

	clientID := next.Payments[idx].ClientID
	for i := range next.Clients {
		if next.Clients[i].ID == clientID {
			next.Clients[i].Balance = balance
		}
	}
	return next, ResultApplied
}

func withBudget(prev State, clientID int64, allocated float64) State {
	next := prev.clone()
	idx := slices.IndexFunc(next.Budgets, func(b Budget) bool { return b.ClientID == clientID })
	if idx < 0 {
		next.Budgets = append(next.Budgets, Budget{ClientID: clientID, Allocated: allocated})
		return next
	}
	next.Budgets[idx].Allocated = allocated
	return next
}

func withAdCapital(prev State, clientID int64, amount float64) State {
	next := prev.clone()
	next.AdBalances[clientID] = addMoney(next.AdBalances[clientID], amount)
	return next
}

func withCurrentClient(prev State, clientID int64) (State, Result) {
	if _, ok := prev.findClient(clientID); !ok {
		return prev, ResultNotFound
	}
	next := prev.clone()
	next.CurrentClientID = clientID
	return next, ResultApplied
}
