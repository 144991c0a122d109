package dashboard

import (
	"context"
)

type (
	// Backend is the REST API the panel mirrors.
	Backend interface {
		ListClients(ctx context.Context) ([]Client, error)
		ListWithdrawals(ctx context.Context) ([]Withdrawal, error)
		ListChannels(ctx context.Context) ([]Channel, error)
		MetricsSummary(ctx context.Context, filter MetricsFilter) ([]MetricPoint, error)
		ListChannelMembers(ctx context.Context, channelID int64) ([]Member, error)
		ClientMembersReport(ctx context.Context, clientID int64) ([]MemberReportRow, error)

		Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
		CreateClient(ctx context.Context, req NewClient) (*Client, error)
		UpdateChannel(ctx context.Context, req ChannelUpdate) error
		UpdateClientBalance(ctx context.Context, clientID int64, balance float64) error
		CreateWithdrawal(ctx context.Context, req WithdrawalRequest) (*Withdrawal, error)
		UpdateWithdrawalStatus(ctx context.Context, withdrawalID int64, status WithdrawalStatus) error
		CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error)

		CreateGroup(ctx context.Context, task GroupTask) error
		RemoveUser(ctx context.Context, task RemoveUserTask) error
		CreateInvite(ctx context.Context, req InviteRequest) error
	}

	// Checkout resolves the provider checkout URL for a recorded transaction.
	Checkout interface {
		CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
	}

	// Store keeps opaque snapshots under fixed keys.
	Store interface {
		GetSnapshot(ctx context.Context, key string) ([]byte, error)
		PutSnapshot(ctx context.Context, key string, value []byte) error
		DeleteSnapshots(ctx context.Context, keys ...string) error
	}
)
