package panel

import (
	"context"

	"canal-panel/internal/notifier"
	"canal-panel/internal/stories/dashboard"
	"canal-panel/internal/stories/reports"
)

type (
	Dashboard interface {
		State() dashboard.State
		Session() dashboard.Session
		Loading() bool
		ActingClientID() int64

		Initialize(ctx context.Context) error
		Login(ctx context.Context, identifier, secret string) (dashboard.Session, error)
		Logout(ctx context.Context) error
		Reset(ctx context.Context) error

		AddClient(ctx context.Context, req dashboard.NewClient) (*dashboard.Client, error)
		AssignChannelOwner(ctx context.Context, channelID, ownerID int64) (dashboard.Result, error)
		SetChannelKind(ctx context.Context, channelID int64, kind dashboard.ChannelKind) (dashboard.Result, error)
		RemoveChannelMember(ctx context.Context, channelID, userID int64) error
		SendInvite(ctx context.Context, req dashboard.InviteRequest) error
		ChannelMembers(ctx context.Context, channelID int64) []dashboard.Member
		ClientMembersReport(ctx context.Context, clientID int64) []dashboard.MemberReportRow

		MarkWithdrawalPaid(ctx context.Context, withdrawalID int64) (dashboard.Result, error)
		SetWithdrawalStatus(ctx context.Context, withdrawalID int64, status dashboard.WithdrawalStatus) (dashboard.Result, error)
		UpdateBudget(ctx context.Context, clientID int64, allocated float64) (dashboard.Result, error)

		RequestPayout(ctx context.Context, amount float64, method string) (*dashboard.Withdrawal, error)
		CreatePaymentLink(ctx context.Context, req dashboard.PaymentLinkRequest) (*dashboard.PaymentLink, error)
		ApprovePayment(ctx context.Context, paymentID string) (dashboard.ApproveOutcome, error)
		InjectAdCapital(ctx context.Context, clientID int64, amount float64) (dashboard.Result, error)
		CreateCampaign(ctx context.Context, channel, name, alias string) (*dashboard.Campaign, error)
		SetCurrentClient(ctx context.Context, clientID int64) dashboard.Result
	}

	Reports interface {
		Audience(ctx context.Context, period reports.Period, filter reports.AudienceFilter) []reports.AudiencePoint
		Revenue(ctx context.Context) reports.RevenueTotals
	}

	Toasts interface {
		Push(text string, level notifier.Level) notifier.Toast
		List() []notifier.Toast
	}

	Translator interface {
		T(key string, params map[string]interface{}) string
	}
)
