package panel

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"canal-panel/internal/notifier"
	"canal-panel/internal/stories/dashboard"
	"canal-panel/internal/stories/reports"
)

func (h *Handler) summary(c *gin.Context) {
	period, err := reports.ParsePeriod(c.Query("period"))
	if err != nil {
		h.badRequest(c, "period")
		return
	}

	var filter reports.AudienceFilter
	if raw := c.Query("client_id"); raw != "" {
		id, ok := queryID(raw)
		if !ok {
			h.badRequest(c, "client_id")
			return
		}
		filter.ClientID = &id
	}
	if raw := c.Query("kind"); raw != "" {
		kind, ok := parseKind(raw)
		if !ok {
			h.badRequest(c, "kind")
			return
		}
		filter.ChannelKind = &kind
	}

	ctx := c.Request.Context()
	state := h.dashboard.State()
	c.JSON(http.StatusOK, gin.H{
		"kpis": dashboard.ComputeAdminKPIs(state),
		"pending_withdrawals": lo.Filter(state.Withdrawals, func(w dashboard.Withdrawal, _ int) bool {
			return w.Status == dashboard.WithdrawalPending
		}),
		"revenue":  h.reports.Revenue(ctx),
		"audience": h.reports.Audience(ctx, period, filter),
	})
}

func (h *Handler) refresh(c *gin.Context) {
	if err := h.dashboard.Initialize(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.State())
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.dashboard.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelInfo, "toast.reset", nil)
	c.Status(http.StatusNoContent)
}

func (h *Handler) listClients(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.State().Clients)
}

func (h *Handler) createClient(c *gin.Context) {
	var req struct {
		FirstName  string `json:"nombre"`
		LastName   string `json:"apellido"`
		Email      string `json:"correo"`
		TelegramID int64  `json:"telegram_id"`
		Password   string `json:"password"`
		BankInfo   string `json:"info_bancaria"`
		VIP        bool   `json:"vip"`
		PaymentID  string `json:"payment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "nombre", "correo", "telegram_id")
		return
	}

	created, err := h.dashboard.AddClient(c.Request.Context(), dashboard.NewClient{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		TelegramID: req.TelegramID,
		Password:   req.Password,
		BankInfo:   req.BankInfo,
		VIP:        req.VIP,
		PaymentID:  req.PaymentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.toast(notifier.LevelSuccess, "toast.client_created", map[string]interface{}{"name": created.DisplayName()})
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) clientMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	c.JSON(http.StatusOK, h.dashboard.ClientMembersReport(c.Request.Context(), id))
}

func (h *Handler) listChannels(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.State().Channels)
}

func (h *Handler) channelMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	c.JSON(http.StatusOK, h.dashboard.ChannelMembers(c.Request.Context(), id))
}

func (h *Handler) assignOwner(c *gin.Context) {
	channelID, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	var req struct {
		OwnerID int64 `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OwnerID == 0 {
		h.badRequest(c, "owner_id")
		return
	}

	res, err := h.dashboard.AssignChannelOwner(c.Request.Context(), channelID, req.OwnerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == dashboard.ResultNotFound {
		h.notFound(c, "canal")
		return
	}

	ch, _ := findChannel(h.dashboard.State(), channelID)
	h.toast(notifier.LevelSuccess, "toast.owner_assigned", map[string]interface{}{
		"channel": ch.Name,
		"owner":   ch.OwnerName,
	})
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) setKind(c *gin.Context) {
	channelID, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "kind")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		h.badRequest(c, "kind")
		return
	}

	res, err := h.dashboard.SetChannelKind(c.Request.Context(), channelID, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == dashboard.ResultNotFound {
		h.notFound(c, "canal")
		return
	}

	ch, _ := findChannel(h.dashboard.State(), channelID)
	h.toast(notifier.LevelSuccess, "toast.kind_changed", map[string]interface{}{
		"channel": ch.Name,
		"kind":    string(ch.Kind),
	})
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) removeMember(c *gin.Context) {
	channelID, okChannel := pathID(c, "id")
	userID, okUser := pathID(c, "user_id")
	if !okChannel || !okUser {
		h.badRequest(c, "canal_id", "user_id")
		return
	}

	if err := h.dashboard.RemoveChannelMember(c.Request.Context(), channelID, userID); err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelSuccess, "toast.member_removed", map[string]interface{}{"user": userID})
	c.Status(http.StatusAccepted)
}

func (h *Handler) sendInvite(c *gin.Context) {
	channelID, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "canal_id")
		return
	}
	var req struct {
		ClientTelegramID int64 `json:"cliente_telegram_id"`
		UserTelegramID   int64 `json:"user_telegram_id"`
		Paid             bool  `json:"paid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "cliente_telegram_id", "user_telegram_id")
		return
	}

	err := h.dashboard.SendInvite(c.Request.Context(), dashboard.InviteRequest{
		ChannelID:        channelID,
		ClientTelegramID: req.ClientTelegramID,
		UserTelegramID:   req.UserTelegramID,
		Paid:             req.Paid,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelSuccess, "toast.invite_sent", map[string]interface{}{"user": req.UserTelegramID})
	c.Status(http.StatusAccepted)
}

func (h *Handler) listWithdrawals(c *gin.Context) {
	withdrawals := h.dashboard.State().Withdrawals
	if status := c.Query("status"); status != "" {
		withdrawals = lo.Filter(withdrawals, func(w dashboard.Withdrawal, _ int) bool {
			return string(w.Status) == status
		})
	}
	c.JSON(http.StatusOK, withdrawals)
}

func (h *Handler) markPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	res, err := h.dashboard.MarkWithdrawalPaid(c.Request.Context(), id)
	h.withdrawalReply(c, id, dashboard.WithdrawalPaid, res, err)
}

func (h *Handler) setWithdrawalStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	var req struct {
		Status dashboard.WithdrawalStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "status")
		return
	}
	switch req.Status {
	case dashboard.WithdrawalPending, dashboard.WithdrawalPaid, dashboard.WithdrawalRejected:
	default:
		h.badRequest(c, "status")
		return
	}

	res, err := h.dashboard.SetWithdrawalStatus(c.Request.Context(), id, req.Status)
	h.withdrawalReply(c, id, req.Status, res, err)
}

func (h *Handler) withdrawalReply(c *gin.Context, id int64, status dashboard.WithdrawalStatus, res dashboard.Result, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == dashboard.ResultNotFound {
		h.notFound(c, "retiro")
		return
	}
	h.toast(notifier.LevelSuccess, "toast.withdrawal_status", map[string]interface{}{
		"id":     id,
		"status": string(status),
	})
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *Handler) listBudgets(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.State().Budgets)
}

func (h *Handler) updateBudget(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		h.badRequest(c, "id")
		return
	}
	var req struct {
		Allocated float64 `json:"allocated"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "presupuesto")
		return
	}

	res, err := h.dashboard.UpdateBudget(c.Request.Context(), clientID, req.Allocated)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == dashboard.ResultNotFound {
		h.notFound(c, "cliente")
		return
	}
	h.toast(notifier.LevelSuccess, "toast.budget_updated", map[string]interface{}{"amount": req.Allocated})
	c.JSON(http.StatusOK, gin.H{"client_id": clientID, "allocated": req.Allocated})
}

func findChannel(s dashboard.State, id int64) (dashboard.Channel, bool) {
	return lo.Find(s.Channels, func(ch dashboard.Channel) bool { return ch.ID == id })
}

func parseKind(raw string) (dashboard.ChannelKind, bool) {
	switch dashboard.ChannelKind(raw) {
	case dashboard.ChannelVIP:
		return dashboard.ChannelVIP, true
	case dashboard.ChannelFree:
		return dashboard.ChannelFree, true
	}
	return "", false
}
