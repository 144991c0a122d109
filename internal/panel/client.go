package panel

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"canal-panel/internal/notifier"
	"canal-panel/internal/stories/dashboard"
)

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, dashboard.ComputeClientKPIs(h.dashboard.State(), h.dashboard.ActingClientID()))
}

func (h *Handler) requestPayout(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "monto")
		return
	}

	w, err := h.dashboard.RequestPayout(c.Request.Context(), req.Amount, req.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelSuccess, "toast.payout_requested", map[string]interface{}{
		"net": w.Net,
		"fee": w.Fee,
	})
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) clientChannels(c *gin.Context) {
	id := h.dashboard.ActingClientID()
	c.JSON(http.StatusOK, lo.Filter(h.dashboard.State().Channels, func(ch dashboard.Channel, _ int) bool {
		return ch.OwnerID != nil && *ch.OwnerID == id
	}))
}

func (h *Handler) listPaymentLinks(c *gin.Context) {
	id := h.dashboard.ActingClientID()
	c.JSON(http.StatusOK, lo.Filter(h.dashboard.State().Payments, func(p dashboard.PaymentLink, _ int) bool {
		return p.ClientID == id
	}))
}

func (h *Handler) createPaymentLink(c *gin.Context) {
	var req struct {
		ClientID        int64   `json:"client_id"`
		Channel         string  `json:"channel"`
		ChannelID       int64   `json:"channel_id"`
		Plan            string  `json:"plan"`
		PriceUSD        float64 `json:"price_usd"`
		DurationDays    int     `json:"duration_days"`
		Method          string  `json:"method"`
		Campaign        string  `json:"campaign"`
		BuyerTelegramID int64   `json:"buyer_telegram_id"`
		BuyerEmail      string  `json:"buyer_email"`
		BuyerCountry    string  `json:"buyer_country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "canal", "plan", "precio", "metodo")
		return
	}
	// client sessions only sell for themselves
	if req.ClientID == 0 || h.dashboard.Session().Role == dashboard.RoleClient {
		req.ClientID = h.dashboard.ActingClientID()
	}

	link, err := h.dashboard.CreatePaymentLink(c.Request.Context(), dashboard.PaymentLinkRequest{
		ClientID:        req.ClientID,
		Channel:         req.Channel,
		ChannelID:       req.ChannelID,
		Plan:            req.Plan,
		PriceUSD:        req.PriceUSD,
		DurationDays:    req.DurationDays,
		Method:          req.Method,
		Campaign:        req.Campaign,
		BuyerTelegramID: req.BuyerTelegramID,
		BuyerEmail:      req.BuyerEmail,
		BuyerCountry:    req.BuyerCountry,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelSuccess, "toast.link_created", map[string]interface{}{"plan": link.Plan})
	c.JSON(http.StatusCreated, link)
}

func (h *Handler) approvePayment(c *gin.Context) {
	out, err := h.dashboard.ApprovePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if out.Result == dashboard.ResultNotFound {
		h.notFound(c, "pago")
		return
	}
	h.toast(notifier.LevelSuccess, "toast.payment_approved", map[string]interface{}{"invite": out.InviteURL})
	c.JSON(http.StatusOK, gin.H{"invite_url": out.InviteURL, "sale": out.Sale})
}

func (h *Handler) listSales(c *gin.Context) {
	id := h.dashboard.ActingClientID()
	c.JSON(http.StatusOK, lo.Filter(h.dashboard.State().Sales, func(s dashboard.Sale, _ int) bool {
		return s.ClientID == id
	}))
}

func (h *Handler) injectAdCapital(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "monto")
		return
	}

	id := h.dashboard.ActingClientID()
	if id == 0 {
		h.fail(c, dashboard.ErrNoCurrentClient)
		return
	}
	res, err := h.dashboard.InjectAdCapital(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res == dashboard.ResultNotFound {
		h.notFound(c, "cliente")
		return
	}
	h.toast(notifier.LevelSuccess, "toast.ad_capital", map[string]interface{}{"amount": req.Amount})
	c.JSON(http.StatusOK, gin.H{"client_id": id, "ad_balance": h.dashboard.State().AdBalances[id]})
}

func (h *Handler) listCampaigns(c *gin.Context) {
	id := h.dashboard.ActingClientID()
	c.JSON(http.StatusOK, lo.Filter(h.dashboard.State().Campaigns, func(cp dashboard.Campaign, _ int) bool {
		return cp.ClientID == id
	}))
}

func (h *Handler) createCampaign(c *gin.Context) {
	var req struct {
		Channel string `json:"channel"`
		Name    string `json:"name"`
		Alias   string `json:"alias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "canal", "nombre", "alias")
		return
	}

	campaign, err := h.dashboard.CreateCampaign(c.Request.Context(), req.Channel, req.Name, req.Alias)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelSuccess, "toast.campaign_created", map[string]interface{}{
		"name": campaign.Name,
		"link": campaign.Link,
	})
	c.JSON(http.StatusCreated, campaign)
}

func (h *Handler) selectClient(c *gin.Context) {
	var req struct {
		ClientID int64 `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ClientID == 0 {
		h.badRequest(c, "client_id")
		return
	}

	if h.dashboard.SetCurrentClient(c.Request.Context(), req.ClientID) == dashboard.ResultNotFound {
		h.notFound(c, "cliente")
		return
	}
	name := "N/A"
	if cl, ok := lo.Find(h.dashboard.State().Clients, func(cl dashboard.Client) bool { return cl.ID == req.ClientID }); ok {
		name = cl.DisplayName()
	}
	h.toast(notifier.LevelInfo, "toast.client_selected", map[string]interface{}{"name": name})
	c.JSON(http.StatusOK, gin.H{"client_id": req.ClientID})
}
