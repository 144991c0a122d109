package panel

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"canal-panel/internal/notifier"
	"canal-panel/internal/stories/dashboard"
)

// Handler exposes the session container as a JSON API.
type Handler struct {
	dashboard Dashboard
	reports   Reports
	toasts    Toasts
	tr        Translator
	logger    *slog.Logger
}

func NewHandler(d Dashboard, r Reports, toasts Toasts, tr Translator, logger *slog.Logger) *Handler {
	return &Handler{
		dashboard: d,
		reports:   r,
		toasts:    toasts,
		tr:        tr,
		logger:    logger,
	}
}

// Router builds the gin engine. /api/admin needs an admin session, /api/client any session.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/toasts", h.listToasts)
	api.GET("/session", h.session)

	admin := api.Group("/admin", RequireAuth(h.dashboard), RequireRole(h.dashboard, dashboard.RoleAdmin))
	admin.GET("/summary", h.summary)
	admin.POST("/refresh", h.refresh)
	admin.POST("/reset", h.reset)
	admin.GET("/clients", h.listClients)
	admin.POST("/clients", h.createClient)
	admin.GET("/clients/:id/members", h.clientMembers)
	admin.GET("/channels", h.listChannels)
	admin.GET("/channels/:id/members", h.channelMembers)
	admin.PUT("/channels/:id/owner", h.assignOwner)
	admin.PUT("/channels/:id/kind", h.setKind)
	admin.DELETE("/channels/:id/members/:user_id", h.removeMember)
	admin.POST("/channels/:id/invites", h.sendInvite)
	admin.GET("/withdrawals", h.listWithdrawals)
	admin.POST("/withdrawals/:id/paid", h.markPaid)
	admin.PUT("/withdrawals/:id/status", h.setWithdrawalStatus)
	admin.GET("/budgets", h.listBudgets)
	admin.PUT("/budgets/:id", h.updateBudget)

	client := api.Group("/client", RequireAuth(h.dashboard))
	client.GET("/home", h.home)
	client.POST("/payouts", h.requestPayout)
	client.GET("/channels", h.clientChannels)
	client.GET("/payment-links", h.listPaymentLinks)
	client.POST("/payment-links", h.createPaymentLink)
	client.POST("/payment-links/:id/approve", h.approvePayment)
	client.GET("/sales", h.listSales)
	client.POST("/ad-capital", h.injectAdCapital)
	client.GET("/campaigns", h.listCampaigns)
	client.POST("/campaigns", h.createCampaign)
	client.PUT("/current", h.selectClient)

	return r
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Secret     string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "identifier", "secret")
		return
	}

	sess, err := h.dashboard.Login(c.Request.Context(), req.Identifier, req.Secret)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.toast(notifier.LevelSuccess, "toast.login_ok", map[string]interface{}{"name": sess.Client.DisplayName()})
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.dashboard.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.toast(notifier.LevelInfo, "toast.logout", nil)
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session": h.dashboard.Session(),
		"loading": h.dashboard.Loading(),
	})
}

func (h *Handler) listToasts(c *gin.Context) {
	c.JSON(http.StatusOK, h.toasts.List())
}

func (h *Handler) toast(level notifier.Level, key string, params map[string]interface{}) notifier.Toast {
	return h.toasts.Push(h.tr.T(key, params), level)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	return queryID(c.Param(name))
}

func queryID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
