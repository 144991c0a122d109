package yookassa

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/rvinnie/yookassa-sdk-go/yookassa"
	yoocommon "github.com/rvinnie/yookassa-sdk-go/yookassa/common"
	yoopayment "github.com/rvinnie/yookassa-sdk-go/yookassa/payment"

	"canal-panel/internal/config"
	"canal-panel/internal/stories/dashboard"
)

// paymentCreator is the part of the SDK payment handler the client needs.
type paymentCreator interface {
	CreatePayment(payment *yoopayment.Payment) (*yoopayment.Payment, error)
}

// Client creates YooKassa redirect checkouts for payment links.
type Client struct {
	newHandler func(idempotencyKey string) paymentCreator
	logger     *slog.Logger
	returnURL  string
	currency   string
}

func NewClient(cfg config.YooKassaConfig, logger *slog.Logger) *Client {
	sdk := yookassa.NewClient(cfg.ShopID, cfg.SecretKey)

	return &Client{
		newHandler: func(key string) paymentCreator {
			return yookassa.NewPaymentHandler(sdk).WithIdempotencyKey(key)
		},
		logger:    logger,
		returnURL: cfg.ReturnURL,
		currency:  cfg.Currency,
	}
}

// CreateCheckout creates a captured payment and returns its confirmation URL. The
// transaction id doubles as the idempotency key so a retried link never charges twice.
func (c *Client) CreateCheckout(ctx context.Context, req dashboard.CheckoutRequest) (string, error) {
	c.logger.Info("Creating payment in YooKassa", "amount", req.Amount, "transaction_id", req.TransactionID)

	idempotenceKey := req.TransactionID
	if idempotenceKey == "" {
		idempotenceKey = uuid.NewString()
	}

	payment := &yoopayment.Payment{
		Amount: &yoocommon.Amount{
			Value:    fmt.Sprintf("%.2f", req.Amount),
			Currency: c.currency,
		},
		Confirmation: &yoopayment.Redirect{
			Type:      yoopayment.TypeRedirect,
			ReturnURL: c.returnURL,
		},
		Description: req.Description,
		Metadata: map[string]string{
			"transaccion_id": req.TransactionID,
			"cliente_id":     strconv.FormatInt(req.ClientID, 10),
			"user_id":        strconv.FormatInt(req.BuyerID, 10),
			"canal_id":       strconv.FormatInt(req.ChannelID, 10),
		},
		Capture: true,
	}

	result, err := c.newHandler(idempotenceKey).CreatePayment(payment)
	if err != nil {
		c.logger.Error("Failed to create payment in YooKassa", "error", err)
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	confirmationURL := redirectURL(result)
	if confirmationURL == "" {
		return "", fmt.Errorf("payment %s has no confirmation url", result.ID)
	}

	c.logger.Info("Payment created successfully in YooKassa", "payment_id", result.ID, "status", result.Status)
	return confirmationURL, nil
}

func redirectURL(p *yoopayment.Payment) string {
	switch conf := p.Confirmation.(type) {
	case *yoopayment.Redirect:
		return conf.ConfirmationURL
	case yoopayment.Redirect:
		return conf.ConfirmationURL
	case map[string]interface{}:
		if s, ok := conf["confirmation_url"].(string); ok {
			return s
		}
	}
	return ""
}
