package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"canal-panel/internal/config"
	"canal-panel/internal/infra/backend"
	"canal-panel/internal/stories/dashboard"
)

// Provider names accepted by the payment service.
const (
	MercadoPago = "mercadopago"
	Stripe      = "stripe"
	Coinbase    = "coinbase"
)

// urlFields is the reply member carrying the checkout link per provider.
var urlFields = map[string]string{
	MercadoPago: "init_point",
	Stripe:      "url",
	Coinbase:    "checkout_url",
}

// Client creates provider checkouts through the payment service.
type Client struct {
	addr   string
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg config.GatewayConfig, logger *slog.Logger) *Client {
	return &Client{
		addr:   cfg.ADDR(),
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type paymentRequest struct {
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Provider binds the client to one provider so it can be routed as a checkout.
func (c *Client) Provider(name string) *Provider {
	return &Provider{client: c, name: name}
}

type Provider struct {
	client *Client
	name   string
}

func (p *Provider) CreateCheckout(ctx context.Context, req dashboard.CheckoutRequest) (string, error) {
	return p.client.CreatePayment(ctx, p.name, req)
}

// CreatePayment returns the checkout URL for provider. The webhook on the payment service
// reads user_id and canal_id back from the metadata.
func (c *Client) CreatePayment(ctx context.Context, provider string, req dashboard.CheckoutRequest) (string, error) {
	field, ok := urlFields[provider]
	if !ok {
		return "", errors.Errorf("unknown payment provider %q", provider)
	}

	payload, err := json.Marshal(paymentRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Metadata: map[string]string{
			"transaccion_id": req.TransactionID,
			"cliente_id":     strconv.FormatInt(req.ClientID, 10),
			"user_id":        strconv.FormatInt(req.BuyerID, 10),
			"canal_id":       strconv.FormatInt(req.ChannelID, 10),
			"email":          req.BuyerEmail,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode payment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/create-payment/"+provider, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build payment request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errors.Wrapf(err, "create %s payment", provider)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read payment reply")
	}
	if resp.StatusCode >= 300 {
		return "", errors.Wrapf(backend.NewAPIError(resp.StatusCode, body), "create %s payment", provider)
	}

	checkoutURL, err := readString(body, field)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s payment reply", provider)
	}
	if checkoutURL == "" {
		return "", errors.Errorf("%s payment reply has no %s", provider, field)
	}

	c.logger.Info("Checkout created", "provider", provider, "transaction_id", req.TransactionID)
	return checkoutURL, nil
}

func readString(body []byte, field string) (string, error) {
	var out string
	err := jx.DecodeBytes(body).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != field || d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		out = s
		return err
	})
	return out, err
}
