package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"canal-panel/internal/config"
	"canal-panel/internal/infra/backend"
	"canal-panel/internal/stories/dashboard"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(config.GatewayConfig{
		Scheme:  "http",
		Host:    u.Hostname(),
		Port:    uint16(port),
		Timeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreatePaymentReadsProviderField(t *testing.T) {
	replies := map[string]string{
		"/create-payment/mercadopago": `{"init_point": "https://mp.example/1"}`,
		"/create-payment/stripe":      `{"id": "cs_1", "url": "https://stripe.example/1"}`,
		"/create-payment/coinbase":    `{"checkout_url": "https://cb.example/1"}`,
	}
	var gotMeta map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		gotMeta = req.Metadata
		_, _ = io.WriteString(w, replies[r.URL.Path])
	}))

	tests := []struct {
		provider string
		want     string
	}{
		{provider: MercadoPago, want: "https://mp.example/1"},
		{provider: Stripe, want: "https://stripe.example/1"},
		{provider: Coinbase, want: "https://cb.example/1"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, err := c.Provider(tt.provider).CreateCheckout(context.Background(), dashboard.CheckoutRequest{
				TransactionID: "55", Amount: 25, ClientID: 1001, ChannelID: -1001, BuyerID: 7,
			})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
			if gotMeta["user_id"] != "7" || gotMeta["canal_id"] != "-1001" || gotMeta["transaccion_id"] != "55" {
				t.Errorf("metadata = %v", gotMeta)
			}
		})
	}
}

func TestCreatePaymentFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		status   int
		body     string
	}{
		{name: "unknown provider", provider: "paypal", status: http.StatusOK, body: `{}`},
		{name: "server error", provider: Stripe, status: http.StatusInternalServerError, body: `{"error": "x"}`},
		{name: "missing url", provider: Stripe, status: http.StatusOK, body: `{"init_point": "https://mp"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			if _, err := c.CreatePayment(context.Background(), tt.provider, dashboard.CheckoutRequest{TransactionID: "1"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCreatePaymentKeepsServiceDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{name: "declined", status: http.StatusPaymentRequired, body: `{"detail": "card declined"}`, wantDetail: "card declined"},
		{name: "no detail", status: http.StatusBadGateway, body: `upstream down`, wantDetail: "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))

			_, err := c.CreatePayment(context.Background(), Stripe, dashboard.CheckoutRequest{TransactionID: "1"})
			var apiErr *backend.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *backend.APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Detail != tt.wantDetail {
				t.Errorf("api error = %+v, want %d %q", apiErr, tt.status, tt.wantDetail)
			}
		})
	}
}
