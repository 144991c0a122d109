package yookassa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	yoopayment "github.com/rvinnie/yookassa-sdk-go/yookassa/payment"

	"canal-panel/internal/stories/dashboard"
)

type fakeHandler struct {
	keys    []string
	got     *yoopayment.Payment
	reply   *yoopayment.Payment
	replErr error
}

func (f *fakeHandler) CreatePayment(p *yoopayment.Payment) (*yoopayment.Payment, error) {
	f.got = p
	return f.reply, f.replErr
}

func newTestClient(h *fakeHandler) *Client {
	return &Client{
		newHandler: func(key string) paymentCreator {
			h.keys = append(h.keys, key)
			return h
		},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		returnURL: "https://panel.example/return",
		currency:  "RUB",
	}
}

func TestCreateCheckout(t *testing.T) {
	tests := []struct {
		name    string
		reply   *yoopayment.Payment
		replErr error
		want    string
		wantErr bool
	}{
		{
			name:  "redirect pointer",
			reply: &yoopayment.Payment{ID: "p1", Confirmation: &yoopayment.Redirect{ConfirmationURL: "https://yoo.example/p1"}},
			want:  "https://yoo.example/p1",
		},
		{
			name:  "decoded map",
			reply: &yoopayment.Payment{ID: "p2", Confirmation: map[string]interface{}{"confirmation_url": "https://yoo.example/p2"}},
			want:  "https://yoo.example/p2",
		},
		{
			name:    "no confirmation",
			reply:   &yoopayment.Payment{ID: "p3"},
			wantErr: true,
		},
		{
			name:    "sdk error",
			replErr: errors.New("401"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHandler{reply: tt.reply, replErr: tt.replErr}
			c := newTestClient(h)

			got, err := c.CreateCheckout(context.Background(), dashboard.CheckoutRequest{
				TransactionID: "55", Amount: 25, Description: "VIP - Mensual", BuyerID: 7,
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
			if len(h.keys) != 1 || h.keys[0] != "55" {
				t.Errorf("idempotency keys = %v, want [55]", h.keys)
			}
			if h.got.Amount.Value != "25.00" || h.got.Amount.Currency != "RUB" || h.got.Description != "VIP - Mensual" {
				t.Errorf("payment = %+v", h.got)
			}
		})
	}
}
