package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

const (
	transactionPending = "Pendiente"
	transactionActor   = "Cliente"
	transactionOrigin  = "web/subscription"
)

type transactionDTO struct {
	TransaccionID json.Number `json:"transaccion_id,omitempty"`
	Monto         float64     `json:"monto"`
	Estado        string      `json:"estado"`
	MetodoPago    string      `json:"metodo_pago"`
	Actor         string      `json:"actor,omitempty"`
	ActorID       int64       `json:"actor_id,omitempty"`
	Timestamp     string      `json:"timestamp,omitempty"`
	Origen        string      `json:"origen,omitempty"`
}

func (t transactionDTO) ToModel() dashboard.Transaction {
	return dashboard.Transaction{
		ID:        t.TransaccionID.String(),
		Amount:    t.Monto,
		Status:    t.Estado,
		Method:    t.MetodoPago,
		CreatedAt: parseTimestamp(t.Timestamp),
	}
}

// CreateTransaction records a pending subscription payment and returns its backend id.
func (c *Client) CreateTransaction(ctx context.Context, req dashboard.TransactionRequest) (*dashboard.Transaction, error) {
	payload := transactionDTO{
		Monto:      req.Amount,
		Estado:     transactionPending,
		MetodoPago: req.Method,
		Actor:      transactionActor,
		ActorID:    req.ClientID,
		Timestamp:  req.CreatedAt.UTC().Format(time.RFC3339),
		Origen:     transactionOrigin,
	}

	var row transactionDTO
	if err := c.do(ctx, request{method: http.MethodPost, path: "/transaccion/", body: payload}, &row); err != nil {
		return nil, err
	}
	if row.TransaccionID == "" {
		return nil, errors.New("backend returned a transaction without transaccion_id")
	}
	if row.MetodoPago == "" {
		row.MetodoPago = req.Method
	}
	tx := row.ToModel()
	return &tx, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]dashboard.Transaction, error) {
	var rows []transactionDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transacciones/"}, &rows); err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return lo.Map(rows, func(r transactionDTO, _ int) dashboard.Transaction { return r.ToModel() }), nil
}
