package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

const (
	estadoPendiente = "Pendiente"
	estadoPagado    = "Pagado"
	estadoAprobado  = "Aprobado"
	estadoRechazado = "Rechazado"
)

type withdrawalDTO struct {
	RetiroID  int64   `json:"retiro_id"`
	ID        int64   `json:"id"`
	ClienteID int64   `json:"cliente_id"`
	Destino   string  `json:"destino"`
	Monto     float64 `json:"monto"`
	Comision  float64 `json:"comision"`
	Metodo    string  `json:"metodo"`
	Timestamp string  `json:"timestamp"`
	Estado    string  `json:"estado"`
}

func (w withdrawalDTO) ToModel() dashboard.Withdrawal {
	return dashboard.Withdrawal{
		ID:          lo.Ternary(w.RetiroID != 0, w.RetiroID, w.ID),
		ClientID:    w.ClienteID,
		Destination: w.Destino,
		Net:         w.Monto,
		Fee:         w.Comision,
		Method:      w.Metodo,
		Status:      statusFromWire(w.Estado),
		RequestedAt: parseTimestamp(w.Timestamp),
	}
}

func statusFromWire(estado string) dashboard.WithdrawalStatus {
	switch strings.ToLower(strings.TrimSpace(estado)) {
	case strings.ToLower(estadoPagado), strings.ToLower(estadoAprobado):
		return dashboard.WithdrawalPaid
	case strings.ToLower(estadoRechazado):
		return dashboard.WithdrawalRejected
	default:
		return dashboard.WithdrawalPending
	}
}

func statusToWire(status dashboard.WithdrawalStatus) string {
	switch status {
	case dashboard.WithdrawalPaid:
		return estadoPagado
	case dashboard.WithdrawalRejected:
		return estadoRechazado
	default:
		return estadoPendiente
	}
}

// parseTimestamp accepts RFC 3339 and the naive ISO form the backend stores.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (c *Client) ListWithdrawals(ctx context.Context) ([]dashboard.Withdrawal, error) {
	var rows []withdrawalDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/retiros/"}, &rows); err != nil {
		return nil, errors.Wrap(err, "list withdrawals")
	}
	return lo.Map(rows, func(r withdrawalDTO, _ int) dashboard.Withdrawal { return r.ToModel() }), nil
}

func (c *Client) CreateWithdrawal(ctx context.Context, req dashboard.WithdrawalRequest) (*dashboard.Withdrawal, error) {
	payload := withdrawalDTO{
		Destino:   req.Destination,
		Monto:     req.Net,
		Comision:  req.Fee,
		Timestamp: req.RequestedAt.UTC().Format(time.RFC3339),
		Estado:    estadoPendiente,
	}

	var row withdrawalDTO
	if err := c.do(ctx, request{method: http.MethodPost, path: "/retiro/", body: payload}, &row); err != nil {
		return nil, err
	}
	w := row.ToModel()
	return &w, nil
}

func (c *Client) UpdateWithdrawalStatus(ctx context.Context, withdrawalID int64, status dashboard.WithdrawalStatus) error {
	payload := struct {
		Estado string `json:"estado"`
	}{Estado: statusToWire(status)}

	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/retiro/",
		query:  url.Values{"retiro_id": {strconv.FormatInt(withdrawalID, 10)}},
		body:   payload,
	}, nil)
}
