package backend

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

type clientDTO struct {
	TelegramID   int64    `json:"telegram_id"`
	Nombre       string   `json:"nombre"`
	Apellido     string   `json:"apellido,omitempty"`
	Correo       string   `json:"correo,omitempty"`
	EsVIP        bool     `json:"es_vip"`
	Balance      float64  `json:"balance"`
	InfoBancaria string   `json:"info_bancaria,omitempty"`
	PaymentID    string   `json:"payment_id,omitempty"`
	ROI          *float64 `json:"roi,omitempty"`
}

func (c clientDTO) ToModel() dashboard.Client {
	return dashboard.Client{
		ID:        c.TelegramID,
		FirstName: c.Nombre,
		LastName:  c.Apellido,
		Email:     c.Correo,
		Balance:   c.Balance,
		VIP:       c.EsVIP,
		BankInfo:  c.InfoBancaria,
		PaymentID: c.PaymentID,
		ROI:       lo.FromPtr(c.ROI),
	}
}

type createClientDTO struct {
	Nombre       string  `json:"nombre"`
	Apellido     string  `json:"apellido"`
	TelegramID   int64   `json:"telegram_id"`
	PaymentID    string  `json:"payment_id"`
	Correo       string  `json:"correo"`
	Contrasena   string  `json:"contraseña"`
	EsVIP        bool    `json:"es_vip"`
	Balance      float64 `json:"balance"`
	InfoBancaria string  `json:"info_bancaria"`
}

func (c *Client) ListClients(ctx context.Context) ([]dashboard.Client, error) {
	var rows []clientDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/clientes/"}, &rows); err != nil {
		return nil, errors.Wrap(err, "list clients")
	}
	return lo.Map(rows, func(r clientDTO, _ int) dashboard.Client { return r.ToModel() }), nil
}

// CreateClient returns the backend record; backend errors are returned as is so the
// detail reaches the operator.
func (c *Client) CreateClient(ctx context.Context, req dashboard.NewClient) (*dashboard.Client, error) {
	payload := createClientDTO{
		Nombre:       req.FirstName,
		Apellido:     req.LastName,
		TelegramID:   req.TelegramID,
		PaymentID:    req.PaymentID,
		Correo:       req.Email,
		Contrasena:   req.Password,
		EsVIP:        req.VIP,
		InfoBancaria: req.BankInfo,
	}

	var row clientDTO
	if err := c.do(ctx, request{method: http.MethodPost, path: "/cliente/", body: payload}, &row); err != nil {
		return nil, err
	}
	if row.TelegramID == 0 {
		row.TelegramID = req.TelegramID
	}
	client := row.ToModel()
	return &client, nil
}

func (c *Client) UpdateClientBalance(ctx context.Context, clientID int64, balance float64) error {
	payload := struct {
		TelegramID int64   `json:"telegram_id"`
		Balance    float64 `json:"balance"`
	}{TelegramID: clientID, Balance: balance}

	return c.do(ctx, request{method: http.MethodPut, path: "/cliente/balance/", body: payload}, nil)
}

// ClientMembersReport keeps the backend columns untouched.
func (c *Client) ClientMembersReport(ctx context.Context, clientID int64) ([]dashboard.MemberReportRow, error) {
	var rows []dashboard.MemberReportRow
	if err := c.do(ctx, routed(http.MethodGet, "/cliente/{id}/miembros-csv", clientID), &rows); err != nil {
		return nil, errors.Wrapf(err, "client %d members report", clientID)
	}
	return rows, nil
}
