package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"

	"canal-panel/internal/stories/dashboard"
)

// loginDTO accepts both {"cliente": {...}, "rol": "..."} and a flat client record with "rol".
type loginDTO struct {
	clientDTO
	Cliente *clientDTO `json:"cliente"`
	Rol     string     `json:"rol"`
}

func roleFromWire(rol string) dashboard.Role {
	switch strings.ToLower(strings.TrimSpace(rol)) {
	case "admin", "administrador":
		return dashboard.RoleAdmin
	case "cliente", "client":
		return dashboard.RoleClient
	default:
		return ""
	}
}

// Login posts form credentials. An empty Role means the backend did not say.
func (c *Client) Login(ctx context.Context, identifier, secret string) (*dashboard.LoginResult, error) {
	var row loginDTO
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login/",
		form:   url.Values{"username": {identifier}, "password": {secret}},
	}, &row)
	if err != nil {
		return nil, err
	}

	client := row.clientDTO
	if row.Cliente != nil {
		client = *row.Cliente
	}
	if client.TelegramID == 0 {
		return nil, errors.New("login reply carries no client record")
	}

	return &dashboard.LoginResult{
		Client: client.ToModel(),
		Role:   roleFromWire(row.Rol),
	}, nil
}
