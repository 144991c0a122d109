package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

type channelDTO struct {
	CanalID      int64  `json:"canal_id"`
	Nombre       string `json:"nombre"`
	EsVIP        bool   `json:"es_vip"`
	Suscriptores int    `json:"suscriptores"`
	OwnerID      *int64 `json:"owner_id"`
}

func (c channelDTO) ToModel() dashboard.Channel {
	return dashboard.Channel{
		ID:          c.CanalID,
		Name:        c.Nombre,
		Kind:        lo.Ternary(c.EsVIP, dashboard.ChannelVIP, dashboard.ChannelFree),
		Subscribers: c.Suscriptores,
		OwnerID:     c.OwnerID,
	}
}

type memberDTO struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	Email      string `json:"email"`
}

func (c *Client) ListChannels(ctx context.Context) ([]dashboard.Channel, error) {
	var rows []channelDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/canales/"}, &rows); err != nil {
		return nil, errors.Wrap(err, "list channels")
	}
	return lo.Map(rows, func(r channelDTO, _ int) dashboard.Channel { return r.ToModel() }), nil
}

func (c *Client) ListChannelMembers(ctx context.Context, channelID int64) ([]dashboard.Member, error) {
	var rows []memberDTO
	if err := c.do(ctx, routed(http.MethodGet, "/canal/miembros/{id}", channelID), &rows); err != nil {
		return nil, errors.Wrapf(err, "list channel %d members", channelID)
	}
	return lo.Map(rows, func(r memberDTO, _ int) dashboard.Member {
		return dashboard.Member{
			TelegramID: r.TelegramID,
			Username:   r.Username,
			FirstName:  r.FirstName,
			Email:      r.Email,
		}
	}), nil
}

// UpdateChannel always sends es_vip with the owner since the backend replaces both.
func (c *Client) UpdateChannel(ctx context.Context, req dashboard.ChannelUpdate) error {
	payload := struct {
		OwnerID *int64 `json:"owner_id"`
		EsVIP   bool   `json:"es_vip"`
	}{OwnerID: req.OwnerID, EsVIP: req.VIP}

	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/canal/",
		query:  url.Values{"canal_id": {strconv.FormatInt(req.ChannelID, 10)}},
		body:   payload,
	}, nil)
}
