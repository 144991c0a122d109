package backend

import (
	"context"
	"net/http"

	"canal-panel/internal/stories/dashboard"
)

// Task endpoints only enqueue work for the Telegram workers; the reply body is ignored.

func (c *Client) CreateGroup(ctx context.Context, task dashboard.GroupTask) error {
	payload := struct {
		Action    string `json:"action"`
		Name      string `json:"name"`
		Username  string `json:"username"`
		OwnerID   int64  `json:"owner_id"`
		IsPrivate bool   `json:"is_private"`
	}{
		Action:    "create_group",
		Name:      task.Name,
		Username:  task.Username,
		OwnerID:   task.OwnerID,
		IsPrivate: task.IsPrivate,
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/tasks/group_create", body: payload}, nil)
}

func (c *Client) RemoveUser(ctx context.Context, task dashboard.RemoveUserTask) error {
	payload := struct {
		Action    string `json:"action"`
		ChannelID int64  `json:"channel_id"`
		UserID    int64  `json:"user_id"`
	}{
		Action:    "remove_user",
		ChannelID: task.ChannelID,
		UserID:    task.UserID,
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/tasks/remove_user", body: payload}, nil)
}

func (c *Client) CreateInvite(ctx context.Context, req dashboard.InviteRequest) error {
	payload := struct {
		CanalID           int64 `json:"canal_id"`
		ClienteTelegramID int64 `json:"cliente_telegram_id"`
		UserTelegramID    int64 `json:"user_telegram_id"`
		IsPaid            bool  `json:"is_paid"`
	}{
		CanalID:           req.ChannelID,
		ClienteTelegramID: req.ClientTelegramID,
		UserTelegramID:    req.UserTelegramID,
		IsPaid:            req.Paid,
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/tasks/create_invite", body: payload}, nil)
}
