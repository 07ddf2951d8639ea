package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

func (c *Client) ListNotifications(ctx context.Context, q model.NotificationQuery) ([]model.Notification, model.Pagination, error) {
	params := url.Values{}
	if q.Unread {
		params.Set("read", "false")
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var page model.Page[model.Notification]
	if err := c.do(ctx, http.MethodGet, "/notifications", params, nil, &page); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return page.Data, page.Pagination, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) (model.Notification, error) {
	var resp model.Response[model.Notification]
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", id), nil, nil, &resp); err != nil {
		return model.Notification{}, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPatch, "/notifications/read-all", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
