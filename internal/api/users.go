package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

func userPath(id int) string { return fmt.Sprintf("/users/%d", id) }

// ListUsers returns one page of accounts. Admin only on the server side.
func (c *Client) ListUsers(ctx context.Context, page, limit int) ([]model.User, model.Pagination, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp model.Page[model.User]
	if err := c.do(ctx, http.MethodGet, "/users", params, nil, &resp); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return resp.Data, resp.Pagination, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (model.User, error) {
	var resp model.Response[model.User]
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &resp); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, u model.UserUpdate) (model.User, error) {
	var resp model.Response[model.User]
	if err := c.do(ctx, http.MethodPatch, userPath(id), nil, u, &resp); err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) ChangeRole(ctx context.Context, id int, role model.UserRole) (model.User, error) {
	body := map[string]model.UserRole{"role": role}
	var resp model.Response[model.User]
	if err := c.do(ctx, http.MethodPatch, userPath(id)+"/role", nil, body, &resp); err != nil {
		return model.User{}, fmt.Errorf("failed to change role: %w", err)
	}
	return resp.Data, nil
}

// DeactivateUser blocks an account from signing in.
func (c *Client) DeactivateUser(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, userPath(id)+"/deactivate", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

func (c *Client) ActivateUser(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodPatch, userPath(id)+"/activate", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	return nil
}
