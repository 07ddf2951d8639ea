package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

func membersPath(projectID int) string { return fmt.Sprintf("/projects/%d/members", projectID) }

// ListMembers returns the users of a project; these are the valid assignees.
func (c *Client) ListMembers(ctx context.Context, projectID int) ([]model.User, model.Pagination, error) {
	var page model.Page[model.User]
	if err := c.do(ctx, http.MethodGet, membersPath(projectID), nil, nil, &page); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list members: %w", err)
	}
	return page.Data, page.Pagination, nil
}

func (c *Client) AddMember(ctx context.Context, projectID int, m model.NewMember) (model.User, error) {
	var resp model.Response[model.User]
	if err := c.do(ctx, http.MethodPost, membersPath(projectID), nil, m, &resp); err != nil {
		return model.User{}, fmt.Errorf("failed to add member: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) RemoveMember(ctx context.Context, projectID, userID int) error {
	path := fmt.Sprintf("%s/%d", membersPath(projectID), userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
