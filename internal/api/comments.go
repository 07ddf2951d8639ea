package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

func (c *Client) AddComment(ctx context.Context, projectID, taskID int, content string) (model.Comment, error) {
	body := map[string]string{"content": content}
	var resp model.Response[model.Comment]
	if err := c.do(ctx, http.MethodPost, taskPath(projectID, taskID)+"/comments", nil, body, &resp); err != nil {
		return model.Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) DeleteComment(ctx context.Context, projectID, taskID, commentID int) error {
	path := fmt.Sprintf("%s/comments/%d", taskPath(projectID, taskID), commentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
