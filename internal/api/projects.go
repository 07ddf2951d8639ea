package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, model.Pagination, error) {
	var page model.Page[model.Project]
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &page); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list projects: %w", err)
	}
	return page.Data, page.Pagination, nil
}
