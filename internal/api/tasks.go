package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

// pageSize is the page size AllTasks asks for.
const pageSize = 100

func tasksPath(projectID int) string { return fmt.Sprintf("/projects/%d/tasks", projectID) }

func taskPath(projectID, taskID int) string {
	return fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID)
}

// ListTasks returns one page of a project's tasks.
func (c *Client) ListTasks(ctx context.Context, projectID int, q model.TaskQuery) ([]model.Task, model.Pagination, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.Priority != "" {
		params.Set("priority", string(q.Priority))
	}
	if q.AssigneeID != 0 {
		params.Set("assigneeId", strconv.Itoa(q.AssigneeID))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var page model.Page[model.Task]
	if err := c.do(ctx, http.MethodGet, tasksPath(projectID), params, nil, &page); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return page.Data, page.Pagination, nil
}

// AllTasks walks every page of a project's tasks.
func (c *Client) AllTasks(ctx context.Context, projectID int) ([]model.Task, error) {
	var all []model.Task
	for p := 1; ; p++ {
		tasks, pg, err := c.ListTasks(ctx, projectID, model.TaskQuery{Page: p, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
		if len(tasks) == 0 || p >= pg.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) GetTask(ctx context.Context, projectID, taskID int) (model.Task, error) {
	var resp model.Response[model.Task]
	if err := c.do(ctx, http.MethodGet, taskPath(projectID, taskID), nil, nil, &resp); err != nil {
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) CreateTask(ctx context.Context, projectID int, t model.NewTask) (model.Task, error) {
	var resp model.Response[model.Task]
	if err := c.do(ctx, http.MethodPost, tasksPath(projectID), nil, t, &resp); err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) UpdateTask(ctx context.Context, projectID, taskID int, u model.TaskUpdate) (model.Task, error) {
	var resp model.Response[model.Task]
	if err := c.do(ctx, http.MethodPut, taskPath(projectID, taskID), nil, u, &resp); err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) DeleteTask(ctx context.Context, projectID, taskID int) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(projectID, taskID), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (c *Client) AssignTask(ctx context.Context, projectID, taskID, assigneeID int) (model.Task, error) {
	body := map[string]int{"assigneeId": assigneeID}
	var resp model.Response[model.Task]
	if err := c.do(ctx, http.MethodPut, taskPath(projectID, taskID)+"/assignee", nil, body, &resp); err != nil {
		return model.Task{}, fmt.Errorf("failed to assign task: %w", err)
	}
	return resp.Data, nil
}

// ChangeStatus moves a task to another status. Only success or failure
// matters; the returned task is not read.
func (c *Client) ChangeStatus(ctx context.Context, projectID, taskID int, status model.Status) error {
	body := model.TaskUpdate{Status: &status}
	if err := c.do(ctx, http.MethodPut, taskPath(projectID, taskID), nil, body, nil); err != nil {
		return fmt.Errorf("failed to change task status: %w", err)
	}
	return nil
}
