package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-kanban/internal/model"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type recorded struct {
	method, path, query, auth, reqID string
	body                             map[string]any
}

// newServer answers every request with status and body and records what it saw.
func newServer(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get("X-Request-ID"),
		}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			assert.NoError(t, sonic.Unmarshal(b, &rec.body))
		}
		seen = append(seen, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithTokenSource(staticToken("tok"))), &seen
}

func TestChangeStatus(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"success":true,"message":"ok","data":{"id":5,"status":"DONE"}}`)

	err := c.ChangeStatus(context.Background(), 3, 5, model.StatusDone)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/projects/3/tasks/5", got.path)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.NotEmpty(t, got.reqID)
	assert.Equal(t, map[string]any{"status": "DONE"}, got.body)
}

func TestChangeStatus_ServerError(t *testing.T) {
	c, _ := newServer(t, http.StatusBadRequest, `{"success":false,"message":"invalid transition"}`)

	err := c.ChangeStatus(context.Background(), 3, 5, model.StatusDone)

	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid transition", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestErrors_StatusTextFallback(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, `<html>nope</html>`)

	_, err := c.GetTask(context.Background(), 1, 2)

	assert.True(t, IsNotFound(err))
	assert.ErrorContains(t, err, "HTTP error 404: Not Found")
}

func TestErrors_UnsuccessfulEnvelope(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"success":false,"message":"not a member"}`)

	err := c.DeleteTask(context.Background(), 1, 2)

	assert.ErrorContains(t, err, "not a member")
}

func TestErrors_Unauthorized(t *testing.T) {
	c, _ := newServer(t, http.StatusUnauthorized, `{"message":"jwt expired"}`)
	_, _, err := c.ListProjects(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
}

func TestTokenSourceError(t *testing.T) {
	want := errors.New("logged out")
	c := New("http://127.0.0.1:1", WithTokenSource(tokenFunc(func() (string, error) { return "", want })))

	_, _, err := c.ListProjects(context.Background())

	assert.ErrorIs(t, err, want)
}

type tokenFunc func() (string, error)

func (f tokenFunc) Token(context.Context) (string, error) { return f() }

func TestListTasks_Query(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{
		"success": true, "message": "",
		"data": [{"id": 1, "title": "a", "status": "TODO", "priority": "HIGH",
		          "assignee": {"id": 9, "email": "x@example.com", "name": "Xena"}}],
		"pagination": {"limit": 10, "page": 1, "total": 1, "totalPages": 1}
	}`)

	tasks, pg, err := c.ListTasks(context.Background(), 4, model.TaskQuery{
		Status:     model.StatusTodo,
		Priority:   model.PriorityHigh,
		AssigneeID: 9,
	})
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "Xena", tasks[0].AssigneeName())
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, 1, pg.TotalPages)
	assert.Equal(t, "assigneeId=9&priority=HIGH&status=TODO", (*seen)[0].query)
}

func TestAllTasks_Pages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":1,"status":"TODO"},{"id":2,"status":"DONE"}],"pagination":{"page":1,"totalPages":2}}`)
		case "2":
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":3,"status":"REVIEW"}],"pagination":{"page":2,"totalPages":2}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	tasks, err := New(srv.URL).AllTasks(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, 3, tasks[2].ID)
}

func TestCreateAssignAndComments(t *testing.T) {
	c, seen := newServer(t, http.StatusCreated, `{"success":true,"data":{"id":11,"title":"new","content":"hi"}}`)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, 2, model.NewTask{Title: "new", Priority: model.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)

	_, err = c.AssignTask(ctx, 2, 11, 4)
	require.NoError(t, err)

	cm, err := c.AddComment(ctx, 2, 11, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", cm.Content)

	require.NoError(t, c.DeleteComment(ctx, 2, 11, 8))

	require.Len(t, *seen, 4)
	assert.Equal(t, map[string]any{"title": "new", "priority": "LOW"}, (*seen)[0].body)
	assert.Equal(t, "/projects/2/tasks/11/assignee", (*seen)[1].path)
	assert.Equal(t, map[string]any{"assigneeId": float64(4)}, (*seen)[1].body)
	assert.Equal(t, "/projects/2/tasks/11/comments", (*seen)[2].path)
	assert.Equal(t, http.MethodDelete, (*seen)[3].method)
	assert.Equal(t, "/projects/2/tasks/11/comments/8", (*seen)[3].path)
}

func TestNotifications(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"success":true,"data":[{"id":1,"type":"TASK_ASSIGNED","title":"t","userNotifications":[{"isRead":false}]}],"pagination":{"page":1,"totalPages":1}}`)
	ctx := context.Background()

	ns, _, err := c.ListNotifications(ctx, model.NotificationQuery{Unread: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.False(t, ns[0].Read())

	require.NoError(t, c.MarkAllNotificationsRead(ctx))

	assert.Equal(t, "limit=5&read=false", (*seen)[0].query)
	assert.Equal(t, http.MethodPatch, (*seen)[1].method)
	assert.Equal(t, "/notifications/read-all", (*seen)[1].path)
}

func TestMembers(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"success":true,"data":[{"id":4,"email":"ana@example.com","name":"Ana"}],"pagination":{"page":1,"totalPages":1,"total":1}}`)
	ctx := context.Background()

	members, _, err := c.ListMembers(ctx, 7)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Ana", members[0].DisplayName())

	_, err = c.AddMember(ctx, 7, model.NewMember{UserID: 4, Role: "MEMBER"})
	require.NoError(t, err)
	require.NoError(t, c.RemoveMember(ctx, 7, 4))

	require.Len(t, *seen, 3)
	assert.Equal(t, "/projects/7/members", (*seen)[0].path)
	assert.Equal(t, http.MethodPost, (*seen)[1].method)
	assert.Equal(t, map[string]any{"userId": float64(4), "role": "MEMBER"}, (*seen)[1].body)
	assert.Equal(t, http.MethodDelete, (*seen)[2].method)
	assert.Equal(t, "/projects/7/members/4", (*seen)[2].path)
}

func TestUsers(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"success":true,"data":{"id":4,"email":"ana@example.com","role":"ADMIN","isActive":true}}`)
	ctx := context.Background()

	u, err := c.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	name := "Ana"
	_, err = c.UpdateUser(ctx, 4, model.UserUpdate{Name: &name})
	require.NoError(t, err)
	u, err = c.ChangeRole(ctx, 4, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	require.NoError(t, c.DeactivateUser(ctx, 4))
	require.NoError(t, c.ActivateUser(ctx, 4))

	require.Len(t, *seen, 5)
	assert.Equal(t, "/users/4", (*seen)[0].path)
	assert.Equal(t, http.MethodPatch, (*seen)[1].method)
	assert.Equal(t, map[string]any{"name": "Ana"}, (*seen)[1].body)
	assert.Equal(t, "/users/4/role", (*seen)[2].path)
	assert.Equal(t, map[string]any{"role": "ADMIN"}, (*seen)[2].body)
	assert.Equal(t, http.MethodDelete, (*seen)[3].method)
	assert.Equal(t, "/users/4/deactivate", (*seen)[3].path)
	assert.Equal(t, http.MethodPatch, (*seen)[4].method)
	assert.Equal(t, "/users/4/activate", (*seen)[4].path)
}

func TestListUsers_Query(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"success":true,"data":[],"pagination":{"page":2,"totalPages":2}}`)

	_, pg, err := c.ListUsers(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, "limit=10&page=2", (*seen)[0].query)
}
