package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-kanban/internal/ui"
)

const boardTasks = `{"success":true,"message":"ok","data":[
	{"id":1,"title":"write docs","status":"TODO","priority":"HIGH"},
	{"id":2,"title":"fix bug","status":"TODO","priority":"LOW"},
	{"id":3,"title":"ship","status":"DONE","priority":"MEDIUM","assignee":{"id":4,"email":"ana@example.com","name":"Ana"}}
],"pagination":{"limit":100,"page":1,"total":3,"totalPages":1}}`

type fakeAPI struct {
	mu           sync.Mutex
	statusCode   int // answer to PUT task, default 200
	updates      []map[string]any
	unauthorized bool
	writes       []write
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, code int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, `{"success":true,"data":[{"id":7,"name":"Website","status":"ACTIVE"}],"pagination":{"page":1,"totalPages":1,"total":1}}`)
	})
	mux.HandleFunc("GET /projects/7/tasks", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, boardTasks)
	})
	mux.HandleFunc("PUT /projects/7/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(b, &body))
		f.mu.Lock()
		f.updates = append(f.updates, body)
		code := f.statusCode
		f.mu.Unlock()
		if code == 0 {
			code = 200
		}
		if code != 200 {
			reply(w, code, `{"success":false,"message":"transition not allowed"}`)
			return
		}
		reply(w, 200, `{"success":true,"data":{"id":1}}`)
	})
	mux.HandleFunc("GET /projects/7/members", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, `{"success":true,"data":[{"id":4,"email":"ana@example.com","name":"Ana","role":"USER","isActive":true}],"pagination":{"page":1,"totalPages":1,"total":1}}`)
	})
	mux.HandleFunc("POST /projects/7/members", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		reply(w, 201, `{"success":true,"data":{"id":5,"email":"bo@example.com"}}`)
	})
	mux.HandleFunc("DELETE /projects/7/members/{user}", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		reply(w, 200, `{"success":true,"data":null}`)
	})
	mux.HandleFunc("PATCH /users/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		reply(w, 200, `{"success":true,"data":{"id":4,"role":"ADMIN"}}`)
	})
	mux.HandleFunc("DELETE /users/{id}/deactivate", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		reply(w, 200, `{"success":true}`)
	})
	mux.HandleFunc("PATCH /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		reply(w, 200, `{"success":true,"data":{"id":4}}`)
	})
	mux.HandleFunc("POST /projects/7/tasks", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 201, `{"success":true,"data":{"id":42,"title":"new","status":"TODO"}}`)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.unauthorized || r.Header.Get("Authorization") != "Bearer tok" {
			reply(w, 401, `{"success":false,"message":"Unauthorized"}`)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// record keeps the method, path and body of a write request.
func (f *fakeAPI) record(t *testing.T, r *http.Request) {
	body := map[string]any{}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		assert.NoError(t, sonic.Unmarshal(b, &body))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, write{r.Method + " " + r.URL.Path, body})
}

type write struct {
	route string
	body  map[string]any
}

type result struct {
	code     int
	out, err string
}

// run executes tada with a private home dir against the fake API.
func run(t *testing.T, api *fakeAPI, stdin string, args ...string) result {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return runWith(t, &app{dir: dirFor(t), in: strings.NewReader(stdin)}, srv.URL, args...)
}

var dirs sync.Map

// dirFor gives each test one home dir across several runs.
func dirFor(t *testing.T) string {
	if d, ok := dirs.Load(t.Name()); ok {
		return d.(string)
	}
	d := t.TempDir()
	dirs.Store(t.Name(), d)
	return d
}

func runWith(t *testing.T, a *app, apiURL string, args ...string) result {
	t.Helper()
	t.Setenv("TADA_API_URL", apiURL)
	if _, ok := os.LookupEnv("TADA_TOKEN"); !ok {
		t.Setenv("TADA_TOKEN", "tok")
	}

	var out, errb bytes.Buffer
	prevOut, prevErr := ui.Out, ui.Err
	ui.Out, ui.Err = &out, &errb
	t.Cleanup(func() { ui.Out, ui.Err = prevOut, prevErr })

	code := a.run(context.Background(), args)
	return result{code: code, out: out.String(), err: errb.String()}
}

func TestTasksMove_Success(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "tasks", "move", "7", "1", "--to", "done")

	assert.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "Task status updated")
	require.Len(t, api.updates, 1)
	assert.Equal(t, map[string]any{"status": "DONE"}, api.updates[0])
}

func TestTasksMove_Refused(t *testing.T) {
	api := &fakeAPI{statusCode: http.StatusConflict}

	res := run(t, api, "", "tasks", "move", "7", "1", "--to", "REVIEW")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "Failed to update task status")
	assert.Contains(t, res.err, "transition not allowed")
}

func TestTasksMove_Before(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "tasks", "move", "7", "1", "--to", "DONE", "--before", "3")
	assert.Equal(t, 0, res.code, res.err)

	res = run(t, api, "", "tasks", "move", "7", "2", "--to", "REVIEW", "--before", "3")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.err, "task 3 is in DONE")
}

func TestTasksMove_SameColumn(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "tasks", "move", "7", "2", "--to", "todo")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "already in To Do")
	assert.Empty(t, api.updates)
}

func TestTasksMove_NotFound(t *testing.T) {
	res := run(t, &fakeAPI{}, "", "tasks", "move", "7", "99", "--to", "DONE")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "task 99 not found in project 7")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown status", []string{"tasks", "move", "7", "1", "--to", "LATER"}},
		{"missing --to", []string{"tasks", "move", "7", "1"}},
		{"bad id", []string{"tasks", "show", "seven", "1"}},
		{"missing args", []string{"tasks", "rm", "7"}},
		{"unknown flag", []string{"tasks", "ls", "7", "--nope"}},
		{"unknown command", []string{"frobnicate"}},
		{"bad priority", []string{"tasks", "add", "7", "x", "--priority", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, &fakeAPI{}, "", tt.args...)
			assert.Equal(t, 2, res.code, res.err)
		})
	}
}

func TestTasksLs(t *testing.T) {
	res := run(t, &fakeAPI{}, "", "tasks", "ls", "7")

	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "write docs")
	assert.Contains(t, res.out, "@Ana")
	assert.Equal(t, 3, strings.Count(res.out, "\n"))
}

func TestTasksAdd(t *testing.T) {
	res := run(t, &fakeAPI{}, "", "tasks", "add", "7", "buy", "milk", "-p", "high")

	assert.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "added #42")
}

func TestProjectsLs(t *testing.T) {
	res := run(t, &fakeAPI{}, "", "projects", "ls")

	assert.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "Website")
}

func TestUnauthorized(t *testing.T) {
	res := run(t, &fakeAPI{unauthorized: true}, "", "projects", "ls")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "HTTP error 401")
	assert.Contains(t, res.err, "tada auth login")
}

func TestAuthLoginStatusLogout(t *testing.T) {
	t.Setenv("TADA_TOKEN", "")
	api := &fakeAPI{}

	res := run(t, api, "", "auth", "status")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.out, "not logged in")

	res = run(t, api, "Bearer tok\n", "auth", "login")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "logged in")
	assert.FileExists(t, filepath.Join(dirFor(t), "credentials.json"))

	res = run(t, api, "", "auth", "status")
	assert.Contains(t, res.out, "source: file")

	res = run(t, api, "", "auth", "whoami")
	assert.Contains(t, res.out, "Opaque token")

	res = run(t, api, "", "projects", "ls")
	assert.Equal(t, 0, res.code, res.err)

	res = run(t, api, "", "auth", "logout")
	assert.Equal(t, 0, res.code)
	assert.NoFileExists(t, filepath.Join(dirFor(t), "credentials.json"))
}

func TestConfigShowAndInit(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "config", "show")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "api_url: http://127.0.0.1")
	assert.NotContains(t, res.out, "tok")

	res = run(t, api, "", "config", "init")
	require.Equal(t, 0, res.code, res.err)
	assert.FileExists(t, filepath.Join(dirFor(t), "config.yaml"))

	res = run(t, api, "", "config", "init")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.err, "already exists")
}

func TestBoard_NeedsProject(t *testing.T) {
	res := run(t, &fakeAPI{}, "", "board")

	assert.Equal(t, 2, res.code)
}

func TestMembers(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "members", "ls", "7")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "Ana")
	assert.Contains(t, res.out, "ana@example.com")

	res = run(t, api, "", "members", "add", "7", "5", "--role", "MEMBER")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "bo@example.com added to project 7")

	res = run(t, api, "", "members", "rm", "7", "5")
	require.Equal(t, 0, res.code, res.err)

	require.Len(t, api.writes, 2)
	assert.Equal(t, write{"POST /projects/7/members", map[string]any{"userId": float64(5), "role": "MEMBER"}}, api.writes[0])
	assert.Equal(t, "DELETE /projects/7/members/5", api.writes[1].route)
}

func TestUsersAdmin(t *testing.T) {
	api := &fakeAPI{}

	res := run(t, api, "", "users", "role", "4", "admin")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "user 4 is now ADMIN")

	res = run(t, api, "", "users", "update", "4", "--name", "Ana B")
	require.Equal(t, 0, res.code, res.err)

	res = run(t, api, "", "users", "deactivate", "4")
	require.Equal(t, 0, res.code, res.err)
	assert.Contains(t, res.out, "user 4 deactivated")

	require.Len(t, api.writes, 3)
	assert.Equal(t, write{"PATCH /users/4/role", map[string]any{"role": "ADMIN"}}, api.writes[0])
	assert.Equal(t, write{"PATCH /users/4", map[string]any{"name": "Ana B"}}, api.writes[1])
	assert.Equal(t, "DELETE /users/4/deactivate", api.writes[2].route)

	for _, args := range [][]string{
		{"users", "role", "4", "owner"},
		{"users", "update", "4"},
		{"members", "add", "7"},
	} {
		res = run(t, api, "", args...)
		assert.Equal(t, 2, res.code, args)
	}
}
