package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"project-service/internal/app"
	"project-service/internal/handler"
	"project-service/internal/storetest"
	"project-service/pkg/config"
	"project-service/pkg/database"
	"project-service/pkg/password"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := storetest.Open(t)
	if err := database.RegisterMetricsCallbacks(db, prometheus.ObserveDBOperation); err != nil {
		t.Fatalf("register callbacks: %v", err)
	}

	cfg := &config.Config{
		ServiceName: "project-service",
		Server:      config.ServerConfig{AllowOrigins: []string{"http://localhost:3000"}},
		JWT:         config.JWTConfig{SigningKey: "test-key", Algorithm: "HS256", ExpirationMinutes: 30},
	}
	e, err := app.New(app.Deps{Config: cfg, DB: db, Logger: zap.NewNop(), Hasher: password.NewHasher(bcrypt.MinCost)})
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return &client{t: t, e: e}
}

func (c *client) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func (c *client) expect(rec *httptest.ResponseRecorder, status int) {
	c.t.Helper()
	if rec.Code != status {
		c.t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// signup registers a user and returns the user and a bearer token
func (c *client) signup(name, tenantDomain string) (handler.UserResponse, string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/register", "", map[string]string{
		"username":      name,
		"email":         name + "@example.com",
		"password":      "secret123",
		"tenant_name":   tenantDomain,
		"tenant_domain": tenantDomain,
	})
	c.expect(rec, http.StatusOK)
	user := decode[handler.UserResponse](c.t, rec)

	form := url.Values{"username": {name + "@example.com"}, "password": {"secret123"}, "grant_type": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	tokenRec := httptest.NewRecorder()
	c.e.ServeHTTP(tokenRec, req)
	c.expect(tokenRec, http.StatusOK)

	token := decode[handler.TokenResponse](c.t, tokenRec)
	if token.TokenType != "bearer" || token.AccessToken == "" {
		c.t.Fatalf("unexpected token response %+v", token)
	}
	return user, token.AccessToken
}

func (c *client) createProject(token, name string) handler.ProjectResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/projects/", token, map[string]string{"name": name})
	c.expect(rec, http.StatusCreated)
	return decode[handler.ProjectResponse](c.t, rec)
}

func TestRegisterLoginAndMe(t *testing.T) {
	c := newClient(t)
	user, token := c.signup("alice", "acme")
	if user.Role != "admin" {
		t.Fatalf("expected first user to be admin, got %s", user.Role)
	}
	if strings.Contains(c.do(http.MethodGet, "/api/users/me", token, nil).Body.String(), "password") {
		t.Fatal("user response must not expose the password hash")
	}

	rec := c.do(http.MethodGet, "/api/users/me", token, nil)
	c.expect(rec, http.StatusOK)
	me := decode[handler.UserResponse](t, rec)
	if me.ID != user.ID || me.TenantID != user.TenantID {
		t.Fatalf("expected %+v, got %+v", user, me)
	}

	rec = c.do(http.MethodPost, "/api/token", "", map[string]string{"username": "alice@example.com", "password": "secret123"})
	c.expect(rec, http.StatusOK)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	c := newClient(t)
	c.signup("alice", "acme")

	wrong := c.do(http.MethodPost, "/api/token", "", map[string]string{"username": "alice@example.com", "password": "wrong123"})
	unknown := c.do(http.MethodPost, "/api/token", "", map[string]string{"username": "bob@example.com", "password": "secret123"})
	c.expect(wrong, http.StatusUnauthorized)
	c.expect(unknown, http.StatusUnauthorized)
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("expected identical bodies, got %q and %q", wrong.Body.String(), unknown.Body.String())
	}

	bad := c.do(http.MethodPost, "/api/token", "", map[string]string{"username": "alice@example.com", "password": "secret123", "grant_type": "client_credentials"})
	c.expect(bad, http.StatusBadRequest)
}

func TestRegisterValidation(t *testing.T) {
	c := newClient(t)
	c.signup("alice", "acme")

	cases := map[string]struct {
		body   interface{}
		status int
	}{
		"malformed json":  {`{"username":`, http.StatusBadRequest},
		"weak password":   {map[string]string{"username": "bob", "email": "bob@example.com", "password": "password", "tenant_name": "A", "tenant_domain": "acme"}, http.StatusUnprocessableEntity},
		"bad slug":        {map[string]string{"username": "bob", "email": "bob@example.com", "password": "secret123", "tenant_name": "A", "tenant_domain": "Not A Slug"}, http.StatusUnprocessableEntity},
		"bad email":       {map[string]string{"username": "bob", "email": "bob", "password": "secret123", "tenant_name": "A", "tenant_domain": "acme"}, http.StatusUnprocessableEntity},
		"duplicate email": {map[string]string{"username": "bob", "email": "alice@example.com", "password": "secret123", "tenant_name": "A", "tenant_domain": "acme"}, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c.expect(c.do(http.MethodPost, "/api/register", "", tc.body), tc.status)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newClient(t)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := c.do(http.MethodGet, "/api/projects/", token, nil)
		c.expect(rec, http.StatusUnauthorized)
		if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
			t.Fatalf("expected WWW-Authenticate header, got %q", rec.Header().Get(echo.HeaderWWWAuthenticate))
		}
	}
}

func TestProjectLifecycleAndTenantIsolation(t *testing.T) {
	c := newClient(t)
	_, alice := c.signup("alice", "acme")
	_, mallory := c.signup("mallory", "evil")

	project := c.createProject(alice, "Website")
	path := "/api/projects/" + project.ID.String()

	c.expect(c.do(http.MethodGet, path, alice, nil), http.StatusOK)
	c.expect(c.do(http.MethodGet, path, mallory, nil), http.StatusNotFound)
	c.expect(c.do(http.MethodPatch, path, mallory, map[string]string{"name": "pwned"}), http.StatusNotFound)
	c.expect(c.do(http.MethodDelete, path, mallory, nil), http.StatusNotFound)
	c.expect(c.do(http.MethodGet, "/api/projects/not-a-uuid", alice, nil), http.StatusNotFound)

	list := decode[[]handler.ProjectResponse](t, c.do(http.MethodGet, "/api/projects", mallory, nil))
	if len(list) != 0 {
		t.Fatalf("expected no projects for other tenant, got %+v", list)
	}

	rec := c.do(http.MethodPatch, path, alice, `{"description":"new"}`)
	c.expect(rec, http.StatusOK)
	updated := decode[handler.ProjectResponse](t, rec)
	if updated.Name != "Website" || updated.Description == nil || *updated.Description != "new" {
		t.Fatalf("expected only description to change, got %+v", updated)
	}
	c.expect(c.do(http.MethodPatch, path, alice, `{"name":null}`), http.StatusUnprocessableEntity)

	rec = c.do(http.MethodDelete, path, alice, nil)
	c.expect(rec, http.StatusOK)
	if status := decode[handler.StatusResponse](t, rec); status.Status != "success" {
		t.Fatalf("unexpected delete response %+v", status)
	}
	c.expect(c.do(http.MethodGet, path, alice, nil), http.StatusNotFound)
}

func TestTaskEndpoints(t *testing.T) {
	c := newClient(t)
	_, alice := c.signup("alice", "acme")
	bob, _ := c.signup("bob", "acme")
	outsider, _ := c.signup("outsider", "globex")
	project := c.createProject(alice, "Website")
	tasksPath := "/api/projects/" + project.ID.String() + "/tasks/"

	c.expect(c.do(http.MethodPost, tasksPath, alice, map[string]interface{}{"title": "t", "assignee_id": outsider.ID}), http.StatusBadRequest)
	c.expect(c.do(http.MethodPost, tasksPath, alice, map[string]interface{}{"title": "t", "status": "blocked"}), http.StatusUnprocessableEntity)

	rec := c.do(http.MethodPost, tasksPath, alice, map[string]interface{}{"title": "write copy", "assignee_id": bob.ID})
	c.expect(rec, http.StatusCreated)
	task := decode[handler.TaskResponse](t, rec)
	if task.Status != "todo" || task.Assignee == nil || task.Assignee.Username != "bob" {
		t.Fatalf("unexpected task %+v", task)
	}
	taskPath := tasksPath + task.ID.String()

	rec = c.do(http.MethodPatch, taskPath, alice, `{"status":"done","assignee_id":null}`)
	c.expect(rec, http.StatusOK)
	task = decode[handler.TaskResponse](t, rec)
	if task.Status != "done" || task.AssigneeID != nil || task.Assignee != nil || task.Title != "write copy" {
		t.Fatalf("unexpected patched task %+v", task)
	}
	c.expect(c.do(http.MethodPatch, taskPath, alice, map[string]interface{}{"assignee_id": outsider.ID}), http.StatusBadRequest)

	done := decode[[]handler.TaskResponse](t, c.do(http.MethodGet, tasksPath+"?status=done", alice, nil))
	todo := decode[[]handler.TaskResponse](t, c.do(http.MethodGet, tasksPath+"?status=todo", alice, nil))
	if len(done) != 1 || len(todo) != 0 {
		t.Fatalf("expected 1 done and 0 todo tasks, got %d and %d", len(done), len(todo))
	}

	c.expect(c.do(http.MethodGet, taskPath, alice, nil), http.StatusOK)
	c.expect(c.do(http.MethodDelete, taskPath, alice, nil), http.StatusOK)
	c.expect(c.do(http.MethodDelete, taskPath, alice, nil), http.StatusNotFound)
}

func TestProjectMemberEndpoints(t *testing.T) {
	c := newClient(t)
	alice, aliceToken := c.signup("alice", "acme")
	bob, bobToken := c.signup("bob", "acme")
	outsider, _ := c.signup("outsider", "globex")
	project := c.createProject(aliceToken, "Website")
	usersPath := "/api/projects/" + project.ID.String() + "/users"

	rec := c.do(http.MethodPost, usersPath, aliceToken, map[string]interface{}{"user_id": bob.ID})
	c.expect(rec, http.StatusCreated)
	if member := decode[handler.ProjectUserResponse](t, rec); member.Role != "member" || member.TenantRole != "user" {
		t.Fatalf("unexpected member %+v", member)
	}

	c.expect(c.do(http.MethodPost, usersPath, aliceToken, map[string]interface{}{"user_id": bob.ID}), http.StatusConflict)
	c.expect(c.do(http.MethodPost, usersPath, aliceToken, map[string]interface{}{"user_id": outsider.ID}), http.StatusNotFound)
	c.expect(c.do(http.MethodPost, usersPath, bobToken, map[string]interface{}{"user_id": alice.ID}), http.StatusForbidden)
	c.expect(c.do(http.MethodPost, usersPath, aliceToken, map[string]interface{}{}), http.StatusUnprocessableEntity)

	members := decode[[]handler.ProjectUserResponse](t, c.do(http.MethodGet, usersPath, aliceToken, nil))
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %+v", members)
	}

	mine := decode[[]handler.ProjectResponse](t, c.do(http.MethodGet, "/api/users/me/projects", bobToken, nil))
	if len(mine) != 1 || mine[0].ID != project.ID {
		t.Fatalf("expected bob's project, got %+v", mine)
	}

	c.expect(c.do(http.MethodDelete, usersPath+"/"+alice.ID.String(), aliceToken, nil), http.StatusUnprocessableEntity)
	c.expect(c.do(http.MethodDelete, usersPath+"/"+bob.ID.String(), aliceToken, nil), http.StatusOK)
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	c.expect(c.do(http.MethodGet, "/health", "", nil), http.StatusOK)
	c.signup("alice", "acme")

	rec := c.do(http.MethodGet, "/metrics", "", nil)
	c.expect(rec, http.StatusOK)
	for _, name := range []string{"project_http_requests_total", "project_db_operation_duration_seconds", "project_registrations_total"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}

	if rec := c.do(http.MethodGet, "/health", "", nil); rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected a request id on every response")
	}
}

func TestLengthLimitsApplyToCreateAndPatch(t *testing.T) {
	c := newClient(t)
	_, token := c.signup("alice", "acme")
	longName := strings.Repeat("n", 150)
	longTitle := strings.Repeat("t", 250)

	c.expect(c.do(http.MethodPost, "/api/projects", token, map[string]string{"name": longName}), http.StatusUnprocessableEntity)
	project := c.createProject(token, "Website")
	projectPath := "/api/projects/" + project.ID.String()
	c.expect(c.do(http.MethodPatch, projectPath, token, map[string]string{"name": longName}), http.StatusUnprocessableEntity)

	tasksPath := projectPath + "/tasks"
	c.expect(c.do(http.MethodPost, tasksPath, token, map[string]string{"title": longTitle}), http.StatusUnprocessableEntity)
	rec := c.do(http.MethodPost, tasksPath, token, map[string]string{"title": "short"})
	c.expect(rec, http.StatusCreated)
	task := decode[handler.TaskResponse](t, rec)
	c.expect(c.do(http.MethodPatch, tasksPath+"/"+task.ID.String(), token, map[string]string{"title": longTitle}), http.StatusUnprocessableEntity)

	got := decode[handler.ProjectResponse](t, c.do(http.MethodGet, projectPath, token, nil))
	if got.Name != "Website" {
		t.Fatalf("expected rejected patch to leave the name alone, got %q", got.Name)
	}
}

func TestSwaggerUIAndDocument(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/swagger", "/swagger/"} {
		rec := c.do(http.MethodGet, path, "", nil)
		c.expect(rec, http.StatusMovedPermanently)
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/swagger/index.html" {
			t.Fatalf("expected redirect to the UI from %s, got %q", path, loc)
		}
	}

	rec := c.do(http.MethodGet, "/swagger/doc.json", "", nil)
	c.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "/api/projects/{id}/tasks/{task_id}") {
		t.Fatalf("expected task routes in the document, got %s", rec.Body.String())
	}
}
