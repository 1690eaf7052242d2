package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/crmdesk/internal/testserver"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, ts *testserver.TestServer, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	return out
}

type idResponse struct {
	ID string `json:"id"`
}

func TestHealth(t *testing.T) {
	ts := testserver.New(t)
	status, body := do(t, ts, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := testserver.New(t)
	do(t, ts, http.MethodGet, "/health", "", nil)

	status, body := do(t, ts, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "crmdesk_http_requests_total")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := testserver.New(t)

	status, body := do(t, ts, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":      "Jane@Example.com",
		"password":   "password123",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	registered := decodeBody[map[string]any](t, body)
	require.NotEmpty(t, registered["access_token"])
	require.Equal(t, "bearer", registered["token_type"])
	require.NotContains(t, string(body), "password")

	status, _ = do(t, ts, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":      "jane@example.com",
		"password":   "password123",
		"first_name": "Jane",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusConflict, status)

	status, _ = do(t, ts, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "jane@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, ts, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	login := decodeBody[map[string]any](t, body)
	token, _ := login["access_token"].(string)
	require.NotEmpty(t, token)

	status, body = do(t, ts, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := decodeBody[map[string]any](t, body)
	require.Equal(t, "jane@example.com", me["email"])
	require.Equal(t, "light", me["theme_preference"])
}

func TestAuthRequired(t *testing.T) {
	ts := testserver.New(t)

	status, body := do(t, ts, http.MethodGet, "/api/clients", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, string(body), "error")

	status, _ = do(t, ts, http.MethodGet, "/api/clients", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginRateLimited(t *testing.T) {
	ts := testserver.NewWithOptions(t, testserver.Options{LoginRatePerMinute: 2})
	ts.CreateUser(t, "jane@example.com")

	creds := map[string]any{"email": "jane@example.com", "password": "password123"}
	for i := 0; i < 2; i++ {
		status, _ := do(t, ts, http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := do(t, ts, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusTooManyRequests, status)

	// Forwarded headers are ignored unless the server trusts a proxy.
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/auth/login", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestClientProjectInteractionScenario(t *testing.T) {
	ts := testserver.New(t)
	_, token := ts.CreateUser(t, "owner@example.com")

	status, body := do(t, ts, http.MethodPost, "/api/clients", token, map[string]any{
		"name":    "Acme",
		"email":   "ops@acme.test",
		"phone":   "555-0100",
		"company": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	clientID := decodeBody[idResponse](t, body).ID

	deadline := time.Now().UTC().AddDate(0, 1, 0).Format(time.DateOnly)
	status, body = do(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
		"client_id": clientID,
		"title":     "Website",
		"budget":    5000,
		"deadline":  deadline,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	proj := decodeBody[map[string]any](t, body)
	projectID, _ := proj["id"].(string)
	require.Equal(t, "pending", proj["status"])

	status, body = do(t, ts, http.MethodPost, "/api/interactions", token, map[string]any{
		"date":       time.Now().UTC().Format(time.RFC3339),
		"type":       "meeting",
		"notes":      "kickoff",
		"client_id":  clientID,
		"project_id": projectID,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = do(t, ts, http.MethodGet, "/api/clients", token, nil)
	require.Equal(t, http.StatusOK, status)
	clients := decodeBody[[]map[string]any](t, body)
	require.Len(t, clients, 1)
	require.EqualValues(t, 1, clients[0]["project_count"])
	require.EqualValues(t, 1, clients[0]["interaction_count"])

	status, body = do(t, ts, http.MethodGet, "/api/projects?client_id="+clientID, token, nil)
	require.Equal(t, http.StatusOK, status)
	projects := decodeBody[[]map[string]any](t, body)
	require.Len(t, projects, 1)
	embedded, _ := projects[0]["client"].(map[string]any)
	require.Equal(t, "Acme", embedded["name"])

	status, body = do(t, ts, http.MethodGet, "/api/interactions/project/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decodeBody[[]map[string]any](t, body), 1)

	status, body = do(t, ts, http.MethodGet, "/api/projects/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decodeBody[map[string]int](t, body)
	require.Equal(t, 1, stats["total"])
	require.Equal(t, 1, stats["pending"])

	status, body = do(t, ts, http.MethodDelete, "/api/clients/"+clientID, token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	result := decodeBody[map[string]any](t, body)
	require.EqualValues(t, 1, result["projects_deleted"])
	require.EqualValues(t, 1, result["interactions_deleted"])

	status, _ = do(t, ts, http.MethodGet, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusNotFound, status)
	status, body = do(t, ts, http.MethodGet, "/api/interactions", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decodeBody[[]map[string]any](t, body))
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	ts := testserver.New(t)
	_, ownerToken := ts.CreateUser(t, "owner@example.com")
	_, otherToken := ts.CreateUser(t, "other@example.com")

	status, body := do(t, ts, http.MethodPost, "/api/clients", ownerToken, map[string]any{
		"name": "Acme", "email": "ops@acme.test", "phone": "555-0100",
	})
	require.Equal(t, http.StatusCreated, status)
	clientID := decodeBody[idResponse](t, body).ID

	status, _ = do(t, ts, http.MethodGet, "/api/clients/"+clientID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodPut, "/api/clients/"+clientID, otherToken, map[string]any{"name": "Mine"})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodDelete, "/api/clients/"+clientID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodPost, "/api/projects", otherToken, map[string]any{
		"client_id": clientID, "title": "Sneaky", "deadline": "2030-01-01",
	})
	require.Equal(t, http.StatusNotFound, status)

	status, body = do(t, ts, http.MethodGet, "/api/clients", otherToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decodeBody[[]map[string]any](t, body))

	status, _ = do(t, ts, http.MethodGet, "/api/clients/"+clientID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestValidationErrors(t *testing.T) {
	ts := testserver.New(t)
	_, token := ts.CreateUser(t, "owner@example.com")

	status, _ := do(t, ts, http.MethodPost, "/api/clients", token, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/api/clients", token, map[string]any{
		"name": "Acme", "email": "ops@acme.test", "phone": "555", "unknown": true,
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/api/reminders", token, map[string]any{
		"title": "x", "due_date": "someday",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRemindersSyncAndWeek(t *testing.T) {
	ts := testserver.New(t)
	_, token := ts.CreateUser(t, "owner@example.com")

	status, body := do(t, ts, http.MethodPost, "/api/clients", token, map[string]any{
		"name": "Acme", "email": "ops@acme.test", "phone": "555-0100",
	})
	require.Equal(t, http.StatusCreated, status)
	clientID := decodeBody[idResponse](t, body).ID

	now := time.Now().UTC()
	status, body = do(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
		"client_id": clientID,
		"title":     "Launch",
		"deadline":  now.Add(10 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	status, _ = do(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
		"client_id": clientID,
		"title":     "Audit",
		"deadline":  now.Add(2 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = do(t, ts, http.MethodPost, "/api/reminders", token, map[string]any{
		"title":    "Send invoice",
		"due_date": now.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = do(t, ts, http.MethodPost, "/api/reminders/sync-project-deadlines", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	first := decodeBody[map[string]any](t, body)
	require.EqualValues(t, 2, first["created"])

	status, body = do(t, ts, http.MethodPost, "/api/reminders/sync-project-deadlines", token, nil)
	require.Equal(t, http.StatusOK, status)
	second := decodeBody[map[string]any](t, body)
	require.EqualValues(t, 0, second["created"])
	require.EqualValues(t, 2, second["unchanged"])

	status, body = do(t, ts, http.MethodGet, "/api/reminders", token, nil)
	require.Equal(t, http.StatusOK, status)
	reminders := decodeBody[[]map[string]any](t, body)
	require.Len(t, reminders, 3)
	var automatic int
	for _, r := range reminders {
		if r["type"] == "automatic" {
			automatic++
			require.True(t, strings.HasPrefix(r["title"].(string), "Project Deadline: "))
		}
	}
	require.Equal(t, 2, automatic)

	status, body = do(t, ts, http.MethodGet, "/api/reminders/week", token, nil)
	require.Equal(t, http.StatusOK, status)
	week := decodeBody[[]map[string]any](t, body)
	require.Len(t, week, 2)
	require.Equal(t, "Send invoice", week[0]["title"])
	require.Equal(t, false, week[0]["virtual"])
	require.Equal(t, "Project Deadline: Audit", week[1]["title"])
	require.Equal(t, "project_deadline", week[1]["type"])
	require.Equal(t, true, week[1]["virtual"])
}

func TestAutomaticReminderStaysWithProject(t *testing.T) {
	ts := testserver.New(t)
	_, token := ts.CreateUser(t, "owner@example.com")

	createClient := func(name string) string {
		status, body := do(t, ts, http.MethodPost, "/api/clients", token, map[string]any{
			"name": name, "email": "ops@" + strings.ToLower(name) + ".test", "phone": "555-0100",
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		return decodeBody[idResponse](t, body).ID
	}
	acme, globex := createClient("Acme"), createClient("Globex")

	now := time.Now().UTC()
	createProject := func(title string, days int) string {
		status, body := do(t, ts, http.MethodPost, "/api/projects", token, map[string]any{
			"client_id": acme,
			"title":     title,
			"deadline":  now.Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		return decodeBody[idResponse](t, body).ID
	}
	a, b := createProject("A", 10), createProject("B", 12)

	status, _ := do(t, ts, http.MethodPost, "/api/reminders/sync-project-deadlines", token, nil)
	require.Equal(t, http.StatusOK, status)

	automatic := func() map[string][]map[string]any {
		status, body := do(t, ts, http.MethodGet, "/api/reminders", token, nil)
		require.Equal(t, http.StatusOK, status)
		byProject := map[string][]map[string]any{}
		for _, r := range decodeBody[[]map[string]any](t, body) {
			if r["type"] == "automatic" {
				pid, _ := r["project_id"].(string)
				byProject[pid] = append(byProject[pid], r)
			}
		}
		return byProject
	}
	autoA, _ := automatic()[a][0]["id"].(string)
	require.NotEmpty(t, autoA)

	status, body := do(t, ts, http.MethodPatch, "/api/reminders/"+autoA, token, map[string]any{"project_id": b})
	require.Equal(t, http.StatusBadRequest, status, string(body))
	status, _ = do(t, ts, http.MethodPatch, "/api/reminders/"+autoA, token, map[string]any{"client_id": globex})
	require.Equal(t, http.StatusBadRequest, status)

	// Moving the project follows through to its reminder on the next sync.
	status, body = do(t, ts, http.MethodPatch, "/api/projects/"+a, token, map[string]any{"client_id": globex})
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = do(t, ts, http.MethodPost, "/api/reminders/sync-project-deadlines", token, nil)
	require.Equal(t, http.StatusOK, status)
	result := decodeBody[map[string]any](t, body)
	require.EqualValues(t, 1, result["updated"])
	require.EqualValues(t, 1, result["unchanged"])

	byProject := automatic()
	require.Len(t, byProject[a], 1)
	require.Len(t, byProject[b], 1)
	require.Equal(t, globex, byProject[a][0]["client_id"])

	status, _ = do(t, ts, http.MethodDelete, "/api/clients/"+acme, token, nil)
	require.Equal(t, http.StatusOK, status)
	byProject = automatic()
	require.Len(t, byProject[a], 1)
	require.Empty(t, byProject[b])
}
