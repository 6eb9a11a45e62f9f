package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/config"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/mail"
	"github.com/vantahq/pulseboard/internal/metrics"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Storage.UploadsDir = t.TempDir()

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	files := storage.NewLocalBackend(cfg.Storage.UploadsDir)
	mailer := mail.NewSMTPMailer("", 0, "", "", "test@pulseboard.local")
	handler := NewHandler(database, cfg, files, mailer, metrics.New())

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, handler)
	return app, cfg
}

func jsonRequest(t *testing.T, method string, target string, payload any, token string) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, target, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func registerTestOrganization(t *testing.T, app *fiber.App, domain string, email string) (string, map[string]any) {
	t.Helper()
	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/organizations/register", map[string]any{
		"organization_name": "Acme Corp",
		"domain":            domain,
		"email":             email,
		"password":          "Sup3rSecret",
		"first_name":        "Ada",
		"last_name":         "Lovelace",
		"terms_accepted":    true,
		"privacy_accepted":  true,
	}, ""), -1)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want 201", response.StatusCode)
	}
	body := decodeBody(t, response)
	tokens, ok := body["tokens"].(map[string]any)
	if !ok {
		t.Fatalf("register response missing tokens: %v", body)
	}
	access, _ := tokens["access_token"].(string)
	if access == "" {
		t.Fatalf("register response missing access token")
	}
	return access, body
}

func inviteTestMember(t *testing.T, app *fiber.App, ownerToken string, email string, role string) (string, map[string]any) {
	t.Helper()
	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/organizations/invite", map[string]any{
		"email": email,
		"role":  role,
	}, ownerToken), -1)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("invite status = %d, want 201", response.StatusCode)
	}
	inviteToken := decodeBody(t, response)["token"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/auth/accept-invite", map[string]any{
		"token":      inviteToken,
		"password":   "W0rkerSecret",
		"first_name": "Grace",
		"last_name":  "Hopper",
	}, ""), -1)
	if err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("accept status = %d, want 201", response.StatusCode)
	}
	body := decodeBody(t, response)
	tokens := body["tokens"].(map[string]any)
	return tokens["access_token"].(string), body
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/health", "/api/health"} {
		response, err := app.Test(jsonRequest(t, http.MethodGet, target, nil, ""), -1)
		if err != nil {
			t.Fatalf("health request: %v", err)
		}
		if response.StatusCode != fiber.StatusOK {
			t.Fatalf("GET %s = %d, want 200", target, response.StatusCode)
		}
		body := decodeBody(t, response)
		if body["status"] != "ok" || body["service"] != "pulseboard" {
			t.Fatalf("unexpected health body: %v", body)
		}
	}
}

func TestDeprecatedAuthEndpointsAreGone(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		method      string
		target      string
		replacement string
	}{
		{http.MethodPost, "/api/auth/register", "POST /api/organizations/register"},
		{http.MethodPost, "/api/auth/invite", "POST /api/organizations/invite"},
		{http.MethodGet, "/api/auth/invitations", "GET /api/organizations/invitations"},
		{http.MethodGet, "/api/auth/invitations/all", "GET /api/organizations/invitations"},
	}

	for _, testCase := range tests {
		response, err := app.Test(jsonRequest(t, testCase.method, testCase.target, nil, ""), -1)
		if err != nil {
			t.Fatalf("%s %s: %v", testCase.method, testCase.target, err)
		}
		if response.StatusCode != fiber.StatusGone {
			t.Fatalf("%s %s = %d, want 410", testCase.method, testCase.target, response.StatusCode)
		}
		body := decodeBody(t, response)
		if body["replacement"] != testCase.replacement {
			t.Fatalf("expected replacement %q, got %v", testCase.replacement, body["replacement"])
		}
	}
}

func TestRegisterLoginMeFlow(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@acme.example",
		"password": "Sup3rSecret",
	}, ""), -1)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d, want 200", response.StatusCode)
	}
	body := decodeBody(t, response)
	tokens := body["tokens"].(map[string]any)
	access := tokens["access_token"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, access), -1)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("me status = %d, want 200", response.StatusCode)
	}
	me := decodeBody(t, response)
	if me["email"] != "owner@acme.example" || me["role"] != models.RoleAdmin {
		t.Fatalf("unexpected principal: %v", me)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "owner@acme.example",
		"password": "wrong-password",
	}, ""), -1)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", response.StatusCode)
	}
}

func TestMissingAndLegacyTokensAreUnauthorized(t *testing.T) {
	app, cfg := newTestApp(t)

	response, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, ""), -1)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", response.StatusCode)
	}
	if response.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate header")
	}

	// A token minted before organization accounts carries no org claim.
	manager := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	legacy, err := manager.IssueAccessToken(&models.User{ID: "old-user", Email: "old@acme.example"})
	if err != nil {
		t.Fatalf("issue legacy token: %v", err)
	}
	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, legacy), -1)
	if err != nil {
		t.Fatalf("legacy me request: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("legacy token status = %d, want 401", response.StatusCode)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	app, _ := newTestApp(t)
	access, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]any{
		"refresh_token": access,
	}, ""), -1)
	if err != nil {
		t.Fatalf("refresh request: %v", err)
	}
	if response.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("refresh with access token = %d, want 401", response.StatusCode)
	}
}

func TestProjectLifecycleAndTenantIsolation(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
		"name":        "Website",
		"description": "Marketing site",
	}, ownerToken), -1)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create project status = %d, want 201", response.StatusCode)
	}
	project := decodeBody(t, response)
	projectID := project["id"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/projects/"+projectID, nil, ownerToken), -1)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("get project status = %d, want 200", response.StatusCode)
	}

	// A second organization must not see the first one's project.
	otherToken, _ := registerTestOrganization(t, app, "globex.example", "owner@globex.example")
	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/projects/"+projectID, nil, otherToken), -1)
	if err != nil {
		t.Fatalf("cross-tenant get: %v", err)
	}
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("cross-tenant project access = %d, want 404", response.StatusCode)
	}
}

func TestTimerFlowOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
		"name": "Website",
	}, token), -1)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	projectID := decodeBody(t, response)["id"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/time-tracking/start", map[string]any{
		"project_id": projectID,
	}, token), -1)
	if err != nil {
		t.Fatalf("start timer: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("start status = %d, want 201", response.StatusCode)
	}
	entryID := decodeBody(t, response)["id"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/time-tracking/start", map[string]any{
		"project_id": projectID,
	}, token), -1)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if response.StatusCode != fiber.StatusConflict {
		t.Fatalf("second start status = %d, want 409", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/time-tracking/active", nil, token), -1)
	if err != nil {
		t.Fatalf("active timer: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("active status = %d, want 200", response.StatusCode)
	}

	for _, step := range []string{"pause", "resume", "stop"} {
		target := fmt.Sprintf("/api/time-tracking/%s/%s", entryID, step)
		response, err = app.Test(jsonRequest(t, http.MethodPost, target, nil, token), -1)
		if err != nil {
			t.Fatalf("%s: %v", step, err)
		}
		if response.StatusCode != fiber.StatusOK {
			t.Fatalf("%s status = %d, want 200", step, response.StatusCode)
		}
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/time-tracking/active", nil, token), -1)
	if err != nil {
		t.Fatalf("active after stop: %v", err)
	}
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("active after stop = %d, want 404", response.StatusCode)
	}
}

func TestManualEntryValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
		"name": "Website",
	}, token), -1)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	projectID := decodeBody(t, response)["id"].(string)

	now := time.Now()
	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/time-tracking/entries", map[string]any{
		"project_id": projectID,
		"start_time": now.Format(time.RFC3339),
		"end_time":   now.Add(-time.Hour).Format(time.RFC3339),
	}, token), -1)
	if err != nil {
		t.Fatalf("manual entry: %v", err)
	}
	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("inverted range status = %d, want 400", response.StatusCode)
	}
}

func TestAdminGatedOrganizationRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")
	managerToken, _ := inviteTestMember(t, app, token, "manager@acme.example", models.RoleManager)

	// Organization stats and invites stay with admins, even for managers.
	response, err := app.Test(jsonRequest(t, http.MethodGet, "/api/organizations/stats", nil, managerToken), -1)
	if err != nil {
		t.Fatalf("stats as manager: %v", err)
	}
	if response.StatusCode != fiber.StatusForbidden {
		t.Fatalf("manager stats access = %d, want 403", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/organizations/invite", map[string]any{
		"email": "friend@acme.example",
	}, managerToken), -1)
	if err != nil {
		t.Fatalf("invite as manager: %v", err)
	}
	if response.StatusCode != fiber.StatusForbidden {
		t.Fatalf("manager invite access = %d, want 403", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/organizations/stats", nil, token), -1)
	if err != nil {
		t.Fatalf("stats as owner: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("owner stats access = %d, want 200", response.StatusCode)
	}

	// Team stats remain a manager-level view.
	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/team/stats", nil, managerToken), -1)
	if err != nil {
		t.Fatalf("team stats as manager: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("manager team stats access = %d, want 200", response.StatusCode)
	}
	stats := decodeBody(t, response)
	if stats["total_members"].(float64) != 2 {
		t.Fatalf("expected two members in team stats, got %v", stats["total_members"])
	}
}

func TestMemberLookupRequiresSelfOrManager(t *testing.T) {
	app, _ := newTestApp(t)
	token, ownerBody := registerTestOrganization(t, app, "acme.example", "owner@acme.example")
	ownerID := ownerBody["user"].(map[string]any)["id"].(string)
	workerToken, workerBody := inviteTestMember(t, app, token, "worker@acme.example", models.RoleUser)
	workerID := workerBody["user"].(map[string]any)["id"].(string)

	response, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/"+ownerID, nil, workerToken), -1)
	if err != nil {
		t.Fatalf("worker reads owner: %v", err)
	}
	if response.StatusCode != fiber.StatusForbidden {
		t.Fatalf("worker reading another member = %d, want 403", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/"+workerID, nil, workerToken), -1)
	if err != nil {
		t.Fatalf("worker reads self: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("worker reading own record = %d, want 200", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/"+workerID, nil, token), -1)
	if err != nil {
		t.Fatalf("owner reads worker: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("owner reading a member = %d, want 200", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/team/stats", nil, workerToken), -1)
	if err != nil {
		t.Fatalf("team stats as worker: %v", err)
	}
	if response.StatusCode != fiber.StatusForbidden {
		t.Fatalf("worker team stats access = %d, want 403", response.StatusCode)
	}
}

func TestForgotPasswordNeverDisclosesAccounts(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	for _, email := range []string{"owner@acme.example", "ghost@acme.example"} {
		response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/forgot-password", map[string]any{
			"email": email,
		}, ""), -1)
		if err != nil {
			t.Fatalf("forgot password: %v", err)
		}
		if response.StatusCode != fiber.StatusOK {
			t.Fatalf("forgot password for %s = %d, want 200", email, response.StatusCode)
		}
		body := decodeBody(t, response)
		if body["message"] != "if the address exists, a reset link has been sent" {
			t.Fatalf("unexpected message: %v", body)
		}
	}
}

func TestProductivityTrackAndGoals(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
		"name": "Website",
	}, token), -1)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	projectID := decodeBody(t, response)["id"].(string)

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/time-tracking/start", map[string]any{
		"project_id": projectID,
	}, token), -1)
	if err != nil {
		t.Fatalf("start timer: %v", err)
	}
	entryID := decodeBody(t, response)["id"].(string)

	// A snapshot against someone else's or a made up entry never lands.
	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/productivity/track", map[string]any{
		"time_entry_id":  "not-my-entry",
		"window_minutes": 10,
	}, token), -1)
	if err != nil {
		t.Fatalf("track foreign entry: %v", err)
	}
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("track with foreign entry = %d, want 404", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/productivity/track", map[string]any{
		"time_entry_id":   entryID,
		"keystrokes":      500,
		"mouse_clicks":    200,
		"mouse_movements": 1000,
		"window_minutes":  10,
		"current_app":     "GoLand",
	}, token), -1)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("track status = %d, want 200", response.StatusCode)
	}
	snapshot := decodeBody(t, response)
	if snapshot["productivity_level"] != models.ProductivityVeryHigh {
		t.Fatalf("expected very_high level, got %v", snapshot["productivity_level"])
	}

	response, err = app.Test(jsonRequest(t, http.MethodPost, "/api/productivity/goals", map[string]any{
		"name":         "Ship weekly",
		"target_hours": 30,
	}, token), -1)
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("goal status = %d, want 201", response.StatusCode)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/productivity/goals", nil, token), -1)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("list goals status = %d, want 200", response.StatusCode)
	}
}

func TestForgotPasswordToleratesStaleBearerToken(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")

	// Public endpoints resolve a valid principal when one is offered and
	// shrug off anything else.
	for _, token := range []string{"stale-garbage-token", ownerToken} {
		response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/forgot-password", map[string]any{
			"email": "owner@acme.example",
		}, token), -1)
		if err != nil {
			t.Fatalf("forgot password: %v", err)
		}
		if response.StatusCode != fiber.StatusOK {
			t.Fatalf("forgot password with bearer token = %d, want 200", response.StatusCode)
		}
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerTestOrganization(t, app, "acme.example", "owner@acme.example")
	workerToken, _ := inviteTestMember(t, app, token, "worker@acme.example", models.RoleUser)

	response, err := app.Test(jsonRequest(t, http.MethodGet, "/api/analytics/dashboard", nil, token), -1)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", response.StatusCode)
	}
	dashboard := decodeBody(t, response)
	for _, key := range []string{"report", "recommendations", "goals"} {
		if _, ok := dashboard[key]; !ok {
			t.Fatalf("dashboard missing %q: %v", key, dashboard)
		}
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/analytics/team", nil, token), -1)
	if err != nil {
		t.Fatalf("team analytics: %v", err)
	}
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("team analytics status = %d, want 200", response.StatusCode)
	}
	team := decodeBody(t, response)
	members, ok := team["members"].([]any)
	if !ok || len(members) != 2 {
		t.Fatalf("expected two member reports, got %v", team["members"])
	}
	if _, ok := team["totals"].(map[string]any); !ok {
		t.Fatalf("expected totals in team analytics: %v", team)
	}

	response, err = app.Test(jsonRequest(t, http.MethodGet, "/api/analytics/team", nil, workerToken), -1)
	if err != nil {
		t.Fatalf("team analytics as worker: %v", err)
	}
	if response.StatusCode != fiber.StatusForbidden {
		t.Fatalf("worker team analytics access = %d, want 403", response.StatusCode)
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	app, _ := newTestApp(t)

	response, err := app.Test(jsonRequest(t, http.MethodGet, "/metrics", nil, ""), -1)
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("metrics status = %d, want 200", response.StatusCode)
	}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	if !bytes.Contains(raw, []byte("pulseboard_server_start_time_seconds")) {
		t.Fatalf("expected pulseboard metrics in exposition output")
	}
}
