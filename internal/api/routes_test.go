package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/services"
	"github.com/dhrone-predicts/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "admin-token"

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", Env: "development"},
		Storage: config.StorageConfig{Driver: config.DriverFile},
		Auth: config.AuthConfig{
			AdminEmail:    "admin@dhronepredicts.com",
			AdminPassword: "dhrone123",
			AdminName:     "Admin",
			Token:         testToken,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, store.Store) {
	t.Helper()
	s := store.NewFileStore(t.TempDir())
	require.NoError(t, s.Init(context.Background()))

	app := NewApp(cfg)
	SetupRoutes(app, services.NewPredictionService(s), cfg)
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	decode(t, resp, &body)
	return body["error"]
}

func createSample(t *testing.T, app *fiber.App, category string) models.Prediction {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]interface{}{
		"match":      "A vs B",
		"prediction": "Home Win",
		"odds":       "1.5",
		"date":       "2024-01-01",
		"category":   category,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec models.Prediction
	decode(t, resp, &rec)
	return rec
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "file", body["storage"])
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@dhronepredicts.com",
		"password": "dhrone123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, testToken, body.Token)
	assert.Equal(t, "admin@dhronepredicts.com", body.User.Email)
	assert.Equal(t, "Admin", body.User.Name)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@dhronepredicts.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", errorMessage(t, resp))
}

func TestVerifyAlwaysSucceeds(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodGet, "/api/auth/verify", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "user")
}

func TestMutationsRequireToken(t *testing.T) {
	app, s := newTestApp(t, testConfig())
	rec := createSample(t, app, "freeTips")

	cases := []struct {
		name   string
		method string
		path   string
		header string
	}{
		{"post without header", http.MethodPost, "/api/predictions", ""},
		{"post wrong token", http.MethodPost, "/api/predictions", "Bearer nope"},
		{"post without bearer prefix", http.MethodPost, "/api/predictions", testToken},
		{"put lowercase scheme", http.MethodPut, "/api/predictions/" + rec.ID, "bearer " + testToken},
		{"delete wrong token", http.MethodDelete, "/api/predictions/" + rec.ID, "Bearer admin-token2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"category":"freeTips","match":"X","prediction":"Y","odds":"2","date":"2024-01-01"}`))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Unauthorized", errorMessage(t, resp))
		})
	}

	preds, err := s.ListCategory(context.Background(), "freeTips")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, rec, preds[0])
}

func TestCreateScenario(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	rec := createSample(t, app, "freeTips")

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	resp := doJSON(t, app, http.MethodGet, "/api/predictions?category=freeTips", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preds []models.Prediction
	decode(t, resp, &preds)
	require.Len(t, preds, 1)
	assert.Equal(t, rec.ID, preds[0].ID)
}

func TestCreateIgnoresClientTimestampsAndID(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]interface{}{
		"id":         "client-id",
		"createdAt":  "1999-01-01T00:00:00Z",
		"match":      "A vs B",
		"prediction": "Draw",
		"odds":       "3.1",
		"date":       "2024-01-01",
		"category":   "draws",
		"status":     "Won",
		"featured":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec models.Prediction
	decode(t, resp, &rec)
	assert.NotEqual(t, "client-id", rec.ID)
	assert.NotEqual(t, 1999, rec.CreatedAt.Year())
	assert.Equal(t, models.StatusWon, rec.Status)
	assert.True(t, rec.Featured)
}

func TestCreateKeepsExtraFields(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]interface{}{
		"match":      "A vs B",
		"prediction": "Home Win",
		"odds":       "1.5",
		"date":       "2024-01-01",
		"category":   "freeTips",
		"leagueType": "EPL",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decode(t, resp, &created)
	assert.Equal(t, "EPL", created["leagueType"])

	resp = doJSON(t, app, http.MethodGet, "/api/predictions?category=freeTips", "", nil)
	var listed []map[string]interface{}
	decode(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "EPL", listed[0]["leagueType"])
}

func TestCreateRejectsWhitespaceOnlyFields(t *testing.T) {
	app, s := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]interface{}{
		"match":      "   ",
		"prediction": "Home Win",
		"odds":       "\t",
		"date":       "2024-01-01",
		"category":   "freeTips",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "match")

	preds, err := s.ListCategory(context.Background(), "freeTips")
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestCreateBadRequests(t *testing.T) {
	app, s := newTestApp(t, testConfig())

	resp := doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]string{
		"match": "A vs B", "prediction": "Home", "odds": "1.5", "date": "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", errorMessage(t, resp))

	resp = doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]string{
		"match": "A vs B", "prediction": "Home", "odds": "1.5", "date": "2024-01-01", "category": "megaTips",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", errorMessage(t, resp))

	resp = doJSON(t, app, http.MethodPost, "/api/predictions", testToken, map[string]string{
		"match": "A vs B", "category": "freeTips",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "odds")

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	for _, preds := range all {
		assert.Empty(t, preds)
	}
}

func TestUpdateScenario(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	rec := createSample(t, app, "freeTips")

	resp := doJSON(t, app, http.MethodPut, "/api/predictions/"+rec.ID, testToken, map[string]string{
		"category": "freeTips",
		"status":   "Won",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Prediction
	decode(t, resp, &updated)
	assert.Equal(t, models.StatusWon, updated.Status)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, rec.Match, updated.Match)
	assert.Equal(t, rec.Odds, updated.Odds)
	assert.True(t, rec.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(rec.UpdatedAt))
}

func TestUpdateErrors(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	rec := createSample(t, app, "freeTips")

	resp := doJSON(t, app, http.MethodPut, "/api/predictions/"+rec.ID, testToken, map[string]string{"status": "Won"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", errorMessage(t, resp))

	resp = doJSON(t, app, http.MethodPut, "/api/predictions/missing", testToken, map[string]string{"category": "freeTips"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Prediction not found", errorMessage(t, resp))
}

func TestDeleteWrongCategoryScenario(t *testing.T) {
	app, s := newTestApp(t, testConfig())
	rec := createSample(t, app, "bankerTips")

	resp := doJSON(t, app, http.MethodDelete, "/api/predictions/"+rec.ID, testToken, map[string]string{"category": "freeTips"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Prediction not found", errorMessage(t, resp))

	banker, err := s.ListCategory(context.Background(), "bankerTips")
	require.NoError(t, err)
	assert.Len(t, banker, 1)
	free, err := s.ListCategory(context.Background(), "freeTips")
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestDelete(t *testing.T) {
	app, s := newTestApp(t, testConfig())
	rec := createSample(t, app, "vvip")

	resp := doJSON(t, app, http.MethodDelete, "/api/predictions/"+rec.ID, testToken, map[string]string{"category": "vvip"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Deleted models.Prediction `json:"deleted"`
	}
	decode(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, rec.ID, body.Deleted.ID)

	preds, err := s.ListCategory(context.Background(), "vvip")
	require.NoError(t, err)
	assert.Empty(t, preds)

	resp = doJSON(t, app, http.MethodDelete, "/api/predictions/"+rec.ID, testToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", errorMessage(t, resp))
}

func TestDeleteAcceptsCategoryQuery(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	rec := createSample(t, app, "draws")

	resp := doJSON(t, app, http.MethodDelete, "/api/predictions/"+rec.ID+"?category=draws", testToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListAllAndUnknownCategory(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	createSample(t, app, "btts")

	resp := doJSON(t, app, http.MethodGet, "/api/predictions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all map[string][]models.Prediction
	decode(t, resp, &all)
	assert.Len(t, all, len(models.Categories))
	assert.Len(t, all["btts"], 1)
	assert.NotNil(t, all["vvip"])

	resp = doJSON(t, app, http.MethodGet, "/api/predictions?category=nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Invalid category", errorMessage(t, resp))
}

func TestCategories(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp := doJSON(t, app, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cats []models.Category
	decode(t, resp, &cats)
	assert.Equal(t, models.Categories, cats)
}

func TestProductionServesStaticWithFallback(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>dashboard</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := testConfig()
	cfg.Server.Env = "production"
	cfg.Server.StaticDir = staticDir
	app, _ := newTestApp(t, cfg)

	resp := doJSON(t, app, http.MethodGet, "/app.js", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "console.log(1)", string(data))

	resp = doJSON(t, app, http.MethodGet, "/predictions/edit/42", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "dashboard")

	resp = doJSON(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
