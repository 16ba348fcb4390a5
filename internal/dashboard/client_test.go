package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhrone-predicts/backend/internal/api"
	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/dhrone-predicts/backend/internal/models"
	"github.com/dhrone-predicts/backend/internal/services"
	"github.com/dhrone-predicts/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startAPI serves the real API over a file store on a random local port
func startAPI(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Env: "development"},
		Storage: config.StorageConfig{Driver: config.DriverFile},
		Auth: config.AuthConfig{
			AdminEmail:    "admin@dhronepredicts.com",
			AdminPassword: "dhrone123",
			AdminName:     "Admin",
			Token:         "admin-token",
		},
	}
	s := store.NewFileStore(t.TempDir())
	require.NoError(t, s.Init(context.Background()))

	app := api.NewApp(cfg)
	api.SetupRoutes(app, services.NewPredictionService(s), cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestClientAgainstAPI(t *testing.T) {
	ctx := context.Background()
	c := NewClient(startAPI(t) + "/")

	// mutations without a token are rejected
	_, err := c.Create(ctx, models.PredictionInput{Match: "A vs B", Prediction: "Home Win", Odds: "1.5", Date: "2024-01-01", Category: "freeTips"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	_, err = c.Login(ctx, "admin@dhronepredicts.com", "nope")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	user, err := c.Login(ctx, "admin@dhronepredicts.com", "dhrone123")
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)
	assert.Equal(t, "admin-token", c.Token())

	rec, err := c.Create(ctx, models.PredictionInput{Match: "A vs B", Prediction: "Home Win", Odds: "1.5", Date: "2024-01-01", Category: "freeTips"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, rec.Status)

	form := FormFromRecord(*rec)
	form.Status = models.StatusWon
	updated, err := c.Update(ctx, rec.ID, form.Patch("freeTips"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusWon, updated.Status)
	assert.Equal(t, rec.Match, updated.Match)

	all, err := c.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(models.Categories))
	assert.Equal(t, Stats{Total: 1, Won: 1}, Summarize(all))

	free, err := c.ListCategory(ctx, "freeTips")
	require.NoError(t, err)
	require.Len(t, free, 1)

	_, err = c.Delete(ctx, "bankerTips", rec.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	deleted, err := c.Delete(ctx, "freeTips", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, deleted.ID)

	me, err := c.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin@dhronepredicts.com", me.Email)
}

func TestClientSendsBearerOnlyOnMutations(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string][]models.Prediction{})
		case http.MethodDelete:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "vvip", body["category"])
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "deleted": models.Prediction{ID: "x"}})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("secret")

	_, err := c.ListAll(context.Background())
	require.NoError(t, err)
	deleted, err := c.Delete(context.Background(), "vvip", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", deleted.ID)

	assert.Equal(t, []string{"GET ", "DELETE Bearer secret"}, seen)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListAll(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "API returned 502", apiErr.Error())
}

func TestFetchRowsAsksForOneCategory(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("category") == "vvip" {
			_ = json.NewEncoder(w).Encode([]models.Prediction{{ID: "v1", Match: "Inter vs Milan"}})
			return
		}
		_ = json.NewEncoder(w).Encode(Collection{
			"freeTips": {{ID: "f1"}},
			"vvip":     {{ID: "v1"}},
		})
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	rows, err := c.FetchRows(context.Background(), "vvip")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "v1", rows[0].ID)
	assert.Equal(t, "vvip", rows[0].Category)

	rows, err = c.FetchRows(context.Background(), AllCategories)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "freeTips", rows[0].Category)

	assert.Equal(t, []string{"category=vvip", ""}, queries)
}
