//go:build integration

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/service"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/testutil"
)

func integrationConfig(t *testing.T, store string) config.Config {
	cfg := testConfig()
	cfg.Cache.Store = store
	cfg.Database.Enabled = true
	cfg.Database.URI = testutil.GetSharedContainerURI()
	cfg.Database.DatabaseName = testutil.SanitizeDBName(t.Name())
	cfg.Database.ActivityTTL = 24 * time.Hour
	cfg.Redis.Addr = testutil.GetSharedRedisAddr()
	return cfg
}

func TestInitializeApp_Integration_ActivityLog(t *testing.T) {
	a := InitializeApp(context.Background(), integrationConfig(t, config.StoreMongoDB))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	require.NotNil(t, a.Database)
	assert.Equal(t, config.StoreMongoDB, a.Storage.Backend)
	require.NotNil(t, a.Routes.Config.AsyncLogger)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cover-lookup", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	a.Routes.Config.AsyncLogger.Stop()

	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activity?type=request", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page service.ActivityPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.NotEmpty(t, page.Entries)
	assert.Equal(t, model.ActivityRequest, page.Entries[0].ActivityType)
	assert.Equal(t, "/api/cover-lookup", page.Entries[0].Path)
	assert.Equal(t, http.StatusBadRequest, page.Entries[0].StatusCode)
}

func TestInitializeApp_Integration_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		store      string
		wantChecks []string
	}{
		{name: "mongodb store", store: config.StoreMongoDB, wantChecks: []string{"mongodb", "mongodb_activity_circuit", "cache_store_circuit"}},
		{name: "redis store", store: config.StoreRedis, wantChecks: []string{"mongodb", "redis", "cache_store_circuit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := InitializeApp(context.Background(), integrationConfig(t, tt.store))
			t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

			w := httptest.NewRecorder()
			a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for _, name := range tt.wantChecks {
				assert.Contains(t, body.Checks, name)
			}
		})
	}
}

func TestInitializeApp_Integration_CachesSurviveRestart(t *testing.T) {
	cfg := integrationConfig(t, config.StoreRedis)

	first := InitializeApp(context.Background(), cfg)
	first.Services.MetadataCache.Set("metadata_restart", model.Book{ID: "1", Title: "Dune"})
	require.NoError(t, first.Shutdown(context.Background()))

	second := InitializeApp(context.Background(), cfg)
	t.Cleanup(func() { _ = second.Shutdown(context.Background()) })

	book, ok := second.Services.MetadataCache.Get("metadata_restart")
	require.True(t, ok)
	assert.Equal(t, "Dune", book.Title)
}
