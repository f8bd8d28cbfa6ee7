package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"gatherly/internal/cache"
	"gatherly/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	cache.Client = nil

	db, mock := setupMockDB(t)
	srv := NewServer(&config.Config{}, db)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, mock
}

func TestRecordHit(t *testing.T) {
	t.Run("stores a hit under an existing app", func(t *testing.T) {
		app, mock := newTestApp(t)

		mock.ExpectQuery(`SELECT (.+) FROM "apps" WHERE name = (.+)`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "gatherly-api"))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "hits"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPost, "/hit",
			strings.NewReader(`{"app":"gatherly-api","uri":"/events/7","ip":"10.0.0.1","timestamp":"2026-05-01 12:00:00"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a malformed timestamp", func(t *testing.T) {
		app, _ := newTestApp(t)

		req := httptest.NewRequest(http.MethodPost, "/hit",
			strings.NewReader(`{"app":"gatherly-api","uri":"/events/7","ip":"10.0.0.1","timestamp":"2026-05-01T12:00:00Z"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("rejects an empty uri", func(t *testing.T) {
		app, _ := newTestApp(t)

		req := httptest.NewRequest(http.MethodPost, "/hit",
			strings.NewReader(`{"app":"gatherly-api","uri":"","ip":"10.0.0.1","timestamp":"2026-05-01 12:00:00"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestGetStats(t *testing.T) {
	t.Run("returns aggregates for the window", func(t *testing.T) {
		app, mock := newTestApp(t)

		mock.ExpectQuery(`SELECT apps.name AS app, hits.uri AS uri, COUNT\(hits.ip\) AS hits FROM "hits" JOIN apps`).
			WillReturnRows(sqlmock.NewRows([]string{"app", "uri", "hits"}).
				AddRow("gatherly-api", "/events/1", 12).
				AddRow("gatherly-api", "/events/2", 3))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/stats?start=2026-05-01%2000:00:00&end=2026-05-02%2000:00:00&uris=/events/1&uris=/events/2", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []ViewStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 2)
		assert.Equal(t, int64(12), body[0].Hits)
	})

	t.Run("counts distinct ips when unique is set", func(t *testing.T) {
		app, mock := newTestApp(t)

		mock.ExpectQuery(`COUNT\(DISTINCT hits.ip\) AS hits`).
			WillReturnRows(sqlmock.NewRows([]string{"app", "uri", "hits"}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/stats?start=2026-05-01%2000:00:00&end=2026-05-02%2000:00:00&unique=true", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("start and end are required", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stats?end=2026-05-02%2000:00:00", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/stats?start=2026-05-02%2000:00:00&end=2026-05-01%2000:00:00", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
