package httpapi_test

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/adapter/httpapi"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/live"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/observability"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/pipeline"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/source"
)

const fixtureCSV = "Timestamp,City,AQI,PM2.5 (µg/m³),Weather\n" +
	"2024-01-01T00:00,Delhi,45,80,Clear\n" +
	"2024-01-02T00:00,Mumbai,220,120,Haze\n" +
	"2024-01-03T00:00,Delhi,180,100,Rain\n"

// fakeSource serves the fixture from memory.
type fakeSource struct {
	raw []byte
	err error
}

func (f *fakeSource) Load() ([]byte, domain.Table, error) {
	if f.err != nil {
		return nil, domain.Table{}, f.err
	}
	table, err := source.ParseCSV(f.raw)
	if err != nil {
		return nil, domain.Table{}, err
	}
	return f.raw, table, nil
}

func newTestServer(t *testing.T, src pipeline.Source) *httpapi.Server {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	logger := slog.Default()
	normalizer := pipeline.NewNormalizer(rand.New(rand.NewSource(1)), domain.DefaultJitterRadius, logger, metrics)
	store := pipeline.NewStore(src, normalizer, logger, metrics)
	factory := func() *live.Runner {
		return live.NewRunner(clockwork.NewFakeClock(), rand.New(rand.NewSource(1)), 5, 0, logger, metrics)
	}
	return httpapi.NewServer(":0", store, factory, live.DefaultSeedRows, logger, metrics)
}

func doJSON(t *testing.T, srv *httpapi.Server, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestReadingsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{raw: []byte(fixtureCSV)})

	t.Run("unfiltered returns all rows", func(t *testing.T) {
		var body struct {
			Columns []string         `json:"columns"`
			Rows    []map[string]any `json:"rows"`
			Count   int              `json:"count"`
		}
		rec := doJSON(t, srv, http.MethodGet, "/api/readings", &body)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 3, body.Count)
		assert.Contains(t, body.Columns, "lat")
		assert.Contains(t, body.Columns, "lon")
	})

	t.Run("city filter narrows rows", func(t *testing.T) {
		var body struct {
			Rows  []map[string]any `json:"rows"`
			Count int              `json:"count"`
		}
		rec := doJSON(t, srv, http.MethodGet, "/api/readings?city=Delhi", &body)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Equal(t, 2, body.Count)
		assert.Equal(t, "Delhi", body.Rows[0]["City"])
		assert.Equal(t, 45.0, body.Rows[0]["AQI"])
	})

	t.Run("combined criteria", func(t *testing.T) {
		var body struct {
			Count int `json:"count"`
		}
		rec := doJSON(t, srv, http.MethodGet, "/api/readings?city=Delhi&aqi_min=100&aqi_max=500&from=2024-01-01&to=2024-01-03", &body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, body.Count)
	})

	t.Run("empty result is 200 with zero rows", func(t *testing.T) {
		var body struct {
			Count int `json:"count"`
		}
		rec := doJSON(t, srv, http.MethodGet, "/api/readings?city=Chennai", &body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, body.Count)
	})

	t.Run("latest limit returns the tail", func(t *testing.T) {
		var body struct {
			Rows  []map[string]any `json:"rows"`
			Count int              `json:"count"`
		}
		rec := doJSON(t, srv, http.MethodGet, "/api/readings?limit=1", &body)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Delhi", body.Rows[0]["City"])
		assert.Equal(t, 180.0, body.Rows[0]["AQI"])
	})

	t.Run("bad criteria are 400", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/readings?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing source is 503", func(t *testing.T) {
		srv := newTestServer(t, &fakeSource{err: source.ErrSourceMissing})
		rec := doJSON(t, srv, http.MethodGet, "/api/readings", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{raw: []byte(fixtureCSV)})

	var body struct {
		Rows       int      `json:"rows"`
		CurrentAQI *float64 `json:"current_aqi"`
		Status     *struct {
			Label string `json:"label"`
			Color string `json:"color"`
		} `json:"status"`
		PM25Avg *float64 `json:"pm25_avg"`
		Alert   bool     `json:"alert"`
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/summary?city=Mumbai", &body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, body.Rows)
	require.NotNil(t, body.CurrentAQI)
	assert.Equal(t, 220.0, *body.CurrentAQI)
	require.NotNil(t, body.Status)
	assert.Equal(t, "Very Unhealthy", body.Status.Label)
	assert.True(t, body.Alert)
	require.NotNil(t, body.PM25Avg)
	assert.Equal(t, 120.0, *body.PM25Avg)
}

func TestFiltersEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{raw: []byte(fixtureCSV)})

	var body struct {
		Cities   []string `json:"cities"`
		Weathers []string `json:"weathers"`
		AQIMin   *float64 `json:"aqi_min"`
		AQIMax   *float64 `json:"aqi_max"`
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/filters", &body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"Delhi", "Mumbai"}, body.Cities)
	assert.Equal(t, []string{"Clear", "Haze", "Rain"}, body.Weathers)
	require.NotNil(t, body.AQIMin)
	assert.Equal(t, 45.0, *body.AQIMin)
	require.NotNil(t, body.AQIMax)
	assert.Equal(t, 220.0, *body.AQIMax)
}

func TestRefreshEndpoint(t *testing.T) {
	src := &fakeSource{raw: []byte(fixtureCSV)}
	srv := newTestServer(t, src)

	var body map[string]any
	rec := doJSON(t, srv, http.MethodPost, "/api/refresh", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "refreshed", body["status"])
	assert.Equal(t, 3.0, body["rows"])
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeSource{raw: []byte(fixtureCSV)})

	t.Run("healthz", func(t *testing.T) {
		var body map[string]string
		rec := doJSON(t, srv, http.MethodGet, "/healthz", &body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("readyz before first build", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/readyz", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("readyz after a build", func(t *testing.T) {
		doJSON(t, srv, http.MethodGet, "/api/readings", nil)

		var body map[string]string
		rec := doJSON(t, srv, http.MethodGet, "/readyz", &body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("metrics", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}
