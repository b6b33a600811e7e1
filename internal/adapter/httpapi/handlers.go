package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/domain"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/pipeline"
	"github.com/thesibtainrazza/smart-city-dashboard/internal/source"
)

// readingsResponse is the filtered-dataset payload. Rows keep the canonical
// column order via the columns list; missing cells serialize as null.
type readingsResponse struct {
	Columns []string        `json:"columns"`
	Rows    []domain.Record `json:"rows"`
	Count   int             `json:"count"`
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	res, ok := s.dataset(w)
	if !ok {
		return
	}

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view := s.filter(res, criteria)

	if limit, ok := parseLimit(r.URL.Query()); ok {
		view = domain.LatestRows(view, res.Schema, limit)
	}

	writeJSON(w, http.StatusOK, readingsResponse{
		Columns: view.Columns,
		Rows:    view.Rows,
		Count:   view.NumRows(),
	})
}

// summaryResponse is the KPI block: the most recent AQI reading with its
// severity band, particulate averages, and the hazardous alert flag.
type summaryResponse struct {
	Rows       int                  `json:"rows"`
	CurrentAQI *float64             `json:"current_aqi"`
	Status     *domain.AQIStatus    `json:"status"`
	PM25Avg    *float64             `json:"pm25_avg"`
	PM10Avg    *float64             `json:"pm10_avg"`
	Alert      bool                 `json:"alert"`
	Stats      []domain.ColumnStats `json:"stats"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.dataset(w)
	if !ok {
		return
	}

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.filter(res, criteria)

	resp := summaryResponse{
		Rows:  view.NumRows(),
		Stats: domain.Summarize(view),
	}

	if aqi, ok := domain.CurrentAQI(view, res.Schema); ok {
		status := domain.ClassifyAQI(aqi)
		resp.CurrentAQI = &aqi
		resp.Status = &status
		resp.Alert = aqi > domain.HazardousThreshold
	}
	if col, ok := res.Schema.Column(domain.FieldPM25); ok {
		if avg, ok := domain.ColumnMean(view, col); ok {
			resp.PM25Avg = &avg
		}
	}
	if col, ok := res.Schema.Column(domain.FieldPM10); ok {
		if avg, ok := domain.ColumnMean(view, col); ok {
			resp.PM10Avg = &avg
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// filtersResponse lists the values the presentation layer can build filter
// controls from. Absent fields yield empty lists / nil bounds.
type filtersResponse struct {
	Cities   []string   `json:"cities"`
	Weathers []string   `json:"weathers"`
	DateMin  *time.Time `json:"date_min"`
	DateMax  *time.Time `json:"date_max"`
	AQIMin   *float64   `json:"aqi_min"`
	AQIMax   *float64   `json:"aqi_max"`
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.dataset(w)
	if !ok {
		return
	}

	var resp filtersResponse
	if col, ok := res.Schema.Column(domain.FieldCity); ok {
		resp.Cities = domain.DistinctText(res.Dataset, col)
	}
	if col, ok := res.Schema.Column(domain.FieldWeather); ok {
		resp.Weathers = domain.DistinctText(res.Dataset, col)
	}
	if col, ok := res.Schema.Column(domain.FieldTimestamp); ok {
		if minT, maxT, ok := domain.TimeBounds(res.Dataset, col); ok {
			resp.DateMin, resp.DateMax = &minT, &maxT
		}
	}
	if col, ok := res.Schema.Column(domain.FieldAQI); ok {
		stats := domain.Summarize(res.Dataset)
		for _, st := range stats {
			if st.Column == col {
				minV, maxV := st.Min, st.Max
				resp.AQIMin, resp.AQIMax = &minV, &maxV
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	s.store.Invalidate()
	res, err := s.store.Get()
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "refreshed",
		"rows":          res.Dataset.NumRows(),
		"normalized_at": res.NormalizedAt,
	})
}

// dataset fetches the canonical dataset, writing the error response itself
// when the source is gone or normalization failed.
func (s *Server) dataset(w http.ResponseWriter) (res pipeline.Result, ok bool) {
	r, err := s.store.Get()
	if err != nil {
		if errors.Is(err, source.ErrSourceMissing) {
			s.logger.Error("raw data source missing", "error", err)
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return res, false
		}
		s.logger.Error("dataset build failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return res, false
	}
	return r, true
}

// filter runs one observed filter pass.
func (s *Server) filter(res pipeline.Result, criteria domain.FilterCriteria) domain.Table {
	start := time.Now()
	view := domain.Filter(res.Dataset, res.Schema, criteria)
	s.metrics.FilterPasses.Inc()
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	s.metrics.FilterRows.Observe(float64(view.NumRows()))
	return view
}

// parseCriteria maps query parameters onto a FilterCriteria snapshot.
// Absent parameters keep their no-restriction defaults.
func parseCriteria(q url.Values) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria

	c.City = q.Get("city")
	if q.Has("weather") {
		c.Weather = q["weather"]
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, errors.New("invalid from date, want YYYY-MM-DD")
		}
		c.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, errors.New("invalid to date, want YYYY-MM-DD")
		}
		c.To = t
	}

	if v := q.Get("aqi_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, errors.New("invalid aqi_min")
		}
		c.AQIMin = &f
	}
	if v := q.Get("aqi_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, errors.New("invalid aqi_max")
		}
		c.AQIMax = &f
	}

	return c, nil
}

func parseLimit(q url.Values) (int, bool) {
	v := q.Get("limit")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
