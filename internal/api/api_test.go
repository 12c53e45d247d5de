package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"geo-legend/internal/api"
	"geo-legend/internal/config"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/render"
	"geo-legend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boundaryFetcher struct {
	calls atomic.Int32
}

func (f *boundaryFetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.calls.Add(1)
	return []byte(testutil.GeoJSON()), nil
}

type env struct {
	srv     *httptest.Server
	fetcher *boundaryFetcher
}

func newEnv(t *testing.T, csvPath string) *env {
	t.Helper()
	f := &boundaryFetcher{}
	l := &dataset.Loader{CSVPath: csvPath, Columns: dataset.DefaultColumns(), Prefix: "12", Fetcher: f}
	cfg := config.Default()
	cfg.AdminToken = "secret"
	s := api.New(cfg, dataset.NewCache(l), filter.NewSessions(16, cfg.SessionTTL), nil)
	mux := http.NewServeMux()
	s.Mount(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &env{srv: srv, fetcher: f}
}

func (e *env) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func getJSON(t *testing.T, c *http.Client, u string, code int, out any) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, code, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func postJSON(t *testing.T, c *http.Client, u, body string, code int, out any) {
	t.Helper()
	resp, err := c.Post(u, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, code, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

type featureCollection struct {
	Features []struct {
		ID string `json:"id"`
	} `json:"features"`
}

func (fc featureCollection) ids() []string {
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.ID)
	}
	return out
}

func TestRangeAndResetScenario(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	var v render.View
	getJSON(t, c, base+"/view", http.StatusOK, &v)
	assert.Equal(t, 3, v.Count)
	assert.Equal(t, filter.Range{Low: 30.0, High: 60.2}, v.Range)

	postJSON(t, c, base+"/range", `{"low":30.0,"high":45.5}`, http.StatusOK, &v)
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, "30.00    45.50", v.RangeText)

	var fc featureCollection
	getJSON(t, c, base+"/regions", http.StatusOK, &fc)
	assert.Equal(t, []string{"12001", "12003"}, fc.ids())

	postJSON(t, c, base+"/reset", "", http.StatusOK, &v)
	assert.Equal(t, filter.Range{Low: 30.0, High: 60.2}, v.Range)
	assert.Equal(t, 3, v.Count)

	resp, err := c.PostForm(base+"/range", url.Values{"low": {"61"}, "high": {"70"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Equal(t, 0, v.Count)

	getJSON(t, c, base+"/regions", http.StatusOK, &fc)
	assert.Empty(t, fc.Features)
	assert.Equal(t, int32(1), e.fetcher.calls.Load())
}

func TestInvalidRangeKeepsState(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	postJSON(t, c, base+"/range", `{"low":40,"high":50}`, http.StatusOK, nil)
	for _, body := range []string{`{"low":50,"high":40}`, `{"low":40}`, `not json`} {
		var er struct {
			Error string `json:"error"`
		}
		postJSON(t, c, base+"/range", body, http.StatusBadRequest, &er)
		assert.Equal(t, "invalid_range", er.Error)
	}
	resp, err := c.PostForm(base+"/range", url.Values{"low": {"NaN"}, "high": {"50"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var v render.View
	getJSON(t, c, base+"/view", http.StatusOK, &v)
	assert.Equal(t, filter.Range{Low: 40, High: 50}, v.Range)
}

func TestRegionsQueryOverrideDoesNotMutate(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	var fc featureCollection
	getJSON(t, c, base+"/regions?low=45.5&high=60.2", http.StatusOK, &fc)
	assert.Equal(t, []string{"12003", "12005"}, fc.ids())
	getJSON(t, c, base+"/regions?low=9&high=1", http.StatusBadRequest, nil)

	var v render.View
	getJSON(t, c, base+"/view", http.StatusOK, &v)
	assert.Equal(t, 3, v.Count)
}

func TestSessionsAreIndependent(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	a, b := e.client(t), e.client(t)
	base := e.srv.URL + "/api"

	postJSON(t, a, base+"/range", `{"low":60,"high":61}`, http.StatusOK, nil)
	var va, vb render.View
	getJSON(t, a, base+"/view", http.StatusOK, &va)
	getJSON(t, b, base+"/view", http.StatusOK, &vb)
	assert.Equal(t, 1, va.Count)
	assert.Equal(t, 3, vb.Count)
}

func TestUnavailableDataset(t *testing.T) {
	e := newEnv(t, filepath.Join(t.TempDir(), "missing.csv"))
	c := e.client(t)

	var er struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	getJSON(t, c, e.srv.URL+"/api/view", http.StatusServiceUnavailable, &er)
	assert.Equal(t, "local_missing", er.Error)
	assert.Equal(t, dataset.Message(dataset.KindLocalMissing), er.Message)
	postJSON(t, c, e.srv.URL+"/api/range", `{"low":1,"high":2}`, http.StatusServiceUnavailable, nil)

	resp, err := c.Get(e.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Map unavailable.")
	assert.Contains(t, string(body), "local_missing")

	assert.Zero(t, e.fetcher.calls.Load())
}

func TestPage(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	resp, err := http.Get(e.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Reset Filter")
	assert.Contains(t, string(body), "Median age in Florida")
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"))

	resp2, err := http.Get(e.srv.URL + "/nope")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestConfigJS(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	resp, err := http.Get(e.srv.URL + "/config.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `window.__API_BASE__="/api"`)
}

func TestLocate(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	var res struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		MedianAge float64 `json:"median_age"`
		InRange   bool    `json:"in_range"`
	}
	getJSON(t, c, base+"/locate?lat=29.5&lon=-82.5", http.StatusOK, &res)
	assert.Equal(t, "12001", res.ID)
	assert.Equal(t, 30.0, res.MedianAge)
	assert.True(t, res.InRange)

	postJSON(t, c, base+"/range", `{"low":40,"high":50}`, http.StatusOK, nil)
	getJSON(t, c, base+"/locate?lat=29.5&lon=-82.5", http.StatusOK, &res)
	assert.False(t, res.InRange)

	getJSON(t, c, base+"/locate?lat=0&lon=0", http.StatusNotFound, nil)
	getJSON(t, c, base+"/locate?lat=abc&lon=0", http.StatusBadRequest, nil)
}

func TestImagesAndDistribution(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	cases := []struct {
		path, ctype, marker string
	}{
		{"/map.png?width=300&height=200", "image/png", "\x89PNG"},
		{"/map.svg", "image/svg+xml", "<svg"},
		{"/distribution", "text/html; charset=utf-8", "echarts"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := c.Get(base + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.ctype, resp.Header.Get("content-type"))
			body, _ := io.ReadAll(resp.Body)
			assert.NotEmpty(t, body)
			assert.Contains(t, string(body), tc.marker)
		})
	}
}

func TestStatsWithoutStore(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	var tot struct {
		Enabled bool  `json:"enabled"`
		Total   int64 `json:"total"`
	}
	getJSON(t, e.client(t), e.srv.URL+"/api/stats", http.StatusOK, &tot)
	assert.False(t, tot.Enabled)
	assert.Zero(t, tot.Total)
}

func TestReloadRequiresToken(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	c := e.client(t)
	base := e.srv.URL + "/api"

	getJSON(t, c, base+"/view", http.StatusOK, nil)
	postJSON(t, c, base+"/reload", "", http.StatusForbidden, nil)

	req, err := http.NewRequest(http.MethodPost, base+"/reload", nil)
	require.NoError(t, err)
	req.Header.Set("x-admin-token", "secret")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Regions int `json:"regions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 3, out.Regions)
	assert.Equal(t, int32(2), e.fetcher.calls.Load())
}

func TestMetricsMounted(t *testing.T) {
	e := newEnv(t, testutil.WriteCSV(t))
	getJSON(t, e.client(t), e.srv.URL+"/api/view", http.StatusOK, nil)
	resp, err := http.Get(e.srv.URL + "/api/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "geolegend_renders_total")
}
