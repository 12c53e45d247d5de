package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, "12", c.RegionPrefix)
	assert.Equal(t, DefaultBoundaryURL, c.BoundaryURL)
	assert.Equal(t, 0.01, c.Step)
	assert.False(t, c.InsecureTLS)
	assert.False(t, c.TLSEnable)
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"ADDR":                   ":9090",
		"API_BASE":               "v1/",
		"REGION_PREFIX":          "06",
		"BOUNDARY_FETCH_TIMEOUT": "5s",
		"SLIDER_STEP":            "0.5",
		"PG_ENABLE":              "true",
		"RATE_LIMIT_QPS":         "10",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, "/v1", c.APIBase)
	assert.Equal(t, "06", c.RegionPrefix)
	assert.Equal(t, 5*time.Second, c.FetchTimeout)
	assert.Equal(t, 0.5, c.Step)
	assert.True(t, c.PGEnable)
	assert.Equal(t, 10, c.RateLimitQPS)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"BOUNDARY_FETCH_TIMEOUT": "soon"}))
	assert.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{"SLIDER_STEP": "-1"}))
	assert.Error(t, err)
}

func TestYAMLOverlayThenEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geo-legend.yaml")
	require.NoError(t, os.WriteFile(p, []byte("title: Median age in California\nregion_prefix: \"06\"\ncolor_low: \"#000000\"\n"), 0o644))

	c, err := FromEnv(envMap(map[string]string{
		"CONFIG_FILE": p,
		"COLOR_LOW":   "#111111",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Median age in California", c.Title)
	assert.Equal(t, "06", c.RegionPrefix)
	assert.Equal(t, "#111111", c.ColorLow)
	assert.Equal(t, "#fec84d", c.ColorHigh)
}

func TestYAMLMissingFile(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"CONFIG_FILE": filepath.Join(t.TempDir(), "nope.yaml")}))
	assert.Error(t, err)
}
