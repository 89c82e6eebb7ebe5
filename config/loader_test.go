package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 8080
logging:
  level: debug
  encoding: console
source:
  kind: json
  baseURL: https://ais.example.org/api
fleets:
  - name: amazon
  - name: coast
    source:
      kind: gtfsrt
      vehiclePositionsURL: https://ais.example.org/coast.pb
pacing:
  intervalMS: 60000
  steps: 6
  fetchOnStart: true
replay:
  enabled: true
render:
  websocket: true
  siri: true
  redis:
    enabled: true
    addr: localhost:6379
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Logging.Encoding)
	assert.Equal(t, time.Minute, cfg.Pacing.Interval())
	assert.Equal(t, 6, cfg.Pacing.Steps)
	assert.True(t, cfg.Pacing.FetchOnStart)
	assert.Equal(t, 24*time.Hour, cfg.Replay.Lookback())
	assert.Equal(t, 120*time.Second, cfg.Replay.DT())
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout())
	assert.Equal(t, DefaultRedisPrefix, cfg.Render.Redis.Prefix)
	assert.Equal(t, DefaultCodespace, cfg.Render.Codespace)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, SourceJSON, cfg.Source.Kind)
	assert.Equal(t, DefaultIntervalMS, cfg.Pacing.IntervalMS)
	assert.Equal(t, DefaultSteps, cfg.Pacing.Steps)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown kind":       "source: {kind: kafka}",
		"negative steps":     "pacing: {steps: -1}",
		"unnamed fleet":      "fleets: [{source: {kind: json}}]",
		"redis without addr": "render: {redis: {enabled: true}}",
		"bad level":          "logging: {level: loud}",
		"not yaml":           "server: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSelectFleet(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	name, src := cfg.SelectFleet("coast")
	assert.Equal(t, "coast", name)
	assert.Equal(t, SourceGTFSRT, src.Kind)
	assert.Equal(t, "https://ais.example.org/api", src.BaseURL, "unset fields come from the top-level source")
	assert.Equal(t, "https://ais.example.org/coast.pb", src.VehiclePositionsURL)

	name, src = cfg.SelectFleet("")
	assert.Equal(t, "amazon", name)
	assert.Equal(t, SourceJSON, src.Kind)

	name, src = cfg.SelectFleet("baltic")
	assert.Equal(t, "baltic", name)
	assert.Equal(t, cfg.Source, src)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Fleets, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sample), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, LoadAppConfig())
	assert.Equal(t, 8080, Config.Server.Port)

	name, _ := SelectFleet("")
	assert.Equal(t, "amazon", name)
}
