package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
)

const story = `name: speeches
regions:
  - id: vis-brush
    width: 600
    height: 200
  - id: vis-focus-primary
    width: 600
    height: 400
    margin: {top: 0, right: 0, bottom: 0, left: 0}
steps:
  - title: Intro
    text: "Presidents talk."
  - title: Race
    text: "Who talks most?"
charts:
  - region: vis-focus-primary
    step: 1
    kind: racing-bars
    source: {format: csv, location: speech_length.csv}
    options:
      thresholds: [1000, 2000]
      colors: {Whig: "#eeeeee"}
loader:
  data_dir: data
  timeout: 5s
`

func writeStory(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeStory(t, story)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "speeches", cfg.Name)
	assert.Equal(t, filepath.Dir(path), cfg.BaseDir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data"), cfg.DataDir())
	assert.Equal(t, 5*time.Second, cfg.GetLoaderTimeout())
	assert.Equal(t, 4, cfg.Loader.Concurrency, "defaults survive partial sections")
	assert.Equal(t, 50*time.Millisecond, cfg.GetFrameInterval())
	assert.Zero(t, cfg.GetResizeDebounce())

	require.Len(t, cfg.Charts, 1)
	ch := cfg.Charts[0]
	assert.Equal(t, 1, ch.Step)
	assert.Equal(t, []dataset.Source{{Format: "csv", Location: "speech_length.csv"}}, cfg.Sources())
	th, err := ch.Options.Floats("thresholds")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 2000}, th)
	assert.Equal(t, "#eeeeee", ch.Options.StringMap("colors")["Whig"])

	r, ok := cfg.Region("vis-focus-primary")
	require.True(t, ok)
	require.NotNil(t, r.Margin)
	assert.Zero(t, r.Margin.Top)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read story")
}

func TestLoad_MalformedStep(t *testing.T) {
	path := writeStory(t, "charts:\n  - step: two\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse story")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg, err := Load(writeStory(t, story))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "copy.yaml")
	require.NoError(t, cfg.Save(out))
	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Charts, back.Charts)
	assert.Equal(t, cfg.Regions, back.Regions)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Regions = []RegionConfig{{ID: "a"}, {ID: "a"}}
	cfg.Steps = []StepConfig{{Title: "only"}}
	cfg.Charts = []ChartConfig{
		{Region: "a", Step: 0, Kind: "pie", Source: dataset.Source{Format: "csv", Location: "x.csv"}},
		{Region: "b", Step: 3, Kind: "heatmap", Source: dataset.Source{Format: "xml", Location: "x"}},
	}
	cfg.Host.FrameInterval = "soon"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		`duplicate region "a"`,
		`chart 0: kind: unknown chart kind "pie"`,
		"chart 1: step: step 3 is past the last of 1 steps",
		`chart 1: region: region "b" is not declared`,
		"chart 1: source:",
		"host.frame_interval",
	} {
		assert.Contains(t, err.Error(), want)
	}

	var cfgErr *chart.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCROLLSTORY_DATA_DIR", "/srv/data")
	t.Setenv("SCROLLSTORY_LOG_LEVEL", "debug")
	t.Setenv("SCROLLSTORY_LOADER_TIMEOUT", "2s")

	cfg, err := Load(writeStory(t, story))
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.DataDir())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2*time.Second, cfg.GetLoaderTimeout())
}

func TestEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("SCROLLSTORY_LOADER_TIMEOUT", "forever")
	_, err := Load(writeStory(t, story))
	assert.ErrorContains(t, err, "parse env")
}
