package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-effects/perform/config"
	"github.com/go-effects/perform/effects"
)

const sampleYAML = `
scopes:
  effects.state:
    buffer_size: 8
    num_workers: 4
  effects.binding:
    buffer_size: 2
bindings:
  service_name: checkout
  max_retries: 3
`

func TestParse_FullDocument(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	want := map[string]config.ScopeSettings{
		"effects.state":   {BufferSize: 8, NumWorkers: 4},
		"effects.binding": {BufferSize: 2},
	}
	if diff := cmp.Diff(want, cfg.Scopes); diff != "" {
		t.Fatalf("scopes mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "checkout", cfg.Bindings["service_name"])
	assert.Equal(t, 3, cfg.Bindings["max_retries"])
}

func TestScopeConfig_FallsBackToDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, effects.ScopeConfig{BufferSize: 8, NumWorkers: 4}, cfg.ScopeConfig("effects.state"))
	// num_workers omitted: clamped to 1.
	assert.Equal(t, effects.ScopeConfig{BufferSize: 2, NumWorkers: 1}, cfg.ScopeConfig("effects.binding"))
	// Unknown scope: library defaults.
	assert.Equal(t, effects.ScopeConfig{BufferSize: 1, NumWorkers: 1}, cfg.ScopeConfig("effects.unknown"))
}

func TestParse_RejectsNegativeSizes(t *testing.T) {
	_, err := config.Parse([]byte("scopes:\n  s:\n    buffer_size: -1\n"))
	require.ErrorIs(t, err, config.ErrInvalidBufferSize)

	_, err = config.Parse([]byte("scopes:\n  s:\n    num_workers: -2\n"))
	require.ErrorIs(t, err, config.ErrInvalidNumWorkers)
}

func TestParse_Malformed(t *testing.T) {
	_, err := config.Parse([]byte("scopes: ["))
	require.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout", cfg.Bindings["service_name"])

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWatcher_ReloadNotifiesCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  tier: free\n"), 0o644))

	w, err := config.NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, "free", w.Current().Bindings["tier"])

	changed := make(chan struct{}, 1)
	w.OnChange(func(old, new *config.Config) {
		assert.Equal(t, "free", old.Bindings["tier"])
		assert.Equal(t, "pro", new.Bindings["tier"])
		changed <- struct{}{}
	})

	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  tier: pro\n"), 0o644))
	require.NoError(t, w.Reload())

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change callback never fired")
	}
	assert.Equal(t, "pro", w.Current().Bindings["tier"])
}

func TestWatcher_FileChangeTriggersDebouncedReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  tier: free\n"), 0o644))

	w, err := config.NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	changed := make(chan struct{}, 1)
	w.OnChange(func(_, next *config.Config) {
		if next.Bindings["tier"] == "pro" {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	})

	// No Reload call: the write event alone must drive the reload
	// through the debounce.
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  tier: pro\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(10 * time.Second):
		t.Fatal("file change never triggered a reload")
	}
	assert.Equal(t, "pro", w.Current().Bindings["tier"])
}

func TestWatcher_StartAndStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings: {}\n"), 0o644))

	w, err := config.NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
}
