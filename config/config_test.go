package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gotify/configor"
	"github.com/stretchr/testify/require"
)

func TestSchedulerConfig(t *testing.T) {
	t.Run(`durations check`, func(t *testing.T) {
		enabled := true
		cfg := SchedulerConfig{Enable: &enabled, IntervalSec: 120, ForceCheckDelaySec: 5}
		require.True(t, cfg.IsEnabled())
		require.Equal(t, 2*time.Minute, cfg.GetInterval())
		require.Equal(t, 5*time.Second, cfg.GetForceCheckDelay())
	})

	t.Run(`defaults for empty config`, func(t *testing.T) {
		cfg := SchedulerConfig{}
		require.False(t, cfg.IsEnabled())
		require.Equal(t, time.Minute, cfg.GetInterval())
		require.Equal(t, time.Duration(0), cfg.GetForceCheckDelay())
	})

	t.Run(`early resolution defaults to true`, func(t *testing.T) {
		Conf = nil
		require.True(t, IsEarlyResolution())
		disabled := false
		Conf = &Configuration{}
		Conf.Voting.EarlyResolution = &disabled
		require.False(t, IsEarlyResolution())
		Conf = nil
	})
}

func TestSchedulerConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
scheduler:
  enable: false
  interval: 5
  forceCheckDelay: 2
notify:
  interval: 15
  maxAttempts: 3
  batchSize: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf := new(Configuration)
	require.NoError(t, configor.New(&configor.Config{}).Load(conf, path))
	require.False(t, conf.Scheduler.IsEnabled())
	require.Equal(t, 5*time.Second, conf.Scheduler.GetInterval())
	require.Equal(t, 2*time.Second, conf.Scheduler.GetForceCheckDelay())
	require.Equal(t, 15*time.Second, conf.Notify.GetInterval())
	require.Equal(t, 3, conf.Notify.MaxAttempts)
	require.Equal(t, 20, conf.Notify.BatchSize)
}
