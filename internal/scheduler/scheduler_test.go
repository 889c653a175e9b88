package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nogus/server/config"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestScheduler_RunsJobs(t *testing.T) {
	var runs, failures atomic.Int32
	s := NewScheduler(quietLogger(),
		Job{Name: "tick", Interval: 10 * time.Millisecond, RunOnStart: true, Run: func() error {
			runs.Add(1)
			return nil
		}},
		Job{Name: "broken", Interval: 10 * time.Millisecond, Run: func() error {
			failures.Add(1)
			return errors.New("boom")
		}},
		Job{Name: "disabled", Run: func() error {
			t.Error("disabled job ran")
			return nil
		}},
	)
	s.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 3 && failures.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())

	// stopping twice is harmless
	s.Stop()
}

func TestMarketProfileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	write := func(rent string) {
		data := `{"market_profiles":[{"name":"reload-test","market_rent":` + rent + `}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	}

	write("2")
	job := MarketProfileReload(path, time.Minute)
	assert.Equal(t, "market_profile_reload", job.Name)
	require.NoError(t, job.Run())
	require.NotNil(t, config.GetMarketProfile("reload-test"))
	assert.Equal(t, 2.0, config.GetMarketProfile("reload-test").MarketRent)

	write("3.5")
	require.NoError(t, job.Run())
	assert.Equal(t, 3.5, config.GetMarketProfile("reload-test").MarketRent)

	// a broken file keeps the previous profiles
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	assert.Error(t, job.Run())
	assert.Equal(t, 3.5, config.GetMarketProfile("reload-test").MarketRent)
}
