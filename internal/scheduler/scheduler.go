package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"nogus/server/config"
)

// Job is a task run on a fixed interval
type Job struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
	Run        func() error
}

// Scheduler runs periodic jobs one at a time
type Scheduler struct {
	logger   *logrus.Logger
	jobs     []Job
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

func NewScheduler(logger *logrus.Logger, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		logger:   logger,
		jobs:     jobs,
		stopChan: make(chan struct{}),
	}
}

// Start launches one ticker per job. Jobs with a non-positive interval are
// skipped.
func (s *Scheduler) Start() {
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			s.logger.WithField("job", job.Name).Debug("Job disabled")
			continue
		}
		s.wg.Add(1)
		go s.runJob(job)
	}
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	if job.RunOnStart {
		s.execute(job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job Job) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	start := time.Now()
	if err := job.Run(); err != nil {
		s.logger.WithError(err).WithField("job", job.Name).Error("Scheduled job failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"job":      job.Name,
		"duration": time.Since(start).String(),
	}).Debug("Scheduled job completed")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

// MarketProfileReload re-reads the market profile file so edits take effect
// without a restart. A failed reload keeps the previous profiles.
func MarketProfileReload(path string, interval time.Duration) Job {
	return Job{
		Name:     "market_profile_reload",
		Interval: interval,
		Run: func() error {
			return config.LoadMarketProfiles(path)
		},
	}
}
