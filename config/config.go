package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"nogus/server/internal/finance"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// One of logrus' level names
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Database struct {
		Path string `env:"DB_PATH" envDefault:"database/nogus.db"`
	}

	// Path to the JSON file holding market leasing profiles
	MarketProfilesPath string `env:"MARKET_PROFILES_PATH" envDefault:"config/market_profiles.json"`

	// How often the profile file is re-read, 0 disables reloading
	MarketProfilesReload time.Duration `env:"MARKET_PROFILES_RELOAD" envDefault:"0"`

	// Analysis configures the IRR solver and portfolio valuation
	Analysis struct {
		// Maximum refinement steps before the IRR is reported undefined
		IRRMaxIterations int `env:"IRR_MAX_ITERATIONS" envDefault:"200"`

		// Absolute NPV tolerance at the solved rate
		IRRTolerance float64 `env:"IRR_TOLERANCE" envDefault:"1e-7"`

		// Rate bracket searched for a sign change, as fractions
		IRRLowerBound float64 `env:"IRR_LOWER_BOUND" envDefault:"-0.99"`
		IRRUpperBound float64 `env:"IRR_UPPER_BOUND" envDefault:"10.0"`

		// Number of analyses valued concurrently within one batch
		Workers int `env:"ANALYSIS_WORKERS" envDefault:"4"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of analyses accepted in one batch request
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of batches the queue can buffer
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"10"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batch writes
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}
}

// LoadConfig reads the environment, after loading a .env file if one exists
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IRRSolver builds a solver from the analysis settings
func (c *Config) IRRSolver() *finance.IRRSolver {
	solver := finance.NewIRRSolver()
	if c.Analysis.IRRMaxIterations > 0 {
		solver.MaxIterations = c.Analysis.IRRMaxIterations
	}
	if c.Analysis.IRRTolerance > 0 {
		solver.Tolerance = c.Analysis.IRRTolerance
	}
	if c.Analysis.IRRLowerBound > -1 && c.Analysis.IRRLowerBound < c.Analysis.IRRUpperBound {
		solver.Lower = c.Analysis.IRRLowerBound
		solver.Upper = c.Analysis.IRRUpperBound
	}
	return solver
}

// LogLevel parses the configured level, defaulting to info
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
