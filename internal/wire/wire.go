// Package wire provides dependency injection for the prisoners application.
// Shared infrastructure is created lazily and at most once per process.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"

	cliadapter "github.com/example/prisoners/internal/adapters/cli"
	"github.com/example/prisoners/internal/adapters/sqlite"
	"github.com/example/prisoners/internal/app"
	"github.com/example/prisoners/internal/config"
	"github.com/example/prisoners/internal/core/trial"
	"github.com/example/prisoners/internal/db"
	"github.com/example/prisoners/internal/logging"
	"github.com/example/prisoners/internal/ports/primary"
	"github.com/example/prisoners/internal/ports/secondary"
	"github.com/example/prisoners/internal/telemetry"
)

var (
	cfg     *config.Config
	cfgErr  error
	cfgOnce sync.Once

	database *sql.DB
	dbErr    error
	dbOnce   sync.Once

	metrics     *telemetry.Metrics
	metricsOnce sync.Once
)

// Config returns the effective configuration for the working directory.
func Config() (*config.Config, error) {
	cfgOnce.Do(func() {
		dir, err := os.Getwd()
		if err != nil {
			cfgErr = fmt.Errorf("failed to get working directory: %w", err)
			return
		}
		cfg, cfgErr = config.Load(dir)
	})
	return cfg, cfgErr
}

// InitLogging configures the default logger. level and format override the
// configured values when non-empty.
func InitLogging(level, format string) error {
	c, err := Config()
	if err != nil {
		return err
	}
	lc := logging.DefaultConfig()
	lc.Level = firstNonEmpty(level, c.LogLevel, lc.Level)
	lc.Format = firstNonEmpty(format, c.LogFormat, lc.Format)
	if err := lc.Validate(); err != nil {
		return err
	}
	logging.Init(lc)
	return nil
}

// Logger returns the default logger.
func Logger() *bolt.Logger {
	return logging.Get()
}

// Metrics returns the simulation instruments on the global meter provider.
func Metrics() *telemetry.Metrics {
	metricsOnce.Do(func() {
		m, err := telemetry.NewMetrics(nil)
		if err != nil {
			logging.With(Logger().Warn(), logging.ErrorField(err)).Msg("metrics disabled")
			return
		}
		metrics = m
	})
	return metrics
}

// RunRepository opens the run history database on first use.
func RunRepository() (secondary.RunRepository, error) {
	dbOnce.Do(func() {
		c, err := Config()
		if err != nil {
			dbErr = err
			return
		}
		path, err := c.ResolveDBPath()
		if err != nil {
			dbErr = err
			return
		}
		database, dbErr = db.Open(path)
	})
	if dbErr != nil {
		return nil, dbErr
	}
	return sqlite.NewRunRepository(database), nil
}

// SimulationService builds a SimulationService. The history database is only
// opened when record is set, so plain simulations never touch disk.
func SimulationService(workers int, record bool) (*app.SimulationServiceImpl, error) {
	var repo secondary.RunRepository
	if record {
		r, err := RunRepository()
		if err != nil {
			return nil, err
		}
		repo = r
	}
	return app.NewSimulationService(repo, trial.Runner{Workers: workers}, Logger(), Metrics()), nil
}

// HistoryService returns a RunHistoryService backed by the history database.
func HistoryService() (primary.RunHistoryService, error) {
	repo, err := RunRepository()
	if err != nil {
		return nil, err
	}
	return app.NewSimulationService(repo, trial.Runner{}, Logger(), Metrics()), nil
}

// SimulationAdapter returns a new SimulationAdapter writing to stdout.
func SimulationAdapter(workers int, record bool) (*cliadapter.SimulationAdapter, error) {
	return SimulationAdapterWithOutput(workers, record, os.Stdout)
}

// SimulationAdapterWithOutput returns a new SimulationAdapter writing to the given output.
func SimulationAdapterWithOutput(workers int, record bool, out io.Writer) (*cliadapter.SimulationAdapter, error) {
	service, err := SimulationService(workers, record)
	if err != nil {
		return nil, err
	}
	return cliadapter.NewSimulationAdapter(service, out), nil
}

// HistoryAdapter returns a new HistoryAdapter writing to stdout.
func HistoryAdapter() (*cliadapter.HistoryAdapter, error) {
	service, err := HistoryService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewHistoryAdapter(service, os.Stdout), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
