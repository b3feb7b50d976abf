package storage

import (
	"errors"
	"fmt"
	"io"
	"time"

	"lilt/internal/config"
	"lilt/pkg/domain"
)

// ErrNoResults is returned by Load when no run has been saved yet.
var ErrNoResults = errors.New("no saved test results")

// Storage persists and loads run results (e.g. for the faills viewer).
type Storage interface {
	Save(run domain.RunResult) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// New returns the JSON store, mirrored into MySQL when a results database is configured.
func New(cfg *config.Config) (Storage, error) {
	js := NewJSONStorage(cfg)
	if !SQLConfigured(cfg) {
		return js, nil
	}
	ss, err := OpenSQL(cfg)
	if err != nil {
		return nil, err
	}
	return Mirror{js, ss}, nil
}

// Close releases st when it holds a connection. The JSON store holds none.
func Close(st Storage) error {
	if c, ok := st.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// BuildOutput summarises a run in the stored output shape.
func BuildOutput(run domain.RunResult) *domain.TestResultsOutput {
	failedSets := 0
	for _, s := range run.Sets {
		if s.Failed() > 0 {
			failedSets++
		}
	}
	passed, total := run.Totals()

	started := run.Started
	if started.IsZero() {
		started = time.Now()
	}

	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           run.ID,
			TotalTestSets:   len(run.Sets),
			FailedTestSets:  failedSets,
			PassedTestSets:  len(run.Sets) - failedSets,
			TotalTestCases:  total,
			FailedTestCases: total - passed,
			Duration:        run.Duration.String(),
			DurationSeconds: run.Duration.Seconds(),
			Timestamp:       started.Format(time.RFC3339),
		},
		Sets:    run.Sets,
		Details: run.Failures(),
	}
}

// Mirror writes to every store and reads from the first.
type Mirror []Storage

func (m Mirror) Save(run domain.RunResult) error {
	for _, s := range m {
		if err := s.Save(run); err != nil {
			return err
		}
	}
	return nil
}

func (m Mirror) Load() (*domain.TestResultsOutput, error) {
	if len(m) == 0 {
		return nil, ErrNoResults
	}
	return m[0].Load()
}

func (m Mirror) SaveOutput(output *domain.TestResultsOutput) error {
	for _, s := range m {
		if err := s.SaveOutput(output); err != nil {
			return fmt.Errorf("save output: %w", err)
		}
	}
	return nil
}

// Close closes every store that holds a connection.
func (m Mirror) Close() error {
	var errs []error
	for _, s := range m {
		if err := Close(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
