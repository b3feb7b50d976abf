package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"lilt/internal/config"
	"lilt/pkg/domain"
)

// SQLStorage keeps one row per executed case in a MySQL table.
type SQLStorage struct {
	db    *sql.DB
	table string
}

// SQLConfigured reports whether a results database is set up
func SQLConfigured(cfg *config.Config) bool {
	return cfg.ResultsDSN != "" || cfg.Database.Host != ""
}

// DSN builds the MySQL connection string from DB_* settings
func DSN(db config.Database) string {
	c := mysql.NewConfig()
	c.User = db.Username
	if c.User == "" {
		c.User = "root"
	}
	c.Passwd = db.Password
	c.Net = "tcp"
	port := db.Port
	if port == "" {
		port = config.DefaultDBPort
	}
	c.Addr = net.JoinHostPort(db.Host, port)
	c.DBName = db.Name
	c.ParseTime = true
	return c.FormatDSN()
}

// OpenSQL connects to the configured results database. The table is created on first save.
func OpenSQL(cfg *config.Config) (*SQLStorage, error) {
	if !isValidIdentifier(cfg.ResultsTable) {
		return nil, fmt.Errorf("invalid results table name: %q", cfg.ResultsTable)
	}

	dsn := cfg.ResultsDSN
	if dsn == "" {
		dsn = DSN(cfg.Database)
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid results DSN: %w", err)
	}
	parsed.ParseTime = true

	db, err := sql.Open("mysql", parsed.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}
	return &SQLStorage{db: db, table: cfg.ResultsTable}, nil
}

// Close closes the database handle
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) ensureTable() error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"id BIGINT AUTO_INCREMENT PRIMARY KEY, "+
		"run_id CHAR(36) NOT NULL, "+
		"started_at DATETIME(6) NOT NULL, "+
		"set_name VARCHAR(255) NOT NULL, "+
		"case_index INT NOT NULL, "+
		"case_name VARCHAR(255) NOT NULL, "+
		"passed BOOLEAN NOT NULL, "+
		"reason TEXT NOT NULL, "+
		"duration_ns BIGINT NOT NULL, "+
		"resolved BOOLEAN NOT NULL DEFAULT FALSE, "+
		"INDEX idx_run (run_id))", s.table)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}
	return nil
}

// Save inserts every case of the run in one transaction
func (s *SQLStorage) Save(run domain.RunResult) error {
	if err := s.ensureTable(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin results transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO `%s` "+
		"(run_id, started_at, set_name, case_index, case_name, passed, reason, duration_ns) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table))
	if err != nil {
		return fmt.Errorf("prepare results insert: %w", err)
	}
	defer stmt.Close()

	for _, set := range run.Sets {
		for _, c := range set.Cases {
			if _, err := stmt.Exec(run.ID, run.Started, set.Name, c.Index, c.Name, c.Passed, c.Reason, int64(c.Duration)); err != nil {
				return fmt.Errorf("insert result %s/%s: %w", set.Name, c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// Load rebuilds the most recent run. Sets without cases are not stored.
func (s *SQLStorage) Load() (*domain.TestResultsOutput, error) {
	var runID string
	err := s.db.QueryRow(fmt.Sprintf("SELECT run_id FROM `%s` ORDER BY started_at DESC, id DESC LIMIT 1", s.table)).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT started_at, set_name, case_index, case_name, passed, reason, duration_ns, resolved "+
		"FROM `%s` WHERE run_id = ? ORDER BY id", s.table), runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	run := domain.RunResult{ID: runID}
	resolved := make(map[string]bool)
	for rows.Next() {
		var (
			setName    string
			c          domain.CaseResult
			durationNS int64
			isResolved bool
		)
		if err := rows.Scan(&run.Started, &setName, &c.Index, &c.Name, &c.Passed, &c.Reason, &durationNS, &isResolved); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		c.Duration = time.Duration(durationNS)
		run.Duration += c.Duration
		if isResolved {
			resolved[failureKey(setName, c.Index)] = true
		}

		if n := len(run.Sets); n == 0 || run.Sets[n-1].Name != setName {
			run.Sets = append(run.Sets, domain.SetResult{Name: setName})
		}
		set := &run.Sets[len(run.Sets)-1]
		set.Cases = append(set.Cases, c)
		set.Total++
		set.Duration += c.Duration
		if c.Passed {
			set.Passed++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	output := BuildOutput(run)
	for i := range output.Details {
		d := &output.Details[i]
		d.Resolved = resolved[failureKey(d.SetName, d.Index)]
	}
	return output, nil
}

// SaveOutput stores the resolved flags of the output's failures
func (s *SQLStorage) SaveOutput(output *domain.TestResultsOutput) error {
	if output.Meta.RunID == "" {
		return nil
	}
	query := fmt.Sprintf("UPDATE `%s` SET resolved = ? WHERE run_id = ? AND set_name = ? AND case_index = ?", s.table)
	for _, d := range output.Details {
		if _, err := s.db.Exec(query, d.Resolved, output.Meta.RunID, d.SetName, d.Index); err != nil {
			return fmt.Errorf("update %s/%s: %w", d.SetName, d.TestName, err)
		}
	}
	return nil
}

func failureKey(set string, index int) string {
	return fmt.Sprintf("%s\x00%d", set, index)
}

// isValidIdentifier allows plain MySQL identifiers only
func isValidIdentifier(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
	}) < 0
}
