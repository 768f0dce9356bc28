package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"alphagpt/internal/models"
)

// SQLiteStore implements DecisionStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based decision store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the decisions table and its index.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Append-only decision log, consumed by the dashboard
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		asset TEXT,
		raw_text TEXT NOT NULL,
		mode TEXT NOT NULL,
		order_id TEXT,
		error TEXT,
		pnl REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AppendDecision appends one decision record.
func (s *SQLiteStore) AppendDecision(ctx context.Context, record *models.DecisionRecord) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (timestamp, action, asset, raw_text, mode, order_id, error, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp, string(record.Action), record.Asset, record.RawText,
		string(record.Mode), record.OrderID, record.Error, record.PnL,
	)
	if err != nil {
		return fmt.Errorf("appending decision: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// ListDecisions returns the most recent decisions, newest first.
func (s *SQLiteStore) ListDecisions(ctx context.Context, limit int) ([]models.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, action, asset, raw_text, mode, order_id, error, pnl
		FROM decisions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var records []models.DecisionRecord
	for rows.Next() {
		var r models.DecisionRecord
		var action, mode string
		var asset, orderID, errText sql.NullString
		var pnl sql.NullFloat64

		if err := rows.Scan(&r.ID, &r.Timestamp, &action, &asset, &r.RawText, &mode, &orderID, &errText, &pnl); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}

		r.Action = models.Action(action)
		r.Mode = models.ExecutionMode(mode)
		r.Asset = asset.String
		r.OrderID = orderID.String
		r.Error = errText.String
		if pnl.Valid {
			v := pnl.Float64
			r.PnL = &v
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// DecisionStats aggregates the log by action.
func (s *SQLiteStore) DecisionStats(ctx context.Context) (*models.DecisionStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, COUNT(*), SUM(CASE WHEN order_id != '' THEN 1 ELSE 0 END)
		FROM decisions
		GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("querying decision stats: %w", err)
	}
	defer rows.Close()

	stats := &models.DecisionStats{
		ByAction: make(map[models.Action]int),
	}
	for rows.Next() {
		var action string
		var count, executed int
		if err := rows.Scan(&action, &count, &executed); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats.ByAction[models.Action(action)] = count
		stats.Total += count
		stats.Executed += executed
	}

	return stats, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ DecisionStore = (*SQLiteStore)(nil)
