// Package sqlite persists candle history and backtest results. Candle rows
// feed the offline replay command; backtest rows keep an audit trail of
// simulation runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"trading-analyzer/internal/model"
)

// Store implements model.CandleStore and model.ResultStore on one database
// file. Single-writer connection pool, WAL journal.
type Store struct {
	db *sql.DB
}

// DB returns the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Open opens (creating if needed) the database and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	log.Printf("[sqlite] opened database at %s", path)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			symbol    TEXT    NOT NULL,
			timeframe TEXT    NOT NULL,
			ts        INTEGER NOT NULL,
			open      REAL    NOT NULL,
			high      REAL    NOT NULL,
			low       REAL    NOT NULL,
			close     REAL    NOT NULL,
			volume    REAL    NOT NULL,
			PRIMARY KEY (symbol, timeframe, ts)
		);

		CREATE TABLE IF NOT EXISTS backtests (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol        TEXT    NOT NULL,
			timeframe     TEXT    NOT NULL,
			trades        INTEGER NOT NULL,
			wins          INTEGER NOT NULL,
			losses        INTEGER NOT NULL,
			win_rate      REAL    NOT NULL,
			avg_r         REAL    NOT NULL,
			profit_factor REAL    NOT NULL,
			history       TEXT    NOT NULL,
			created_at    INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);
	`)
	return err
}

// WriteCandles upserts a batch in a single transaction. Replaying the same
// window is a no-op thanks to the upsert.
func (s *Store) WriteCandles(ctx context.Context, symbol, timeframe string, candles []model.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, timeframe, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, timeframe, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, symbol, timeframe, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite insert candle: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	return nil
}

// ReadCandles returns candles after afterMS in ascending order, up to limit
// (0 means no limit).
func (s *Store) ReadCandles(ctx context.Context, symbol, timeframe string, afterMS int64, limit int) ([]model.Candle, error) {
	query := `
		SELECT ts, open, high, low, close, volume FROM candles
		WHERE symbol = ? AND timeframe = ? AND ts > ?
		ORDER BY ts ASC`
	args := []any{symbol, timeframe, afterMS}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite read candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// WriteBacktest stores one aggregated run; the trade history is kept as a
// JSON column since nothing queries into it.
func (s *Store) WriteBacktest(ctx context.Context, symbol, timeframe string, res model.BacktestResult) error {
	history, err := json.Marshal(res.History)
	if err != nil {
		return fmt.Errorf("sqlite encode history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO backtests (symbol, timeframe, trades, wins, losses, win_rate, avg_r, profit_factor, history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		symbol, timeframe, res.Trades, res.Wins, res.Losses, res.WinRate, res.AvgR, res.ProfitFactor, string(history))
	if err != nil {
		return fmt.Errorf("sqlite insert backtest: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
