package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.logger.Debug().Str("path", dbPath).Msg("Opened journal database")
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Journaled trades. Prices are decimal strings, dates RFC3339.
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		setup_name TEXT NOT NULL DEFAULT '',
		entry_price TEXT NOT NULL,
		exit_price TEXT NOT NULL,
		stop_loss_price TEXT NOT NULL,
		quantity TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		entry_unix_ms INTEGER NOT NULL,
		exit_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		emotion TEXT NOT NULL DEFAULT '',
		images TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	-- Saved filter presets
	CREATE TABLE IF NOT EXISTS filter_presets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		filters TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_entry ON trades(entry_unix_ms, created_at);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trades Methods
// ============================================================================

func encodeDecimal(f float64) string {
	return decimal.NewFromFloat(f).String()
}

func decodeDecimal(field, s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// SaveTrade inserts or replaces a trade. CreatedAt is set on first save and
// UpdatedAt on every save.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	if err := trade.Validate(); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	if trade.CreatedAt == 0 {
		trade.CreatedAt = now
	}
	trade.UpdatedAt = now

	images := trade.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (id, symbol, direction, setup_name, entry_price, exit_price, stop_loss_price, quantity, entry_date, entry_unix_ms, exit_date, notes, emotion, images, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.Symbol, string(trade.Direction), trade.SetupName,
		encodeDecimal(trade.EntryPrice), encodeDecimal(trade.ExitPrice), encodeDecimal(trade.StopLossPrice), encodeDecimal(trade.Quantity),
		models.FormatTimestamp(trade.EntryDate), trade.EntryDate.UnixMilli(), models.FormatTimestamp(trade.ExitDate),
		trade.Notes, trade.Emotion, string(imagesJSON), trade.CreatedAt, trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to save trade: %v", apperrors.ErrDatabaseError, err)
	}

	s.logger.Debug().Str("trade_id", trade.ID).Msg("Saved trade")
	return nil
}

const tradeColumns = `id, symbol, direction, setup_name, entry_price, exit_price, stop_loss_price, quantity, entry_date, exit_date, notes, emotion, images, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var direction, entry, exit, stop, qty, entryDate, exitDate, imagesJSON string
	if err := row.Scan(&t.ID, &t.Symbol, &direction, &t.SetupName, &entry, &exit, &stop, &qty,
		&entryDate, &exitDate, &t.Notes, &t.Emotion, &imagesJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	t.Direction = models.Direction(direction)
	decoded := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{"entry_price", entry, &t.EntryPrice},
		{"exit_price", exit, &t.ExitPrice},
		{"stop_loss_price", stop, &t.StopLossPrice},
		{"quantity", qty, &t.Quantity},
	}
	for _, d := range decoded {
		v, err := decodeDecimal(d.field, d.raw)
		if err != nil {
			return nil, apperrors.NewDataError("trade", t.ID, "corrupt price column", err)
		}
		*d.dst = v
	}

	var err error
	if t.EntryDate, err = time.Parse(time.RFC3339Nano, entryDate); err != nil {
		return nil, apperrors.NewDataError("trade", t.ID, "corrupt entry_date", err)
	}
	if t.ExitDate, err = time.Parse(time.RFC3339Nano, exitDate); err != nil {
		return nil, apperrors.NewDataError("trade", t.ID, "corrupt exit_date", err)
	}
	if err := json.Unmarshal([]byte(imagesJSON), &t.Images); err != nil {
		return nil, apperrors.NewDataError("trade", t.ID, "corrupt images", err)
	}
	if len(t.Images) == 0 {
		t.Images = nil
	}
	return &t, nil
}

// GetTrade retrieves a trade by id.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewDataError("trade", id, "lookup", apperrors.ErrTradeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return t, nil
}

// ListTrades returns trades ordered by entry date, then creation time.
func (s *SQLiteStore) ListTrades(ctx context.Context, opts ListOptions) ([]models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE 1=1`
	args := []interface{}{}

	if opts.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, opts.Symbol)
	}

	query += " ORDER BY entry_unix_ms ASC, created_at ASC, id ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

// DeleteTrade removes a trade by id.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete trade: %v", apperrors.ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewDataError("trade", id, "delete", apperrors.ErrTradeNotFound)
	}
	s.logger.Debug().Str("trade_id", id).Msg("Deleted trade")
	return nil
}

// ============================================================================
// Filter Preset Methods
// ============================================================================

// CreatePreset stores a new preset. Filters are kept as JSON.
func (s *SQLiteStore) CreatePreset(ctx context.Context, preset models.FilterPreset) error {
	filters, err := json.Marshal(preset.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode preset filters: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filter_presets (id, name, filters, created_at)
		VALUES (?, ?, ?, ?)
	`, preset.ID, preset.Name, string(filters), preset.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to create preset: %v", apperrors.ErrDatabaseError, err)
	}
	return nil
}

func scanPreset(row rowScanner) (*models.FilterPreset, error) {
	var p models.FilterPreset
	var filtersJSON string
	if err := row.Scan(&p.ID, &p.Name, &filtersJSON, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(filtersJSON), &p.Filters); err != nil {
		return nil, apperrors.NewDataError("preset", p.ID, "corrupt filters", err)
	}
	return &p, nil
}

// GetPreset retrieves a preset by id.
func (s *SQLiteStore) GetPreset(ctx context.Context, id string) (*models.FilterPreset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, filters, created_at FROM filter_presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewDataError("preset", id, "lookup", apperrors.ErrPresetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return p, nil
}

// ListPresets returns every preset, oldest first.
func (s *SQLiteStore) ListPresets(ctx context.Context) ([]models.FilterPreset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, filters, created_at FROM filter_presets ORDER BY created_at ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	presets := []models.FilterPreset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// DeletePreset removes a preset by id.
func (s *SQLiteStore) DeletePreset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM filter_presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete preset: %v", apperrors.ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewDataError("preset", id, "delete", apperrors.ErrPresetNotFound)
	}
	return nil
}
