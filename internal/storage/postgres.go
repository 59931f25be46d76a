package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/types"
)

const ordersSchema = `
	CREATE TABLE IF NOT EXISTS orders (
		id         TEXT PRIMARY KEY,
		hedge_to   TEXT,
		venue      TEXT NOT NULL,
		sym_in     TEXT NOT NULL,
		sym_out    TEXT NOT NULL,
		amount_in  DOUBLE PRECISION,
		amount_out DOUBLE PRECISION,
		action     TEXT NOT NULL,
		status     TEXT NOT NULL,
		tx         TEXT,
		ts         TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore connects to PostgreSQL and ensures the orders table exists.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.Exec(ordersSchema)
	if err != nil {
		return nil, fmt.Errorf("ensure orders table: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// Insert persists a new order row.
func (p *PostgresStore) Insert(ctx context.Context, o *types.Order) error {
	err := o.Validate()
	if err != nil {
		return &types.StoreError{Op: "insert", Err: err}
	}

	query := `
		INSERT INTO orders (
			id, hedge_to, venue, sym_in, sym_out, amount_in, amount_out,
			action, status, tx, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = p.db.ExecContext(ctx, query,
		o.ID,
		nullIfEmpty(o.HedgeTo),
		o.Venue,
		o.SymIn,
		o.SymOut,
		nullIfZero(o.AmountIn),
		nullIfZero(o.AmountOut),
		string(o.Action),
		string(o.Status),
		nullIfEmpty(o.Tx),
		o.Timestamp,
	)
	if err != nil {
		return &types.StoreError{Op: "insert", Err: err}
	}

	p.logger.Debug("order-inserted",
		zap.String("order-id", o.ID),
		zap.String("action", string(o.Action)),
		zap.String("venue", o.Venue))

	return nil
}

// UpdateStatus mutates only the status and transaction result of a row.
func (p *PostgresStore) UpdateStatus(ctx context.Context, id string, status types.Status, tx string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, tx = $3 WHERE id = $1`,
		id, string(status), nullIfEmpty(tx))
	if err != nil {
		return &types.StoreError{Op: "update", Err: err}
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return &types.StoreError{Op: "update", Err: fmt.Errorf("order %s not found", id)}
	}

	p.logger.Debug("order-updated",
		zap.String("order-id", id),
		zap.String("status", string(status)))

	return nil
}

// FindByStatusAction returns matching orders ordered by timestamp ascending.
func (p *PostgresStore) FindByStatusAction(ctx context.Context, status types.Status, action types.Action) ([]*types.Order, error) {
	query := `
		SELECT id, hedge_to, venue, sym_in, sym_out, amount_in, amount_out,
		       action, status, tx, ts
		FROM orders
		WHERE status = $1 AND action = $2
		ORDER BY ts ASC
	`

	rows, err := p.db.QueryContext(ctx, query, string(status), string(action))
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Recent returns the newest orders first.
func (p *PostgresStore) Recent(ctx context.Context, limit int) ([]*types.Order, error) {
	query := `
		SELECT id, hedge_to, venue, sym_in, sym_out, amount_in, amount_out,
		       action, status, tx, ts
		FROM orders
		ORDER BY ts DESC
		LIMIT $1
	`

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	p.logger.Info("closing-postgres-store")
	return p.db.Close()
}

func scanOrders(rows *sql.Rows) ([]*types.Order, error) {
	var orders []*types.Order

	for rows.Next() {
		var (
			o                   types.Order
			hedgeTo, tx         sql.NullString
			amountIn, amountOut sql.NullFloat64
			action, status      string
		)

		err := rows.Scan(&o.ID, &hedgeTo, &o.Venue, &o.SymIn, &o.SymOut,
			&amountIn, &amountOut, &action, &status, &tx, &o.Timestamp)
		if err != nil {
			return nil, &types.StoreError{Op: "find", Err: err}
		}

		o.HedgeTo = hedgeTo.String
		o.Tx = tx.String
		o.AmountIn = amountIn.Float64
		o.AmountOut = amountOut.Float64

		o.Action, err = types.ParseAction(action)
		if err != nil {
			return nil, &types.StoreError{Op: "find", Err: err}
		}
		o.Status, err = types.ParseStatus(status)
		if err != nil {
			return nil, &types.StoreError{Op: "find", Err: err}
		}

		orders = append(orders, &o)
	}

	err := rows.Err()
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}

	return orders, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullIfZero(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
