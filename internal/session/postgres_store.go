package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS storefront_sessions (
		id         TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)
`

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// OpenPostgres opens a traced connection pool and makes sure the session
// table exists.
func OpenPostgres(ctx context.Context, cfg *config.Database) (*PostgresStore, error) {
	db, err := otelsql.Open("postgres", cfg.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if _, err := s.DB.ExecContext(dbCtx, schema); err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Session, bool, error) {
	if id == "" {
		return nil, false, ErrInvalidID
	}

	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		SELECT data
		FROM storefront_sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var data []byte

	err := s.DB.QueryRowContext(dbCtx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("querying session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidID
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO storefront_sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at
	`

	if _, err := s.DB.ExecContext(dbCtx, query, sess.ID, data, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if _, err := s.DB.ExecContext(dbCtx, `DELETE FROM storefront_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// PurgeExpired removes sessions past their expiry and reports how many were removed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(dbCtx, `DELETE FROM storefront_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	return res.RowsAffected()
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
