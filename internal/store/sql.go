package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"backstage/internal/domain"
	"backstage/internal/migrate"
)

const (
	workspaceDir  = ".backstage"
	defaultDBName = "backstage.db"
)

// SQLStore keeps the document in the documents table and versions in the
// versions table, both keyed by the document key.
type SQLStore struct {
	db      *sql.DB
	dialect migrate.Dialect
	key     string
}

// DBPath returns the sqlite file used for a workspace.
func DBPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, workspaceDir, defaultDBName)
}

// OpenSQLite opens (and migrates) the sqlite database. An empty dsn uses the
// workspace file.
func OpenSQLite(ctx context.Context, workspace, dsn, key string) (*SQLStore, error) {
	if dsn == "" {
		path := DBPath(workspace)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLStore(ctx, db, migrate.SQLite, key)
}

// OpenPostgres opens a database/sql handle through the pgx driver.
func OpenPostgres(ctx context.Context, dsn, key string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLStore(ctx, db, migrate.Postgres, key)
}

func newSQLStore(ctx context.Context, db *sql.DB, d migrate.Dialect, key string) (*SQLStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := migrate.Migrate(db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db, dialect: d, key: key}, nil
}

func (s *SQLStore) q(query string) string { return migrate.Rebind(s.dialect, query) }

func (s *SQLStore) Load(ctx context.Context) (*domain.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT payload FROM documents WHERE doc_key=?`), s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return decodeState([]byte(payload))
}

func (s *SQLStore) Save(ctx context.Context, st domain.State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO documents(doc_key,payload,saved_at) VALUES(?,?,?)
		ON CONFLICT(doc_key) DO UPDATE SET payload=excluded.payload, saved_at=excluded.saved_at`), s.key, string(data), now)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SQLStore) ListVersions(ctx context.Context) ([]domain.Version, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT payload FROM versions WHERE doc_key=? ORDER BY created_at, id`), s.key)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()
	out := []domain.Version{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		v, err := decodeVersion([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendVersion(ctx context.Context, v domain.Version) error {
	data, err := encodeVersion(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO versions(id,doc_key,label,created_at,payload) VALUES(?,?,?,?,?)`),
		v.ID, s.key, v.Label, v.CreatedAt, string(data))
	if err != nil {
		return fmt.Errorf("append version: %w", err)
	}
	return nil
}

func (s *SQLStore) GetVersion(ctx context.Context, id string) (domain.Version, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT payload FROM versions WHERE doc_key=? AND id=?`), s.key, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Version{}, fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Version{}, fmt.Errorf("get version: %w", err)
	}
	return decodeVersion([]byte(payload))
}

func (s *SQLStore) DeleteVersion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM versions WHERE doc_key=? AND id=?`), s.key, id)
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
