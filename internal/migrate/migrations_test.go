package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRebind(t *testing.T) {
	q := `INSERT INTO t(a,b) VALUES(?,?)`
	if got := Rebind(SQLite, q); got != q {
		t.Fatalf("sqlite query changed: %s", got)
	}
	if got := Rebind(Postgres, q); got != `INSERT INTO t(a,b) VALUES($1,$2)` {
		t.Fatalf("unexpected postgres query: %s", got)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := Migrate(db, SQLite); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}
	var v int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&v); err != nil {
		t.Fatalf("read version: %v", err)
	}
	latest, err := Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if v != latest || latest != 1 {
		t.Fatalf("expected version %d, got %d", latest, v)
	}
}
