package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepo stores comments in SQLite (WAL mode).
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storeErr("create data dir", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeErr("open database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, storeErr(fmt.Sprintf("pragma %q", p), err)
		}
	}

	r := &SQLiteRepo{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			date       TEXT    NOT NULL,
			name       TEXT    NOT NULL DEFAULT '',
			anonymous  INTEGER NOT NULL DEFAULT 0,
			body       TEXT    NOT NULL DEFAULT '',
			photo_url  TEXT,
			created_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comments_date    ON comments(date);
		CREATE INDEX IF NOT EXISTS idx_comments_created ON comments(created_at DESC);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return storeErr("migration", err)
	}
	return nil
}

func (r *SQLiteRepo) Create(c Comment) (Comment, error) {
	c.ID = newID("comment")
	c.CreatedAt = time.Now()

	anon := 0
	if c.Anonymous {
		anon = 1
	}
	if _, err := r.db.Exec(
		`INSERT INTO comments (id, date, name, anonymous, body, photo_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Date, c.Name, anon, c.Text, c.PhotoURL,
		c.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Comment{}, storeErr("insert comment", err)
	}
	return c, nil
}

func (r *SQLiteRepo) List() ([]Comment, error) {
	rows, err := r.db.Query(
		`SELECT id, date, name, anonymous, body, photo_url, created_at
		 FROM comments ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	defer rows.Close()

	out := []Comment{}
	for rows.Next() {
		var (
			c       Comment
			anon    int
			url     sql.NullString
			created string
		)
		if err := rows.Scan(&c.ID, &c.Date, &c.Name, &anon, &c.Text, &url, &created); err != nil {
			return nil, storeErr("scan comment", err)
		}
		c.Anonymous = anon != 0
		if url.Valid {
			c.PhotoURL = &url.String
		}
		t, perr := time.Parse(time.RFC3339Nano, created)
		if perr != nil {
			return nil, storeErr("scan comment", fmt.Errorf("bad created_at %q: %v", created, perr))
		}
		c.CreatedAt = t
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list comments", err)
	}
	return out, nil
}
