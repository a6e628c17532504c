package chore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepo is a chore repository backed by SQLite (WAL mode).
// Every mutation runs inside a transaction.
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
		CREATE TABLE IF NOT EXISTS chores (
			id         TEXT PRIMARY KEY,
			date       TEXT    NOT NULL,
			category   TEXT    NOT NULL,
			title      TEXT    NOT NULL,
			assignee   TEXT    NOT NULL DEFAULT '',
			done       INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chores_date     ON chores(date);
		CREATE INDEX IF NOT EXISTS idx_chores_category ON chores(category, date);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return storeErr("migration", err)
	}
	return nil
}

const choreColumns = "id, date, category, title, assignee, done, created_at"

func scanChore(row interface{ Scan(...any) error }) (Chore, error) {
	var (
		c       Chore
		done    int
		created string
	)
	if err := row.Scan(&c.ID, &c.Date, &c.Category, &c.Title, &c.Assignee, &done, &created); err != nil {
		return Chore{}, err
	}
	c.Done = done != 0
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		// A corrupt timestamp would break creation-order ties; fail loud.
		return Chore{}, fmt.Errorf("bad created_at %q: %v", created, err)
	}
	c.CreatedAt = t
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRepo) Create(c Chore) (Chore, error) {
	c.ID = newID("chore")
	c.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return Chore{}, storeErr("begin", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(
		`INSERT INTO chores (id, date, category, title, assignee, done, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Date, string(c.Category), c.Title, c.Assignee, boolToInt(c.Done),
		c.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Chore{}, storeErr("insert chore", err)
	}
	if err := tx.Commit(); err != nil {
		return Chore{}, storeErr("commit", err)
	}
	return c, nil
}

func (r *SQLiteRepo) Get(id string) (Chore, error) {
	row := r.db.QueryRow(`SELECT `+choreColumns+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return Chore{}, ErrNotFound
	}
	if err != nil {
		return Chore{}, storeErr("select chore", err)
	}
	return c, nil
}

func (r *SQLiteRepo) Update(id string, p Patch) (Chore, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Chore{}, storeErr("begin", err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRow(`SELECT `+choreColumns+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return Chore{}, ErrNotFound
	}
	if err != nil {
		return Chore{}, storeErr("select chore", err)
	}

	applyPatch(&c, p)

	if _, err := tx.Exec(
		`UPDATE chores SET date = ?, category = ?, title = ?, assignee = ?, done = ? WHERE id = ?`,
		c.Date, string(c.Category), c.Title, c.Assignee, boolToInt(c.Done), id,
	); err != nil {
		return Chore{}, storeErr("update chore", err)
	}
	if err := tx.Commit(); err != nil {
		return Chore{}, storeErr("commit", err)
	}
	return c, nil
}

func (r *SQLiteRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete chore", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(filter ListFilter) ([]Chore, error) {
	query := `SELECT ` + choreColumns + ` FROM chores WHERE 1=1`
	args := []any{}
	if filter.From != "" {
		query += " AND date >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += " AND date <= ?"
		args = append(args, filter.To)
	}
	query += `
		ORDER BY date,
			CASE category WHEN 'chore' THEN 0 WHEN 'own_day' THEN 1 ELSE 2 END,
			created_at, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, storeErr("list chores", err)
	}
	defer rows.Close()

	out := []Chore{}
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, storeErr("scan chore", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list chores", err)
	}
	return out, nil
}
