package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/japaniel/vocanote/pkg/wordset"
)

// TokenKey is the fixed session key the bearer token is stored under.
const TokenKey = "accessToken"

// ErrNotFound is returned when a session key or draft does not exist.
var ErrNotFound = errors.New("not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// PutSession stores value under key, replacing any previous value.
func PutSession(db DBExecutor, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("session key must be non-empty")
	}
	_, err := db.Exec(`INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put session %s: %w", key, err)
	}
	return nil
}

// GetSession returns the value stored under key.
func GetSession(db DBExecutor, key string) (string, error) {
	var v string
	err := db.QueryRow(`SELECT value FROM sessions WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("session %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get session %s: %w", key, err)
	}
	return v, nil
}

// DeleteSession removes key. Missing keys are not an error.
func DeleteSession(db DBExecutor, key string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE key = ?`, key)
	return err
}

// SaveDraft writes buf under id inside one transaction, replacing earlier
// rows. An empty id allocates a new one. The id is returned.
func SaveDraft(conn *sql.DB, id string, buf *wordset.Buffer) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin draft tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	now := time.Now().UTC()
	_, err = tx.Exec(`INSERT INTO drafts (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		id, buf.Title(), now, now)
	if err != nil {
		return "", fmt.Errorf("upsert draft %s: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM draft_rows WHERE draft_id = ?`, id); err != nil {
		return "", fmt.Errorf("clear draft rows: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO draft_rows (draft_id, position, script, meaning, phonetic) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for i, r := range buf.Rows() {
		if _, err := stmt.Exec(id, i, r.Script, r.Meaning, r.Phonetic); err != nil {
			return "", fmt.Errorf("insert draft row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit draft %s: %w", id, err)
	}
	return id, nil
}

// LoadDraft rebuilds the buffer saved under id.
func LoadDraft(db DBExecutor, id string) (*wordset.Buffer, error) {
	var title string
	err := db.QueryRow(`SELECT title FROM drafts WHERE id = ?`, id).Scan(&title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}

	rows, err := db.Query(`SELECT script, meaning, phonetic FROM draft_rows WHERE draft_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []wordset.WordRow
	for rows.Next() {
		var r wordset.WordRow
		if err := rows.Scan(&r.Script, &r.Meaning, &r.Phonetic); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return wordset.FromRows(title, out), nil
}

// ListDrafts returns saved drafts, most recently updated first.
func ListDrafts(db DBExecutor) ([]Draft, error) {
	rows, err := db.Query(`SELECT d.id, d.title, d.created_at, d.updated_at,
		(SELECT COUNT(*) FROM draft_rows r WHERE r.draft_id = d.id)
		FROM drafts d ORDER BY d.updated_at DESC, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedAt, &d.UpdatedAt, &d.RowCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDraft removes a draft and its rows. Missing drafts are not an error.
func DeleteDraft(db DBExecutor, id string) error {
	if _, err := db.Exec(`DELETE FROM draft_rows WHERE draft_id = ?`, id); err != nil {
		return err
	}
	_, err := db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	return err
}
