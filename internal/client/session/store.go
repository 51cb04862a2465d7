package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"biokeeper/internal/shared/models"
)

// Store persists at most one session in SQLite.
type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			actor_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			login TEXT NOT NULL,
			issued_at TEXT NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save replaces the stored session atomically.
func (s *Store) Save(ctx context.Context, sess Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session(slot,actor_id,role,login,issued_at) VALUES(1,?,?,?,?)`,
		sess.ActorID, string(sess.Role), sess.Login, sess.IssuedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Load(ctx context.Context) (Session, error) {
	var (
		sess   Session
		role   string
		issued string
	)
	row := s.db.QueryRowContext(ctx, `SELECT actor_id,role,login,issued_at FROM session WHERE slot = 1`)
	if err := row.Scan(&sess.ActorID, &role, &sess.Login, &issued); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	sess.Role = models.AccessRights(role)
	t, err := time.Parse(time.RFC3339Nano, issued)
	if err != nil {
		return Session{}, fmt.Errorf("corrupt session timestamp: %w", err)
	}
	sess.IssuedAt = t
	return sess, nil
}

// Clear removes the session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }
