package answerstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite
)

const defaultSQLitePath = "file:prepsom.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// SQLite is the default durable local store, one file per machine shared by all users.
type SQLite struct {
	db        *sql.DB
	namespace string
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at dsn and applies the schema.
func OpenSQLite(ctx context.Context, dsn, namespace string) (*SQLite, error) {
	if dsn == "" {
		dsn = defaultSQLitePath
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer keeps SQLITE_BUSY out of the append path
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := Migrate(ctx, db, DriverSQLite); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db, namespace: namespace}, nil
}

func (s *SQLite) Load(ctx context.Context, levelID string) ([]string, error) {
	if levelID == "" {
		return nil, ErrEmptyLevelID
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id FROM answered_questions WHERE namespace = ? AND level_id = ? ORDER BY id`,
		s.namespace, levelID)
	if err != nil {
		return nil, fmt.Errorf("load answered: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answered: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) Append(ctx context.Context, levelID, questionID string) error {
	if err := checkKeys(levelID, questionID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answered_questions (namespace, level_id, question_id, answered_at)
		 VALUES (?, ?, ?, ?) ON CONFLICT (namespace, level_id, question_id) DO NOTHING`,
		s.namespace, levelID, questionID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append answered: %w", err)
	}
	return nil
}

func (s *SQLite) FirstLogin(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM onboarding WHERE namespace = ?`, s.namespace).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("read onboarding: %w", err)
	}
	return n == 0, nil
}

func (s *SQLite) MarkOnboarded(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO onboarding (namespace, onboarded_at) VALUES (?, ?) ON CONFLICT (namespace) DO NOTHING`,
		s.namespace, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("mark onboarded: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
