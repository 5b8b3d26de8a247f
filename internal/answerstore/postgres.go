package answerstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores answered ids in a shared database so several machines can resume the
// same user. The schema is applied by cmd/migrator.
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an existing pool. Close closes the pool.
func NewPostgres(pool *pgxpool.Pool, namespace string) *Postgres {
	return &Postgres{pool: pool, namespace: namespace}
}

func (p *Postgres) Load(ctx context.Context, levelID string) ([]string, error) {
	if levelID == "" {
		return nil, ErrEmptyLevelID
	}
	rows, err := p.pool.Query(ctx,
		`SELECT question_id FROM answered_questions WHERE namespace = $1 AND level_id = $2 ORDER BY id`,
		p.namespace, levelID)
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

func (p *Postgres) Append(ctx context.Context, levelID, questionID string) error {
	if err := checkKeys(levelID, questionID); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO answered_questions (namespace, level_id, question_id)
		 VALUES ($1, $2, $3) ON CONFLICT ON CONSTRAINT answered_questions_unique DO NOTHING`,
		p.namespace, levelID, questionID)
	if err != nil {
		return fmt.Errorf("append answered: %w", err)
	}
	return nil
}

func (p *Postgres) FirstLogin(ctx context.Context) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM onboarding WHERE namespace = $1)`, p.namespace).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("read onboarding: %w", err)
	}
	return !exists, nil
}

func (p *Postgres) MarkOnboarded(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO onboarding (namespace) VALUES ($1) ON CONFLICT (namespace) DO NOTHING`, p.namespace)
	if err != nil {
		return fmt.Errorf("mark onboarded: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
