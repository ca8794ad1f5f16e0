package sessions

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PostgresRepository implements Repo on a shared database/sql pool.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateExclusive(ctx context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.CreateExclusive] begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, session.UserID); err != nil {
		return errors.Wrap(err, "[SessionRepo.CreateExclusive] evict prior sessions")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)`,
		session.ID, session.UserID, session.Token, session.ExpiresAt,
		session.IPAddress, session.UserAgent, session.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "[SessionRepo.CreateExclusive] insert")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`,
		session.UserID, session.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "[SessionRepo.CreateExclusive] record login time")
	}

	return errors.Wrap(tx.Commit(), "[SessionRepo.CreateExclusive] commit")
}

const sessionColumns = `id, user_id, token, expires_at, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at`

func (r *PostgresRepository) FindActiveByToken(ctx context.Context, token string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE token = $1 AND expires_at > $2`

	session := &Session{}
	err := r.db.QueryRowContext(ctx, query, token, time.Now()).Scan(
		&session.ID, &session.UserID, &session.Token, &session.ExpiresAt,
		&session.IPAddress, &session.UserAgent, &session.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "[SessionRepo.FindActiveByToken] query")
	}
	return session, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUser] query")
	}
	defer rows.Close()

	var result []*Session
	for rows.Next() {
		session := &Session{}
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.Token, &session.ExpiresAt,
			&session.IPAddress, &session.UserAgent, &session.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "[SessionRepo.ListByUser] scan")
		}
		result = append(result, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUser] rows")
	}
	return result, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "[SessionRepo.DeleteExpired] delete")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "[SessionRepo.DeleteExpired] rows affected")
	}
	return affected, nil
}
