package users

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// PostgresRepository implements UserRepo on a shared database/sql pool.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectionColumns = `id, email, COALESCE(username, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
	role, status, COALESCE(department, ''), COALESCE(position, ''), COALESCE(phone, ''),
	created_at, updated_at, last_login_at`

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, username, password, first_name, last_name, role, status, department, position, phone, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12, $13)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.Status, user.Department, user.Position, user.Phone, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "[UserRepo.Create] insert")
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + projectionColumns + `, password FROM users WHERE email = $1`

	user := &User{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.Role, &user.Status, &user.Department, &user.Position, &user.Phone,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin, &user.PasswordHash,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "[UserRepo.GetByEmail] query")
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + projectionColumns + ` FROM users WHERE id = $1`

	user := &User{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.Role, &user.Status, &user.Department, &user.Position, &user.Phone,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "[UserRepo.GetByID] query")
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

func (r *PostgresRepository) IDsByEmail(ctx context.Context, email string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.IDsByEmail] query")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "[UserRepo.IDsByEmail] scan")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[UserRepo.IDsByEmail] rows")
	}
	return ids, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status StatusType) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.SetStatus] update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[UserRepo.SetStatus] rows affected")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
