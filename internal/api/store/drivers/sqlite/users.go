package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/pkg/idx"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.FirstName, u.LastName, u.Email, u.PasswordHash,
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id.String()))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = ? COLLATE NOCASE`, email))
}

func (r *usersRepo) SearchUsers(ctx context.Context, query string, exclude idx.ID, limit int) ([]domain.User, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id != ?
		  AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)
		ORDER BY first_name, last_name
		LIMIT ?`,
		exclude.String(), pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var id string
		if err := rows.Scan(&id, &u.FirstName, &u.LastName, &u.Email,
			&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ID = idx.ID(id)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) DeleteUser(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var id string
	var createdAt, updatedAt time.Time
	err := row.Scan(&id, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ID = idx.ID(id)
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	return u, nil
}
