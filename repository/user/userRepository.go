package userrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/DanielSousa07/Backend-Ludus/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByPhone(ctx context.Context, phone string) (*model.User, error)
	ByEmailOrPhone(ctx context.Context, email, phone string) (*model.User, error)

	SetEmailCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	SetPhoneCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, userID int64) error
	MarkPhoneVerified(ctx context.Context, userID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const userCols = `id, name, email, phone, password_hash, role,
	email_verified, phone_verified, points, level, created_at,
	email_code, email_code_expires_at, phone_code, phone_code_expires_at`

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.EmailVerified, &u.PhoneVerified, &u.Points, &u.Level, &u.CreatedAt,
		&u.EmailCode, &u.EmailCodeExpiresAt, &u.PhoneCode, &u.PhoneCodeExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role,
			email_code, email_code_expires_at, phone_code, phone_code_expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.EmailCode, u.EmailCodeExpiresAt, u.PhoneCode, u.PhoneCodeExpiresAt,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *repo) ByPhone(ctx context.Context, phone string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE phone = $1`, phone))
}

func (r *repo) ByEmailOrPhone(ctx context.Context, email, phone string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userCols+` FROM users
		WHERE lower(email) = lower($1) OR ($2 <> '' AND phone = $2)
		LIMIT 1`, email, phone))
}

func (r *repo) SetEmailCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_code = $2, email_code_expires_at = $3
		WHERE id = $1`, userID, code, expiresAt)
	return err
}

func (r *repo) SetPhoneCode(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET phone_code = $2, phone_code_expires_at = $3
		WHERE id = $1`, userID, code, expiresAt)
	return err
}

func (r *repo) MarkEmailVerified(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_verified = TRUE, email_code = NULL, email_code_expires_at = NULL
		WHERE id = $1`, userID)
	return err
}

func (r *repo) MarkPhoneVerified(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET phone_verified = TRUE, phone_code = NULL, phone_code_expires_at = NULL
		WHERE id = $1`, userID)
	return err
}
