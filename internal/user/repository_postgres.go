package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	profileColumns = `id, full_name, email, password_hash, role, user_type, company_name, vat_id, discount_percent, created_at`

	listProfilesQuery      = `SELECT ` + profileColumns + ` FROM profiles ORDER BY email`
	getProfileByIDQuery    = `SELECT ` + profileColumns + ` FROM profiles WHERE id::text = $1`
	getProfileByEmailQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	insertProfileQuery     = `
		INSERT INTO profiles (id, full_name, email, password_hash, role, user_type, company_name, vat_id, discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`
	updateProfileQuery = `
		UPDATE profiles
		SET full_name = $2,
			email = $3,
			password_hash = $4,
			role = $5,
			user_type = $6,
			company_name = $7,
			vat_id = $8,
			discount_percent = $9
		WHERE id::text = $1
		RETURNING created_at`
	deleteProfileQuery = `DELETE FROM profiles WHERE id::text = $1`
)

const uniqueViolation = "23505"

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.QueryContext(ctx, listProfilesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Profile, error) {
	return r.getOne(ctx, getProfileByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Profile, error) {
	return r.getOne(ctx, getProfileByEmailQuery, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, q, arg string) (Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, p Profile) (Profile, error) {
	err := r.db.QueryRowContext(ctx, insertProfileQuery, args(p)...).Scan(&p.CreatedAt)
	if err != nil {
		return Profile{}, mapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Profile) (Profile, error) {
	err := r.db.QueryRowContext(ctx, updateProfileQuery, args(p)...).Scan(&p.CreatedAt)
	if err != nil {
		return Profile{}, mapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteProfileQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func args(p Profile) []any {
	return []any{p.ID, p.FullName, p.Email, p.PasswordHash, p.Role, p.UserType, p.CompanyName, p.VatID, p.DiscountPercent}
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailExists
	}
	return err
}

func scanProfile(scanner rowScanner) (Profile, error) {
	var p Profile
	err := scanner.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.UserType,
		&p.CompanyName,
		&p.VatID,
		&p.DiscountPercent,
		&p.CreatedAt,
	)
	return p, err
}
