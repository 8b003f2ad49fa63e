package taxonomy

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Table names come from Kind.table, never from request input.

func (r *PostgresRepository) List(ctx context.Context, kind Kind) ([]Term, error) {
	q := `SELECT id, name, slug, image_url, order_index FROM ` + kind.table() + ` ORDER BY order_index, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Term, 0)
	for rows.Next() {
		t, err := scanTerm(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, kind Kind, id string) (Term, error) {
	q := `SELECT id, name, slug, image_url, order_index FROM ` + kind.table() + ` WHERE id::text = $1`
	t, err := scanTerm(r.db.QueryRowContext(ctx, q, id), kind)
	if errors.Is(err, sql.ErrNoRows) {
		return Term{}, ErrNotFound
	}
	return t, err
}

func (r *PostgresRepository) SlugExists(ctx context.Context, kind Kind, slug, excludeID string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM ` + kind.table() + ` WHERE slug = $1 AND id::text <> $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, slug, excludeID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) Create(ctx context.Context, t Term) (Term, error) {
	q := `INSERT INTO ` + t.Kind.table() + ` (id, name, slug, image_url, order_index) VALUES ($1,$2,$3,$4,$5)`
	if _, err := r.db.ExecContext(ctx, q, t.ID, t.Name, t.Slug, t.ImageURL, t.OrderIndex); err != nil {
		return Term{}, err
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t Term) (Term, error) {
	q := `UPDATE ` + t.Kind.table() + ` SET name = $2, slug = $3, image_url = $4, order_index = $5 WHERE id::text = $1`
	result, err := r.db.ExecContext(ctx, q, t.ID, t.Name, t.Slug, t.ImageURL, t.OrderIndex)
	if err != nil {
		return Term{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Term{}, err
	}
	if affected == 0 {
		return Term{}, ErrNotFound
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind Kind, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+kind.table()+` WHERE id::text = $1`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTerm(scanner rowScanner, kind Kind) (Term, error) {
	t := Term{Kind: kind}
	var imageURL sql.NullString
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &imageURL, &t.OrderIndex); err != nil {
		return Term{}, err
	}
	if imageURL.Valid {
		t.ImageURL = &imageURL.String
	}
	return t, nil
}
