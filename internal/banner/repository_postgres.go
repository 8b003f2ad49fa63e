package banner

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	sliderColumns = `id, title, subtitle, image_url, link_url, button_text, order_index, active`

	// $2 <= 0 disables the limit.
	listSlidersQuery = `
		SELECT ` + sliderColumns + `
		FROM sliders
		WHERE (NOT $1 OR active)
		ORDER BY order_index, id
		LIMIT CASE WHEN $2 > 0 THEN $2 END`
	getSliderQuery    = `SELECT ` + sliderColumns + ` FROM sliders WHERE id::text = $1`
	insertSliderQuery = `
		INSERT INTO sliders (` + sliderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateSliderQuery = `
		UPDATE sliders
		SET title = $2,
			subtitle = $3,
			image_url = $4,
			link_url = $5,
			button_text = $6,
			order_index = $7,
			active = $8
		WHERE id::text = $1`
	deleteSliderQuery = `DELETE FROM sliders WHERE id::text = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns sliders ordered by order_index.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]Slider, error) {
	rows, err := r.db.QueryContext(ctx, listSlidersQuery, opts.ActiveOnly, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Slider, 0)
	for rows.Next() {
		s, err := scanSlider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Slider, error) {
	s, err := scanSlider(r.db.QueryRowContext(ctx, getSliderQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Slider{}, ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) Create(ctx context.Context, s Slider) (Slider, error) {
	if _, err := r.db.ExecContext(ctx, insertSliderQuery, args(s)...); err != nil {
		return Slider{}, err
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s Slider) (Slider, error) {
	result, err := r.db.ExecContext(ctx, updateSliderQuery, args(s)...)
	if err != nil {
		return Slider{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Slider{}, err
	}
	if affected == 0 {
		return Slider{}, ErrNotFound
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteSliderQuery, id)
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

func args(s Slider) []any {
	return []any{s.ID, s.Title, s.Subtitle, s.ImageURL, s.LinkURL, s.ButtonText, s.OrderIndex, s.Active}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlider(scanner rowScanner) (Slider, error) {
	var s Slider
	err := scanner.Scan(&s.ID, &s.Title, &s.Subtitle, &s.ImageURL, &s.LinkURL, &s.ButtonText, &s.OrderIndex, &s.Active)
	return s, err
}
