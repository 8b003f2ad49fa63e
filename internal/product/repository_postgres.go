package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectProduct = `
	SELECT p.id, p.name, p.slug, p.price, p.image_url, p.category_id, p.brand_id, p.stock,
	       p.description, p.meta_title, p.meta_description, p.featured, p.created_at,
	       COALESCE(c.slug, ''), COALESCE(pc.slug, ''), COALESCE(b.slug, ''),
	       ARRAY(SELECT pr.room_id::text FROM product_rooms pr WHERE pr.product_id = p.id ORDER BY pr.room_id),
	       ARRAY(SELECT r.slug FROM product_rooms pr JOIN rooms r ON r.id = pr.room_id WHERE pr.product_id = p.id ORDER BY r.slug)
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN categories pc ON pc.id = c.parent_id
	LEFT JOIN brands b ON b.id = p.brand_id
`

const (
	listProductsQuery = selectProduct + `
	WHERE ($1 = '' OR c.slug = $1 OR pc.slug = $1)
	  AND ($2 = '' OR EXISTS (
	        SELECT 1 FROM product_rooms pr JOIN rooms r ON r.id = pr.room_id
	        WHERE pr.product_id = p.id AND r.slug = $2))
	  AND ($3 = '' OR b.slug = $3)
	  AND ($4::boolean IS NULL OR p.featured = $4)
	ORDER BY p.name`
	getProductByIDQuery   = selectProduct + ` WHERE p.id::text = $1`
	getProductBySlugQuery = selectProduct + ` WHERE p.slug = $1`
	slugExistsQuery       = `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id::text <> $2)`
	insertProductQuery    = `
		INSERT INTO products (id, name, slug, price, image_url, category_id, brand_id, stock,
		                      description, meta_title, meta_description, featured)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	updateProductQuery = `
		UPDATE products
		SET name = $2,
			slug = $3,
			price = $4,
			image_url = $5,
			category_id = $6,
			brand_id = $7,
			stock = $8,
			description = $9,
			meta_title = $10,
			meta_description = $11,
			featured = $12
		WHERE id::text = $1`
	deleteRoomsQuery   = `DELETE FROM product_rooms WHERE product_id = $1`
	insertRoomsQuery   = `INSERT INTO product_rooms (product_id, room_id) SELECT $1, unnest($2::uuid[])`
	deleteProductQuery = `DELETE FROM products WHERE id::text = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	var featured sql.NullBool
	if f.Featured != nil {
		featured = sql.NullBool{Bool: *f.Featured, Valid: true}
	}
	rows, err := r.db.QueryContext(ctx, listProductsQuery, f.CategorySlug, f.RoomSlug, f.BrandSlug, featured)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	return r.getOne(ctx, getProductByIDQuery, id)
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (Product, error) {
	return r.getOne(ctx, getProductBySlugQuery, slug)
}

func (r *PostgresRepository) getOne(ctx context.Context, q, arg string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, slugExistsQuery, slug, excludeID).Scan(&exists)
	return exists, err
}

// Create writes the product row and its room links in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertProductQuery, productArgs(p)...); err != nil {
		return Product{}, err
	}
	if err := replaceRooms(ctx, tx, p.ID, p.RoomIDs); err != nil {
		return Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return Product{}, err
	}
	return r.GetByID(ctx, p.ID)
}

// Update replaces the product row and its room links in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, id string, p Product) (Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, err
	}
	defer tx.Rollback()

	p.ID = id
	result, err := tx.ExecContext(ctx, updateProductQuery, productArgs(p)...)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	if err := replaceRooms(ctx, tx, id, p.RoomIDs); err != nil {
		return Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return Product{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
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

func productArgs(p Product) []any {
	return []any{
		p.ID,
		p.Name,
		p.Slug,
		p.Price,
		p.ImageURL,
		p.CategoryID,
		p.BrandID,
		p.Stock,
		p.Description,
		p.MetaTitle,
		p.MetaDescription,
		p.Featured,
	}
}

func replaceRooms(ctx context.Context, tx *sql.Tx, productID string, roomIDs []string) error {
	if _, err := tx.ExecContext(ctx, deleteRoomsQuery, productID); err != nil {
		return err
	}
	if len(roomIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, insertRoomsQuery, productID, pq.Array(roomIDs))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		imageURL        sql.NullString
		categoryID      sql.NullString
		brandID         sql.NullString
		metaTitle       sql.NullString
		metaDescription sql.NullString
		roomIDs         []string
		roomSlugs       []string
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Price,
		&imageURL,
		&categoryID,
		&brandID,
		&p.Stock,
		&p.Description,
		&metaTitle,
		&metaDescription,
		&p.Featured,
		&p.CreatedAt,
		&p.CategorySlug,
		&p.ParentCategorySlug,
		&p.BrandSlug,
		pq.Array(&roomIDs),
		pq.Array(&roomSlugs),
	); err != nil {
		return Product{}, err
	}

	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	if brandID.Valid {
		p.BrandID = &brandID.String
	}
	if metaTitle.Valid {
		p.MetaTitle = &metaTitle.String
	}
	if metaDescription.Valid {
		p.MetaDescription = &metaDescription.String
	}
	p.RoomIDs = roomIDs
	if p.RoomIDs == nil {
		p.RoomIDs = []string{}
	}
	p.RoomSlugs = roomSlugs
	return p, nil
}
