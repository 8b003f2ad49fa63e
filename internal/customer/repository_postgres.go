package customer

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

const (
	selectCustomer = `SELECT id, full_name, email, phone, address, user_type, company_name, vat_id, created_at FROM customers`

	listCustomersQuery  = selectCustomer + ` ORDER BY created_at DESC`
	getCustomerQuery    = selectCustomer + ` WHERE id::text = $1`
	insertCustomerQuery = `
		INSERT INTO customers (id, full_name, email, phone, address, user_type, company_name, vat_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`
	updateCustomerQuery = `
		UPDATE customers
		SET full_name = $2, email = $3, phone = $4, address = $5, user_type = $6, company_name = $7, vat_id = $8
		WHERE id::text = $1
		RETURNING created_at`
	deleteCustomerQuery = `DELETE FROM customers WHERE id::text = $1`
)

func (r *PostgresRepository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, listCustomersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, getCustomerQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	err := r.db.QueryRowContext(ctx, insertCustomerQuery, args(c)...).Scan(&c.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c Customer) (Customer, error) {
	err := r.db.QueryRowContext(ctx, updateCustomerQuery, args(c)...).Scan(&c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deleteCustomerQuery, id)
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

func args(c Customer) []any {
	return []any{c.ID, c.FullName, c.Email, c.Phone, c.Address, string(c.UserType), c.CompanyName, c.VatID}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(scanner rowScanner) (Customer, error) {
	var c Customer
	err := scanner.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.UserType, &c.CompanyName, &c.VatID, &c.CreatedAt)
	return c, err
}
