package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	selectOrder = `SELECT id, customer_name, customer_email, customer_phone, customer_address,
		total, status, payment_method, payment_status, created_at FROM orders`

	listOrdersQuery = selectOrder + ` WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`
	getOrderQuery   = selectOrder + ` WHERE id::text = $1`
	itemsQuery      = `SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY product_name`
	insertOrderQuery = `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, customer_address,
		                    total, status, payment_method, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`
	insertItemQuery = `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1,$2,$3,$4,$5,$6)`
	updateStatusQuery  = `UPDATE orders SET status = $2 WHERE id::text = $1`
	updatePaymentQuery = `UPDATE orders SET payment_status = $3, payment_method = COALESCE(NULLIF($2, ''), payment_method) WHERE id::text = $1`
	deleteOrderQuery   = `DELETE FROM orders WHERE id::text = $1`
)

// List returns orders newest first with their items attached.
func (r *PostgresRepository) List(ctx context.Context, status Status) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, getOrderQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	list := []Order{o}
	if err := r.attachItems(ctx, list); err != nil {
		return Order{}, err
	}
	return list[0], nil
}

// attachItems loads the items of every order with one query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []Item{}
	}

	rows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it        Item
			productID sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return err
		}
		if productID.Valid {
			it.ProductID = &productID.String
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

// Create inserts the order and its items in a single transaction.
func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, insertOrderQuery,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress,
		o.Total, o.Status, o.PaymentMethod, o.PaymentStatus,
	).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItemQuery,
			it.ID, o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice); err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.exec(ctx, updateStatusQuery, id, string(status))
}

func (r *PostgresRepository) UpdatePayment(ctx context.Context, id, method string, status PaymentStatus) error {
	return r.exec(ctx, updatePaymentQuery, id, method, string(status))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, deleteOrderQuery, id)
}

func (r *PostgresRepository) exec(ctx context.Context, q string, args ...any) error {
	result, err := r.db.ExecContext(ctx, q, args...)
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

func scanOrder(scanner rowScanner) (Order, error) {
	var o Order
	err := scanner.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress,
		&o.Total, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt)
	return o, err
}
